package weights

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// ReadAll decodes one record per name in order and returns them by name.
//
// The read is all-or-nothing: any failure returns a nil map and a
// *RecordError naming the record. After the last record the source must be
// exhausted, otherwise ErrTrailingData is returned.
func ReadAll(r io.Reader, order []string) (map[string]*tensorbuf.Tensor, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	result := make(map[string]*tensorbuf.Tensor, len(order))
	for i, name := range order {
		t, err := tensorbuf.Decode(r)
		if err != nil {
			return nil, &RecordError{Index: i, Name: name, Err: err}
		}
		result[name] = t
	}

	if err := expectEOF(r); err != nil {
		return nil, err
	}
	return result, nil
}

// ReadFile opens path and calls ReadAll.
//
//nolint:gosec // G304: Path is provided by user, loading a weight container is intentional.
func ReadFile(path string, order []string) (map[string]*tensorbuf.Tensor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer file.Close()

	params, err := ReadAll(bufio.NewReader(file), order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return params, nil
}

// checkOrder rejects orders that cannot map records to distinct names.
func checkOrder(order []string) error {
	if len(order) == 0 {
		return ErrEmptyOrder
	}
	seen := make(map[string]struct{}, len(order))
	for _, name := range order {
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// expectEOF fails if r still has bytes.
func expectEOF(r io.Reader) error {
	var probe [1]byte
	n, err := io.ReadFull(r, probe[:])
	if n == 0 && errors.Is(err, io.EOF) {
		return nil
	}
	if n > 0 {
		return ErrTrailingData
	}
	return fmt.Errorf("failed to read container: %w", err)
}
