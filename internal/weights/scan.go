package weights

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Record describes where one parameter lives in a container.
type Record struct {
	Name   string  // Parameter name from the supplied order
	Offset int64   // Byte offset of the record start
	Size   int64   // Record size in bytes, header included
	Dims   []int64 // Decoded dimensions
}

// Scan walks the container and reports the position and shape of each
// record without keeping the tensor data. Errors follow ReadAll.
func Scan(r io.Reader, order []string) ([]Record, error) {
	if err := checkOrder(order); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(order))
	var offset int64
	for i, name := range order {
		t, err := tensorbuf.Decode(r)
		if err != nil {
			return nil, &RecordError{Index: i, Name: name, Err: err}
		}
		size := tensorbuf.EncodedSize(t)
		records = append(records, Record{Name: name, Offset: offset, Size: size, Dims: t.Dims})
		offset += size
	}

	if err := expectEOF(r); err != nil {
		return nil, err
	}
	return records, nil
}

// ScanFile opens path and calls Scan.
//
//nolint:gosec // G304: Path is provided by user.
func ScanFile(path string, order []string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weights file: %w", err)
	}
	defer file.Close()

	return Scan(bufio.NewReader(file), order)
}
