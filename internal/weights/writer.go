package weights

import (
	"fmt"
	"io"

	"github.com/born-ml/weightgraph/internal/atomicfile"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// NamedTensor pairs a parameter name with its tensor.
type NamedTensor struct {
	Name   string
	Tensor *tensorbuf.Tensor
}

// OrderOf returns the parameter names in emission order.
// This is the value to record as the descriptor's param_order.
func OrderOf(params []NamedTensor) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// WriteAll encodes params to w in exactly the given order.
// Names are not written; no deduplication or trailer.
func WriteAll(w io.Writer, params []NamedTensor) error {
	for i, p := range params {
		if err := tensorbuf.Encode(w, p.Tensor); err != nil {
			return fmt.Errorf("failed to write parameter %d (%q): %w", i, p.Name, err)
		}
	}
	return nil
}

// WriteFile writes params to path atomically.
func WriteFile(path string, params []NamedTensor) error {
	return atomicfile.Write(path, func(w io.Writer) error {
		return WriteAll(w, params)
	})
}
