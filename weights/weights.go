// Package weights reads and writes weight containers: a concatenation of
// tensor records in the order given by an architecture descriptor's
// param_order. The container stores no names; a record's name is its
// position in that order.
package weights

import (
	"io"

	internalweights "github.com/born-ml/weightgraph/internal/weights"
	"github.com/born-ml/weightgraph/tensor"
)

// NamedTensor pairs a parameter name with its tensor.
type NamedTensor = internalweights.NamedTensor

// Record locates one tensor record inside a container.
type Record = internalweights.Record

// RecordError reports which record of a container could not be read.
type RecordError = internalweights.RecordError

// Errors returned by the reader.
var (
	ErrMissingOrCorruptRecord = internalweights.ErrMissingOrCorruptRecord
	ErrTrailingData           = internalweights.ErrTrailingData
	ErrDuplicateName          = internalweights.ErrDuplicateName
	ErrEmptyOrder             = internalweights.ErrEmptyOrder
)

// OrderOf returns the parameter names in emission order.
func OrderOf(params []NamedTensor) []string {
	return internalweights.OrderOf(params)
}

// WriteAll encodes params to w in the given order.
func WriteAll(w io.Writer, params []NamedTensor) error {
	return internalweights.WriteAll(w, params)
}

// WriteFile writes params to path atomically.
func WriteFile(path string, params []NamedTensor) error {
	return internalweights.WriteFile(path, params)
}

// ReadAll decodes one record per name in order. Either every tensor is
// returned or none is.
func ReadAll(r io.Reader, order []string) (map[string]*tensor.Tensor, error) {
	return internalweights.ReadAll(r, order)
}

// ReadFile reads the container at path.
func ReadFile(path string, order []string) (map[string]*tensor.Tensor, error) {
	return internalweights.ReadFile(path, order)
}

// Scan indexes the records of a container without keeping their values.
func Scan(r io.Reader, order []string) ([]Record, error) {
	return internalweights.Scan(r, order)
}
