package onnx

import (
	"errors"
	"fmt"

	"github.com/born-ml/weightgraph/internal/arch"
)

// Common errors.
var (
	ErrMissingParameter    = errors.New("missing parameter")
	ErrUnknownLayerType    = errors.New("unknown layer type")
	ErrForwardReference    = errors.New("node input is not defined before use")
	ErrDuplicateName       = errors.New("tensor name assigned more than once")
	ErrMalformedModel      = errors.New("malformed ONNX model")
	ErrNoGraph             = errors.New("model has no graph")
	ErrUnsupportedDataType = errors.New("unsupported tensor data type")
	ErrUnsupportedOperator = errors.New("unsupported operators")
)

// LayerError reports the layer that stopped a build.
type LayerError struct {
	Index int            // Position in the descriptor's layer list
	Name  string         // Layer name
	Type  arch.LayerType // Declared layer type
	Err   error          // Underlying error
}

// Error implements the error interface.
func (e *LayerError) Error() string {
	return fmt.Sprintf("layer %d %q (%s): %v", e.Index, e.Name, e.Type, e.Err)
}

// Unwrap returns the underlying error.
func (e *LayerError) Unwrap() error {
	return e.Err
}
