// Package nn implements the producer side of the pipeline: a small
// sequential network whose parameters and layer list are written as a
// weight container and architecture descriptor.
//
// This package provides:
//   - Module interface: Base interface for all components
//   - Linear: Fully connected layer, y = x @ W^T + b
//   - Activation: ReLU, Sigmoid, Tanh
//   - Sequential: Named modules chained in order
//
// Forward is a plain CPU reference used to check exported graphs.
package nn

import (
	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Module is the base interface for all network components.
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensorbuf.Tensor) (*tensorbuf.Tensor, error)

	// Parameters returns the module's parameters in canonical order.
	// Modules without parameters return nil.
	Parameters() []*Parameter

	// LayerType is the descriptor type recorded for this module.
	LayerType() arch.LayerType
}

// Parameter is a named tensor owned by a module.
// Name is local to the module, e.g. "weight".
type Parameter struct {
	Name   string
	Tensor *tensorbuf.Tensor
}
