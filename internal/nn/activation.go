package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Activation is a parameter-free elementwise module.
type Activation struct {
	kind arch.LayerType
	fn   func(float32) float32
}

// NewReLU creates a ReLU activation: f(x) = max(0, x).
func NewReLU() *Activation {
	return &Activation{kind: arch.ReLU, fn: func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	}}
}

// NewSigmoid creates a Sigmoid activation: f(x) = 1 / (1 + exp(-x)).
func NewSigmoid() *Activation {
	return &Activation{kind: arch.Sigmoid, fn: func(x float32) float32 {
		return float32(1 / (1 + math.Exp(-float64(x))))
	}}
}

// NewTanh creates a Tanh activation.
func NewTanh() *Activation {
	return &Activation{kind: arch.Tanh, fn: func(x float32) float32 {
		return float32(math.Tanh(float64(x)))
	}}
}

// NewActivation creates the activation for a descriptor layer type.
func NewActivation(kind arch.LayerType) (*Activation, error) {
	switch kind {
	case arch.ReLU:
		return NewReLU(), nil
	case arch.Sigmoid:
		return NewSigmoid(), nil
	case arch.Tanh:
		return NewTanh(), nil
	default:
		return nil, fmt.Errorf("not an activation: %q", kind)
	}
}

// Forward applies the activation elementwise. The input is not modified.
func (a *Activation) Forward(input *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	out := input.Clone()
	for i, v := range out.Data {
		out.Data[i] = a.fn(v)
	}
	return out, nil
}

// Parameters returns nil.
func (a *Activation) Parameters() []*Parameter { return nil }

// LayerType returns the activation's descriptor type.
func (a *Activation) LayerType() arch.LayerType { return a.kind }
