package operators

import (
	"fmt"
	"math"
	"slices"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// registerActivations adds activation operators to the registry.
func (r *Registry) registerActivations() {
	r.Register("Relu", unary("relu", func(x float32) float32 {
		if x > 0 {
			return x
		}
		return 0
	}))
	r.Register("Sigmoid", unary("sigmoid", func(x float32) float32 {
		return float32(1 / (1 + math.Exp(-float64(x))))
	}))
	r.Register("Tanh", unary("tanh", func(x float32) float32 {
		return float32(math.Tanh(float64(x)))
	}))
	r.Register("LeakyRelu", handleLeakyRelu)
}

// unary builds a handler applying fn elementwise.
func unary(name string, fn func(float32) float32) OpHandler {
	return func(_ *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
		if len(inputs) != 1 {
			return nil, fmt.Errorf("%s requires 1 input, got %d", name, len(inputs))
		}
		return []*tensorbuf.Tensor{mapValues(inputs[0], fn)}, nil
	}
}

func handleLeakyRelu(node *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("leakyRelu requires 1 input, got %d", len(inputs))
	}
	alpha := GetAttrFloat(node, "alpha", 0.01)
	return []*tensorbuf.Tensor{mapValues(inputs[0], func(x float32) float32 {
		if x >= 0 {
			return x
		}
		return alpha * x
	})}, nil
}

func mapValues(t *tensorbuf.Tensor, fn func(float32) float32) *tensorbuf.Tensor {
	out := make([]float32, len(t.Data))
	for i, v := range t.Data {
		out[i] = fn(v)
	}
	return &tensorbuf.Tensor{Dims: slices.Clone(t.Dims), Data: out}
}
