package operators

import (
	"fmt"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// registerUtilityOps adds utility operators to the registry.
func (r *Registry) registerUtilityOps() {
	r.Register("Identity", handleIdentity)
	r.Register("Dropout", handleDropout)
}

func handleIdentity(_ *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("identity requires 1 input, got %d", len(inputs))
	}
	return []*tensorbuf.Tensor{inputs[0].Clone()}, nil
}

func handleDropout(_ *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
	if len(inputs) < 1 {
		return nil, fmt.Errorf("dropout requires at least 1 input, got %d", len(inputs))
	}
	// In inference mode, Dropout is identity; the optional mask output is not produced.
	return []*tensorbuf.Tensor{inputs[0].Clone()}, nil
}
