package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/born-ml/weightgraph/internal/weights"
)

// ErrNoLinearLayer is returned when a descriptor needs feature widths
// but the model has no Linear layer to take them from.
var ErrNoLinearLayer = errors.New("model has no linear layer")

// Named pairs a module with its registration name.
type Named struct {
	Name   string
	Module Module
}

// Sequential is a container module that chains named modules together.
//
// Each module's output becomes the next module's input. Registration order
// is the canonical parameter order.
//
// Example:
//
//	rng := nn.NewRand(42)
//	model := nn.NewSequential().
//	    Add("fc1", nn.NewLinear(10, 32, rng)).
//	    Add("relu1", nn.NewReLU()).
//	    Add("fc2", nn.NewLinear(32, 5, rng))
type Sequential struct {
	modules []Named
}

// NewSequential creates an empty Sequential container.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Add appends a module under name and returns s for chaining.
func (s *Sequential) Add(name string, m Module) *Sequential {
	s.modules = append(s.modules, Named{Name: name, Module: m})
	return s
}

// Modules returns the registered modules in order.
func (s *Sequential) Modules() []Named {
	return s.modules
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	output := input
	for _, m := range s.modules {
		var err error
		output, err = m.Module.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Name, err)
		}
	}
	return output, nil
}

// NamedParameters returns every parameter as "<module>.<param>" in
// registration order, e.g. fc1.weight, fc1.bias, fc2.weight, fc2.bias.
func (s *Sequential) NamedParameters() []weights.NamedTensor {
	var params []weights.NamedTensor
	for _, m := range s.modules {
		for _, p := range m.Module.Parameters() {
			params = append(params, weights.NamedTensor{Name: m.Name + "." + p.Name, Tensor: p.Tensor})
		}
	}
	return params
}

// Descriptor returns the architecture descriptor matching NamedParameters.
// Shapes are [1, in_features] of the first Linear layer and
// [1, out_features] of the last one.
func (s *Sequential) Descriptor() (*arch.Descriptor, error) {
	var first, last *Linear
	for _, m := range s.modules {
		if l, ok := m.Module.(*Linear); ok {
			if first == nil {
				first = l
			}
			last = l
		}
	}
	if first == nil {
		return nil, ErrNoLinearLayer
	}

	d := &arch.Descriptor{
		InputShape:  arch.Shape{1, int64(first.InFeatures())},
		OutputShape: arch.Shape{1, int64(last.OutFeatures())},
		ParamOrder:  weights.OrderOf(s.NamedParameters()),
		Layers:      make([]arch.LayerSpec, 0, len(s.modules)),
	}
	for _, m := range s.modules {
		params := []string{}
		for _, p := range m.Module.Parameters() {
			params = append(params, m.Name+"."+p.Name)
		}
		d.Layers = append(d.Layers, arch.LayerSpec{Name: m.Name, Type: m.Module.LayerType(), Params: params})
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Save writes the descriptor to archPath and the parameters to weightsPath.
// The descriptor's param_order is taken from the same sequence that is
// written, so the two files always agree.
func (s *Sequential) Save(archPath, weightsPath string) error {
	d, err := s.Descriptor()
	if err != nil {
		return err
	}
	if err := weights.WriteFile(weightsPath, s.NamedParameters()); err != nil {
		return fmt.Errorf("failed to write weights: %w", err)
	}
	if err := arch.Save(archPath, d); err != nil {
		return fmt.Errorf("failed to write architecture: %w", err)
	}
	return nil
}

// NewSimpleNet builds fc1: Linear(10, 32) -> relu1: ReLU -> fc2: Linear(32, 5)
// with weights drawn deterministically from seed.
func NewSimpleNet(seed uint64) *Sequential {
	rng := NewRand(seed)
	return NewSequential().
		Add("fc1", NewLinear(10, 32, rng)).
		Add("relu1", NewReLU()).
		Add("fc2", NewLinear(32, 5, rng))
}
