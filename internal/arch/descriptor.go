package arch

import (
	"fmt"
	"slices"
)

// LayerType names a layer kind.
type LayerType string

// Known layer types.
const (
	Linear  LayerType = "Linear"
	ReLU    LayerType = "ReLU"
	Sigmoid LayerType = "Sigmoid"
	Tanh    LayerType = "Tanh"
)

// paramCounts holds the required arity of each known layer type.
var paramCounts = map[LayerType]int{
	Linear:  2,
	ReLU:    0,
	Sigmoid: 0,
	Tanh:    0,
}

// Known reports whether t is one of the known layer types.
func (t LayerType) Known() bool {
	_, ok := paramCounts[t]
	return ok
}

// ParamCount returns the number of parameters a layer of type t takes.
// The second result is false for unknown types.
func (t LayerType) ParamCount() (int, bool) {
	n, ok := paramCounts[t]
	return n, ok
}

// KnownTypes returns the known layer types in sorted order.
func KnownTypes() []LayerType {
	types := make([]LayerType, 0, len(paramCounts))
	for t := range paramCounts {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Shape is a [batch_placeholder, feature_count] pair.
type Shape []int64

// Features returns the feature count (axis 1).
func (s Shape) Features() int64 {
	if len(s) < 2 {
		return 0
	}
	return s[1]
}

// LayerSpec is one entry of the layer list.
type LayerSpec struct {
	Name   string    `json:"name" yaml:"name"`
	Type   LayerType `json:"type" yaml:"type"`
	Params []string  `json:"params" yaml:"params"`
}

// Descriptor is the contract between the weight writer and the graph builder.
type Descriptor struct {
	InputShape  Shape       `json:"input_shape" yaml:"input_shape"`
	OutputShape Shape       `json:"output_shape" yaml:"output_shape"`
	ParamOrder  []string    `json:"param_order" yaml:"param_order"`
	Layers      []LayerSpec `json:"layers" yaml:"layers"`
}

// Validate checks the descriptor's structural invariants.
//
// Unknown layer types pass validation; whether they are rejected or skipped
// is decided when the graph is built. The same holds for a layer with fewer
// parameters than its type takes, which the builder reports as a missing
// parameter.
func (d *Descriptor) Validate() error {
	if len(d.ParamOrder) == 0 {
		return ErrMissingParamOrder
	}
	if err := validateShape("input_shape", d.InputShape); err != nil {
		return err
	}
	if err := validateShape("output_shape", d.OutputShape); err != nil {
		return err
	}

	position := make(map[string]int, len(d.ParamOrder))
	for i, name := range d.ParamOrder {
		if _, ok := position[name]; ok {
			return fmt.Errorf("%w: %q in param_order", ErrDuplicateParam, name)
		}
		position[name] = i
	}

	layerNames := make(map[string]struct{}, len(d.Layers))
	referenced := make(map[string]string)
	for i := range d.Layers {
		layer := &d.Layers[i]
		if layer.Name == "" {
			return fmt.Errorf("%w: layer %d", ErrEmptyLayerName, i)
		}
		if _, ok := layerNames[layer.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateLayer, layer.Name)
		}
		layerNames[layer.Name] = struct{}{}

		if want, ok := layer.Type.ParamCount(); ok && len(layer.Params) > want {
			return fmt.Errorf("%w: layer %q (%s) takes %d, got %d",
				ErrParamCount, layer.Name, layer.Type, want, len(layer.Params))
		}

		for _, p := range layer.Params {
			if _, ok := position[p]; !ok {
				return fmt.Errorf("%w: layer %q references %q", ErrUnknownParam, layer.Name, p)
			}
			if owner, ok := referenced[p]; ok {
				return fmt.Errorf("%w: %q used by layers %q and %q", ErrDuplicateParam, p, owner, layer.Name)
			}
			referenced[p] = layer.Name
		}
	}

	return nil
}

// ParamNames returns every parameter referenced by a layer, in layer order.
func (d *Descriptor) ParamNames() []string {
	var names []string
	for _, layer := range d.Layers {
		names = append(names, layer.Params...)
	}
	return names
}

func validateShape(field string, s Shape) error {
	if len(s) != 2 {
		return fmt.Errorf("%w: %s must be [batch, features], got %v", ErrInvalidShape, field, []int64(s))
	}
	if s[1] <= 0 {
		return fmt.Errorf("%w: %s feature count must be positive, got %d", ErrInvalidShape, field, s[1])
	}
	return nil
}
