package onnx

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Layer is one step of a sequential graph. The set of implementations is
// closed: LinearLayer and ActivationLayer.
type Layer interface {
	LayerName() string
	// emit appends the layer's nodes and initializers and advances the cursor.
	emit(s *graphState) error
}

// LinearLayer is a fully connected layer: y = x @ W^T + b.
// Weight is stored [out_features, in_features], Bias [out_features].
type LinearLayer struct {
	Name   string
	Weight string // Parameter name of the weight
	Bias   string // Parameter name of the bias
}

// ActivationLayer applies a parameter-free elementwise operator.
type ActivationLayer struct {
	Name   string
	OpType string // ONNX operator, e.g. "Relu"
}

// LayerName returns the layer name.
func (l LinearLayer) LayerName() string { return l.Name }

// LayerName returns the layer name.
func (l ActivationLayer) LayerName() string { return l.Name }

// graphState is the builder's mutable state while walking the layers.
type graphState struct {
	graph  *GraphProto
	params map[string]*tensorbuf.Tensor
	cursor string // Name of the tensor the next layer consumes
}

func (l LinearLayer) emit(s *graphState) error {
	// Resolve everything before touching the graph.
	weight, ok := s.params[l.Weight]
	if !ok {
		return fmt.Errorf("%w: weight %q", ErrMissingParameter, l.Weight)
	}
	bias, ok := s.params[l.Bias]
	if !ok {
		return fmt.Errorf("%w: bias %q", ErrMissingParameter, l.Bias)
	}

	// MatMul wants the right operand as [in_features, out_features].
	transposed, err := tensorbuf.Transpose2D(weight)
	if err != nil {
		return fmt.Errorf("weight %q: %w", l.Weight, err)
	}

	matmulOut := l.Name + "_matmul_out"
	addOut := l.Name + "_add_out"

	s.graph.Initializers = append(s.graph.Initializers,
		tensorToProto(l.Weight, transposed),
		tensorToProto(l.Bias, bias),
	)
	s.graph.Nodes = append(s.graph.Nodes,
		NodeProto{
			Name:    l.Name + "_matmul",
			OpType:  "MatMul",
			Inputs:  []string{s.cursor, l.Weight},
			Outputs: []string{matmulOut},
		},
		NodeProto{
			Name:    l.Name + "_add",
			OpType:  "Add",
			Inputs:  []string{matmulOut, l.Bias},
			Outputs: []string{addOut},
		},
	)
	s.cursor = addOut
	return nil
}

func (l ActivationLayer) emit(s *graphState) error {
	out := l.Name + "_out"
	s.graph.Nodes = append(s.graph.Nodes, NodeProto{
		Name:    l.Name,
		OpType:  l.OpType,
		Inputs:  []string{s.cursor},
		Outputs: []string{out},
	})
	s.cursor = out
	return nil
}

// layerFactory converts a layer spec into a Layer.
type layerFactory func(spec *arch.LayerSpec) (Layer, error)

// layerFactories maps each known layer type to its constructor.
var layerFactories = map[arch.LayerType]layerFactory{
	arch.Linear:  newLinearLayer,
	arch.ReLU:    activation("Relu"),
	arch.Sigmoid: activation("Sigmoid"),
	arch.Tanh:    activation("Tanh"),
}

// NewLayer converts spec into a Layer.
// Unknown types fail with ErrUnknownLayerType.
func NewLayer(spec *arch.LayerSpec) (Layer, error) {
	factory, ok := layerFactories[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayerType, spec.Type)
	}
	return factory(spec)
}

func newLinearLayer(spec *arch.LayerSpec) (Layer, error) {
	// Positional: params[0] is the weight, params[1] the bias.
	if len(spec.Params) < 2 {
		return nil, fmt.Errorf("%w: Linear needs (weight, bias), got %d parameter(s)", ErrMissingParameter, len(spec.Params))
	}
	if len(spec.Params) > 2 {
		return nil, fmt.Errorf("%w: Linear takes 2, got %d", arch.ErrParamCount, len(spec.Params))
	}
	return LinearLayer{Name: spec.Name, Weight: spec.Params[0], Bias: spec.Params[1]}, nil
}

func activation(opType string) layerFactory {
	return func(spec *arch.LayerSpec) (Layer, error) {
		if len(spec.Params) != 0 {
			return nil, fmt.Errorf("%w: %s takes no parameters, got %d", arch.ErrParamCount, spec.Type, len(spec.Params))
		}
		return ActivationLayer{Name: spec.Name, OpType: opType}, nil
	}
}

// tensorToProto converts t into a float32 initializer with raw data.
func tensorToProto(name string, t *tensorbuf.Tensor) TensorProto {
	raw := make([]byte, 0, 4*len(t.Data))
	for _, v := range t.Data {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(v))
	}
	dims := make([]int64, len(t.Dims))
	copy(dims, t.Dims)
	return TensorProto{
		Name:     name,
		DataType: TensorProtoFloat,
		Dims:     dims,
		RawData:  raw,
	}
}
