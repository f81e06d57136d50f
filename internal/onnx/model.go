package onnx

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/born-ml/weightgraph/internal/onnx/operators"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Runtime runs a loaded graph on float32 tensors.
type Runtime interface {
	InputNames() []string
	OutputNames() []string
	Run(inputs map[string]*tensorbuf.Tensor) (map[string]*tensorbuf.Tensor, error)
}

var _ Runtime = (*Model)(nil)

// Model represents a loaded ONNX model ready for inference.
type Model struct {
	proto        *ModelProto
	registry     *operators.Registry
	logger       *slog.Logger
	weights      map[string]*tensorbuf.Tensor
	inputNames   []string
	outputNames  []string
	sortedNodes  []NodeProto
	opsetVersion int64
}

// InputNames returns the names of model inputs.
func (m *Model) InputNames() []string {
	return m.inputNames
}

// OutputNames returns the names of model outputs.
func (m *Model) OutputNames() []string {
	return m.outputNames
}

// OpsetVersion returns the ONNX opset version.
func (m *Model) OpsetVersion() int64 {
	return m.opsetVersion
}

// Proto returns the parsed model.
func (m *Model) Proto() *ModelProto {
	return m.proto
}

// Metadata returns model metadata as key-value pairs.
func (m *Model) Metadata() map[string]string {
	meta := make(map[string]string)
	for _, prop := range m.proto.MetadataProps {
		meta[prop.Key] = prop.Value
	}
	meta["producer_name"] = m.proto.ProducerName
	meta["producer_version"] = m.proto.ProducerVersion
	meta["domain"] = m.proto.Domain
	return meta
}

// Forward runs inference with a single input tensor.
// For models with multiple inputs or outputs, use Run.
func (m *Model) Forward(input *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	if len(m.inputNames) != 1 {
		return nil, fmt.Errorf("model has %d inputs, use Run", len(m.inputNames))
	}
	if len(m.outputNames) != 1 {
		return nil, fmt.Errorf("model has %d outputs, use Run", len(m.outputNames))
	}

	outputs, err := m.Run(map[string]*tensorbuf.Tensor{m.inputNames[0]: input})
	if err != nil {
		return nil, err
	}
	return outputs[m.outputNames[0]], nil
}

// Run executes the graph with named inputs and returns the graph outputs by name.
// Inputs are not modified.
func (m *Model) Run(inputs map[string]*tensorbuf.Tensor) (map[string]*tensorbuf.Tensor, error) {
	values := make(map[string]*tensorbuf.Tensor, len(m.weights)+len(inputs))
	for name, t := range m.weights {
		values[name] = t
	}
	for _, name := range m.inputNames {
		t, ok := inputs[name]
		if !ok || t == nil {
			return nil, fmt.Errorf("missing input: %s", name)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("input %s: %w", name, err)
		}
		values[name] = t
	}

	for i := range m.sortedNodes {
		node := &m.sortedNodes[i]

		nodeInputs := make([]*tensorbuf.Tensor, len(node.Inputs))
		for j, name := range node.Inputs {
			t, ok := values[name]
			if !ok {
				return nil, fmt.Errorf("node %s: missing input %s", node.Name, name)
			}
			nodeInputs[j] = t
		}

		outputs, err := m.registry.Execute(nodeProtoToOperatorNode(node), nodeInputs)
		if err != nil {
			return nil, fmt.Errorf("node %s (%s): %w", node.Name, node.OpType, err)
		}
		for j, name := range node.Outputs {
			if j < len(outputs) {
				values[name] = outputs[j]
			}
		}
		m.logger.Debug("ran node", "name", node.Name, "op", node.OpType)
	}

	result := make(map[string]*tensorbuf.Tensor, len(m.outputNames))
	for _, name := range m.outputNames {
		t, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("missing output: %s", name)
		}
		result[name] = t
	}
	return result, nil
}

// compile prepares the model for inference.
func (m *Model) compile() error {
	graph := m.proto.Graph

	m.weights = make(map[string]*tensorbuf.Tensor, len(graph.Initializers))
	for i := range graph.Initializers {
		init := &graph.Initializers[i]
		t, err := tensorFromProto(init)
		if err != nil {
			return fmt.Errorf("failed to load initializer %s: %w", init.Name, err)
		}
		m.weights[init.Name] = t
	}

	// Inputs are graph inputs minus initializers.
	for i := range graph.Inputs {
		if _, ok := m.weights[graph.Inputs[i].Name]; !ok {
			m.inputNames = append(m.inputNames, graph.Inputs[i].Name)
		}
	}
	for i := range graph.Outputs {
		m.outputNames = append(m.outputNames, graph.Outputs[i].Name)
	}

	sorted, err := topologicalSort(graph.Nodes)
	if err != nil {
		return err
	}
	m.sortedNodes = sorted
	m.opsetVersion = defaultOpset(m.proto)

	return nil
}

// tensorFromProto converts a float32 TensorProto to a tensor.
func tensorFromProto(proto *TensorProto) (*tensorbuf.Tensor, error) {
	if proto.DataType != TensorProtoFloat {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDataType, proto.DataType)
	}

	n, err := tensorbuf.NumElements(proto.Dims)
	if err != nil {
		return nil, err
	}

	var data []float32
	switch {
	case len(proto.RawData) > 0:
		if int64(len(proto.RawData)) != n*tensorbuf.ElementSize {
			return nil, fmt.Errorf("%w: raw data has %d bytes, shape %v needs %d",
				tensorbuf.ErrShapeMismatch, len(proto.RawData), proto.Dims, n*tensorbuf.ElementSize)
		}
		data = make([]float32, n)
		for i := range data {
			data[i] = math.Float32frombits(binary.LittleEndian.Uint32(proto.RawData[i*4:]))
		}
	default:
		data = append([]float32(nil), proto.FloatData...)
	}

	return tensorbuf.New(append([]int64(nil), proto.Dims...), data)
}

// nodeProtoToOperatorNode converts NodeProto to operators.Node.
func nodeProtoToOperatorNode(proto *NodeProto) *operators.Node {
	attrs := make([]operators.Attribute, len(proto.Attributes))
	for i := range proto.Attributes {
		attr := &proto.Attributes[i]
		attrs[i] = operators.Attribute{
			Name:   attr.Name,
			F:      attr.F,
			I:      attr.I,
			Floats: attr.Floats,
			Ints:   attr.Ints,
		}
	}
	return &operators.Node{
		Name:       proto.Name,
		OpType:     proto.OpType,
		Inputs:     proto.Inputs,
		Outputs:    proto.Outputs,
		Attributes: attrs,
	}
}

// topologicalSort sorts nodes in execution order.
// Ensures dependencies are executed before dependents.
func topologicalSort(nodes []NodeProto) ([]NodeProto, error) {
	outputToNode := make(map[string]int)
	for i := range nodes {
		for _, output := range nodes[i].Outputs {
			outputToNode[output] = i
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(nodes))
	result := make([]NodeProto, 0, len(nodes))

	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: cycle through node %q", ErrMalformedModel, nodes[i].Name)
		}
		state[i] = visiting

		for _, input := range nodes[i].Inputs {
			if depIdx, ok := outputToNode[input]; ok {
				if err := visit(depIdx); err != nil {
					return err
				}
			}
		}

		state[i] = done
		result = append(result, nodes[i])
		return nil
	}

	for i := range nodes {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return result, nil
}
