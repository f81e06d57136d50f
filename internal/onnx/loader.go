package onnx

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/weightgraph/internal/onnx/operators"
)

// LoadOptions configures model loading behavior.
type LoadOptions struct {
	// StrictMode fails at load time on operators without a handler.
	// Otherwise the failure surfaces when the node runs.
	StrictMode bool

	// CustomOps provides custom operator handlers.
	CustomOps map[string]operators.OpHandler

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultLoadOptions returns default loading options.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		StrictMode: true,
		CustomOps:  nil,
	}
}

// Load loads an ONNX model from file and prepares it for inference.
//
// Example:
//
//	model, err := onnx.Load("model.onnx")
//	if err != nil {
//	    return err
//	}
//	out, err := model.Forward(input)
func Load(path string, opts ...LoadOptions) (*Model, error) {
	opt := DefaultLoadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	proto, err := ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ONNX file: %w", err)
	}

	return LoadFromProto(proto, opt)
}

// LoadFromBytes loads an ONNX model from bytes.
func LoadFromBytes(data []byte, opts ...LoadOptions) (*Model, error) {
	opt := DefaultLoadOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	proto, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ONNX data: %w", err)
	}

	return LoadFromProto(proto, opt)
}

// LoadFromProto loads a model from parsed ModelProto.
func LoadFromProto(proto *ModelProto, opt LoadOptions) (*Model, error) {
	if proto == nil || proto.Graph == nil {
		return nil, ErrNoGraph
	}

	registry := operators.NewRegistry()
	for opType, handler := range opt.CustomOps {
		registry.Register(opType, handler)
	}

	if opt.StrictMode {
		if err := validateOperators(proto.Graph, registry); err != nil {
			return nil, err
		}
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	model := &Model{
		proto:    proto,
		registry: registry,
		logger:   logger,
	}
	if err := model.compile(); err != nil {
		return nil, fmt.Errorf("failed to compile model: %w", err)
	}

	logger.Debug("loaded model",
		"nodes", len(model.sortedNodes), "initializers", len(proto.Graph.Initializers),
		"inputs", model.inputNames, "outputs", model.outputNames)
	return model, nil
}

// validateOperators checks that all operators are supported.
func validateOperators(graph *GraphProto, registry *operators.Registry) error {
	var unsupported []string
	for i := range graph.Nodes {
		if _, ok := registry.Get(graph.Nodes[i].OpType); !ok {
			unsupported = append(unsupported, graph.Nodes[i].OpType)
		}
	}

	if len(unsupported) > 0 {
		return fmt.Errorf("%w: %v", ErrUnsupportedOperator, unsupported)
	}
	return nil
}

// ModelInfo contains basic information about an ONNX model without fully loading it.
type ModelInfo struct {
	IRVersion       int64
	OpsetVersion    int64
	ProducerName    string
	ProducerVersion string
	GraphName       string
	InputNames      []string
	OutputNames     []string
	NodeCount       int
	WeightCount     int
	ParameterCount  int64
	OpTypes         []string // Distinct op types in first-use order
}

// GetModelInfo extracts basic info from an ONNX file.
func GetModelInfo(path string) (*ModelInfo, error) {
	proto, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Describe(proto), nil
}

// Describe summarizes a parsed model.
func Describe(proto *ModelProto) *ModelInfo {
	info := &ModelInfo{
		IRVersion:       proto.IRVersion,
		OpsetVersion:    defaultOpset(proto),
		ProducerName:    proto.ProducerName,
		ProducerVersion: proto.ProducerVersion,
	}

	graph := proto.Graph
	if graph == nil {
		return info
	}
	info.GraphName = graph.Name

	initNames := make(map[string]bool, len(graph.Initializers))
	for i := range graph.Initializers {
		init := &graph.Initializers[i]
		initNames[init.Name] = true
		n := int64(1)
		for _, d := range init.Dims {
			n *= d
		}
		info.ParameterCount += n
	}
	for i := range graph.Inputs {
		if !initNames[graph.Inputs[i].Name] {
			info.InputNames = append(info.InputNames, graph.Inputs[i].Name)
		}
	}
	for i := range graph.Outputs {
		info.OutputNames = append(info.OutputNames, graph.Outputs[i].Name)
	}

	seen := make(map[string]bool)
	for i := range graph.Nodes {
		op := graph.Nodes[i].OpType
		if !seen[op] {
			seen[op] = true
			info.OpTypes = append(info.OpTypes, op)
		}
	}

	info.NodeCount = len(graph.Nodes)
	info.WeightCount = len(graph.Initializers)
	return info
}

// ListSupportedOps returns all supported ONNX operators.
func ListSupportedOps() []string {
	return operators.NewRegistry().SupportedOps()
}

// defaultOpset returns the version of the default ONNX domain import.
func defaultOpset(proto *ModelProto) int64 {
	for _, opset := range proto.OpsetImport {
		if opset.Domain == "" || opset.Domain == "ai.onnx" {
			return opset.Version
		}
	}
	return 0
}
