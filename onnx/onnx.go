// Package onnx exports sequential networks as ONNX graphs and runs them.
//
// The exporter reads an architecture descriptor and the weight container it
// describes and emits one node chain per layer:
//
//   - Linear: MatMul(cursor, W^T) followed by Add(bias)
//   - ReLU, Sigmoid, Tanh: one node of the matching operator
//
// Linear weights are stored [out_features, in_features] in the container
// and transposed to [in_features, out_features] in the graph. The graph
// input is named "input" and has a symbolic batch dimension.
//
// # Example Usage
//
//	model, err := onnx.Export("model_arch.json", "model_weights.bin", "model.onnx", onnx.DefaultBuildOptions())
//	if err != nil {
//	    return err
//	}
//
//	// Run the exported file in-process
//	m, err := onnx.Load("model.onnx")
//	if err != nil {
//	    return err
//	}
//	output, err := m.Forward(input)
//
// # Supported Operators
//
// The in-process runtime supports MatMul, Add, Relu, LeakyRelu, Sigmoid,
// Tanh, Identity and Dropout. Use [ListSupportedOps] for the complete list.
package onnx

import (
	"github.com/born-ml/weightgraph/arch"
	internalonnx "github.com/born-ml/weightgraph/internal/onnx"
	"github.com/born-ml/weightgraph/tensor"
)

type (
	// ModelProto is the in-memory ONNX model.
	ModelProto = internalonnx.ModelProto
	// BuildOptions configures graph construction.
	BuildOptions = internalonnx.BuildOptions
	// LoadOptions configures ONNX model loading behavior.
	LoadOptions = internalonnx.LoadOptions
	// LayerError reports the layer that stopped a build.
	LayerError = internalonnx.LayerError
	// ModelInfo contains metadata about an ONNX model without loading weights.
	ModelInfo = internalonnx.ModelInfo
)

// Errors returned by the builder and loader.
var (
	ErrMissingParameter    = internalonnx.ErrMissingParameter
	ErrUnknownLayerType    = internalonnx.ErrUnknownLayerType
	ErrForwardReference    = internalonnx.ErrForwardReference
	ErrMalformedModel      = internalonnx.ErrMalformedModel
	ErrUnsupportedOperator = internalonnx.ErrUnsupportedOperator
)

// DefaultBuildOptions returns strict options with opset 14 and IR version 9.
func DefaultBuildOptions() BuildOptions {
	return internalonnx.DefaultBuildOptions()
}

// DefaultLoadOptions returns the default options for loading ONNX models.
//
// Default configuration:
//   - Strict mode: enabled (fails on unsupported operators)
func DefaultLoadOptions() LoadOptions {
	return internalonnx.DefaultLoadOptions()
}

// Build emits the graph for d using params, which is only read.
// On error the partially built model is returned with the error.
func Build(d *arch.Descriptor, params map[string]*tensor.Tensor, opts BuildOptions) (*ModelProto, error) {
	return internalonnx.Build(d, params, opts)
}

// Export reads the descriptor and weight container, builds the graph and
// writes it to outPath. Nothing is written unless every step succeeds.
func Export(archPath, weightsPath, outPath string, opts BuildOptions) (*ModelProto, error) {
	return internalonnx.Export(archPath, weightsPath, outPath, opts)
}

// Marshal encodes m in protobuf wire format.
func Marshal(m *ModelProto) ([]byte, error) {
	return internalonnx.Marshal(m)
}

// Parse decodes an ONNX model.
func Parse(data []byte) (*ModelProto, error) {
	return internalonnx.Parse(data)
}

// WriteFile marshals m and writes it to path atomically.
func WriteFile(path string, m *ModelProto) error {
	return internalonnx.WriteFile(path, m)
}

// Load loads an ONNX model from a file path.
//
// Example:
//
//	model, err := onnx.Load("model.onnx")
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Inputs:", model.InputNames())
//	fmt.Println("Outputs:", model.OutputNames())
func Load(path string, opts ...LoadOptions) (Model, error) {
	m, err := internalonnx.Load(path, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// LoadFromBytes loads an ONNX model from raw bytes.
func LoadFromBytes(data []byte, opts ...LoadOptions) (Model, error) {
	m, err := internalonnx.LoadFromBytes(data, opts...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetModelInfo extracts metadata from an ONNX file without loading the full model.
func GetModelInfo(path string) (*ModelInfo, error) {
	return internalonnx.GetModelInfo(path)
}

// ListSupportedOps returns all ONNX operators the runtime can execute.
func ListSupportedOps() []string {
	return internalonnx.ListSupportedOps()
}
