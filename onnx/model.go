package onnx

import "github.com/born-ml/weightgraph/tensor"

// Model represents a loaded ONNX model ready for inference.
//
// This interface hides the internal implementation and allows for:
//   - Easy mocking in tests
//   - Decoupling from internal package structure
type Model interface {
	// Forward runs inference with a single input tensor.
	//
	// Returns an error if the model does not have exactly one input
	// or one output. In such cases, use Run instead.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Run runs inference with named inputs.
	// Returns a map of output name to tensor.
	Run(inputs map[string]*tensor.Tensor) (map[string]*tensor.Tensor, error)

	// InputNames returns the names of model inputs.
	InputNames() []string

	// OutputNames returns the names of model outputs.
	OutputNames() []string

	// OpsetVersion returns the ONNX opset version used by the model.
	OpsetVersion() int64

	// Metadata returns model metadata as key-value pairs.
	//
	// Common metadata keys:
	//   - "producer_name": Tool that exported the model
	//   - "producer_version": Version of the exporter
	//   - "domain": Domain of the model (usually "")
	//   - Custom keys from model.metadata_props
	Metadata() map[string]string
}
