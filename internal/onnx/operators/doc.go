// Package operators implements the ONNX operators needed to run exported
// feed-forward graphs on the CPU.
//
// The package provides a registry of operator handlers keyed by op type.
// Each handler validates its inputs and returns freshly allocated outputs;
// inputs are never modified.
package operators
