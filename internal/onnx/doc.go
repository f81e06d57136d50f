// Package onnx builds ONNX computation graphs from an architecture
// descriptor and its weights, serializes them, and runs them.
//
// The ONNX schema is modelled with hand-written structs covering the fields
// this package produces and consumes; the protobuf wire format is handled
// with protowire, no generated code is involved.
//
// Key components:
//   - Build: walks the descriptor's layers and emits nodes and initializers
//   - Marshal / Parse: protobuf encoding and decoding of ModelProto
//   - Export: descriptor + weight container -> .onnx file
//   - Load: a minimal runtime that executes exported graphs on the CPU
//
// Example usage:
//
//	// Build the graph
//	desc, err := arch.Load("model_arch.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	params, err := weights.ReadFile("model_weights.bin", desc.ParamOrder)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	model, err := onnx.Build(desc, params, onnx.DefaultBuildOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Inspect it
//	for _, node := range model.Graph.Nodes {
//	    fmt.Printf("%s: %v -> %v\n", node.OpType, node.Inputs, node.Outputs)
//	}
package onnx
