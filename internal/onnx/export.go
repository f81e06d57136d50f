package onnx

import (
	"fmt"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/atomicfile"
	"github.com/born-ml/weightgraph/internal/weights"
)

// WriteFile marshals m and writes it to path atomically.
func WriteFile(path string, m *ModelProto) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}
	return atomicfile.WriteBytes(path, data)
}

// Export reads the descriptor and weight container, builds the graph and
// writes it to outPath. Nothing is written unless every step succeeds.
func Export(archPath, weightsPath, outPath string, opts BuildOptions) (*ModelProto, error) {
	opts = opts.withDefaults()

	desc, err := arch.Load(archPath)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded architecture", "path", archPath, "layers", len(desc.Layers))

	params, err := weights.ReadFile(weightsPath, desc.ParamOrder)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded weights", "path", weightsPath, "tensors", len(params))

	model, err := Build(desc, params, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph: %w", err)
	}

	if err := WriteFile(outPath, model); err != nil {
		return nil, err
	}
	opts.Logger.Debug("wrote model", "path", outPath, "nodes", len(model.Graph.Nodes))
	return model, nil
}
