package onnx

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Fixed graph names.
const (
	InputName = "input"
	GraphName = "main_graph"
)

// Defaults used by DefaultBuildOptions.
const (
	DefaultProducerName = "weightgraph"
	DefaultOpsetVersion = 14
	DefaultIRVersion    = 9
	DefaultBatchDim     = "batch_size"
)

// BuildOptions configures graph construction.
type BuildOptions struct {
	// Permissive skips layers of unknown type instead of failing with
	// ErrUnknownLayerType. It exists for compatibility with descriptors that
	// carry layers the exporter never handled; it hides configuration
	// mistakes and is off by default.
	Permissive bool

	ProducerName    string
	ProducerVersion string
	OpsetVersion    int64
	IRVersion       int64

	// BatchDim names the symbolic batch axis of the input and output.
	BatchDim string

	// Logger receives debug output. Nil discards it.
	Logger *slog.Logger
}

// DefaultBuildOptions returns strict options with opset 14 and IR version 9.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Permissive:   false,
		ProducerName: DefaultProducerName,
		OpsetVersion: DefaultOpsetVersion,
		IRVersion:    DefaultIRVersion,
		BatchDim:     DefaultBatchDim,
	}
}

// withDefaults fills zero-valued fields.
func (o BuildOptions) withDefaults() BuildOptions {
	def := DefaultBuildOptions()
	if o.ProducerName == "" {
		o.ProducerName = def.ProducerName
	}
	if o.OpsetVersion == 0 {
		o.OpsetVersion = def.OpsetVersion
	}
	if o.IRVersion == 0 {
		o.IRVersion = def.IRVersion
	}
	if o.BatchDim == "" {
		o.BatchDim = def.BatchDim
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Build walks d.Layers in declaration order and emits the ONNX graph.
//
// A cursor starts at the graph input "input"; every layer consumes the
// cursor and moves it to its last output, which after the final layer
// becomes the graph output. Nodes are never reordered, so each node only
// references the graph input, an initializer, or an earlier node output.
//
// params is only read. Building is atomic per layer but not across layers:
// on error the returned model holds the layers processed so far (and no
// output), together with a *LayerError.
func Build(d *arch.Descriptor, params map[string]*tensorbuf.Tensor, opts BuildOptions) (*ModelProto, error) {
	opts = opts.withDefaults()

	if d.InputShape.Features() <= 0 || d.OutputShape.Features() <= 0 {
		return nil, fmt.Errorf("%w: input %v, output %v", arch.ErrInvalidShape, d.InputShape, d.OutputShape)
	}

	model := &ModelProto{
		IRVersion:       opts.IRVersion,
		OpsetImport:     []OperatorSetID{{Domain: "", Version: opts.OpsetVersion}},
		ProducerName:    opts.ProducerName,
		ProducerVersion: opts.ProducerVersion,
		Graph: &GraphProto{
			Name:   GraphName,
			Inputs: []ValueInfoProto{signature(InputName, opts.BatchDim, d.InputShape.Features())},
		},
	}

	state := &graphState{graph: model.Graph, params: params, cursor: InputName}
	for i := range d.Layers {
		spec := &d.Layers[i]
		layer, err := NewLayer(spec)
		if err != nil {
			if opts.Permissive && errors.Is(err, ErrUnknownLayerType) {
				opts.Logger.Debug("skipping layer of unknown type",
					"index", i, "name", spec.Name, "type", spec.Type)
				continue
			}
			return model, &LayerError{Index: i, Name: spec.Name, Type: spec.Type, Err: err}
		}

		if err := layer.emit(state); err != nil {
			return model, &LayerError{Index: i, Name: spec.Name, Type: spec.Type, Err: err}
		}
		opts.Logger.Debug("emitted layer", "index", i, "name", spec.Name, "type", spec.Type, "cursor", state.cursor)
	}

	model.Graph.Outputs = []ValueInfoProto{signature(state.cursor, opts.BatchDim, d.OutputShape.Features())}

	if err := CheckSSA(model.Graph); err != nil {
		return model, err
	}
	return model, nil
}

// signature describes a float32 [batchDim, features] tensor.
func signature(name, batchDim string, features int64) ValueInfoProto {
	return ValueInfoProto{
		Name: name,
		Type: &TypeProto{
			TensorType: &TensorTypeProto{
				ElemType: TensorProtoFloat,
				Shape: &TensorShapeProto{
					Dims: []DimensionProto{
						{DimParam: batchDim},
						{DimValue: features},
					},
				},
			},
		},
	}
}
