// Package arch describes a sequential network: its input and output
// shapes, the canonical parameter order of its weight container and the
// ordered list of layers.
package arch

import (
	"io"

	internalarch "github.com/born-ml/weightgraph/internal/arch"
)

type (
	// Descriptor is the contract between the weight writer and the graph builder.
	Descriptor = internalarch.Descriptor
	// LayerSpec is one entry of the layer list.
	LayerSpec = internalarch.LayerSpec
	// LayerType names a layer kind.
	LayerType = internalarch.LayerType
	// Shape is a [batch, features] pair.
	Shape = internalarch.Shape
	// Format selects the descriptor encoding.
	Format = internalarch.Format
)

// Known layer types.
const (
	Linear  = internalarch.Linear
	ReLU    = internalarch.ReLU
	Sigmoid = internalarch.Sigmoid
	Tanh    = internalarch.Tanh
)

// Descriptor encodings.
const (
	FormatJSON = internalarch.FormatJSON
	FormatYAML = internalarch.FormatYAML
)

// Load reads and validates a descriptor; the format follows the extension.
func Load(path string) (*Descriptor, error) {
	return internalarch.Load(path)
}

// Save validates d and writes it to path atomically.
func Save(path string, d *Descriptor) error {
	return internalarch.Save(path, d)
}

// Decode reads and validates a descriptor from r.
func Decode(r io.Reader, format Format) (*Descriptor, error) {
	return internalarch.Decode(r, format)
}

// Encode writes d to w.
func Encode(w io.Writer, d *Descriptor, format Format) error {
	return internalarch.Encode(w, d, format)
}
