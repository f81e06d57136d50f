package arch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/born-ml/weightgraph/internal/atomicfile"
	"gopkg.in/yaml.v3"
)

// Format is a descriptor file encoding.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Decode reads a descriptor in the given format and validates it.
func Decode(r io.Reader, format Format) (*Descriptor, error) {
	d := &Descriptor{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(d); err != nil {
			return nil, fmt.Errorf("failed to parse descriptor: %w", err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(d); err != nil {
			return nil, fmt.Errorf("failed to parse descriptor: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Encode writes d in the given format. JSON is indented by four spaces.
func Encode(w io.Writer, d *Descriptor, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		if err := enc.Encode(normalized(d)); err != nil {
			return fmt.Errorf("failed to marshal descriptor: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(normalized(d)); err != nil {
			return fmt.Errorf("failed to marshal descriptor: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to marshal descriptor: %w", err)
		}
	default:
		return fmt.Errorf("%w: format %d", ErrUnsupportedFormat, format)
	}
	return nil
}

// Load reads and validates the descriptor at path.
//
//nolint:gosec // G304: Path is provided by user.
func Load(path string) (*Descriptor, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}
	d, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save validates d and writes it to path atomically.
func Save(path string, d *Descriptor) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		return Encode(w, d, format)
	})
}

// normalized returns a copy where parameter-free layers carry an empty
// params list, so JSON shows [] instead of null.
func normalized(d *Descriptor) *Descriptor {
	out := *d
	out.Layers = make([]LayerSpec, len(d.Layers))
	for i, layer := range d.Layers {
		if layer.Params == nil {
			layer.Params = []string{}
		}
		out.Layers[i] = layer
	}
	return &out
}
