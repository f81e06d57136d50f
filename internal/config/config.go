// Package config loads CLI settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/born-ml/weightgraph/internal/onnx"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for settings that parse but make no sense.
var ErrInvalidConfig = errors.New("invalid config")

// Paths holds the default artifact locations.
type Paths struct {
	Arch    string `yaml:"arch"`
	Weights string `yaml:"weights"`
	Model   string `yaml:"model"`
}

// Export holds graph construction settings.
type Export struct {
	Permissive      bool   `yaml:"permissive"`
	OpsetVersion    int64  `yaml:"opset_version"`
	IRVersion       int64  `yaml:"ir_version"`
	ProducerName    string `yaml:"producer_name"`
	ProducerVersion string `yaml:"producer_version,omitempty"`
	BatchDim        string `yaml:"batch_dim"`
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the in-memory representation of a weightgraph.yaml file.
type Config struct {
	Log    Log    `yaml:"log"`
	Paths  Paths  `yaml:"paths"`
	Export Export `yaml:"export"`
	Seed   uint64 `yaml:"seed"`
}

// Default returns the settings used when no file is given.
// Paths match the file names of the original pipeline.
func Default() *Config {
	opts := onnx.DefaultBuildOptions()
	return &Config{
		Log: Log{Level: "info", Format: "text"},
		Paths: Paths{
			Arch:    "model_arch.json",
			Weights: "model_weights.bin",
			Model:   "model_manual_export.onnx",
		},
		Export: Export{
			OpsetVersion: opts.OpsetVersion,
			IRVersion:    opts.IRVersion,
			ProducerName: opts.ProducerName,
			BatchDim:     opts.BatchDim,
		},
		Seed: 42,
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default value; unknown keys are rejected. An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path is user-provided.
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q (want text or json)", ErrInvalidConfig, c.Log.Format)
	}
	if c.Export.OpsetVersion < 0 || c.Export.IRVersion < 0 {
		return fmt.Errorf("%w: negative opset or IR version", ErrInvalidConfig)
	}
	return nil
}

// BuildOptions converts the export settings into graph build options.
func (c *Config) BuildOptions(logger *slog.Logger) onnx.BuildOptions {
	return onnx.BuildOptions{
		Permissive:      c.Export.Permissive,
		ProducerName:    c.Export.ProducerName,
		ProducerVersion: c.Export.ProducerVersion,
		OpsetVersion:    c.Export.OpsetVersion,
		IRVersion:       c.Export.IRVersion,
		BatchDim:        c.Export.BatchDim,
		Logger:          logger,
	}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidConfig, s)
	}
	return level, nil
}
