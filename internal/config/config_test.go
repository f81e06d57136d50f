package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weightgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "model_arch.json", cfg.Paths.Arch)
	assert.Equal(t, int64(14), cfg.Export.OpsetVersion)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: json
paths:
  model: out/net.onnx
export:
  permissive: true
  opset_version: 13
seed: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "out/net.onnx", cfg.Paths.Model)
	assert.Equal(t, "model_arch.json", cfg.Paths.Arch, "unset keys keep defaults")
	assert.True(t, cfg.Export.Permissive)
	assert.Equal(t, int64(13), cfg.Export.OpsetVersion)
	assert.Equal(t, "weightgraph", cfg.Export.ProducerName)
	assert.Equal(t, uint64(7), cfg.Seed)

	opts := cfg.BuildOptions(nil)
	assert.True(t, opts.Permissive)
	assert.Equal(t, int64(13), opts.OpsetVersion)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "color: blue\n"},
		{"bad yaml", "log: [\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"negative opset", "export:\n  opset_version: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("verbose")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
