package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/born-ml/weightgraph/internal/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifacts(t *testing.T, dir string) (archPath, weightsPath string, params map[string]*tensorbuf.Tensor) {
	t.Helper()
	desc := simpleNet()
	params = simpleNetParams(t)

	archPath = filepath.Join(dir, "arch.json")
	require.NoError(t, arch.Save(archPath, desc))

	named := make([]weights.NamedTensor, 0, len(desc.ParamOrder))
	for _, name := range desc.ParamOrder {
		named = append(named, weights.NamedTensor{Name: name, Tensor: params[name]})
	}
	weightsPath = filepath.Join(dir, "weights.bin")
	require.NoError(t, weights.WriteFile(weightsPath, named))
	return archPath, weightsPath, params
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	archPath, weightsPath, params := writeArtifacts(t, dir)
	outPath := filepath.Join(dir, "model.onnx")

	built, err := Export(archPath, weightsPath, outPath, DefaultBuildOptions())
	require.NoError(t, err)

	model, err := Load(outPath)
	require.NoError(t, err)
	assert.Equal(t, built, model.Proto())

	x := ramp(t, 0, 0.1, 1, 10)
	want := linear(relu(linear(x, params["fc1.weight"], params["fc1.bias"])), params["fc2.weight"], params["fc2.bias"])
	got, err := model.Forward(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want.Data, got.Data, 1e-5)
}

func TestExportTruncatedWeights(t *testing.T) {
	dir := t.TempDir()
	archPath, weightsPath, _ := writeArtifacts(t, dir)
	outPath := filepath.Join(dir, "model.onnx")

	data, err := os.ReadFile(weightsPath)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(weightsPath, data[:len(data)-4], 0o600))

	_, err = Export(archPath, weightsPath, outPath, DefaultBuildOptions())
	require.ErrorIs(t, err, weights.ErrMissingOrCorruptRecord)

	_, statErr := os.Stat(outPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist, "no model must be written on failure")
}

func TestExportUnknownLayer(t *testing.T) {
	dir := t.TempDir()
	_, weightsPath, _ := writeArtifacts(t, dir)

	desc := simpleNet()
	desc.Layers = append(desc.Layers, arch.LayerSpec{Name: "norm", Type: "BatchNorm"})
	archPath := filepath.Join(dir, "arch-extra.json")
	require.NoError(t, arch.Save(archPath, desc))
	outPath := filepath.Join(dir, "model.onnx")

	_, err := Export(archPath, weightsPath, outPath, DefaultBuildOptions())
	require.ErrorIs(t, err, ErrUnknownLayerType)
	_, statErr := os.Stat(outPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	opts := DefaultBuildOptions()
	opts.Permissive = true
	model, err := Export(archPath, weightsPath, outPath, opts)
	require.NoError(t, err)
	assert.Len(t, model.Graph.Nodes, 5)
}

func TestExportLinearMissingBias(t *testing.T) {
	dir := t.TempDir()
	_, weightsPath, _ := writeArtifacts(t, dir)

	desc := simpleNet()
	desc.Layers[2].Params = []string{"fc2.weight"}
	archPath := filepath.Join(dir, "arch-nobias.json")
	require.NoError(t, arch.Save(archPath, desc))
	outPath := filepath.Join(dir, "model.onnx")

	_, err := Export(archPath, weightsPath, outPath, DefaultBuildOptions())
	require.ErrorIs(t, err, ErrMissingParameter)

	var layerErr *LayerError
	require.ErrorAs(t, err, &layerErr)
	assert.Equal(t, "fc2", layerErr.Name)
	assert.Equal(t, 2, layerErr.Index)

	_, statErr := os.Stat(outPath)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
