package nn

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/onnx"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/born-ml/weightgraph/internal/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(t *testing.T, batch int64) *tensorbuf.Tensor {
	t.Helper()
	x, err := tensorbuf.Zeros(batch, 10)
	require.NoError(t, err)
	for i := range x.Data {
		x.Data[i] = float32(i) * 0.1
	}
	return x
}

func TestLinearForward(t *testing.T) {
	l := NewLinear(3, 2, NewRand(1))
	copy(l.Weight().Tensor.Data, []float32{1, 2, 3, 4, 5, 6})
	copy(l.Bias().Tensor.Data, []float32{0.5, -1})

	x, err := tensorbuf.New([]int64{2, 3}, []float32{1, 0, -1, 2, 1, 0})
	require.NoError(t, err)

	y, err := l.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 2}, y.Dims)
	assert.Equal(t, []float32{-1.5, -3, 4.5, 12}, y.Data)

	_, err = l.Forward(input(t, 1))
	require.ErrorIs(t, err, tensorbuf.ErrShapeMismatch)
}

func TestInitialization(t *testing.T) {
	l := NewLinear(10, 32, NewRand(7))
	assert.Equal(t, []int64{32, 10}, l.Weight().Tensor.Dims)
	assert.Equal(t, []int64{32}, l.Bias().Tensor.Dims)

	bound := float32(math.Sqrt(6.0 / 42.0))
	for _, v := range l.Weight().Tensor.Data {
		assert.LessOrEqual(t, float32(math.Abs(float64(v))), bound)
	}
	biasBound := float32(1 / math.Sqrt(10))
	for _, v := range l.Bias().Tensor.Data {
		assert.LessOrEqual(t, float32(math.Abs(float64(v))), biasBound)
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, b, c := NewSimpleNet(42), NewSimpleNet(42), NewSimpleNet(43)
	pa, pb, pc := a.NamedParameters(), b.NamedParameters(), c.NamedParameters()
	for i := range pa {
		assert.True(t, tensorbuf.Equal(pa[i].Tensor, pb[i].Tensor), pa[i].Name)
	}
	assert.False(t, tensorbuf.Equal(pa[0].Tensor, pc[0].Tensor))
}

func TestActivations(t *testing.T) {
	x, err := tensorbuf.New([]int64{3}, []float32{-1, 0, 2})
	require.NoError(t, err)

	y, err := NewReLU().Forward(x)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 2}, y.Data)

	y, err = NewSigmoid().Forward(x)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, y.Data[1], 1e-7)

	y, err = NewTanh().Forward(x)
	require.NoError(t, err)
	assert.InDelta(t, math.Tanh(2), y.Data[2], 1e-6)
	assert.Equal(t, []float32{-1, 0, 2}, x.Data)

	for _, kind := range []arch.LayerType{arch.ReLU, arch.Sigmoid, arch.Tanh} {
		a, err := NewActivation(kind)
		require.NoError(t, err)
		assert.Equal(t, kind, a.LayerType())
		assert.Nil(t, a.Parameters())
	}
	_, err = NewActivation(arch.Linear)
	require.Error(t, err)
}

func TestNamedParameters(t *testing.T) {
	params := NewSimpleNet(1).NamedParameters()
	assert.Equal(t, []string{"fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"}, weights.OrderOf(params))
	assert.Equal(t, []int64{32, 10}, params[0].Tensor.Dims)
	assert.Equal(t, []int64{5, 32}, params[2].Tensor.Dims)
}

func TestDescriptor(t *testing.T) {
	d, err := NewSimpleNet(1).Descriptor()
	require.NoError(t, err)

	assert.Equal(t, arch.Shape{1, 10}, d.InputShape)
	assert.Equal(t, arch.Shape{1, 5}, d.OutputShape)
	assert.Equal(t, []string{"fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"}, d.ParamOrder)
	assert.Equal(t, []arch.LayerSpec{
		{Name: "fc1", Type: arch.Linear, Params: []string{"fc1.weight", "fc1.bias"}},
		{Name: "relu1", Type: arch.ReLU, Params: []string{}},
		{Name: "fc2", Type: arch.Linear, Params: []string{"fc2.weight", "fc2.bias"}},
	}, d.Layers)

	_, err = NewSequential().Add("act", NewTanh()).Descriptor()
	require.ErrorIs(t, err, ErrNoLinearLayer)
}

func TestSaveAndExport(t *testing.T) {
	dir := t.TempDir()
	archPath := filepath.Join(dir, "model_arch.json")
	weightsPath := filepath.Join(dir, "model_weights.bin")
	outPath := filepath.Join(dir, "model.onnx")

	net := NewSimpleNet(42)
	require.NoError(t, net.Save(archPath, weightsPath))

	d, err := arch.Load(archPath)
	require.NoError(t, err)
	params, err := weights.ReadFile(weightsPath, d.ParamOrder)
	require.NoError(t, err)
	for _, p := range net.NamedParameters() {
		assert.True(t, tensorbuf.Equal(p.Tensor, params[p.Name]), p.Name)
	}

	_, err = onnx.Export(archPath, weightsPath, outPath, onnx.DefaultBuildOptions())
	require.NoError(t, err)
	model, err := onnx.Load(outPath)
	require.NoError(t, err)

	for _, batch := range []int64{1, 4} {
		x := input(t, batch)
		want, err := net.Forward(x)
		require.NoError(t, err)
		got, err := model.Forward(x)
		require.NoError(t, err)

		assert.Equal(t, want.Dims, got.Dims)
		assert.InDeltaSlice(t, want.Data, got.Data, 1e-5)
	}
}
