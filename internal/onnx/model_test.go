package onnx

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/born-ml/weightgraph/internal/onnx/operators"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMatchesReference(t *testing.T) {
	params := simpleNetParams(t)
	proto, err := Build(simpleNet(), params, DefaultBuildOptions())
	require.NoError(t, err)
	data, err := Marshal(proto)
	require.NoError(t, err)

	model, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"input"}, model.InputNames())
	assert.Equal(t, []string{"fc2_add_out"}, model.OutputNames())
	assert.Equal(t, int64(14), model.OpsetVersion())

	for _, batch := range []int64{1, 3} {
		t.Run(fmt.Sprintf("batch=%d", batch), func(t *testing.T) {
			x := ramp(t, 0, 0.1, batch, 10)
			want := linear(relu(linear(x, params["fc1.weight"], params["fc1.bias"])), params["fc2.weight"], params["fc2.bias"])

			got, err := model.Forward(x)
			require.NoError(t, err)
			assert.Equal(t, []int64{batch, 5}, got.Dims)
			assert.InDeltaSlice(t, want.Data, got.Data, 1e-5)

			outs, err := model.Run(map[string]*tensorbuf.Tensor{"input": x})
			require.NoError(t, err)
			assert.True(t, tensorbuf.Equal(got, outs["fc2_add_out"]))
		})
	}
}

func TestRunMissingInput(t *testing.T) {
	proto, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	model, err := LoadFromProto(proto, DefaultLoadOptions())
	require.NoError(t, err)

	_, err = model.Run(map[string]*tensorbuf.Tensor{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing input: input")
}

func TestRunShapeMismatch(t *testing.T) {
	proto, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	model, err := LoadFromProto(proto, DefaultLoadOptions())
	require.NoError(t, err)

	_, err = model.Forward(ramp(t, 0, 1, 1, 7))
	require.ErrorIs(t, err, tensorbuf.ErrShapeMismatch)
	assert.Contains(t, err.Error(), "fc1_matmul")
}

func TestLoadStrictMode(t *testing.T) {
	proto := &ModelProto{Graph: &GraphProto{
		Inputs:  []ValueInfoProto{{Name: "x"}},
		Nodes:   []NodeProto{{Name: "c", OpType: "Conv", Inputs: []string{"x"}, Outputs: []string{"y"}}},
		Outputs: []ValueInfoProto{{Name: "y"}},
	}}

	_, err := LoadFromProto(proto, DefaultLoadOptions())
	require.ErrorIs(t, err, ErrUnsupportedOperator)

	model, err := LoadFromProto(proto, LoadOptions{StrictMode: false})
	require.NoError(t, err)
	_, err = model.Forward(ramp(t, 0, 1, 1, 2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operator: Conv")
}

func TestLoadCustomOps(t *testing.T) {
	proto := &ModelProto{Graph: &GraphProto{
		Inputs:  []ValueInfoProto{{Name: "x"}},
		Nodes:   []NodeProto{{Name: "d", OpType: "Double", Inputs: []string{"x"}, Outputs: []string{"y"}}},
		Outputs: []ValueInfoProto{{Name: "y"}},
	}}

	double := func(_ *operators.Node, in []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
		out := in[0].Clone()
		for i := range out.Data {
			out.Data[i] *= 2
		}
		return []*tensorbuf.Tensor{out}, nil
	}

	model, err := LoadFromProto(proto, LoadOptions{
		StrictMode: true,
		CustomOps:  map[string]operators.OpHandler{"Double": double},
	})
	require.NoError(t, err)

	got, err := model.Forward(ramp(t, 1, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6}, got.Data)
}

func TestLoadRejectsCycle(t *testing.T) {
	proto := &ModelProto{Graph: &GraphProto{
		Inputs: []ValueInfoProto{{Name: "x"}},
		Nodes: []NodeProto{
			{Name: "a", OpType: "Add", Inputs: []string{"x", "b_out"}, Outputs: []string{"a_out"}},
			{Name: "b", OpType: "Relu", Inputs: []string{"a_out"}, Outputs: []string{"b_out"}},
		},
		Outputs: []ValueInfoProto{{Name: "b_out"}},
	}}

	_, err := LoadFromProto(proto, DefaultLoadOptions())
	require.ErrorIs(t, err, ErrMalformedModel)
}

func TestLoadUnsupportedInitializer(t *testing.T) {
	proto := &ModelProto{Graph: &GraphProto{
		Initializers: []TensorProto{{Name: "w", DataType: TensorProtoDouble, Dims: []int64{1}}},
	}}
	_, err := LoadFromProto(proto, DefaultLoadOptions())
	require.ErrorIs(t, err, ErrUnsupportedDataType)

	proto.Graph.Initializers[0] = TensorProto{Name: "w", DataType: TensorProtoFloat, Dims: []int64{2}, RawData: []byte{1, 2, 3}}
	_, err = LoadFromProto(proto, DefaultLoadOptions())
	require.ErrorIs(t, err, tensorbuf.ErrShapeMismatch)

	_, err = LoadFromProto(&ModelProto{}, DefaultLoadOptions())
	require.ErrorIs(t, err, ErrNoGraph)
}

func TestLoadFile(t *testing.T) {
	proto, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, WriteFile(path, proto))

	model, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultProducerName, model.Metadata()["producer_name"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.onnx"))
	require.Error(t, err)
}

func TestListSupportedOps(t *testing.T) {
	ops := ListSupportedOps()
	for _, op := range []string{"MatMul", "Add", "Relu", "Sigmoid", "Tanh", "Identity"} {
		assert.Contains(t, ops, op)
	}
}
