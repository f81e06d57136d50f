package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestMarshalParseRoundTrip(t *testing.T) {
	model, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	model.DocString = "simple net"
	model.MetadataProps = []StringStringEntry{{Key: "source", Value: "test"}}

	data, err := Marshal(model)
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, model, parsed)
}

func TestMarshalAttributes(t *testing.T) {
	model := &ModelProto{
		IRVersion: 9,
		Graph: &GraphProto{
			Name: "g",
			Nodes: []NodeProto{{
				OpType:  "Custom",
				Inputs:  []string{"x"},
				Outputs: []string{"y"},
				Domain:  "com.example",
				Attributes: []AttributeProto{
					{Name: "alpha", Type: AttributeProtoFloat, F: 0.25},
					{Name: "axis", Type: AttributeProtoInt, I: -1},
					{Name: "mode", Type: AttributeProtoString, S: []byte("fast")},
					{Name: "scales", Type: AttributeProtoFloats, Floats: []float32{1, 2.5}},
					{Name: "perm", Type: AttributeProtoInts, Ints: []int64{1, 0}},
				},
			}},
			Initializers: []TensorProto{{
				Name: "legacy", DataType: TensorProtoFloat, Dims: []int64{2}, FloatData: []float32{3, 4},
			}},
		},
	}

	data, err := Marshal(model)
	require.NoError(t, err)
	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, model, parsed)
}

func TestMarshalNoGraph(t *testing.T) {
	_, err := Marshal(&ModelProto{IRVersion: 9})
	require.ErrorIs(t, err, ErrNoGraph)

	_, err = Marshal(nil)
	require.Error(t, err)
}

func TestParseSkipsUnknownFields(t *testing.T) {
	model, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	data, err := Marshal(model)
	require.NoError(t, err)

	// Field 20 is not modelled (ModelProto.training_info).
	data = protowire.AppendTag(data, 20, protowire.BytesType)
	data = protowire.AppendString(data, "ignored")

	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, model.Graph, parsed.Graph)
}

func TestParseMalformed(t *testing.T) {
	model, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	data, err := Marshal(model)
	require.NoError(t, err)

	_, err = Parse(data[:len(data)-3])
	require.ErrorIs(t, err, ErrMalformedModel)

	_, err = Parse([]byte{0xff, 0xff, 0xff})
	require.ErrorIs(t, err, ErrMalformedModel)
}

func TestParseFile(t *testing.T) {
	model, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, WriteFile(path, model))

	parsed, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, model, parsed)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.onnx"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetModelInfo(t *testing.T) {
	model, err := Build(simpleNet(), simpleNetParams(t), DefaultBuildOptions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, WriteFile(path, model))

	info, err := GetModelInfo(path)
	require.NoError(t, err)

	assert.Equal(t, int64(9), info.IRVersion)
	assert.Equal(t, int64(14), info.OpsetVersion)
	assert.Equal(t, DefaultProducerName, info.ProducerName)
	assert.Equal(t, GraphName, info.GraphName)
	assert.Equal(t, []string{"input"}, info.InputNames)
	assert.Equal(t, []string{"fc2_add_out"}, info.OutputNames)
	assert.Equal(t, 5, info.NodeCount)
	assert.Equal(t, 4, info.WeightCount)
	assert.Equal(t, int64(10*32+32+32*5+5), info.ParameterCount)
	assert.Equal(t, []string{"MatMul", "Add", "Relu"}, info.OpTypes)
}
