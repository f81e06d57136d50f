package arch

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleNet() *Descriptor {
	return &Descriptor{
		InputShape:  Shape{1, 10},
		OutputShape: Shape{1, 5},
		ParamOrder:  []string{"fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"},
		Layers: []LayerSpec{
			{Name: "fc1", Type: Linear, Params: []string{"fc1.weight", "fc1.bias"}},
			{Name: "relu1", Type: ReLU},
			{Name: "fc2", Type: Linear, Params: []string{"fc2.weight", "fc2.bias"}},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *Descriptor)
		err    error
	}{
		{"valid", func(*Descriptor) {}, nil},
		{"missing param order", func(d *Descriptor) { d.ParamOrder = nil }, ErrMissingParamOrder},
		{"input shape rank", func(d *Descriptor) { d.InputShape = Shape{10} }, ErrInvalidShape},
		{"output features", func(d *Descriptor) { d.OutputShape = Shape{1, 0} }, ErrInvalidShape},
		{"empty layer name", func(d *Descriptor) { d.Layers[1].Name = "" }, ErrEmptyLayerName},
		{"duplicate layer", func(d *Descriptor) { d.Layers[2].Name = "fc1" }, ErrDuplicateLayer},
		{"unknown param", func(d *Descriptor) { d.Layers[0].Params[1] = "fc1.gamma" }, ErrUnknownParam},
		{"param twice in order", func(d *Descriptor) { d.ParamOrder[3] = "fc1.bias" }, ErrDuplicateParam},
		{"param shared by layers", func(d *Descriptor) {
			d.Layers[2].Params = []string{"fc1.weight", "fc2.bias"}
		}, ErrDuplicateParam},
		{"linear arity", func(d *Descriptor) {
			d.ParamOrder = append(d.ParamOrder, "fc1.extra")
			d.Layers[0].Params = append(d.Layers[0].Params, "fc1.extra")
		}, ErrParamCount},
		{"linear under arity passes", func(d *Descriptor) { d.Layers[0].Params = []string{"fc1.weight"} }, nil},
		{"relu arity", func(d *Descriptor) { d.Layers[1].Params = []string{"fc1.bias"} }, ErrParamCount},
		{"unknown type passes", func(d *Descriptor) {
			d.Layers = append(d.Layers, LayerSpec{Name: "drop", Type: "Dropout"})
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := simpleNet()
			tt.mutate(d)
			err := d.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLayerTypes(t *testing.T) {
	n, ok := Linear.ParamCount()
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	assert.True(t, ReLU.Known())
	assert.False(t, LayerType("Dropout").Known())
	assert.Equal(t, []LayerType{Linear, ReLU, Sigmoid, Tanh}, KnownTypes())
}

func TestParamNames(t *testing.T) {
	assert.Equal(t, []string{"fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"}, simpleNet().ParamNames())
}

func TestDecodeJSON(t *testing.T) {
	src := `{
    "input_shape": [1, 10],
    "output_shape": [1, 5],
    "param_order": ["fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"],
    "layers": [
        {"name": "fc1", "type": "Linear", "params": ["fc1.weight", "fc1.bias"]},
        {"name": "relu1", "type": "ReLU", "params": []},
        {"name": "fc2", "type": "Linear", "params": ["fc2.weight", "fc2.bias"]}
    ]
}`
	d, err := Decode(strings.NewReader(src), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, int64(10), d.InputShape.Features())
	assert.Equal(t, int64(5), d.OutputShape.Features())
	require.Len(t, d.Layers, 3)
	assert.Equal(t, ReLU, d.Layers[1].Type)
	assert.Empty(t, d.Layers[1].Params)
}

func TestDecodeJSONWithoutParamOrder(t *testing.T) {
	src := `{"input_shape": [1, 2], "output_shape": [1, 2], "layers": []}`
	_, err := Decode(strings.NewReader(src), FormatJSON)
	require.ErrorIs(t, err, ErrMissingParamOrder)
}

func TestJSONAndYAMLAgree(t *testing.T) {
	var jsonBuf, yamlBuf bytes.Buffer
	require.NoError(t, Encode(&jsonBuf, simpleNet(), FormatJSON))
	require.NoError(t, Encode(&yamlBuf, simpleNet(), FormatYAML))

	fromJSON, err := Decode(&jsonBuf, FormatJSON)
	require.NoError(t, err)
	fromYAML, err := Decode(&yamlBuf, FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, fromJSON, fromYAML)
}

func TestEncodeJSONEmptyParams(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, simpleNet(), FormatJSON))

	assert.Contains(t, buf.String(), `"params": []`)
	assert.NotContains(t, buf.String(), "null")
	assert.Contains(t, buf.String(), "\n    \"input_shape\"")
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"model_arch.json", "model_arch.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, simpleNet()))

		d, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, simpleNet().ParamOrder, d.ParamOrder)
		assert.Len(t, d.Layers, 3)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	d := simpleNet()
	d.ParamOrder = nil

	require.ErrorIs(t, Save(path, d), ErrMissingParamOrder)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("a.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = FormatOf("a.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatOf("a.toml")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
