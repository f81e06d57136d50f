package onnx

import (
	"testing"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
	"github.com/stretchr/testify/require"
)

// simpleNet describes fc1: Linear(10,32) -> relu1 -> fc2: Linear(32,5).
func simpleNet() *arch.Descriptor {
	return &arch.Descriptor{
		InputShape:  arch.Shape{1, 10},
		OutputShape: arch.Shape{1, 5},
		ParamOrder:  []string{"fc1.weight", "fc1.bias", "fc2.weight", "fc2.bias"},
		Layers: []arch.LayerSpec{
			{Name: "fc1", Type: arch.Linear, Params: []string{"fc1.weight", "fc1.bias"}},
			{Name: "relu1", Type: arch.ReLU, Params: []string{}},
			{Name: "fc2", Type: arch.Linear, Params: []string{"fc2.weight", "fc2.bias"}},
		},
	}
}

// ramp returns a tensor whose i-th value is start + i*step.
func ramp(t *testing.T, start, step float32, dims ...int64) *tensorbuf.Tensor {
	t.Helper()
	out, err := tensorbuf.Zeros(dims...)
	require.NoError(t, err)
	for i := range out.Data {
		out.Data[i] = start + float32(i)*step
	}
	return out
}

func simpleNetParams(t *testing.T) map[string]*tensorbuf.Tensor {
	t.Helper()
	return map[string]*tensorbuf.Tensor{
		"fc1.weight": ramp(t, -0.5, 0.003, 32, 10),
		"fc1.bias":   ramp(t, -0.1, 0.01, 32),
		"fc2.weight": ramp(t, 0.4, -0.005, 5, 32),
		"fc2.bias":   ramp(t, 0.05, 0.02, 5),
	}
}

// linear computes x @ w^T + b for x [n,in], w [out,in], b [out].
func linear(x, w, b *tensorbuf.Tensor) *tensorbuf.Tensor {
	n, in, out := x.Dims[0], x.Dims[1], w.Dims[0]
	y := &tensorbuf.Tensor{Dims: []int64{n, out}, Data: make([]float32, n*out)}
	for i := int64(0); i < n; i++ {
		for o := int64(0); o < out; o++ {
			sum := b.Data[o]
			for k := int64(0); k < in; k++ {
				sum += x.Data[i*in+k] * w.Data[o*in+k]
			}
			y.Data[i*out+o] = sum
		}
	}
	return y
}

func relu(x *tensorbuf.Tensor) *tensorbuf.Tensor {
	y := x.Clone()
	for i, v := range y.Data {
		if v < 0 {
			y.Data[i] = 0
		}
	}
	return y
}
