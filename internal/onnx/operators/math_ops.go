package operators

import (
	"fmt"
	"slices"

	"github.com/born-ml/weightgraph/internal/parallel"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// registerMathOps adds math operators to the registry.
func (r *Registry) registerMathOps() {
	r.Register("Add", handleAdd)
	r.Register("MatMul", handleMatMul)
}

func handleAdd(_ *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("add requires 2 inputs, got %d", len(inputs))
	}
	result, err := broadcastAdd(inputs[0], inputs[1])
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}
	return []*tensorbuf.Tensor{result}, nil
}

func handleMatMul(_ *Node, inputs []*tensorbuf.Tensor) ([]*tensorbuf.Tensor, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("matMul requires 2 inputs, got %d", len(inputs))
	}
	result, err := matMul2D(inputs[0], inputs[1])
	if err != nil {
		return nil, fmt.Errorf("matMul: %w", err)
	}
	return []*tensorbuf.Tensor{result}, nil
}

// matMul2D computes [n, k] x [k, m] -> [n, m].
// Output rows are independent and may be computed concurrently.
func matMul2D(a, b *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	if a.Rank() != 2 || b.Rank() != 2 {
		return nil, fmt.Errorf("%w: only 2-D operands are supported, got %v x %v",
			tensorbuf.ErrUnsupportedTensorRank, a.Dims, b.Dims)
	}
	n, k, m := int(a.Dims[0]), int(a.Dims[1]), int(b.Dims[1])
	if int(b.Dims[0]) != k {
		return nil, fmt.Errorf("%w: inner dimensions differ, %v x %v", tensorbuf.ErrShapeMismatch, a.Dims, b.Dims)
	}

	out := make([]float32, n*m)
	parallel.For(n, func(i int) {
		row := a.Data[i*k : (i+1)*k]
		dst := out[i*m : (i+1)*m]
		for p, av := range row {
			src := b.Data[p*m : (p+1)*m]
			for j, bv := range src {
				dst[j] += av * bv
			}
		}
	}, parallel.DefaultConfig())

	return tensorbuf.New([]int64{int64(n), int64(m)}, out)
}

// broadcastAdd adds two tensors with numpy-style broadcasting.
func broadcastAdd(a, b *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	dims, err := broadcastDims(a.Dims, b.Dims)
	if err != nil {
		return nil, err
	}
	if slices.Equal(a.Dims, b.Dims) {
		out := make([]float32, len(a.Data))
		for i := range out {
			out[i] = a.Data[i] + b.Data[i]
		}
		return tensorbuf.New(dims, out)
	}

	n, err := tensorbuf.NumElements(dims)
	if err != nil {
		return nil, err
	}
	aStrides := broadcastStrides(a.Dims, dims)
	bStrides := broadcastStrides(b.Dims, dims)
	out := make([]float32, n)
	index := make([]int64, len(dims))
	for flat := range out {
		var ai, bi int64
		for axis, idx := range index {
			ai += idx * aStrides[axis]
			bi += idx * bStrides[axis]
		}
		out[flat] = a.Data[ai] + b.Data[bi]

		for axis := len(index) - 1; axis >= 0; axis-- {
			index[axis]++
			if index[axis] < dims[axis] {
				break
			}
			index[axis] = 0
		}
	}
	return tensorbuf.New(dims, out)
}

// broadcastDims returns the broadcast result shape of a and b.
func broadcastDims(a, b []int64) ([]int64, error) {
	rank := max(len(a), len(b))
	out := make([]int64, rank)
	for i := 0; i < rank; i++ {
		da, db := int64(1), int64(1)
		if j := len(a) - rank + i; j >= 0 {
			da = a[j]
		}
		if j := len(b) - rank + i; j >= 0 {
			db = b[j]
		}
		switch {
		case da == db, db == 1:
			out[i] = da
		case da == 1:
			out[i] = db
		default:
			return nil, fmt.Errorf("%w: cannot broadcast %v with %v", tensorbuf.ErrShapeMismatch, a, b)
		}
	}
	return out, nil
}

// broadcastStrides returns row-major strides of dims aligned to target,
// with zero stride on broadcast axes.
func broadcastStrides(dims, target []int64) []int64 {
	strides := make([]int64, len(target))
	offset := len(target) - len(dims)
	stride := int64(1)
	for i := len(dims) - 1; i >= 0; i-- {
		if dims[i] != 1 {
			strides[i+offset] = stride
		}
		stride *= dims[i]
	}
	return strides
}
