package tensorbuf

import (
	"fmt"
	"math"
	"slices"
)

// Tensor is an n-dimensional float32 array in row-major order.
//
// Invariant: len(Data) == product(Dims). The empty product is 1, so a
// rank-0 tensor holds exactly one value.
type Tensor struct {
	Dims []int64   // Dimension sizes, outermost first
	Data []float32 // Flattened values, row-major
}

// New creates a tensor after checking that data matches dims.
// The slices are retained, not copied.
func New(dims []int64, data []float32) (*Tensor, error) {
	n, err := NumElements(dims)
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != n {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, got %d", ErrShapeMismatch, dims, n, len(data))
	}
	return &Tensor{Dims: dims, Data: data}, nil
}

// Zeros creates a zero-filled tensor with the given dims.
func Zeros(dims ...int64) (*Tensor, error) {
	n, err := NumElements(dims)
	if err != nil {
		return nil, err
	}
	return &Tensor{Dims: slices.Clone(dims), Data: make([]float32, n)}, nil
}

// NumElements returns product(dims).
// Negative dimensions and products that overflow int are rejected.
func NumElements(dims []int64) (int64, error) {
	n := int64(1)
	for i, d := range dims {
		if d < 0 {
			return 0, fmt.Errorf("%w: dimension %d is %d", ErrInvalidShape, i, d)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: element count of %v overflows", ErrInvalidShape, dims)
		}
		n *= d
	}
	return n, nil
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.Dims)
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.Data)
}

// Validate reports whether the tensor still satisfies its invariant.
func (t *Tensor) Validate() error {
	_, err := New(t.Dims, t.Data)
	return err
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{Dims: slices.Clone(t.Dims), Data: slices.Clone(t.Data)}
}

// String returns a short description, e.g. "tensor[32 10]".
func (t *Tensor) String() string {
	return fmt.Sprintf("tensor%v", t.Dims)
}

// Equal reports whether a and b have identical dims and bitwise identical data.
// NaN payloads compare by bits, so a tensor always equals its own copy.
func Equal(a, b *Tensor) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.Dims, b.Dims) || len(a.Data) != len(b.Data) {
		return false
	}
	for i := range a.Data {
		if math.Float32bits(a.Data[i]) != math.Float32bits(b.Data[i]) {
			return false
		}
	}
	return true
}
