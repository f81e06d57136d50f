// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"io"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Tensor is an n-dimensional float32 array in row-major order.
type Tensor = tensorbuf.Tensor

// Errors returned by the codec and constructors.
var (
	ErrTruncatedInput        = tensorbuf.ErrTruncatedInput
	ErrInvalidHeader         = tensorbuf.ErrInvalidHeader
	ErrShapeMismatch         = tensorbuf.ErrShapeMismatch
	ErrInvalidShape          = tensorbuf.ErrInvalidShape
	ErrUnsupportedTensorRank = tensorbuf.ErrUnsupportedTensorRank
)

// New creates a tensor after checking that data matches dims.
func New(dims []int64, data []float32) (*Tensor, error) {
	return tensorbuf.New(dims, data)
}

// Zeros creates a zero-filled tensor.
func Zeros(dims ...int64) (*Tensor, error) {
	return tensorbuf.Zeros(dims...)
}

// Equal reports whether a and b have identical dims and bitwise identical data.
func Equal(a, b *Tensor) bool {
	return tensorbuf.Equal(a, b)
}

// Encode writes one record for t to w.
func Encode(w io.Writer, t *Tensor) error {
	return tensorbuf.Encode(w, t)
}

// Decode reads exactly one record from r.
func Decode(r io.Reader) (*Tensor, error) {
	return tensorbuf.Decode(r)
}

// Transpose2D returns the [cols, rows] transpose of a 2-D tensor.
func Transpose2D(t *Tensor) (*Tensor, error) {
	return tensorbuf.Transpose2D(t)
}
