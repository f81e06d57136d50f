package tensorbuf

import "fmt"

// Transpose2D returns a new [cols, rows] tensor for a [rows, cols] input,
// with out[j][i] == in[i][j]. Any other rank fails with ErrUnsupportedTensorRank.
func Transpose2D(t *Tensor) (*Tensor, error) {
	if t.Rank() != 2 {
		return nil, fmt.Errorf("%w: transpose needs 2 dimensions, got %d", ErrUnsupportedTensorRank, t.Rank())
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	rows, cols := int(t.Dims[0]), int(t.Dims[1])
	out := make([]float32, len(t.Data))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[j*rows+i] = t.Data[i*cols+j]
		}
	}

	return &Tensor{Dims: []int64{t.Dims[1], t.Dims[0]}, Data: out}, nil
}
