package weights_test

import (
	"path/filepath"
	"testing"

	"github.com/born-ml/weightgraph/tensor"
	"github.com/born-ml/weightgraph/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicFileRoundTrip(t *testing.T) {
	w, err := tensor.New([]int64{2, 2}, []float32{1, 2, 3, 4})
	require.NoError(t, err)
	b, err := tensor.New([]int64{2}, []float32{5, 6})
	require.NoError(t, err)

	params := []weights.NamedTensor{{Name: "fc.weight", Tensor: w}, {Name: "fc.bias", Tensor: b}}
	path := filepath.Join(t.TempDir(), "weights.bin")
	require.NoError(t, weights.WriteFile(path, params))

	got, err := weights.ReadFile(path, weights.OrderOf(params))
	require.NoError(t, err)
	assert.True(t, tensor.Equal(w, got["fc.weight"]))
	assert.True(t, tensor.Equal(b, got["fc.bias"]))

	_, err = weights.ReadFile(path, []string{"fc.weight", "fc.bias", "extra"})
	require.ErrorIs(t, err, weights.ErrMissingOrCorruptRecord)
}
