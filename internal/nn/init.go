package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // weight initialization, not security-critical
}

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func Xavier(rng *rand.Rand, fanIn, fanOut int, dims ...int64) *tensorbuf.Tensor {
	return Uniform(rng, math.Sqrt(6.0/float64(fanIn+fanOut)), dims...)
}

// Uniform fills a tensor with values from U(-bound, bound).
func Uniform(rng *rand.Rand, bound float64, dims ...int64) *tensorbuf.Tensor {
	t, err := tensorbuf.Zeros(dims...)
	if err != nil {
		panic(err)
	}
	for i := range t.Data {
		t.Data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return t
}
