package nn

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/born-ml/weightgraph/internal/arch"
	"github.com/born-ml/weightgraph/internal/tensorbuf"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization, biases from
// U(-1/sqrt(in_features), 1/sqrt(in_features)).
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]
}

// NewLinear creates a new Linear layer drawing its initial values from rng.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weight := Xavier(rng, inFeatures, outFeatures, int64(outFeatures), int64(inFeatures))
	bias := Uniform(rng, 1/math.Sqrt(float64(inFeatures)), int64(outFeatures))
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      &Parameter{Name: "weight", Tensor: weight},
		bias:        &Parameter{Name: "bias", Tensor: bias},
	}
}

// Forward computes x @ W.T + b for x of shape [batch_size, in_features].
func (l *Linear) Forward(input *tensorbuf.Tensor) (*tensorbuf.Tensor, error) {
	if input.Rank() != 2 || input.Dims[1] != int64(l.inFeatures) {
		return nil, fmt.Errorf("%w: linear expects [batch, %d], got %v",
			tensorbuf.ErrShapeMismatch, l.inFeatures, input.Dims)
	}

	batch := int(input.Dims[0])
	in, out := l.inFeatures, l.outFeatures
	w, b := l.weight.Tensor.Data, l.bias.Tensor.Data

	y := make([]float32, batch*out)
	for n := 0; n < batch; n++ {
		x := input.Data[n*in : (n+1)*in]
		for o := 0; o < out; o++ {
			sum := b[o]
			row := w[o*in : (o+1)*in]
			for k, v := range x {
				sum += v * row[k]
			}
			y[n*out+o] = sum
		}
	}
	return tensorbuf.New([]int64{int64(batch), int64(out)}, y)
}

// Parameters returns weight and bias, in that order.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// LayerType returns arch.Linear.
func (l *Linear) LayerType() arch.LayerType { return arch.Linear }

// InFeatures returns the input width.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the output width.
func (l *Linear) OutFeatures() int { return l.outFeatures }

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter { return l.bias }
