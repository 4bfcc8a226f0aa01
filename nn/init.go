package nn

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/born-ml/digit/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Fills a tensor with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// This initialization helps maintain variance of activations across layers.
// The caller supplies the rand source so a seeded run is reproducible.
func Xavier(fanIn, fanOut int, shape tensor.Shape, rng *rand.Rand) *tensor.Tensor {
	bound := math32.Sqrt(6.0 / float32(fanIn+fanOut))

	t := tensor.Zeros(shape)
	data := t.Data()
	for i := range data {
		// Random value in [-bound, bound]
		data[i] = (rng.Float32()*2.0 - 1.0) * bound
	}
	return t
}
