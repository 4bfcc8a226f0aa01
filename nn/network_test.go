package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/born-ml/digit/nn"
	"github.com/born-ml/digit/tensor"
)

func newBaselineNet(seed int64) *nn.Network {
	rng := rand.New(rand.NewSource(seed))
	return nn.NewNetwork(
		nn.NewLinear(784, 128, rng),
		nn.NewReLU(),
		nn.NewLinear(128, 10, rng),
	)
}

func TestNetworkForwardShape(t *testing.T) {
	net := newBaselineNet(1)

	x := tensor.Zeros(tensor.Shape{64, 784})
	logits := net.Forward(x)
	assert.True(t, logits.Shape().Equal(tensor.Shape{64, 10}), "got %v", logits.Shape())
}

// TestUntrainedLossIsUniform: all-zero images through a freshly
// initialized network produce all-zero logits (biases start at zero), so
// the softmax is uniform and the loss is ln(10) regardless of the labels.
func TestUntrainedLossIsUniform(t *testing.T) {
	net := newBaselineNet(1)
	criterion := nn.NewCrossEntropy()

	x := tensor.Zeros(tensor.Shape{64, 784})
	labels := make([]int, 64)
	rng := rand.New(rand.NewSource(2))
	for i := range labels {
		labels[i] = rng.Intn(10)
	}

	loss := criterion.Forward(net.Forward(x), labels)
	assert.InDelta(t, math.Log(10), loss, 1e-3)
}

// TestForwardDeterministic: identical parameters and identical input must
// produce bit-identical logits across consecutive passes.
func TestForwardDeterministic(t *testing.T) {
	net := newBaselineNet(3)

	rng := rand.New(rand.NewSource(4))
	data := make([]float32, 8*784)
	for i := range data {
		data[i] = rng.Float32()
	}
	x, err := tensor.FromSlice(data, tensor.Shape{8, 784})
	require.NoError(t, err)

	first := net.Forward(x)
	second := net.Forward(x)
	for i, v := range first.Data() {
		if second.Data()[i] != v {
			t.Fatalf("logit %d differs between identical passes: %v vs %v", i, v, second.Data()[i])
		}
	}
}

func TestNetworkParameters(t *testing.T) {
	net := newBaselineNet(1)

	params := net.Parameters()
	require.Len(t, params, 4) // two Linear layers, weight + bias each
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
}

func TestNetworkZeroGrad(t *testing.T) {
	net := newBaselineNet(1)
	criterion := nn.NewCrossEntropy()

	x := tensor.Full(tensor.Shape{4, 784}, 0.5)
	labels := []int{0, 1, 2, 3}

	logits := net.Forward(x)
	net.ZeroGrad()
	net.Backward(criterion.Backward(logits, labels))

	// Some gradient must be nonzero after backward...
	nonzero := false
	for _, p := range net.Parameters() {
		for _, v := range p.Grad().Data() {
			if v != 0 {
				nonzero = true
			}
		}
	}
	require.True(t, nonzero)

	// ...and all zero again after ZeroGrad.
	net.ZeroGrad()
	for _, p := range net.Parameters() {
		for _, v := range p.Grad().Data() {
			require.Zero(t, v)
		}
	}
}

// TestNetworkGradientCheck verifies the hand-derived backward passes
// against gonum's central finite differences on a small network: the
// gradient of the loss w.r.t. every weight and bias must match the
// numeric estimate.
//
// Parameters and inputs are fixed by hand so every hidden pre-activation
// has magnitude >= 0.125; the finite-difference step (1e-2) can then
// never flip a ReLU mask and break differentiability.
func TestNetworkGradientCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	fc1 := nn.NewLinear(2, 3, rng)
	fc2 := nn.NewLinear(3, 2, rng)
	copy(fc1.Weight().Value().Data(), []float32{0.4, -0.6, 0.9, 0.3, 0.8, -0.5})
	copy(fc1.Bias().Value().Data(), []float32{0.3, -0.3, 0.1})
	copy(fc2.Weight().Value().Data(), []float32{0.7, -0.2, 0.5, 0.4, -0.6, 0.3})
	copy(fc2.Bias().Value().Data(), []float32{0.05, -0.05})

	net := nn.NewNetwork(fc1, nn.NewReLU(), fc2)
	criterion := nn.NewCrossEntropy()

	x, err := tensor.FromSlice([]float32{0.5, -0.25, -1.0, 0.75}, tensor.Shape{2, 2})
	require.NoError(t, err)
	labels := []int{1, 0}

	params := net.Parameters()

	// Flatten current parameter values.
	var flat []float64
	for _, p := range params {
		for _, v := range p.Value().Data() {
			flat = append(flat, float64(v))
		}
	}

	// Loss as a function of the flattened parameter vector.
	lossAt := func(vec []float64) float64 {
		i := 0
		for _, p := range params {
			data := p.Value().Data()
			for j := range data {
				data[j] = float32(vec[i])
				i++
			}
		}
		return float64(criterion.Forward(net.Forward(x), labels))
	}

	numeric := make([]float64, len(flat))
	fd.Gradient(numeric, lossAt, flat, &fd.Settings{
		Formula: fd.Central,
		Step:    1e-2,
	})

	// Restore parameters, then compute analytic gradients.
	lossAt(flat)
	net.ZeroGrad()
	net.Backward(criterion.Backward(net.Forward(x), labels))

	i := 0
	for _, p := range params {
		for _, g := range p.Grad().Data() {
			assert.InDelta(t, numeric[i], float64(g), 1e-3,
				"parameter %s element %d", p.Name(), i)
			i++
		}
	}
}
