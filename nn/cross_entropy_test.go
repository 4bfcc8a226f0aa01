package nn_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/digit/nn"
	"github.com/born-ml/digit/tensor"
)

func TestCrossEntropyForward(t *testing.T) {
	criterion := nn.NewCrossEntropy()

	// Logits [[2.0, 1.0]], target 0.
	//
	// log_softmax([2, 1]): max = 2, sum_exp = 1 + exp(-1) = 1.368
	// log_sum_exp = 2 + log(1.368) = 2.313
	// loss = -(2 - 2.313) = 0.313
	logits, err := tensor.FromSlice([]float32{2.0, 1.0}, tensor.Shape{1, 2})
	require.NoError(t, err)

	loss := criterion.Forward(logits, []int{0})
	assert.InDelta(t, 0.313, loss, 1e-2)
}

func TestCrossEntropyBatchMean(t *testing.T) {
	criterion := nn.NewCrossEntropy()

	// Three samples, each predicting its target with the highest logit;
	// the mean loss over a batch of correct-but-soft predictions stays
	// well under ln(3).
	logits, err := tensor.FromSlice([]float32{
		1, 2, 3,
		3, 1, 2,
		2, 3, 1,
	}, tensor.Shape{3, 3})
	require.NoError(t, err)

	loss := criterion.Forward(logits, []int{2, 0, 1})
	assert.Greater(t, loss, float32(0))
	assert.Less(t, loss, float32(1))
}

func TestCrossEntropyBackward(t *testing.T) {
	criterion := nn.NewCrossEntropy()

	// Logits [[1, 2]], target 1.
	// softmax([1, 2]) = [0.269, 0.731]
	// grad = [0.269, 0.731 - 1] / 1 = [0.269, -0.269]
	logits, err := tensor.FromSlice([]float32{1, 2}, tensor.Shape{1, 2})
	require.NoError(t, err)

	grad := criterion.Backward(logits, []int{1})
	assert.InDelta(t, 0.269, grad.Data()[0], 1e-2)
	assert.InDelta(t, -0.269, grad.Data()[1], 1e-2)
}

// TestCrossEntropyGradientRowsSumToZero: each row of
// (softmax - one_hot) must sum to zero, since both terms sum to one.
func TestCrossEntropyGradientRowsSumToZero(t *testing.T) {
	criterion := nn.NewCrossEntropy()
	rng := rand.New(rand.NewSource(3))

	data := make([]float32, 5*10)
	labels := make([]int, 5)
	for i := range data {
		data[i] = rng.Float32()*4 - 2
	}
	for i := range labels {
		labels[i] = rng.Intn(10)
	}
	logits, err := tensor.FromSlice(data, tensor.Shape{5, 10})
	require.NoError(t, err)

	grad := criterion.Backward(logits, labels)
	for b := 0; b < 5; b++ {
		sum := float32(0)
		for _, v := range grad.Row(b) {
			sum += v
		}
		assert.InDelta(t, 0, sum, 1e-6, "row %d", b)
	}
}

// TestCrossEntropyGradientFiniteDifference checks the analytic gradient
// against a central finite difference on each logit.
func TestCrossEntropyGradientFiniteDifference(t *testing.T) {
	criterion := nn.NewCrossEntropy()
	rng := rand.New(rand.NewSource(5))

	const batch, classes = 3, 4
	data := make([]float32, batch*classes)
	labels := make([]int, batch)
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	for i := range labels {
		labels[i] = rng.Intn(classes)
	}
	logits, err := tensor.FromSlice(data, tensor.Shape{batch, classes})
	require.NoError(t, err)

	analytic := criterion.Backward(logits, labels)

	const h = 1e-2
	for i := range data {
		plus := logits.Clone()
		plus.Data()[i] += h
		minus := logits.Clone()
		minus.Data()[i] -= h

		numeric := (criterion.Forward(plus, labels) - criterion.Forward(minus, labels)) / (2 * h)
		assert.InDelta(t, numeric, analytic.Data()[i], 1e-3, "logit %d", i)
	}
}

func TestCrossEntropyNumericalStability(t *testing.T) {
	criterion := nn.NewCrossEntropy()

	// Extreme logits overflow exp without max-shifting.
	logits, err := tensor.FromSlice([]float32{1000, 999, 998}, tensor.Shape{1, 3})
	require.NoError(t, err)

	loss := criterion.Forward(logits, []int{0})
	require.False(t, math.IsInf(float64(loss), 0) || math.IsNaN(float64(loss)),
		"loss not finite: %v", loss)
	assert.Less(t, loss, float32(1.0))

	// Extreme negative logits underflow the probabilities themselves.
	logits, err = tensor.FromSlice([]float32{-1000, -999, -998}, tensor.Shape{1, 3})
	require.NoError(t, err)
	loss = criterion.Forward(logits, []int{2})
	require.False(t, math.IsInf(float64(loss), 0) || math.IsNaN(float64(loss)))
}

func TestCrossEntropyTargetOutOfRange(t *testing.T) {
	criterion := nn.NewCrossEntropy()
	logits := tensor.Zeros(tensor.Shape{1, 3})

	assert.Panics(t, func() { criterion.Forward(logits, []int{5}) })
	assert.Panics(t, func() { criterion.Forward(logits, []int{-1}) })
	assert.Panics(t, func() { criterion.Backward(logits, []int{3}) })
}

func TestCrossEntropyCountMismatch(t *testing.T) {
	criterion := nn.NewCrossEntropy()
	logits := tensor.Zeros(tensor.Shape{2, 3})

	assert.Panics(t, func() { criterion.Forward(logits, []int{0}) })
}

func TestProbabilitiesSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(9))

	const batch, classes = 17, 10
	data := make([]float32, batch*classes)
	for i := range data {
		data[i] = rng.Float32()*20 - 10
	}
	logits, err := tensor.FromSlice(data, tensor.Shape{batch, classes})
	require.NoError(t, err)

	probs := nn.Probabilities(logits)
	for b := 0; b < batch; b++ {
		sum := float32(0)
		for _, p := range probs.Row(b) {
			require.GreaterOrEqual(t, p, float32(0))
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-5, "row %d", b)
	}
}

func TestAccuracy(t *testing.T) {
	// Sample 0: argmax=2, target=2 ✓
	// Sample 1: argmax=0, target=0 ✓
	// Sample 2: argmax=1, target=0 ✗
	// Sample 3: argmax=2, target=2 ✓
	logits, err := tensor.FromSlice([]float32{
		1, 2, 3,
		3, 1, 2,
		2, 3, 1,
		1, 1, 3,
	}, tensor.Shape{4, 3})
	require.NoError(t, err)

	acc := nn.Accuracy(logits, []int{2, 0, 0, 2})
	assert.InDelta(t, 0.75, acc, 1e-6)
}

func TestPredict(t *testing.T) {
	logits, err := tensor.FromSlice([]float32{
		0.1, 0.9,
		0.8, 0.2,
	}, tensor.Shape{2, 2})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0}, nn.Predict(logits))
}
