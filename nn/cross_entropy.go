package nn

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/digit/tensor"
)

// CrossEntropy computes cross-entropy loss for multi-class classification.
//
// The forward pass uses the LogSoftmax + NLL decomposition for numerical
// stability:
//
//	Loss = -mean over batch of log_probs[target]
//	where log_probs = LogSoftmax(logits)
//
// The backward pass uses the combined closed form, which is why the
// network feeds raw logits into the loss rather than probabilities:
//
//	∂L/∂logits = (Softmax(logits) - y_one_hot) / batch_size
//
// Key properties:
//   - Expects raw logits (unnormalized scores) as input
//   - Uses the log-sum-exp trick: no overflow when logits > 88
//     (float32 limit), no underflow when all logits are very negative
//   - A target outside [0, num_classes) is a caller contract violation
//     and panics
type CrossEntropy struct{}

// NewCrossEntropy creates a new cross-entropy loss function.
func NewCrossEntropy() *CrossEntropy {
	return &CrossEntropy{}
}

// Forward computes the mean cross-entropy loss over the batch.
//
// Parameters:
//   - logits: unnormalized scores with shape [batch_size, num_classes]
//   - targets: class indices, one per batch row, in [0, num_classes)
func (c *CrossEntropy) Forward(logits *tensor.Tensor, targets []int) float32 {
	batchSize, numClasses := checkLossShapes(logits, targets)

	totalLoss := float32(0.0)
	for b := 0; b < batchSize; b++ {
		logProbs := logSoftmax(logits.Row(b))

		target := targets[b]
		if target < 0 || target >= numClasses {
			panic(fmt.Sprintf("CrossEntropy: target %d out of range [0, %d)", target, numClasses))
		}
		totalLoss += -logProbs[target]
	}

	return totalLoss / float32(batchSize)
}

// Backward computes the gradient of the loss w.r.t. the logits:
//
//	∂L/∂logits[b, i] = (probs[b, i] - (1 if i == target[b] else 0)) / batch_size
//
// Returns a [batch_size, num_classes] tensor. The batch-size division is
// folded in here so every downstream gradient is already batch-averaged.
func (c *CrossEntropy) Backward(logits *tensor.Tensor, targets []int) *tensor.Tensor {
	batchSize, numClasses := checkLossShapes(logits, targets)

	grad := tensor.Zeros(logits.Shape())
	gradData := grad.Data()
	invBatch := 1.0 / float32(batchSize)

	for b := 0; b < batchSize; b++ {
		probs := softmax(logits.Row(b))

		target := targets[b]
		if target < 0 || target >= numClasses {
			panic(fmt.Sprintf("CrossEntropy: target %d out of range [0, %d)", target, numClasses))
		}
		for i, p := range probs {
			g := p
			if i == target {
				g -= 1.0
			}
			gradData[b*numClasses+i] = g * invBatch
		}
	}

	return grad
}

func checkLossShapes(logits *tensor.Tensor, targets []int) (batchSize, numClasses int) {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("CrossEntropy: logits must be 2D [batch_size, num_classes], got %v", shape))
	}
	if len(targets) != shape[0] {
		panic(fmt.Sprintf("CrossEntropy: %d logit rows but %d targets", shape[0], len(targets)))
	}
	return shape[0], shape[1]
}

// logSoftmax computes log(softmax(z)) in a numerically stable way.
//
// Formula:
//
//	LogSoftmax(z)[i] = z[i] - LogSumExp(z)
//	                 = z[i] - (max(z) + log(Σ exp(z - max(z))))
//
// Subtracting max(z) before exponentiating prevents overflow.
func logSoftmax(z []float32) []float32 {
	maxZ := z[0]
	for _, v := range z[1:] {
		if v > maxZ {
			maxZ = v
		}
	}

	sumExp := float32(0.0)
	for _, v := range z {
		sumExp += math32.Exp(v - maxZ)
	}
	logSumExp := maxZ + math32.Log(sumExp)

	result := make([]float32, len(z))
	for i, v := range z {
		result[i] = v - logSumExp
	}
	return result
}

// softmax computes softmax(z) = exp(LogSoftmax(z)).
func softmax(z []float32) []float32 {
	logProbs := logSoftmax(z)
	result := make([]float32, len(logProbs))
	for i, lp := range logProbs {
		result[i] = math32.Exp(lp)
	}
	return result
}

// Probabilities maps a batch of logits to per-class probability
// distributions via exp(LogSoftmax), for inference and display.
// Each output row sums to 1.
func Probabilities(logits *tensor.Tensor) *tensor.Tensor {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Probabilities: logits must be 2D [batch_size, num_classes], got %v", shape))
	}

	out := tensor.Zeros(shape)
	for b := 0; b < shape[0]; b++ {
		copy(out.Row(b), softmax(logits.Row(b)))
	}
	return out
}

// argmax returns the index of the maximum value in the slice.
func argmax(z []float32) int {
	maxIdx := 0
	maxVal := z[0]
	for i, v := range z[1:] {
		if v > maxVal {
			maxVal = v
			maxIdx = i + 1
		}
	}
	return maxIdx
}

// Predict returns the argmax class index for every row of logits.
func Predict(logits *tensor.Tensor) []int {
	shape := logits.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("Predict: logits must be 2D [batch_size, num_classes], got %v", shape))
	}
	preds := make([]int, shape[0])
	for b := range preds {
		preds[b] = argmax(logits.Row(b))
	}
	return preds
}

// Accuracy computes classification accuracy for a batch.
//
// Returns the fraction of rows whose argmax logit matches the target,
// as a float between 0 and 1.
func Accuracy(logits *tensor.Tensor, targets []int) float32 {
	batchSize, _ := checkLossShapes(logits, targets)

	correct := 0
	for b := 0; b < batchSize; b++ {
		if argmax(logits.Row(b)) == targets[b] {
			correct++
		}
	}
	return float32(correct) / float32(batchSize)
}
