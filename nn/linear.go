package nn

import (
	"fmt"
	"math/rand"

	"github.com/born-ml/digit/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [in_features, out_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// The weight is stored input-major so the forward pass needs no transpose.
// Weights are initialized using Xavier/Glorot initialization, biases to
// zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [in_features, out_features]
	bias        *Parameter // [out_features]

	// Input from the most recent Forward, retained for Backward.
	input *tensor.Tensor
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weightShape := tensor.Shape{inFeatures, outFeatures}
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, weightShape, rng))
	bias := NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures}))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W + b and caches x for the backward pass.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D input [batch, features], got shape %v", inputShape))
	}
	if inputShape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, inputShape[1]))
	}

	l.input = input

	// [batch, in] @ [in, out] = [batch, out], then broadcast bias over rows.
	return input.MatMul(l.weight.Value()).AddRow(l.bias.Value())
}

// Backward consumes the gradient w.r.t. this layer's output and fills the
// parameter gradient buffers:
//
//	dW = xᵀ @ grad          [in_features, out_features]
//	db = column-sum of grad [out_features]
//
// Returns the gradient w.r.t. this layer's input:
//
//	dx = grad @ Wᵀ          [batch_size, in_features]
//
// The gradient buffers must have been zeroed since the previous step
// (Network.ZeroGrad); Backward overwrites them.
func (l *Linear) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if l.input == nil {
		panic("Linear.Backward: called before Forward")
	}
	gradShape := grad.Shape()
	if len(gradShape) != 2 || gradShape[0] != l.input.Shape()[0] || gradShape[1] != l.outFeatures {
		panic(fmt.Sprintf("Linear.Backward: expected gradient shape [%d %d], got %v",
			l.input.Shape()[0], l.outFeatures, gradShape))
	}

	dw := l.input.Transpose().MatMul(grad)
	copy(l.weight.Grad().Data(), dw.Data())

	db := grad.ColSum()
	copy(l.bias.Grad().Data(), db.Data())

	return grad.MatMul(l.weight.Value().Transpose())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
