package nn

import (
	"github.com/born-ml/digit/tensor"
)

// ReLU is a Rectified Linear Unit activation layer.
//
// Applies the element-wise function: f(x) = max(0, x)
//
// ReLU has no trainable parameters; its backward pass passes gradients
// through where the pre-activation input was positive and zeroes them
// where it was zero or negative.
type ReLU struct {
	// Pre-activation input from the most recent Forward, retained so
	// Backward can rebuild the pass-through mask.
	input *tensor.Tensor
}

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies ReLU activation: f(x) = max(0, x).
func (r *ReLU) Forward(input *tensor.Tensor) *tensor.Tensor {
	r.input = input

	out := tensor.Zeros(input.Shape())
	src, dst := input.Data(), out.Data()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return out
}

// Backward masks the incoming gradient with the sign of the cached input.
func (r *ReLU) Backward(grad *tensor.Tensor) *tensor.Tensor {
	if r.input == nil {
		panic("ReLU.Backward: called before Forward")
	}
	if !grad.Shape().Equal(r.input.Shape()) {
		panic("ReLU.Backward: gradient shape does not match cached input shape")
	}

	out := tensor.Zeros(grad.Shape())
	src, in, dst := grad.Data(), r.input.Data(), out.Data()
	for i := range src {
		if in[i] > 0 {
			dst[i] = src[i]
		}
	}
	return out
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []*Parameter {
	return nil
}
