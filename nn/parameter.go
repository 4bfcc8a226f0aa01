package nn

import (
	"github.com/born-ml/digit/tensor"
)

// Parameter is a trainable tensor (a layer weight or bias) together with
// its gradient buffer.
//
// The gradient buffer has the same shape as the value, is allocated once,
// and is reused across steps: ZeroGrad resets it before each backward pass
// so a step never sees gradients left over from the previous batch.
type Parameter struct {
	name  string
	value *tensor.Tensor
	grad  *tensor.Tensor
}

// NewParameter creates a trainable parameter around an initialized tensor.
// The gradient buffer starts zeroed.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
		grad:  tensor.Zeros(value.Shape()),
	}
}

// Name returns the parameter name (e.g. "weight", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter tensor. Mutated in place by the optimizer.
func (p *Parameter) Value() *tensor.Tensor {
	return p.value
}

// Grad returns the gradient buffer.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// ZeroGrad resets the gradient buffer to zeros in place.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}
