package optim

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/born-ml/digit/nn"
)

// SGD implements stochastic gradient descent without momentum.
//
// Example:
//
//	opt, err := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.1})
//	...
//	net.ZeroGrad()
//	net.Backward(criterion.Backward(logits, labels))
//	if err := opt.Step(); err != nil {
//	    // non-finite gradient, abort the run
//	}
type SGD struct {
	params []*nn.Parameter
	lr     float32
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR float32 // Learning rate. Must be positive and finite.
}

// NewSGD creates a new SGD optimizer over the given parameters.
//
// Returns an error if the learning rate is not a positive finite real.
func NewSGD(params []*nn.Parameter, config SGDConfig) (*SGD, error) {
	if math32.IsNaN(config.LR) || math32.IsInf(config.LR, 0) {
		return nil, fmt.Errorf("sgd: learning rate must be finite, got %v", config.LR)
	}
	if config.LR <= 0 {
		return nil, fmt.Errorf("sgd: learning rate must be > 0, got %v", config.LR)
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("sgd: no parameters to optimize")
	}
	return &SGD{params: params, lr: config.LR}, nil
}

// Step applies one gradient descent update to every parameter in place:
//
//	param -= lr * grad
//
// If any gradient contains NaN or Inf, no parameter is touched and an
// error is returned; the caller should halt training.
func (s *SGD) Step() error {
	for _, param := range s.params {
		if !param.Grad().AllFinite() {
			return fmt.Errorf("sgd: non-finite gradient for parameter %q", param.Name())
		}
	}

	for _, param := range s.params {
		value := param.Value().Data()
		grad := param.Grad().Data()
		for i := range value {
			value[i] -= s.lr * grad[i]
		}
	}
	return nil
}

// ZeroGrad clears the gradient buffers of all parameters.
func (s *SGD) ZeroGrad() {
	for _, param := range s.params {
		param.ZeroGrad()
	}
}

// LR returns the learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}
