package nn

import (
	"github.com/born-ml/digit/tensor"
)

// Layer is one record in a network: a forward/backward pair plus the
// parameters the pair reads and writes.
type Layer interface {
	// Forward computes the layer output and caches whatever the
	// backward pass needs (inputs, masks).
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Backward consumes the gradient w.r.t. the layer output, fills the
	// layer's parameter gradient buffers, and returns the gradient
	// w.r.t. the layer input.
	Backward(grad *tensor.Tensor) *tensor.Tensor

	// Parameters returns the layer's trainable parameters, empty for
	// parameter-free layers such as activations.
	Parameters() []*Parameter
}

// Network is an ordered sequence of layers.
//
// Forward runs the layers front to back; Backward runs them back to
// front, which is the whole of reverse-mode differentiation for a linear
// pipeline — no tape needed.
//
//	net := nn.NewNetwork(
//	    nn.NewLinear(784, 128, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, rng),
//	)
type Network struct {
	layers []Layer
}

// NewNetwork creates a network from layers applied in order.
func NewNetwork(layers ...Layer) *Network {
	return &Network{layers: layers}
}

// Forward applies all layers in sequence and returns the final output.
// For a classifier the output is raw logits; no nonlinearity is applied
// after the last layer.
func (n *Network) Forward(input *tensor.Tensor) *tensor.Tensor {
	output := input
	for _, layer := range n.layers {
		output = layer.Forward(output)
	}
	return output
}

// Backward propagates grad (w.r.t. the network output) through the layers
// in reverse order, filling every parameter gradient buffer.
//
// Call ZeroGrad first: each step's gradients must start from zero, never
// accumulate across batches.
func (n *Network) Backward(grad *tensor.Tensor) {
	for i := len(n.layers) - 1; i >= 0; i-- {
		grad = n.layers[i].Backward(grad)
	}
}

// Parameters returns all trainable parameters from all layers, in layer
// order.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, layer := range n.layers {
		params = append(params, layer.Parameters()...)
	}
	return params
}

// ZeroGrad zeroes every parameter gradient buffer in place.
func (n *Network) ZeroGrad() {
	for _, p := range n.Parameters() {
		p.ZeroGrad()
	}
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}
