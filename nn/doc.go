// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn implements the layers and loss for the digit classifier.
//
// Layers are plain records, not a module hierarchy: each holds its
// parameters, a Forward method that caches whatever the backward pass
// needs, and a Backward method that fills the parameter gradient buffers
// and returns the gradient flowing to the previous layer. A Network is an
// ordered list of layers walked forward and then in reverse; there is no
// tape and no implicit gradient accumulation. Gradient buffers must be
// zeroed (Network.ZeroGrad) before every Backward call.
//
// Building the standard MNIST baseline:
//
//	rng := rand.New(rand.NewSource(1))
//	net := nn.NewNetwork(
//	    nn.NewLinear(784, 128, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10, rng),
//	)
//	logits := net.Forward(images)              // [batch, 10]
//	loss := nn.NewCrossEntropy().Forward(logits, labels)
package nn
