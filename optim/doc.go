// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim implements the parameter update rule for training.
//
// The only optimizer is plain stochastic gradient descent:
//
//	param = param - lr * gradient
//
// applied element-wise and in place. No momentum, no adaptive scaling.
// Step refuses to apply a non-finite gradient: a NaN or Inf gradient
// means the run is already broken and updating would silently corrupt
// the parameters.
package optim
