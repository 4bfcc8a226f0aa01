// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides a dense float32 tensor for the digit classifier.
//
// The package is deliberately small: one concrete type, row-major storage,
// CPU only. There is no dtype dispatch and no backend abstraction; every
// operation the training pipeline needs (matrix multiply, transpose,
// row-broadcast add, column sum) is implemented directly on []float32.
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	y := x.Transpose() // shape [3, 2]
package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Tensor is a dense float32 tensor with row-major storage.
type Tensor struct {
	data  []float32
	shape Shape
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		data:  make([]float32, shape.NumElements()),
		shape: shape.Clone(),
	}, nil
}

// Zeros creates a zero-filled tensor, panicking on an invalid shape.
//
// Use New when the shape comes from untrusted input.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float32) *Tensor {
	t := Zeros(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// FromSlice creates a tensor backed by a copy of data.
//
// Returns an error if len(data) does not match the shape's element count.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t := &Tensor{
		data:  make([]float32, len(data)),
		shape: shape.Clone(),
	}
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Data returns the underlying float32 slice.
// Mutations are visible to every holder of the tensor.
func (t *Tensor) Data() []float32 {
	return t.data
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Rows returns the first dimension of a 2D tensor.
func (t *Tensor) Rows() int {
	t.require2D("Rows")
	return t.shape[0]
}

// Cols returns the second dimension of a 2D tensor.
func (t *Tensor) Cols() int {
	t.require2D("Cols")
	return t.shape[1]
}

// At returns the element at row i, column j of a 2D tensor.
func (t *Tensor) At(i, j int) float32 {
	t.require2D("At")
	return t.data[i*t.shape[1]+j]
}

// Set assigns the element at row i, column j of a 2D tensor.
func (t *Tensor) Set(i, j int, v float32) {
	t.require2D("Set")
	t.data[i*t.shape[1]+j] = v
}

// Row returns the i-th row of a 2D tensor as a sub-slice of the backing data.
func (t *Tensor) Row(i int) []float32 {
	t.require2D("Row")
	n := t.shape[1]
	return t.data[i*n : (i+1)*n]
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		data:  make([]float32, len(t.data)),
		shape: t.shape.Clone(),
	}
	copy(c.data, t.data)
	return c
}

// Zero resets every element to 0 in place.
func (t *Tensor) Zero() {
	for i := range t.data {
		t.data[i] = 0
	}
}

// AllFinite reports whether every element is neither NaN nor Inf.
func (t *Tensor) AllFinite() bool {
	for _, v := range t.data {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (t *Tensor) require2D(op string) {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor.%s: expected 2D tensor, got shape %v", op, t.shape))
	}
}
