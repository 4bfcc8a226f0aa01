package tensor

import "fmt"

// Transpose returns a new 2D tensor with rows and columns swapped.
func (t *Tensor) Transpose() *Tensor {
	t.require2D("Transpose")
	m, n := t.shape[0], t.shape[1]
	out := Zeros(Shape{n, m})
	for i := 0; i < m; i++ {
		row := t.data[i*n : (i+1)*n]
		for j, v := range row {
			out.data[j*m+i] = v
		}
	}
	return out
}

// AddRow returns t + row, broadcasting a [n]-shaped vector over every
// row of a [m, n]-shaped tensor. Used for bias addition.
func (t *Tensor) AddRow(row *Tensor) *Tensor {
	t.require2D("AddRow")
	if len(row.shape) != 1 || row.shape[0] != t.shape[1] {
		panic(fmt.Sprintf("tensor.AddRow: expected row shape [%d], got %v", t.shape[1], row.shape))
	}
	m, n := t.shape[0], t.shape[1]
	out := Zeros(Shape{m, n})
	for i := 0; i < m; i++ {
		src := t.data[i*n : (i+1)*n]
		dst := out.data[i*n : (i+1)*n]
		for j := range src {
			dst[j] = src[j] + row.data[j]
		}
	}
	return out
}

// ColSum reduces a [m, n]-shaped tensor to a [n]-shaped vector by summing
// over rows. Used for the bias gradient.
func (t *Tensor) ColSum() *Tensor {
	t.require2D("ColSum")
	m, n := t.shape[0], t.shape[1]
	out := Zeros(Shape{n})
	for i := 0; i < m; i++ {
		row := t.data[i*n : (i+1)*n]
		for j, v := range row {
			out.data[j] += v
		}
	}
	return out
}

// Scale returns t with every element multiplied by s.
func (t *Tensor) Scale(s float32) *Tensor {
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}
