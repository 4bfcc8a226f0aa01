package tensor

import (
	"fmt"

	"github.com/klauspost/cpuid/v2"

	"github.com/born-ml/digit/internal/parallel"
)

// kBlock is the inner-dimension tile for matmul, sized so a tile of B's
// rows stays resident in L1d between passes over a row of A.
var kBlock = pickKBlock()

func pickKBlock() int {
	l1 := cpuid.CPU.Cache.L1D
	if l1 <= 0 {
		return 256
	}
	// Half of L1d worth of float32 rows, clamped to a sane range.
	b := l1 / 2 / 4 / 64
	if b < 64 {
		b = 64
	}
	if b > 1024 {
		b = 1024
	}
	return b
}

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
//
// Rows of the result are computed in parallel; within a row the inner
// dimension is tiled (i-k-j order) so B is streamed through cache.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	aShape := t.shape
	bShape := other.shape

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	out := Zeros(Shape{m, n})
	a, b, c := t.data, other.data, out.data

	parallel.For(m, func(i int) {
		cRow := c[i*n : (i+1)*n]
		aRow := a[i*k : (i+1)*k]
		for k0 := 0; k0 < k; k0 += kBlock {
			kEnd := min(k0+kBlock, k)
			for kk := k0; kk < kEnd; kk++ {
				av := aRow[kk]
				bRow := b[kk*n : (kk+1)*n]
				for j, bv := range bRow {
					cRow[j] += av * bv
				}
			}
		}
	}, parallel.DefaultConfig())

	return out
}
