package cpu

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/strider/internal/parallel"
	"github.com/born-ml/strider/internal/tensor"
)

// MatMul performs matrix multiplication.
// For 2D tensors: (M, K) @ (K, N) -> (M, N)
// Float dtypes go through gonum SGEMM. Integer dtypes accumulate in int64
// and saturate into the result dtype.
func (cpu *CPUBackend[V]) MatMul(a, b tensor.Data[V]) (*tensor.Dense[V], error) {
	if a == nil || b == nil {
		return nil, errors.Wrap(tensor.ErrInvalidArgument, "matmul: nil operand")
	}
	aShape := a.Shape()
	bShape := b.Shape()

	if aShape.Rank() != 2 || bShape.Rank() != 2 {
		return nil, errors.Wrapf(tensor.ErrNotSupported, "matmul: only 2D tensors supported, got %dD and %dD", aShape.Rank(), bShape.Rank())
	}
	dt := a.Dtype()
	if b.Dtype() != dt {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "matmul: dtypes %s and %s differ", dt, b.Dtype())
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n)
	}

	av, err := resolve(a)
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}
	bv, err := resolve(b)
	if err != nil {
		return nil, errors.Wrap(err, "matmul")
	}

	var out []V
	if dt.IsFloat() {
		out = matmulFloat[V](av, bv, m, k, n)
	} else {
		out = cpu.matmulInt(dt, av, bv, m, k, n)
	}
	return tensor.NewDense(dt, tensor.Shape{m, n}, out)
}

// asFloat32 returns values as a float32 slice, aliasing when V is float32.
func asFloat32[V tensor.Value](values []V) []float32 {
	if f, ok := any(values).([]float32); ok {
		return f
	}
	f := make([]float32, len(values))
	for i, v := range values {
		f[i] = float32(v)
	}
	return f
}

// matmulFloat computes C = A @ B with blas32.Gemm.
func matmulFloat[V tensor.Value](a, b []V, m, k, n int) []V {
	c := make([]float32, m*n)
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
		blas32.General{Rows: m, Cols: k, Stride: k, Data: asFloat32(a)},
		blas32.General{Rows: k, Cols: n, Stride: n, Data: asFloat32(b)},
		0,
		blas32.General{Rows: m, Cols: n, Stride: n, Data: c},
	)
	if out, ok := any(c).([]V); ok {
		return out
	}
	out := make([]V, len(c))
	for i, v := range c {
		out[i] = V(v)
	}
	return out
}

// matmulInt computes C[i,j] = sum_k A[i,k] * B[k,j] with an int64
// accumulator. Rows are distributed across workers.
func (cpu *CPUBackend[V]) matmulInt(dt tensor.Dtype, a, b []V, m, k, n int) []V {
	c := make([]V, m*n)
	parallel.For(m, func(i int) {
		row := a[i*k : (i+1)*k]
		for j := 0; j < n; j++ {
			var sum int64
			for kIdx, av := range row {
				sum += int64(av) * int64(b[kIdx*n+j])
			}
			c[i*n+j] = tensor.FromFloat64[V](dt, float64(sum))
		}
	}, cpu.cfg)
	return c
}
