package cpu

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/born-ml/strider/internal/parallel"
	"github.com/born-ml/strider/internal/tensor"
)

var invSqrt2 = 1 / math32.Sqrt(2)

// ReLU computes max(0, x). Supported for every dtype.
func (cpu *CPUBackend[V]) ReLU(x tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.unary("relu", x, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Sigmoid computes 1 / (1 + exp(-x)).
func (cpu *CPUBackend[V]) Sigmoid(x tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.activation("sigmoid", x, func(v float32) float32 {
		return 1 / (1 + math32.Exp(-v))
	})
}

// Tanh computes the hyperbolic tangent.
func (cpu *CPUBackend[V]) Tanh(x tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.activation("tanh", x, math32.Tanh)
}

// SiLU computes x * sigmoid(x).
func (cpu *CPUBackend[V]) SiLU(x tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.activation("silu", x, func(v float32) float32 {
		return v / (1 + math32.Exp(-v))
	})
}

// GELU computes the exact form 0.5 * x * (1 + erf(x / sqrt(2))).
func (cpu *CPUBackend[V]) GELU(x tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.activation("gelu", x, func(v float32) float32 {
		return 0.5 * v * (1 + math32.Erf(v*invSqrt2))
	})
}

// activation applies a float-only function element-wise.
func (cpu *CPUBackend[V]) activation(name string, x tensor.Data[V], f func(float32) float32) (*tensor.Dense[V], error) {
	if x == nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: nil operand", name)
	}
	if !x.Dtype().IsFloat() {
		return nil, errors.Wrapf(tensor.ErrNotSupported, "%s: unsupported dtype %s (only float dtypes supported)", name, x.Dtype())
	}
	src, err := resolve(x)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	dst := make([]V, len(src))
	parallel.For(len(dst), func(i int) {
		dst[i] = V(f(float32(src[i])))
	}, cpu.cfg)
	return tensor.NewDense(x.Dtype(), x.Shape(), dst)
}

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i) / sum(exp(x_j)) for all j in dimension.
func (cpu *CPUBackend[V]) Softmax(x tensor.Data[V], dim int) (*tensor.Dense[V], error) {
	if x == nil {
		return nil, errors.Wrap(tensor.ErrInvalidArgument, "softmax: nil operand")
	}
	shape := x.Shape()
	ndim := shape.Rank()

	// Normalize dimension
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "softmax: dimension %d out of range for tensor of rank %d", dim, ndim)
	}
	if !x.Dtype().IsFloat() {
		return nil, errors.Wrapf(tensor.ErrNotSupported, "softmax: unsupported dtype %s (only float dtypes supported)", x.Dtype())
	}

	src, err := resolve(x)
	if err != nil {
		return nil, errors.Wrap(err, "softmax")
	}
	dst := make([]V, len(src))
	softmaxRows(dst, src, shape, dim)
	return tensor.NewDense(x.Dtype(), shape, dst)
}

func softmaxRows[V tensor.Value](dst, src []V, shape tensor.Shape, dim int) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	// Number of "rows" (groups of elements that share softmax computation)
	numRows := shape.Volume() / dimSize

	for row := 0; row < numRows; row++ {
		// Base index for this row
		baseIdx := 0
		remaining := row
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		// Find max for numerical stability
		maxVal := math32.Inf(-1)
		for i := 0; i < dimSize; i++ {
			if v := float32(src[baseIdx+i*dimStride]); v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			e := math32.Exp(float32(src[idx]) - maxVal)
			dst[idx] = V(e)
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			dst[idx] = V(float32(dst[idx]) / sum)
		}
	}
}
