package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/strider/internal/tensor"
)

// promote converts a scalar to the working precision of x's dtype.
func promote[V tensor.Value](x tensor.Data[V], s float64) float64 {
	if x == nil {
		return s
	}
	return float64(tensor.FromFloat64[V](x.Dtype(), s))
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend[V]) AddScalar(x tensor.Data[V], s float64) (*tensor.Dense[V], error) {
	c := promote(x, s)
	return cpu.unary("add_scalar", x, func(v float64) float64 { return v + c })
}

// SubScalar subtracts a scalar from every element.
func (cpu *CPUBackend[V]) SubScalar(x tensor.Data[V], s float64) (*tensor.Dense[V], error) {
	c := promote(x, s)
	return cpu.unary("sub_scalar", x, func(v float64) float64 { return v - c })
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend[V]) MulScalar(x tensor.Data[V], s float64) (*tensor.Dense[V], error) {
	c := promote(x, s)
	return cpu.unary("mul_scalar", x, func(v float64) float64 { return v * c })
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend[V]) DivScalar(x tensor.Data[V], s float64) (*tensor.Dense[V], error) {
	c := promote(x, s)
	if x != nil && !x.Dtype().IsFloat() && c == 0 {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "div_scalar: integer division by %v", s)
	}
	return cpu.unary("div_scalar", x, func(v float64) float64 { return v / c })
}
