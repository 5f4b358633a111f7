// Package cpu implements the CPU backend: element-wise arithmetic, matmul and activations.
package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/strider/internal/parallel"
	"github.com/born-ml/strider/internal/tensor"
)

// CPUBackend implements tensor operations on CPU for value type V.
type CPUBackend[V tensor.Value] struct {
	cfg parallel.Config
}

// Compile-time checks for the three value families.
var (
	_ tensor.Backend[float32] = (*CPUBackend[float32])(nil)
	_ tensor.Backend[int32]   = (*CPUBackend[int32])(nil)
	_ tensor.Backend[int8]    = (*CPUBackend[int8])(nil)
)

// New creates a new CPU backend.
func New[V tensor.Value]() *CPUBackend[V] {
	return &CPUBackend[V]{cfg: parallel.DefaultConfig()}
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig[V tensor.Value](cfg parallel.Config) *CPUBackend[V] {
	return &CPUBackend[V]{cfg: cfg}
}

// Name returns the backend name.
func (cpu *CPUBackend[V]) Name() string {
	return "CPU"
}

// resolve applies the view dispatch rule: non-dense operands are materialized.
func resolve[V tensor.Value](d tensor.Data[V]) ([]V, error) {
	if d == nil {
		return nil, errors.Wrap(tensor.ErrInvalidArgument, "nil operand")
	}
	dense, err := d.Materialize()
	if err != nil {
		return nil, err
	}
	return dense.Values(), nil
}

// Add performs element-wise addition.
func (cpu *CPUBackend[V]) Add(a, b tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.binary("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction.
func (cpu *CPUBackend[V]) Sub(a, b tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.binary("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication.
func (cpu *CPUBackend[V]) Mul(a, b tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.binary("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division. Integer division by zero is rejected.
func (cpu *CPUBackend[V]) Div(a, b tensor.Data[V]) (*tensor.Dense[V], error) {
	return cpu.binary("div", a, b, func(x, y float64) float64 { return x / y })
}

// binary runs op over matching elements of a and b. Arithmetic is carried out
// in float64, which is exact for every int32 sum and correctly rounded for
// float32; results are converted back with saturation for integer dtypes.
func (cpu *CPUBackend[V]) binary(name string, a, b tensor.Data[V], op func(x, y float64) float64) (*tensor.Dense[V], error) {
	if a == nil || b == nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: nil operand", name)
	}
	if !a.Shape().Equal(b.Shape()) {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: shapes %v and %v differ", name, a.Shape(), b.Shape())
	}
	dt := a.Dtype()
	if b.Dtype() != dt {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: dtypes %s and %s differ", name, dt, b.Dtype())
	}

	av, err := resolve(a)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	bv, err := resolve(b)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}

	if name == "div" && !dt.IsFloat() {
		for i, v := range bv {
			if v == 0 {
				return nil, errors.Wrapf(tensor.ErrInvalidArgument, "div: integer division by zero at element %d", i)
			}
		}
	}

	out := make([]V, len(av))
	parallel.For(len(out), func(i int) {
		out[i] = tensor.FromFloat64[V](dt, op(float64(av[i]), float64(bv[i])))
	}, cpu.cfg)
	return tensor.NewDense(dt, a.Shape(), out)
}

// unary maps op over every element of x.
func (cpu *CPUBackend[V]) unary(name string, x tensor.Data[V], op func(v float64) float64) (*tensor.Dense[V], error) {
	if x == nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: nil operand", name)
	}
	xv, err := resolve(x)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	dt := x.Dtype()
	out := make([]V, len(xv))
	parallel.For(len(out), func(i int) {
		out[i] = tensor.FromFloat64[V](dt, op(float64(xv[i])))
	}, cpu.cfg)
	return tensor.NewDense(dt, x.Shape(), out)
}
