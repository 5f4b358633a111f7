package tensor

import "math"

// MockBackend is a simple backend for testing.
// It implements all operations naively, element by element through Get,
// for correctness verification against optimized backends.
type MockBackend[V Value] struct{}

// Verify that MockBackend implements Backend.
var _ Backend[float32] = (*MockBackend[float32])(nil)

// NewMockBackend creates a new MockBackend.
func NewMockBackend[V Value]() *MockBackend[V] {
	return &MockBackend[V]{}
}

// Name returns the backend name.
func (m *MockBackend[V]) Name() string {
	return "mock"
}

// Add performs element-wise addition.
func (m *MockBackend[V]) Add(a, b Data[V]) (*Dense[V], error) {
	return m.elementWise("add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction.
func (m *MockBackend[V]) Sub(a, b Data[V]) (*Dense[V], error) {
	return m.elementWise("sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication.
func (m *MockBackend[V]) Mul(a, b Data[V]) (*Dense[V], error) {
	return m.elementWise("mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division.
func (m *MockBackend[V]) Div(a, b Data[V]) (*Dense[V], error) {
	if !a.Dtype().IsFloat() {
		err := ForEachIndex(b.Shape(), func(_ int, idx []int) error {
			v, err := b.Get(idx...)
			if err == nil && v == 0 {
				return invalidf("div: integer division by zero")
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}
	return m.elementWise("div", a, b, func(x, y float64) float64 { return x / y })
}

func (m *MockBackend[V]) elementWise(name string, a, b Data[V], op func(x, y float64) float64) (*Dense[V], error) {
	if !a.Shape().Equal(b.Shape()) || a.Dtype() != b.Dtype() {
		return nil, invalidf("%s: operands %s%v and %s%v differ", name, a.Dtype(), a.Shape(), b.Dtype(), b.Shape())
	}
	dt := a.Dtype()
	out := make([]V, a.Shape().Volume())
	err := ForEachIndex(a.Shape(), func(linear int, idx []int) error {
		x, err := a.Get(idx...)
		if err != nil {
			return err
		}
		y, err := b.Get(idx...)
		if err != nil {
			return err
		}
		out[linear] = FromFloat64[V](dt, op(float64(x), float64(y)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewDense(dt, a.Shape().Clone(), out)
}

func (m *MockBackend[V]) mapValues(x Data[V], op func(v float64) float64) (*Dense[V], error) {
	dt := x.Dtype()
	out := make([]V, x.Shape().Volume())
	err := ForEachIndex(x.Shape(), func(linear int, idx []int) error {
		v, err := x.Get(idx...)
		if err != nil {
			return err
		}
		out[linear] = FromFloat64[V](dt, op(float64(v)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewDense(dt, x.Shape().Clone(), out)
}

// AddScalar adds a scalar to every element.
func (m *MockBackend[V]) AddScalar(x Data[V], s float64) (*Dense[V], error) {
	c := float64(FromFloat64[V](x.Dtype(), s))
	return m.mapValues(x, func(v float64) float64 { return v + c })
}

// SubScalar subtracts a scalar from every element.
func (m *MockBackend[V]) SubScalar(x Data[V], s float64) (*Dense[V], error) {
	c := float64(FromFloat64[V](x.Dtype(), s))
	return m.mapValues(x, func(v float64) float64 { return v - c })
}

// MulScalar multiplies every element by a scalar.
func (m *MockBackend[V]) MulScalar(x Data[V], s float64) (*Dense[V], error) {
	c := float64(FromFloat64[V](x.Dtype(), s))
	return m.mapValues(x, func(v float64) float64 { return v * c })
}

// DivScalar divides every element by a scalar.
func (m *MockBackend[V]) DivScalar(x Data[V], s float64) (*Dense[V], error) {
	c := float64(FromFloat64[V](x.Dtype(), s))
	if c == 0 && !x.Dtype().IsFloat() {
		return nil, invalidf("div_scalar: integer division by zero")
	}
	return m.mapValues(x, func(v float64) float64 { return v / c })
}

// MatMul performs naive matrix multiplication.
func (m *MockBackend[V]) MatMul(a, b Data[V]) (*Dense[V], error) {
	as, bs := a.Shape(), b.Shape()
	if as.Rank() != 2 || bs.Rank() != 2 {
		return nil, unsupportedf("matmul: only 2D tensors supported, got %dD and %dD", as.Rank(), bs.Rank())
	}
	if as[1] != bs[0] || a.Dtype() != b.Dtype() {
		return nil, invalidf("matmul: shape mismatch %v @ %v", as, bs)
	}
	rows, inner, cols := as[0], as[1], bs[1]
	out := make([]V, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float64
			for k := 0; k < inner; k++ {
				x, err := a.Get(i, k)
				if err != nil {
					return nil, err
				}
				y, err := b.Get(k, j)
				if err != nil {
					return nil, err
				}
				sum += float64(x) * float64(y)
			}
			out[i*cols+j] = FromFloat64[V](a.Dtype(), sum)
		}
	}
	return NewDense(a.Dtype(), Shape{rows, cols}, out)
}

// ReLU computes max(0, x).
func (m *MockBackend[V]) ReLU(x Data[V]) (*Dense[V], error) {
	return m.mapValues(x, func(v float64) float64 { return math.Max(v, 0) })
}

func (m *MockBackend[V]) floatOnly(name string, x Data[V], op func(v float64) float64) (*Dense[V], error) {
	if !x.Dtype().IsFloat() {
		return nil, unsupportedf("%s: unsupported dtype %s", name, x.Dtype())
	}
	return m.mapValues(x, op)
}

// Sigmoid computes 1 / (1 + exp(-x)).
func (m *MockBackend[V]) Sigmoid(x Data[V]) (*Dense[V], error) {
	return m.floatOnly("sigmoid", x, func(v float64) float64 { return 1 / (1 + math.Exp(-v)) })
}

// Tanh computes the hyperbolic tangent.
func (m *MockBackend[V]) Tanh(x Data[V]) (*Dense[V], error) {
	return m.floatOnly("tanh", x, math.Tanh)
}

// SiLU computes x * sigmoid(x).
func (m *MockBackend[V]) SiLU(x Data[V]) (*Dense[V], error) {
	return m.floatOnly("silu", x, func(v float64) float64 { return v / (1 + math.Exp(-v)) })
}

// GELU computes 0.5 * x * (1 + erf(x / sqrt(2))).
func (m *MockBackend[V]) GELU(x Data[V]) (*Dense[V], error) {
	return m.floatOnly("gelu", x, func(v float64) float64 { return 0.5 * v * (1 + math.Erf(v/math.Sqrt2)) })
}

// Softmax normalizes along dim.
func (m *MockBackend[V]) Softmax(x Data[V], dim int) (*Dense[V], error) {
	shape := x.Shape()
	if dim < 0 {
		dim += shape.Rank()
	}
	if dim < 0 || dim >= shape.Rank() {
		return nil, invalidf("softmax: dimension %d out of range for rank %d", dim, shape.Rank())
	}
	if !x.Dtype().IsFloat() {
		return nil, unsupportedf("softmax: unsupported dtype %s", x.Dtype())
	}
	dense, err := x.Materialize()
	if err != nil {
		return nil, err
	}
	src := dense.Values()
	out := make([]V, len(src))
	strides := shape.ComputeStrides()
	err = ForEachIndex(shape, func(linear int, idx []int) error {
		if idx[dim] != 0 {
			return nil
		}
		maxVal := math.Inf(-1)
		for k := 0; k < shape[dim]; k++ {
			maxVal = math.Max(maxVal, float64(src[linear+k*strides[dim]]))
		}
		var sum float64
		for k := 0; k < shape[dim]; k++ {
			sum += math.Exp(float64(src[linear+k*strides[dim]]) - maxVal)
		}
		for k := 0; k < shape[dim]; k++ {
			p := linear + k*strides[dim]
			out[p] = V(math.Exp(float64(src[p])-maxVal) / sum)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewDense(x.Dtype(), shape.Clone(), out)
}
