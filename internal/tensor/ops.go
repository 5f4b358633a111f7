package tensor

// Add performs element-wise addition of tensors with identical shapes.
//
// Example:
//
//	c, err := a.Add(b)
func (t *Tensor[V, B]) Add(other *Tensor[V, B]) (*Tensor[V, B], error) {
	d, err := t.backend.Add(t.data, other.data)
	return wrapDense(d, t.backend, err)
}

// Sub performs element-wise subtraction.
func (t *Tensor[V, B]) Sub(other *Tensor[V, B]) (*Tensor[V, B], error) {
	d, err := t.backend.Sub(t.data, other.data)
	return wrapDense(d, t.backend, err)
}

// Mul performs element-wise multiplication.
func (t *Tensor[V, B]) Mul(other *Tensor[V, B]) (*Tensor[V, B], error) {
	d, err := t.backend.Mul(t.data, other.data)
	return wrapDense(d, t.backend, err)
}

// Div performs element-wise division.
func (t *Tensor[V, B]) Div(other *Tensor[V, B]) (*Tensor[V, B], error) {
	d, err := t.backend.Div(t.data, other.data)
	return wrapDense(d, t.backend, err)
}

// AddScalar adds s to every element. s is converted to the tensor's value type.
func (t *Tensor[V, B]) AddScalar(s float64) (*Tensor[V, B], error) {
	d, err := t.backend.AddScalar(t.data, s)
	return wrapDense(d, t.backend, err)
}

// SubScalar subtracts s from every element.
func (t *Tensor[V, B]) SubScalar(s float64) (*Tensor[V, B], error) {
	d, err := t.backend.SubScalar(t.data, s)
	return wrapDense(d, t.backend, err)
}

// MulScalar multiplies every element by s.
func (t *Tensor[V, B]) MulScalar(s float64) (*Tensor[V, B], error) {
	d, err := t.backend.MulScalar(t.data, s)
	return wrapDense(d, t.backend, err)
}

// DivScalar divides every element by s.
func (t *Tensor[V, B]) DivScalar(s float64) (*Tensor[V, B], error) {
	d, err := t.backend.DivScalar(t.data, s)
	return wrapDense(d, t.backend, err)
}

// MatMul performs matrix multiplication.
//
// Requirements:
//   - Both tensors rank 2: (M, K) @ (K, N) → (M, N)
func (t *Tensor[V, B]) MatMul(other *Tensor[V, B]) (*Tensor[V, B], error) {
	d, err := t.backend.MatMul(t.data, other.data)
	return wrapDense(d, t.backend, err)
}

// ReLU applies max(0, x).
func (t *Tensor[V, B]) ReLU() (*Tensor[V, B], error) {
	d, err := t.backend.ReLU(t.data)
	return wrapDense(d, t.backend, err)
}

// Sigmoid applies 1 / (1 + exp(-x)).
func (t *Tensor[V, B]) Sigmoid() (*Tensor[V, B], error) {
	d, err := t.backend.Sigmoid(t.data)
	return wrapDense(d, t.backend, err)
}

// Tanh applies the hyperbolic tangent.
func (t *Tensor[V, B]) Tanh() (*Tensor[V, B], error) {
	d, err := t.backend.Tanh(t.data)
	return wrapDense(d, t.backend, err)
}

// SiLU applies x * sigmoid(x).
func (t *Tensor[V, B]) SiLU() (*Tensor[V, B], error) {
	d, err := t.backend.SiLU(t.data)
	return wrapDense(d, t.backend, err)
}

// GELU applies the exact (erf based) Gaussian error linear unit.
func (t *Tensor[V, B]) GELU() (*Tensor[V, B], error) {
	d, err := t.backend.GELU(t.data)
	return wrapDense(d, t.backend, err)
}

// Softmax normalizes along dim (negative dims count from the end).
func (t *Tensor[V, B]) Softmax(dim int) (*Tensor[V, B], error) {
	d, err := t.backend.Softmax(t.data, dim)
	return wrapDense(d, t.backend, err)
}
