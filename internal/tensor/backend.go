package tensor

// Backend defines the compute operations a Tensor delegates to.
//
// Dispatch rule for views: a backend resolves every operand that is not
// KindDense by materializing it, then computes on the flat buffer. Results are
// always new Dense data with the dtype of the first operand; operands are
// never modified.
//
// Implementations:
//   - internal/backend/cpu: pure Go, parallel over chunks, BLAS for FP32 matmul.
type Backend[V Value] interface {
	// Element-wise binary operations (identical shapes and dtypes).
	Add(a, b Data[V]) (*Dense[V], error)
	Sub(a, b Data[V]) (*Dense[V], error)
	Mul(a, b Data[V]) (*Dense[V], error)
	Div(a, b Data[V]) (*Dense[V], error)

	// Scalar operations. The scalar is converted to the tensor's value type
	// (truncated toward zero for integer dtypes).
	AddScalar(x Data[V], s float64) (*Dense[V], error)
	SubScalar(x Data[V], s float64) (*Dense[V], error)
	MulScalar(x Data[V], s float64) (*Dense[V], error)
	DivScalar(x Data[V], s float64) (*Dense[V], error)

	// MatMul multiplies rank-2 operands: (M, K) @ (K, N) -> (M, N).
	MatMul(a, b Data[V]) (*Dense[V], error)

	// Activations.
	ReLU(x Data[V]) (*Dense[V], error)
	Sigmoid(x Data[V]) (*Dense[V], error)
	Tanh(x Data[V]) (*Dense[V], error)
	SiLU(x Data[V]) (*Dense[V], error)
	GELU(x Data[V]) (*Dense[V], error)
	Softmax(x Data[V], dim int) (*Dense[V], error)

	// Name identifies the backend.
	Name() string
}
