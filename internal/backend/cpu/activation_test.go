package cpu

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strider/internal/tensor"
)

func TestCPUBackend_Activations(t *testing.T) {
	backend := New[float32]()
	x := dense[float32](t, tensor.FP32, tensor.Shape{4}, -2, -0.5, 0, 1.5)

	sigmoid := func(v float64) float64 { return 1 / (1 + math.Exp(-v)) }
	gelu := func(v float64) float64 { return 0.5 * v * (1 + math.Erf(v/math.Sqrt2)) }

	tests := []struct {
		name string
		op   func(tensor.Data[float32]) (*tensor.Dense[float32], error)
		ref  func(float64) float64
	}{
		{"ReLU", backend.ReLU, func(v float64) float64 { return math.Max(v, 0) }},
		{"Sigmoid", backend.Sigmoid, sigmoid},
		{"Tanh", backend.Tanh, math.Tanh},
		{"SiLU", backend.SiLU, func(v float64) float64 { return v * sigmoid(v) }},
		{"GELU", backend.GELU, gelu},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.op(x)
			require.NoError(t, err)
			for i, v := range x.Values() {
				assert.InDelta(t, tt.ref(float64(v)), float64(out.Values()[i]), 1e-5, "element %d", i)
			}
		})
	}
}

func TestCPUBackend_IntActivations(t *testing.T) {
	backend := New[int8]()
	x := dense[int8](t, tensor.Int8, tensor.Shape{4}, -3, 0, 5, -128)

	out, err := backend.ReLU(x)
	require.NoError(t, err)
	assert.Equal(t, []int8{0, 0, 5, 0}, out.Values())

	for _, op := range []func(tensor.Data[int8]) (*tensor.Dense[int8], error){
		backend.Sigmoid, backend.Tanh, backend.SiLU, backend.GELU,
	} {
		_, err := op(x)
		assert.True(t, errors.Is(err, tensor.ErrNotSupported))
	}
	_, err = backend.Softmax(x, -1)
	assert.True(t, errors.Is(err, tensor.ErrNotSupported))
}

func TestCPUBackend_Softmax(t *testing.T) {
	backend := New[float32]()
	x := dense[float32](t, tensor.FP32, tensor.Shape{2, 3}, 1, 2, 3, 1, 1, 1)

	out, err := backend.Softmax(x, -1)
	require.NoError(t, err)
	vals := out.Values()

	e1, e2, e3 := math.Exp(1), math.Exp(2), math.Exp(3)
	sum := e1 + e2 + e3
	assert.InDeltaSlice(t, []float32{
		float32(e1 / sum), float32(e2 / sum), float32(e3 / sum),
		1.0 / 3, 1.0 / 3, 1.0 / 3,
	}, vals, 1e-6)

	cols, err := backend.Softmax(x, 0)
	require.NoError(t, err)
	for j := 0; j < 3; j++ {
		assert.InDelta(t, 1.0, float64(cols.Values()[j]+cols.Values()[3+j]), 1e-6)
	}

	_, err = backend.Softmax(x, 2)
	assert.True(t, errors.Is(err, tensor.ErrInvalidArgument))
}

func TestCPUBackend_SoftmaxStable(t *testing.T) {
	backend := New[float32]()
	x := dense[float32](t, tensor.FP32, tensor.Shape{3}, 1000, 1000, 1000)
	out, err := backend.Softmax(x, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1.0 / 3, 1.0 / 3, 1.0 / 3}, out.Values(), 1e-6)
}
