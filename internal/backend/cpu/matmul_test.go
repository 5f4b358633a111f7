package cpu

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strider/internal/tensor"
)

func TestCPUBackend_MatMul(t *testing.T) {
	backend := New[float32]()

	// [[1, 2, 3],    [[7,  8],     [[58,  64],
	//  [4, 5, 6]]  @  [9, 10],  =   [139, 154]]
	//                 [11, 12]]
	a := dense[float32](t, tensor.FP32, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	b := dense[float32](t, tensor.FP32, tensor.Shape{3, 2}, 7, 8, 9, 10, 11, 12)

	out, err := backend.MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.InDeltaSlice(t, []float32{58, 64, 139, 154}, out.Values(), 1e-4)
}

func TestCPUBackend_MatMulTransposedOperand(t *testing.T) {
	backend := New[float32]()
	a := dense[float32](t, tensor.FP32, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)

	at, err := tensor.Transpose[float32](a)
	require.NoError(t, err)

	// A^T @ A is (3, 3) and symmetric.
	out, err := backend.MatMul(at, a)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{
		17, 22, 27,
		22, 29, 36,
		27, 36, 45,
	}, out.Values(), 1e-4)
}

func TestCPUBackend_MatMulInt(t *testing.T) {
	i32 := New[int32]()
	a := dense[int32](t, tensor.Int32, tensor.Shape{2, 2}, 1, 2, 3, 4)
	b := dense[int32](t, tensor.Int32, tensor.Shape{2, 2}, 5, 6, 7, 8)
	out, err := i32.MatMul(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int32{19, 22, 43, 50}, out.Values())

	// Int8 accumulates wide then saturates.
	i8 := New[int8]()
	x := dense[int8](t, tensor.Int8, tensor.Shape{1, 2}, 100, 100)
	y := dense[int8](t, tensor.Int8, tensor.Shape{2, 1}, 1, -1)
	z := dense[int8](t, tensor.Int8, tensor.Shape{2, 1}, 100, 1)

	diff, err := i8.MatMul(x, y)
	require.NoError(t, err)
	assert.Equal(t, []int8{0}, diff.Values())

	big, err := i8.MatMul(x, z)
	require.NoError(t, err)
	assert.Equal(t, []int8{127}, big.Values())
}

func TestCPUBackend_MatMulErrors(t *testing.T) {
	backend := New[float32]()
	a := dense[float32](t, tensor.FP32, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	b := dense[float32](t, tensor.FP32, tensor.Shape{2, 3}, 1, 2, 3, 4, 5, 6)
	v := dense[float32](t, tensor.FP32, tensor.Shape{3}, 1, 2, 3)

	_, err := backend.MatMul(a, b)
	assert.True(t, errors.Is(err, tensor.ErrInvalidArgument))

	_, err = backend.MatMul(a, v)
	assert.True(t, errors.Is(err, tensor.ErrNotSupported))
}
