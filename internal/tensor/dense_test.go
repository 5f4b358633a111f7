package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i + 1)
	}
	return out
}

func TestDenseGet(t *testing.T) {
	d := Must(NewDense(FP32, Shape{2, 3}, seq(6)))

	v, err := d.Get(1, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(6), v)

	_, err = d.Get(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = d.Get(0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestNewDenseValidation(t *testing.T) {
	_, err := NewDense(FP32, Shape{2, 3}, seq(5))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDense[float32](FP32, Shape{0, 3}, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDense(Int4, Shape{2}, []int8{7, 8})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDense(Ternary, Shape{3}, []int8{-1, 0, 2})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewDense(Int8, Shape{1}, []float32{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDenseSliceRows(t *testing.T) {
	d := Must(NewDense(FP32, Shape{2, 3}, seq(6)))

	row, err := d.Slice(1, 2, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, KindDense, row.Kind())
	assert.Equal(t, Shape{1, 3}, row.Shape())
	assert.Equal(t, 3, row.Offset())

	dense, err := row.Materialize()
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 5, 6}, dense.Values())
}

func TestDenseSliceColumns(t *testing.T) {
	d := Must(NewDense(FP32, Shape{2, 3}, seq(6)))

	cols, err := d.Slice(0, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, KindSliced, cols.Kind())
	assert.False(t, cols.IsContiguous())

	out := make([]float32, 4)
	require.NoError(t, cols.CopyTo(out, 0))
	assert.Equal(t, []float32{2, 3, 5, 6}, out)

	_, err = d.Slice(0, 2, 2, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = d.Slice(0, 3, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = d.Slice(0, 2)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestDenseCopyTo(t *testing.T) {
	d := Must(NewDense(Int32, Shape{3}, []int32{7, 8, 9}))

	dst := make([]int32, 5)
	require.NoError(t, d.CopyTo(dst, 2))
	assert.Equal(t, []int32{0, 0, 7, 8, 9}, dst)

	assert.ErrorIs(t, d.CopyTo(dst, 3), ErrInvalidArgument)
	assert.ErrorIs(t, d.CopyTo(dst, -1), ErrInvalidArgument)
}

func TestDenseMaterializeIsIdentity(t *testing.T) {
	d := Must(NewDense(FP32, Shape{2, 3}, seq(6)))
	m, err := d.Materialize()
	require.NoError(t, err)
	assert.Same(t, d, m)
}

func TestDenseBytes(t *testing.T) {
	d := Must(NewDense(Int4, Shape{5}, []int8{-8, -1, 0, 1, 7}))
	b, err := d.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x8F, 0x01, 0x70}, b)

	back, err := FromBytes[int8](Int4, Shape{5}, b)
	require.NoError(t, err)
	assert.Equal(t, d.Values(), back.Values())
}

func TestFP16ValuesSurviveRoundTrip(t *testing.T) {
	src := []float32{0.1, 1, -2.3, 65504}
	d, err := FromSlice(FP16, Shape{4}, src)
	require.NoError(t, err)
	assert.Equal(t, float32(0.1), src[0], "FromSlice must not round the caller's slice")

	b, err := d.Bytes()
	require.NoError(t, err)
	back, err := FromBytes[float32](FP16, Shape{4}, b)
	require.NoError(t, err)
	assert.Equal(t, d.Values(), back.Values())

	got, err := d.Get(0)
	require.NoError(t, err)
	assert.Equal(t, float32(0.099975586), got)
}

func TestNewDenseTakesOwnership(t *testing.T) {
	data := []float32{0.1, 0.2}
	d, err := NewDense(FP16, Shape{2}, data)
	require.NoError(t, err)
	// The buffer is adopted, not copied.
	assert.Equal(t, d.Values(), data)
	assert.NotEqual(t, float32(0.1), data[0])
}
