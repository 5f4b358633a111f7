package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func arangeDense(t *testing.T, shape Shape) *Dense[float32] {
	t.Helper()
	d, err := FromFlatGenerator(FP32, shape, func(i int) float32 { return float32(i) })
	require.NoError(t, err)
	return d
}

func values[V Value](t *testing.T, d Data[V]) []V {
	t.Helper()
	out := make([]V, d.Shape().Volume())
	require.NoError(t, d.CopyTo(out, 0))
	return out
}

func TestViewIndexAndRange(t *testing.T) {
	base := arangeDense(t, Shape{2, 6})

	v, err := NewView[float32](base, Index(1), Range(0, 6, 2))
	require.NoError(t, err)
	assert.Equal(t, KindSliced, v.Kind())
	assert.Equal(t, Shape{3}, v.Shape())
	assert.Equal(t, []int{2}, v.Strides())
	assert.Equal(t, 6, v.Offset())
	assert.Equal(t, []float32{6, 8, 10}, values[float32](t, v))

	got, err := v.Get(2)
	require.NoError(t, err)
	assert.Equal(t, float32(10), got)

	_, err = v.Get(3)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestViewTrailingAll(t *testing.T) {
	base := arangeDense(t, Shape{3, 4})

	row, err := NewView[float32](base, Index(1))
	require.NoError(t, err)
	assert.Equal(t, Shape{4}, row.Shape())
	assert.True(t, row.IsContiguous())
	assert.Equal(t, []float32{4, 5, 6, 7}, values[float32](t, row))

	col, err := NewView[float32](base, All(), Index(2))
	require.NoError(t, err)
	assert.False(t, col.IsContiguous())
	assert.Equal(t, []float32{2, 6, 10}, values[float32](t, col))
}

func TestViewCompositionFlattens(t *testing.T) {
	base := arangeDense(t, Shape{10})

	v1, err := NewView[float32](base, Range(2, 10, 2))
	require.NoError(t, err)
	assert.Equal(t, []float32{2, 4, 6, 8}, values[float32](t, v1))

	v2, err := NewView[float32](v1, Range(1, 4, 2))
	require.NoError(t, err)
	assert.Equal(t, []float32{4, 8}, values[float32](t, v2))

	// The chained view reads the original parent directly.
	assert.Same(t, base, v2.Parent())
	assert.Equal(t, []SliceDescriptor{Range(4, 9, 4)}, v2.Descriptors())

	direct, err := NewView[float32](base, v2.Descriptors()...)
	require.NoError(t, err)
	assert.Equal(t, values[float32](t, v2), values[float32](t, direct))
}

func TestViewCompositionAssociative(t *testing.T) {
	base := arangeDense(t, Shape{6, 8})
	a := []SliceDescriptor{Range(1, 6, 1), Range(0, 8, 2)}
	b := []SliceDescriptor{Range(1, 5, 2), All()}
	c := []SliceDescriptor{All(), Index(3)}

	// (base[a])[b] then [c]
	va := Must(NewView[float32](base, a...))
	vab := Must(NewView[float32](va, b...))
	left := Must(NewView[float32](vab, c...))

	// base[a] then the composition of b and c
	bc, err := Compose(va.Shape(), b, c)
	require.NoError(t, err)
	right := Must(NewView[float32](va, bc...))

	assert.Equal(t, left.Shape(), right.Shape())
	assert.Equal(t, values[float32](t, left), values[float32](t, right))
	assert.Equal(t, left.Descriptors(), right.Descriptors())

	// rows 2 and 4 of base, column 6
	assert.Equal(t, []float32{22, 38}, values[float32](t, left))
}

func TestViewOfIndexedView(t *testing.T) {
	base := arangeDense(t, Shape{3, 4})
	row := Must(NewView[float32](base, Index(1)))

	scalar, err := NewView[float32](row, Index(2))
	require.NoError(t, err)
	assert.Equal(t, 0, scalar.Shape().Rank())

	v, err := scalar.Get()
	require.NoError(t, err)
	assert.Equal(t, float32(6), v)
	assert.Equal(t, []SliceDescriptor{Index(1), Index(2)}, scalar.Descriptors())
}

func TestComposeDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		current SliceDescriptor
		next    SliceDescriptor
		dim     int
		want    SliceDescriptor
		wantErr error
	}{
		{"range of range", Range(1, 9, 2), Range(1, 4, 1), 10, Range(3, 8, 2), nil},
		{"index of range", Range(1, 9, 2), Index(2), 10, Index(5), nil},
		{"all of range", Range(1, 9, 2), All(), 10, Range(1, 9, 2), nil},
		{"range of all", All(), Range(2, 5, 1), 10, Range(2, 5, 1), nil},
		{"index of all", All(), Index(7), 10, Index(7), nil},
		{"index on the left", Index(1), All(), 10, SliceDescriptor{}, ErrInvalidArgument},
		{"next outside view", Range(0, 4, 1), Range(0, 5, 1), 10, SliceDescriptor{}, ErrInvalidArgument},
		{"zero step", Range(0, 4, 0), All(), 10, SliceDescriptor{}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComposeDescriptor(tt.current, tt.next, tt.dim)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescriptorValidation(t *testing.T) {
	base := arangeDense(t, Shape{3, 4})

	for _, descs := range [][]SliceDescriptor{
		{Range(0, 4, 1)},
		{Range(2, 2, 1)},
		{Range(0, 3, -1)},
		{Index(3)},
		{All(), All(), All()},
		{SliceDescriptor{}},
	} {
		_, err := NewView[float32](base, descs...)
		assert.ErrorIs(t, err, ErrInvalidArgument, "descriptors %v", descs)
	}
}

func TestDescriptorString(t *testing.T) {
	assert.Equal(t, "1:5", Range(1, 5, 1).String())
	assert.Equal(t, "0:9:3", Range(0, 9, 3).String())
	assert.Equal(t, "4", Index(4).String())
	assert.Equal(t, ":", All().String())
	assert.Equal(t, 3, Range(0, 9, 3).Size(9))
	assert.Equal(t, 2, Range(1, 4, 2).Size(9))
}

func TestViewMaterialize(t *testing.T) {
	base := arangeDense(t, Shape{4, 4})
	v := Must(NewView[float32](base, Range(0, 4, 2), Range(1, 4, 2)))

	m, err := v.Materialize()
	require.NoError(t, err)
	assert.Equal(t, KindDense, m.Kind())
	assert.Equal(t, Shape{2, 2}, m.Shape())
	assert.Equal(t, []float32{1, 3, 9, 11}, m.Values())

	again, err := m.Materialize()
	require.NoError(t, err)
	assert.Same(t, m, again)

	// The parent is untouched and does not share the new buffer.
	assert.Equal(t, values[float32](t, arangeDense(t, Shape{4, 4})), base.Values())
	assert.NotSame(t, &base.Values()[1], &m.Values()[0])
}

func TestViewSlice(t *testing.T) {
	base := arangeDense(t, Shape{4, 4})
	v := Must(NewView[float32](base, Range(0, 4, 2), All()))

	sub, err := v.Slice(1, 2, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{1, 2}, sub.Shape())
	assert.Equal(t, []float32{9, 10}, values(t, sub))
	assert.Same(t, base, sub.(*View[float32]).Parent())
}

func TestStridedMapper(t *testing.T) {
	m, err := NewStridedMapper(Shape{4, 5}, Range(1, 4, 2), Index(3))
	require.NoError(t, err)
	assert.Equal(t, Shape{2}, m.ViewShape())

	idx, err := m.MapToParent([]int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, idx)

	_, err = m.MapToParent([]int{0, 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.MapToParent([]int{2})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}
