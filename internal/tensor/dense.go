package tensor

import (
	"github.com/x448/float16"
)

// Dense owns (or shares, for zero-copy sub-ranges) a flat backing array.
// It is always contiguous: its elements occupy data[offset : offset+volume].
type Dense[V Value] struct {
	data    []V
	shape   Shape
	strides []int
	offset  int
	dtype   Dtype
}

// NewDense wraps data as a dense tensor of the given shape. The tensor takes
// ownership of data: the caller must not modify or retain it afterwards (use
// FromSlice to keep the input). len(data) must equal shape.Volume(). Int4 and
// Ternary values must already lie in their dtype's range; FP16 values are
// rounded to half precision in place.
func NewDense[V Value](dt Dtype, shape Shape, data []V) (*Dense[V], error) {
	if err := checkFamily[V](dt); err != nil {
		return nil, err
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(data) != shape.Volume() {
		return nil, invalidf("shape %v requires %d elements, got %d", shape, shape.Volume(), len(data))
	}
	if err := checkValueRange(dt, data); err != nil {
		return nil, err
	}
	if dt == FP16 {
		roundHalf(any(data).([]float32))
	}
	return newDense(dt, shape.Clone(), data, 0), nil
}

func newDense[V Value](dt Dtype, shape Shape, data []V, offset int) *Dense[V] {
	return &Dense[V]{
		data:    data,
		shape:   shape,
		strides: shape.ComputeStrides(),
		offset:  offset,
		dtype:   dt,
	}
}

// checkValueRange rejects values a sub-byte dtype cannot represent.
func checkValueRange[V Value](dt Dtype, data []V) error {
	if dt != Int4 && dt != Ternary {
		return nil
	}
	lo, hi, _ := dt.Range()
	for i, v := range data {
		if int64(v) < lo || int64(v) > hi {
			return invalidf("%s value %v at element %d outside [%d, %d]", dt, v, i, lo, hi)
		}
	}
	return nil
}

// roundHalf rounds values to the nearest FP16 value so that stored elements
// survive Bytes and FromBytes unchanged.
func roundHalf(values []float32) {
	for i, v := range values {
		values[i] = float16.Fromfloat32(v).Float32()
	}
}

func (d *Dense[V]) sealed() {}

// Kind returns KindDense.
func (d *Dense[V]) Kind() Kind { return KindDense }

// Dtype returns the element storage kind.
func (d *Dense[V]) Dtype() Dtype { return d.dtype }

// Shape returns the tensor's shape.
func (d *Dense[V]) Shape() Shape { return d.shape }

// Strides returns the canonical row-major strides.
func (d *Dense[V]) Strides() []int { return d.strides }

// Offset returns the start of this tensor within the backing array.
func (d *Dense[V]) Offset() int { return d.offset }

// IsContiguous is always true for dense data.
func (d *Dense[V]) IsContiguous() bool { return true }

// Get returns the element at the given indices.
//
// Example:
//
//	d := tensor.Must(tensor.FromSlice(tensor.FP32, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6}))
//	v, _ := d.Get(1, 2) // 6
func (d *Dense[V]) Get(indices ...int) (V, error) {
	if err := checkIndices(d.shape, indices); err != nil {
		var zero V
		return zero, err
	}
	pos := d.offset
	for i, idx := range indices {
		pos += idx * d.strides[i]
	}
	return d.data[pos], nil
}

// CopyTo copies all elements into dst starting at dstOffset.
func (d *Dense[V]) CopyTo(dst []V, dstOffset int) error {
	n := d.shape.Volume()
	if err := checkDestination(len(dst), dstOffset, n); err != nil {
		return err
	}
	if d.offset == 0 && len(d.data) == n {
		copy(dst[dstOffset:], d.data)
		return nil
	}
	copy(dst[dstOffset:], d.data[d.offset:d.offset+n])
	return nil
}

// Values returns the elements in row-major order without copying.
// The returned slice aliases the backing array and must not be modified.
func (d *Dense[V]) Values() []V {
	n := d.shape.Volume()
	return d.data[d.offset : d.offset+n : d.offset+n]
}

// Slice returns the sub-tensor selected by 2*rank start/end pairs.
//
// When the selection is still one flat run of the backing array (for example
// whole rows), the result is a Dense sharing the array at a new offset.
// Otherwise a strided View over d is returned.
func (d *Dense[V]) Slice(ranges ...int) (Data[V], error) {
	starts, ends, err := parseRanges(d.shape, ranges)
	if err != nil {
		return nil, err
	}

	newShape := make(Shape, len(d.shape))
	for i := range newShape {
		newShape[i] = ends[i] - starts[i]
	}

	if newShape.HasCanonicalStrides(d.strides) {
		return newDense(d.dtype, newShape, d.data, affineLayout(d, starts)), nil
	}

	descs := make([]SliceDescriptor, len(d.shape))
	for i := range descs {
		descs[i] = Range(starts[i], ends[i], 1)
	}
	v, err := NewView[V](d, descs...)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Materialize returns d itself; dense data is already materialized.
func (d *Dense[V]) Materialize() (*Dense[V], error) {
	return d, nil
}

// Bytes packs the elements into the dtype's little-endian byte layout.
func (d *Dense[V]) Bytes() ([]byte, error) {
	return Encode(d.dtype, d.Values())
}
