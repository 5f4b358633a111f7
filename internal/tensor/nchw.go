package tensor

import "github.com/born-ml/strider/internal/parallel"

// NCHWView is a rank-4 view over a rank-4 parent laid out as
// batch, channel, height, width. Each dimension d maps as
// parent[d] = offset[d] + view[d]*step[d]; a zero step collapses the dimension.
//
// The constructors BatchSlice, ChannelSlice and SpatialSlice build the offset
// and step pairs directly for the three dominant access patterns.
type NCHWView[V Value] struct {
	parent  Data[V]
	mapper  *NCHWMapper
	strides []int
	offset  int
}

// NCHW dimension positions.
const (
	DimN = iota
	DimC
	DimH
	DimW
)

// NewNCHWView builds a view of the rank-4 parent with the given view shape,
// per-dimension offsets and steps. A view of an NCHWView is flattened onto
// the original parent.
func NewNCHWView[V Value](parent Data[V], shape Shape, offsets, steps [4]int) (*NCHWView[V], error) {
	if parent == nil {
		return nil, invalidf("nil parent")
	}
	if parent.Kind() == KindNCHW {
		pv := parent.(*NCHWView[V])
		var composedOff, composedStep [4]int
		for d := 0; d < 4; d++ {
			if d >= len(shape) || shape[d] <= 0 || steps[d] < 0 {
				return nil, invalidf("invalid nchw sub-view shape %v with steps %v", shape, steps)
			}
			last := offsets[d] + (shape[d]-1)*steps[d]
			if offsets[d] < 0 || last >= pv.mapper.viewShape[d] {
				return nil, invalidf("dimension %d: sub-view [%d, %d] exceeds view size %d", d, offsets[d], last, pv.mapper.viewShape[d])
			}
			composedOff[d] = pv.mapper.offsets[d] + offsets[d]*pv.mapper.steps[d]
			composedStep[d] = pv.mapper.steps[d] * steps[d]
		}
		parent, offsets, steps = pv.parent, composedOff, composedStep
	}

	mapper, err := NewNCHWMapper(parent.Shape(), shape, offsets, steps)
	if err != nil {
		return nil, err
	}

	ps := parent.Strides()
	strides := make([]int, 4)
	offset := parent.Offset()
	for d := 0; d < 4; d++ {
		strides[d] = ps[d] * steps[d]
		offset += offsets[d] * ps[d]
	}

	return &NCHWView[V]{
		parent:  parent,
		mapper:  mapper,
		strides: strides,
		offset:  offset,
	}, nil
}

// BatchSlice selects batches [start, end) of a rank-4 tensor.
func BatchSlice[V Value](parent Data[V], start, end int) (*NCHWView[V], error) {
	shape, err := nchwShape(parent)
	if err != nil {
		return nil, err
	}
	if start < 0 || end <= start || end > shape[DimN] {
		return nil, invalidf("batch range [%d, %d) invalid for batch size %d", start, end, shape[DimN])
	}
	shape[DimN] = end - start
	return NewNCHWView(parent, shape, [4]int{start, 0, 0, 0}, [4]int{1, 1, 1, 1})
}

// ChannelSlice extracts channel c, keeping a size-1 channel dimension.
func ChannelSlice[V Value](parent Data[V], c int) (*NCHWView[V], error) {
	shape, err := nchwShape(parent)
	if err != nil {
		return nil, err
	}
	if c < 0 || c >= shape[DimC] {
		return nil, invalidf("channel %d outside [0, %d)", c, shape[DimC])
	}
	shape[DimC] = 1
	return NewNCHWView(parent, shape, [4]int{0, c, 0, 0}, [4]int{1, 0, 1, 1})
}

// SpatialSlice selects the region rows [h0, h1) and columns [w0, w1) of every plane.
func SpatialSlice[V Value](parent Data[V], h0, h1, w0, w1 int) (*NCHWView[V], error) {
	shape, err := nchwShape(parent)
	if err != nil {
		return nil, err
	}
	if h0 < 0 || h1 <= h0 || h1 > shape[DimH] {
		return nil, invalidf("height range [%d, %d) invalid for height %d", h0, h1, shape[DimH])
	}
	if w0 < 0 || w1 <= w0 || w1 > shape[DimW] {
		return nil, invalidf("width range [%d, %d) invalid for width %d", w0, w1, shape[DimW])
	}
	shape[DimH], shape[DimW] = h1-h0, w1-w0
	return NewNCHWView(parent, shape, [4]int{0, 0, h0, w0}, [4]int{1, 1, 1, 1})
}

func nchwShape[V Value](parent Data[V]) (Shape, error) {
	if parent == nil {
		return nil, invalidf("nil parent")
	}
	shape := parent.Shape()
	if len(shape) != 4 {
		return nil, invalidf("nchw view requires rank 4, got shape %v", shape)
	}
	return shape.Clone(), nil
}

func (v *NCHWView[V]) sealed() {}

// Kind returns KindNCHW.
func (v *NCHWView[V]) Kind() Kind { return KindNCHW }

// Dtype returns the parent dtype.
func (v *NCHWView[V]) Dtype() Dtype { return v.parent.Dtype() }

// Shape returns the rank-4 view shape.
func (v *NCHWView[V]) Shape() Shape { return v.mapper.viewShape }

// Strides returns the element strides within the backing buffer
// (0 for collapsed dimensions).
func (v *NCHWView[V]) Strides() []int { return v.strides }

// Offset returns the buffer position of the first element.
func (v *NCHWView[V]) Offset() int { return v.offset }

// IsContiguous reports whether the view strides are canonical.
func (v *NCHWView[V]) IsContiguous() bool {
	return v.Shape().HasCanonicalStrides(v.strides)
}

// Parent returns the rank-4 data this view reads.
func (v *NCHWView[V]) Parent() Data[V] { return v.parent }

// Mapper returns the view's index mapper.
func (v *NCHWView[V]) Mapper() IndexMapper { return v.mapper }

// Get returns the element at view coordinates (n, c, h, w).
func (v *NCHWView[V]) Get(indices ...int) (V, error) {
	var zero V
	if err := checkIndices(v.Shape(), indices); err != nil {
		return zero, err
	}
	parentIdx, err := v.mapper.MapToParent(indices)
	if err != nil {
		return zero, err
	}
	return v.parent.Get(parentIdx...)
}

// CopyTo copies the view into dst[dstOffset:], one (n, c) plane per task.
func (v *NCHWView[V]) CopyTo(dst []V, dstOffset int) error {
	shape := v.Shape()
	n := shape.Volume()
	if err := checkDestination(len(dst), dstOffset, n); err != nil {
		return err
	}

	plane := shape[DimH] * shape[DimW]
	errs := make([]error, shape[DimN]*shape[DimC])
	parallel.ForBatch(shape[DimN], shape[DimC], func(b, c int) {
		base := dstOffset + (b*shape[DimC]+c)*plane
		for h := 0; h < shape[DimH]; h++ {
			for w := 0; w < shape[DimW]; w++ {
				val, err := v.Get(b, c, h, w)
				if err != nil {
					errs[b*shape[DimC]+c] = err
					return
				}
				dst[base+h*shape[DimW]+w] = val
			}
		}
	}, copyConfig)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Slice narrows the view with 2*4 start/end pairs, staying an NCHWView
// over the same parent.
func (v *NCHWView[V]) Slice(ranges ...int) (Data[V], error) {
	starts, ends, err := parseRanges(v.Shape(), ranges)
	if err != nil {
		return nil, err
	}
	shape := make(Shape, 4)
	for d := 0; d < 4; d++ {
		shape[d] = ends[d] - starts[d]
	}
	out, err := NewNCHWView[V](v, shape, [4]int(starts), [4]int{1, 1, 1, 1})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Materialize copies the view into a new dense buffer.
func (v *NCHWView[V]) Materialize() (*Dense[V], error) {
	return materialize[V](v)
}
