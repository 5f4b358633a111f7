package tensor

// View is a zero-copy strided view selected by slice descriptors.
//
// Views of views never nest: NewView composes the new descriptors with the
// parent view's descriptors and wraps the parent's own parent, so every access
// costs one mapping regardless of how many times a view was re-sliced.
type View[V Value] struct {
	parent  Data[V]
	mapper  *StridedMapper
	strides []int
	offset  int
}

// NewView returns a view of parent selected by descs (one per parent dimension;
// missing trailing descriptors mean All).
//
// Example:
//
//	// Every other column of row 1, as a rank-1 view.
//	v, err := tensor.NewView(d, tensor.Index(1), tensor.Range(0, 6, 2))
func NewView[V Value](parent Data[V], descs ...SliceDescriptor) (*View[V], error) {
	if parent == nil {
		return nil, invalidf("nil parent")
	}
	if parent.Kind() == KindSliced {
		pv := parent.(*View[V])
		composed, err := Compose(pv.parent.Shape(), pv.mapper.descriptors, descs)
		if err != nil {
			return nil, err
		}
		return newView(pv.parent, composed)
	}
	return newView(parent, descs)
}

func newView[V Value](parent Data[V], descs []SliceDescriptor) (*View[V], error) {
	mapper, err := NewStridedMapper(parent.Shape(), descs...)
	if err != nil {
		return nil, err
	}

	ps := parent.Strides()
	strides := make([]int, 0, len(mapper.viewShape))
	offset := parent.Offset()
	for p, s := range mapper.descriptors {
		switch s.kind {
		case DescIndex:
			offset += s.start * ps[p]
		case DescRange:
			offset += s.start * ps[p]
			strides = append(strides, ps[p]*s.step)
		case DescAll:
			strides = append(strides, ps[p])
		}
	}

	return &View[V]{
		parent:  parent,
		mapper:  mapper,
		strides: strides,
		offset:  offset,
	}, nil
}

func (v *View[V]) sealed() {}

// Kind returns KindSliced.
func (v *View[V]) Kind() Kind { return KindSliced }

// Dtype returns the parent's dtype.
func (v *View[V]) Dtype() Dtype { return v.parent.Dtype() }

// Shape returns the view shape (Index dimensions dropped).
func (v *View[V]) Shape() Shape { return v.mapper.viewShape }

// Strides returns the element strides of the view within the backing buffer.
func (v *View[V]) Strides() []int { return v.strides }

// Offset returns the buffer position of the view's first element.
func (v *View[V]) Offset() int { return v.offset }

// IsContiguous reports whether the view is one flat row-major run of the buffer.
func (v *View[V]) IsContiguous() bool {
	return v.Shape().HasCanonicalStrides(v.strides)
}

// Parent returns the data this view reads through.
func (v *View[V]) Parent() Data[V] { return v.parent }

// Descriptors returns the flattened descriptors against Parent().
func (v *View[V]) Descriptors() []SliceDescriptor { return v.mapper.Descriptors() }

// Mapper returns the index mapper of the view.
func (v *View[V]) Mapper() IndexMapper { return v.mapper }

// Get returns the element at view coordinates indices.
func (v *View[V]) Get(indices ...int) (V, error) {
	var zero V
	if err := checkIndices(v.Shape(), indices); err != nil {
		return zero, err
	}
	parentIdx := make([]int, len(v.mapper.parentShape))
	if err := v.mapper.mapInto(indices, parentIdx); err != nil {
		return zero, err
	}
	return v.parent.Get(parentIdx...)
}

// CopyTo copies the view's elements in row-major order into dst[dstOffset:].
func (v *View[V]) CopyTo(dst []V, dstOffset int) error {
	return gatherTo[V](v, dst, dstOffset)
}

// Slice re-slices the view with 2*rank start/end pairs in view coordinates.
func (v *View[V]) Slice(ranges ...int) (Data[V], error) {
	starts, ends, err := parseRanges(v.Shape(), ranges)
	if err != nil {
		return nil, err
	}
	descs := make([]SliceDescriptor, len(starts))
	for i := range descs {
		descs[i] = Range(starts[i], ends[i], 1)
	}
	sub, err := NewView[V](v, descs...)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Materialize copies the view into a new dense buffer. The parent is untouched.
func (v *View[V]) Materialize() (*Dense[V], error) {
	return materialize[V](v)
}
