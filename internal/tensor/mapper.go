package tensor

// IndexMapper translates view coordinates into parent coordinates.
type IndexMapper interface {
	// ViewShape returns the shape of the coordinate space MapToParent accepts.
	ViewShape() Shape

	// MapToParent returns the parent index for viewIdx.
	// The result is bounds-checked against the parent shape.
	MapToParent(viewIdx []int) ([]int, error)
}

// StridedMapper maps through a list of slice descriptors, one per parent dimension.
type StridedMapper struct {
	parentShape Shape
	descriptors []SliceDescriptor
	viewShape   Shape
}

// NewStridedMapper validates descs against parentShape. Missing trailing
// descriptors are treated as All.
func NewStridedMapper(parentShape Shape, descs ...SliceDescriptor) (*StridedMapper, error) {
	full, err := padDescriptors(parentShape, descs)
	if err != nil {
		return nil, err
	}
	viewShape, err := descriptorShape(parentShape, full)
	if err != nil {
		return nil, err
	}
	return &StridedMapper{
		parentShape: parentShape.Clone(),
		descriptors: full,
		viewShape:   viewShape,
	}, nil
}

// ViewShape returns the shape of the view's coordinate space.
func (m *StridedMapper) ViewShape() Shape { return m.viewShape }

// Descriptors returns a copy of the per-parent-dimension descriptors.
func (m *StridedMapper) Descriptors() []SliceDescriptor {
	return append([]SliceDescriptor(nil), m.descriptors...)
}

// MapToParent implements IndexMapper.
func (m *StridedMapper) MapToParent(viewIdx []int) ([]int, error) {
	out := make([]int, len(m.parentShape))
	if err := m.mapInto(viewIdx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// mapInto is MapToParent writing into a caller-provided buffer.
func (m *StridedMapper) mapInto(viewIdx, out []int) error {
	if len(viewIdx) != len(m.viewShape) {
		return outOfBoundsf("expected %d view indices, got %d", len(m.viewShape), len(viewIdx))
	}
	v := 0
	for p, s := range m.descriptors {
		var idx int
		switch s.kind {
		case DescIndex:
			idx = s.start
		case DescRange:
			idx = s.start + viewIdx[v]*s.step
			v++
		case DescAll:
			idx = viewIdx[v]
			v++
		}
		if idx < 0 || idx >= m.parentShape[p] {
			return outOfBoundsf("mapped index %d out of bounds for parent dimension %d (size %d)", idx, p, m.parentShape[p])
		}
		out[p] = idx
	}
	return nil
}

// NCHWMapper maps a rank-4 view with explicit per-dimension offset and step:
// parent[d] = offset[d] + view[d]*step[d]. A zero step marks a collapsed dimension.
type NCHWMapper struct {
	parentShape Shape
	viewShape   Shape
	offsets     [4]int
	steps       [4]int
}

// NewNCHWMapper validates that every view coordinate lands inside parentShape.
func NewNCHWMapper(parentShape, viewShape Shape, offsets, steps [4]int) (*NCHWMapper, error) {
	if len(parentShape) != 4 {
		return nil, invalidf("nchw mapping requires a rank-4 parent, got shape %v", parentShape)
	}
	if len(viewShape) != 4 {
		return nil, invalidf("nchw mapping requires a rank-4 view, got shape %v", viewShape)
	}
	if err := viewShape.Validate(); err != nil {
		return nil, err
	}
	for d := 0; d < 4; d++ {
		if steps[d] < 0 {
			return nil, invalidf("dimension %d: negative step %d", d, steps[d])
		}
		if steps[d] == 0 && viewShape[d] != 1 {
			return nil, invalidf("dimension %d: collapsed dimension must have size 1, got %d", d, viewShape[d])
		}
		last := offsets[d] + (viewShape[d]-1)*steps[d]
		if offsets[d] < 0 || last >= parentShape[d] {
			return nil, invalidf("dimension %d: view [%d, %d] exceeds parent size %d", d, offsets[d], last, parentShape[d])
		}
	}
	return &NCHWMapper{
		parentShape: parentShape.Clone(),
		viewShape:   viewShape.Clone(),
		offsets:     offsets,
		steps:       steps,
	}, nil
}

// ViewShape returns the rank-4 view shape.
func (m *NCHWMapper) ViewShape() Shape { return m.viewShape }

// MapToParent implements IndexMapper.
func (m *NCHWMapper) MapToParent(viewIdx []int) ([]int, error) {
	if len(viewIdx) != 4 {
		return nil, outOfBoundsf("expected 4 view indices, got %d", len(viewIdx))
	}
	out := make([]int, 4)
	for d := 0; d < 4; d++ {
		idx := m.offsets[d] + viewIdx[d]*m.steps[d]
		if idx < 0 || idx >= m.parentShape[d] {
			return nil, outOfBoundsf("mapped index %d out of bounds for parent dimension %d (size %d)", idx, d, m.parentShape[d])
		}
		out[d] = idx
	}
	return out, nil
}

var (
	_ IndexMapper = (*StridedMapper)(nil)
	_ IndexMapper = (*NCHWMapper)(nil)
)
