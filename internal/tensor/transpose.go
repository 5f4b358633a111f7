package tensor

// Transposed is a zero-copy view of source with permuted dimensions:
// dimension i of the view is dimension perm[i] of the source.
type Transposed[V Value] struct {
	source  Data[V]
	perm    []int
	shape   Shape
	strides []int
}

// NewTransposed wraps source with the permutation perm.
func NewTransposed[V Value](source Data[V], perm ...int) (*Transposed[V], error) {
	if source == nil {
		return nil, invalidf("nil source")
	}
	if err := validatePermutation(perm, len(source.Shape())); err != nil {
		return nil, err
	}

	srcShape := source.Shape()
	srcStrides := source.Strides()
	shape := make(Shape, len(perm))
	strides := make([]int, len(perm))
	for i, p := range perm {
		shape[i] = srcShape[p]
		strides[i] = srcStrides[p]
	}

	return &Transposed[V]{
		source:  source,
		perm:    append([]int(nil), perm...),
		shape:   shape,
		strides: strides,
	}, nil
}

// Transpose permutes the dimensions of d. With no perm, dimensions are reversed.
// Transposing a transposed view composes the permutations instead of nesting,
// and an identity result returns the underlying source itself.
func Transpose[V Value](d Data[V], perm ...int) (Data[V], error) {
	rank := len(d.Shape())
	if len(perm) == 0 {
		perm = make([]int, rank)
		for i := range perm {
			perm[i] = rank - 1 - i
		}
	}
	if err := validatePermutation(perm, rank); err != nil {
		return nil, err
	}

	source := d
	if d.Kind() == KindTransposed {
		inner := d.(*Transposed[V])
		composed := make([]int, rank)
		for i, p := range perm {
			composed[i] = inner.perm[p]
		}
		source, perm = inner.source, composed
	}
	if isIdentity(perm) {
		return source, nil
	}

	t, err := NewTransposed(source, perm...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// InversePermutation returns q such that q[perm[i]] = i.
func InversePermutation(perm []int) ([]int, error) {
	if err := validatePermutation(perm, len(perm)); err != nil {
		return nil, err
	}
	inv := make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return inv, nil
}

func validatePermutation(perm []int, rank int) error {
	if len(perm) != rank {
		return invalidf("permutation length %d != rank %d", len(perm), rank)
	}
	seen := make([]bool, rank)
	for _, ax := range perm {
		if ax < 0 || ax >= rank {
			return invalidf("invalid axis %d for rank %d", ax, rank)
		}
		if seen[ax] {
			return invalidf("duplicate axis %d", ax)
		}
		seen[ax] = true
	}
	return nil
}

func isIdentity(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}

func (t *Transposed[V]) sealed() {}

// Kind returns KindTransposed.
func (t *Transposed[V]) Kind() Kind { return KindTransposed }

// Dtype returns the source dtype.
func (t *Transposed[V]) Dtype() Dtype { return t.source.Dtype() }

// Shape returns the permuted shape.
func (t *Transposed[V]) Shape() Shape { return t.shape }

// Strides returns the source strides, permuted.
func (t *Transposed[V]) Strides() []int { return t.strides }

// Offset returns the source offset.
func (t *Transposed[V]) Offset() int { return t.source.Offset() }

// IsContiguous is true only when the source is contiguous and the permuted
// strides are still the canonical strides of the permuted shape.
func (t *Transposed[V]) IsContiguous() bool {
	return t.source.IsContiguous() && t.shape.HasCanonicalStrides(t.strides)
}

// Source returns the wrapped data.
func (t *Transposed[V]) Source() Data[V] { return t.source }

// Permutation returns a copy of the permutation.
func (t *Transposed[V]) Permutation() []int { return append([]int(nil), t.perm...) }

// Get maps indices to the source (sourceIdx[perm[i]] = indices[i]) and delegates.
func (t *Transposed[V]) Get(indices ...int) (V, error) {
	if err := checkIndices(t.shape, indices); err != nil {
		var zero V
		return zero, err
	}
	srcIdx := make([]int, len(indices))
	for i, idx := range indices {
		srcIdx[t.perm[i]] = idx
	}
	return t.source.Get(srcIdx...)
}

// CopyTo copies the transposed elements in row-major order into dst[dstOffset:].
func (t *Transposed[V]) CopyTo(dst []V, dstOffset int) error {
	return gatherTo[V](t, dst, dstOffset)
}

// Slice takes ranges in transposed coordinates, slices the source along the
// corresponding dimensions and re-applies the permutation.
func (t *Transposed[V]) Slice(ranges ...int) (Data[V], error) {
	if len(ranges) != 2*len(t.shape) {
		return nil, invalidf("expected %d range values for rank %d, got %d", 2*len(t.shape), len(t.shape), len(ranges))
	}
	srcRanges := make([]int, len(ranges))
	for i, p := range t.perm {
		srcRanges[2*p] = ranges[2*i]
		srcRanges[2*p+1] = ranges[2*i+1]
	}
	sliced, err := t.source.Slice(srcRanges...)
	if err != nil {
		return nil, err
	}
	out, err := NewTransposed(sliced, t.perm...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Materialize reads every transposed index in row-major order into a new dense buffer.
func (t *Transposed[V]) Materialize() (*Dense[V], error) {
	return materialize[V](t)
}
