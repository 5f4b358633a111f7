package tensor

import (
	"github.com/born-ml/strider/internal/parallel"
)

// Kind discriminates the closed set of Data variants.
type Kind uint8

// Data variants.
const (
	KindDense Kind = iota + 1
	KindTransposed
	KindSliced
	KindNCHW
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindDense:
		return "dense"
	case KindTransposed:
		return "transposed"
	case KindSliced:
		return "sliced"
	case KindNCHW:
		return "nchw"
	default:
		return "unknown"
	}
}

// Layout is the geometric part of Data: enough to score a view
// without touching its elements.
type Layout interface {
	Shape() Shape
	Strides() []int
	Offset() int
	IsContiguous() bool
}

// Data is the storage/view abstraction behind a tensor.
//
// The set of implementations is closed: *Dense, *Transposed, *View and *NCHWView.
// Callers dispatch on Kind() rather than on concrete types. All implementations
// are immutable; every transformation returns a new value that shares the
// backing buffer of the dense ancestor.
type Data[V Value] interface {
	Layout

	// Kind reports which variant this is.
	Kind() Kind

	// Dtype reports the element storage kind.
	Dtype() Dtype

	// Get returns the element at indices (bounds-checked).
	Get(indices ...int) (V, error)

	// CopyTo writes all elements in row-major order to dst[dstOffset:].
	CopyTo(dst []V, dstOffset int) error

	// Slice takes 2*rank start/end pairs and returns a zero-copy view.
	Slice(ranges ...int) (Data[V], error)

	// Materialize copies the elements into a new dense buffer.
	// Dense data returns itself.
	Materialize() (*Dense[V], error)

	sealed()
}

// copyConfig controls parallel element copies. Small tensors stay sequential.
var copyConfig = func() parallel.Config {
	cfg := parallel.DefaultConfig()
	cfg.MinChunkSize = 4096
	return cfg
}()

// checkIndices validates element indices against shape.
func checkIndices(shape Shape, indices []int) error {
	if len(indices) != len(shape) {
		return outOfBoundsf("expected %d indices, got %d", len(shape), len(indices))
	}
	for i, idx := range indices {
		if idx < 0 || idx >= shape[i] {
			return outOfBoundsf("index %d out of bounds for dimension %d (size %d)", idx, i, shape[i])
		}
	}
	return nil
}

// parseRanges validates 2*rank start/end pairs against shape.
func parseRanges(shape Shape, ranges []int) (starts, ends []int, err error) {
	if len(ranges) != 2*len(shape) {
		return nil, nil, invalidf("expected %d range values for rank %d, got %d", 2*len(shape), len(shape), len(ranges))
	}
	starts = make([]int, len(shape))
	ends = make([]int, len(shape))
	for d := range shape {
		start, end := ranges[2*d], ranges[2*d+1]
		switch {
		case start < 0:
			return nil, nil, invalidf("dimension %d: start %d < 0", d, start)
		case end <= start:
			return nil, nil, invalidf("dimension %d: end %d <= start %d", d, end, start)
		case end > shape[d]:
			return nil, nil, invalidf("dimension %d: end %d > size %d", d, end, shape[d])
		}
		starts[d], ends[d] = start, end
	}
	return starts, ends, nil
}

// checkDestination validates a CopyTo destination window.
func checkDestination(dstLen, dstOffset, volume int) error {
	if dstOffset < 0 || dstLen-dstOffset < volume {
		return invalidf("destination of length %d cannot hold %d elements at offset %d", dstLen, volume, dstOffset)
	}
	return nil
}

// gatherTo copies the elements of d into dst[dstOffset:] by walking d's own
// index space. Large tensors are split into row-major chunks copied in parallel.
func gatherTo[V Value](d Data[V], dst []V, dstOffset int) error {
	shape := d.Shape()
	n := shape.Volume()
	if err := checkDestination(len(dst), dstOffset, n); err != nil {
		return err
	}
	return parallel.ForRange(n, func(start, end int) error {
		idx := make([]int, len(shape))
		shape.Unravel(start, idx)
		for i := start; i < end; i++ {
			v, err := d.Get(idx...)
			if err != nil {
				return err
			}
			dst[dstOffset+i] = v
			for k := len(shape) - 1; k >= 0; k-- {
				idx[k]++
				if idx[k] < shape[k] {
					break
				}
				idx[k] = 0
			}
		}
		return nil
	}, copyConfig)
}

// materialize copies any variant into a fresh dense buffer.
func materialize[V Value](d Data[V]) (*Dense[V], error) {
	shape := d.Shape()
	buf := make([]V, shape.Volume())
	if err := d.CopyTo(buf, 0); err != nil {
		return nil, err
	}
	return newDense(d.Dtype(), shape.Clone(), buf, 0), nil
}

// affineLayout derives strides and buffer offset of a view whose parent index
// along dimension p is start[p] + i*step[p].
func affineLayout(parent Layout, starts []int) int {
	offset := parent.Offset()
	ps := parent.Strides()
	for p, s := range starts {
		offset += s * ps[p]
	}
	return offset
}
