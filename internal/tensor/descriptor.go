package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// DescriptorKind is the closed set of per-dimension slice operations.
type DescriptorKind uint8

// Descriptor kinds.
const (
	// DescRange selects start, start+step, ... below end.
	DescRange DescriptorKind = iota + 1
	// DescIndex fixes one index and removes the dimension from the view.
	DescIndex
	// DescAll keeps the whole dimension.
	DescAll
)

// SliceDescriptor describes which elements of one parent dimension a view selects.
// The zero value is invalid; build descriptors with Range, Index or All.
type SliceDescriptor struct {
	kind  DescriptorKind
	start int // range start, or the fixed index for DescIndex
	end   int
	step  int
}

// Range selects [start, end) with the given step.
func Range(start, end, step int) SliceDescriptor {
	return SliceDescriptor{kind: DescRange, start: start, end: end, step: step}
}

// Index selects the single index i and drops the dimension.
func Index(i int) SliceDescriptor {
	return SliceDescriptor{kind: DescIndex, start: i}
}

// All keeps a dimension unchanged.
func All() SliceDescriptor {
	return SliceDescriptor{kind: DescAll}
}

// Kind returns the descriptor kind.
func (s SliceDescriptor) Kind() DescriptorKind { return s.kind }

// Start returns the range start (or the fixed index for Index descriptors).
func (s SliceDescriptor) Start() int { return s.start }

// End returns the exclusive range end.
func (s SliceDescriptor) End() int { return s.end }

// Step returns the range step.
func (s SliceDescriptor) Step() int { return s.step }

// String formats the descriptor in numpy slice notation.
func (s SliceDescriptor) String() string {
	switch s.kind {
	case DescRange:
		if s.step == 1 {
			return fmt.Sprintf("%d:%d", s.start, s.end)
		}
		return fmt.Sprintf("%d:%d:%d", s.start, s.end, s.step)
	case DescIndex:
		return fmt.Sprint(s.start)
	case DescAll:
		return ":"
	default:
		return "?"
	}
}

// Validate checks the descriptor against a dimension of size dim.
func (s SliceDescriptor) Validate(dim int) error {
	switch s.kind {
	case DescRange:
		switch {
		case s.step <= 0:
			return invalidf("range %v: step must be > 0", s)
		case s.start < 0:
			return invalidf("range %v: start < 0", s)
		case s.end <= s.start:
			return invalidf("range %v: end <= start", s)
		case s.end > dim:
			return invalidf("range %v: end exceeds dimension size %d", s, dim)
		}
	case DescIndex:
		if s.start < 0 || s.start >= dim {
			return invalidf("index %d outside dimension of size %d", s.start, dim)
		}
	case DescAll:
	default:
		return invalidf("uninitialized slice descriptor")
	}
	return nil
}

// Size returns the number of view elements the descriptor yields for a
// dimension of size dim; 0 for Index (the dimension is dropped).
func (s SliceDescriptor) Size(dim int) int {
	switch s.kind {
	case DescRange:
		return (s.end - s.start + s.step - 1) / s.step
	case DescAll:
		return dim
	default:
		return 0
	}
}

// asRange expresses All as the equivalent full Range.
func (s SliceDescriptor) asRange(dim int) SliceDescriptor {
	if s.kind == DescAll {
		return Range(0, dim, 1)
	}
	return s
}

// ComposeDescriptor returns the single descriptor, valid against the original
// dimension of size dim, equivalent to applying next inside the view produced
// by current. next is expressed in view coordinates.
func ComposeDescriptor(current, next SliceDescriptor, dim int) (SliceDescriptor, error) {
	if current.kind == DescIndex {
		return SliceDescriptor{}, invalidf("cannot further slice dimension eliminated by index %d", current.start)
	}
	if err := current.Validate(dim); err != nil {
		return SliceDescriptor{}, err
	}
	if err := next.Validate(current.Size(dim)); err != nil {
		return SliceDescriptor{}, err
	}
	if next.kind == DescAll {
		return current, nil
	}

	cur := current.asRange(dim)
	switch next.kind {
	case DescIndex:
		return Index(cur.start + next.start*cur.step), nil
	case DescRange:
		start := cur.start + next.start*cur.step
		step := cur.step * next.step
		count := next.Size(current.Size(dim))
		// Tightest end that still yields exactly count elements.
		end := start + (count-1)*step + 1
		return Range(start, end, step), nil
	default:
		return SliceDescriptor{}, invalidf("uninitialized slice descriptor")
	}
}

// Compose flattens a chain of two descriptor lists into one list against the
// original parent. existing has one descriptor per parent dimension; next has at
// most one descriptor per view dimension (missing trailing ones mean All).
//
// Slicing the original parent with the result selects exactly the elements
// obtained by slicing the existing view with next.
func Compose(parentShape Shape, existing, next []SliceDescriptor) ([]SliceDescriptor, error) {
	if len(existing) != len(parentShape) {
		return nil, invalidf("expected %d descriptors for parent shape %v, got %d", len(parentShape), parentShape, len(existing))
	}
	viewShape, err := descriptorShape(parentShape, existing)
	if err != nil {
		return nil, err
	}
	next, err = padDescriptors(viewShape, next)
	if err != nil {
		return nil, err
	}

	out := make([]SliceDescriptor, len(existing))
	v := 0
	for p, cur := range existing {
		if cur.kind == DescIndex {
			out[p] = cur
			continue
		}
		composed, err := ComposeDescriptor(cur, next[v], parentShape[p])
		if err != nil {
			return nil, err
		}
		out[p] = composed
		v++
	}
	return out, nil
}

// padDescriptors validates descs against shape and fills missing trailing
// dimensions with All.
func padDescriptors(shape Shape, descs []SliceDescriptor) ([]SliceDescriptor, error) {
	if len(descs) > len(shape) {
		return nil, invalidf("%d descriptors for rank %d", len(descs), len(shape))
	}
	out := make([]SliceDescriptor, len(shape))
	for d := range shape {
		if d < len(descs) {
			out[d] = descs[d]
		} else {
			out[d] = All()
		}
		if err := out[d].Validate(shape[d]); err != nil {
			return nil, errors.Wrapf(err, "dimension %d", d)
		}
	}
	return out, nil
}

// descriptorShape returns the view shape produced by descs over parentShape.
func descriptorShape(parentShape Shape, descs []SliceDescriptor) (Shape, error) {
	shape := make(Shape, 0, len(descs))
	for p, s := range descs {
		if err := s.Validate(parentShape[p]); err != nil {
			return nil, errors.Wrapf(err, "dimension %d", p)
		}
		if s.kind != DescIndex {
			shape = append(shape, s.Size(parentShape[p]))
		}
	}
	return shape, nil
}
