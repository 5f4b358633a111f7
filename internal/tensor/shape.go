package tensor

import (
	"fmt"
	"strings"
)

// Shape represents the dimensions of a tensor.
// An empty shape describes a scalar.
type Shape []int

// Volume returns the total number of elements described by the shape.
func (s Shape) Volume() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return invalidf("dimension %d is %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Index returns the row-major linear offset of indices.
func (s Shape) Index(indices ...int) (int, error) {
	if len(indices) != len(s) {
		return 0, invalidf("expected %d indices for shape %v, got %d", len(s), s, len(indices))
	}
	linear := 0
	for i, idx := range indices {
		if idx < 0 || idx >= s[i] {
			return 0, invalidf("index %d out of range [0, %d) in dimension %d", idx, s[i], i)
		}
		linear = linear*s[i] + idx
	}
	return linear, nil
}

// Unravel converts a row-major linear offset back into per-dimension indices,
// writing them into dst (which must have len == Rank()).
func (s Shape) Unravel(linear int, dst []int) {
	for d := len(s) - 1; d >= 0; d-- {
		dst[d] = linear % s[d]
		linear /= s[d]
	}
}

// HasCanonicalStrides reports whether strides equal the row-major strides of s.
func (s Shape) HasCanonicalStrides(strides []int) bool {
	if len(strides) != len(s) {
		return false
	}
	canonical := s.ComputeStrides()
	for i := range canonical {
		if canonical[i] != strides[i] {
			return false
		}
	}
	return true
}

// String formats the shape as (d0, d1, ...).
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ForEachIndex calls fn for every index of shape in row-major order.
// The idx slice is reused between calls; copy it if it must be retained.
// Iteration stops at the first error returned by fn.
func ForEachIndex(shape Shape, fn func(linear int, idx []int) error) error {
	n := shape.Volume()
	idx := make([]int, len(shape))
	for linear := 0; linear < n; linear++ {
		if err := fn(linear, idx); err != nil {
			return err
		}
		// Odometer increment, last dimension fastest.
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return nil
}
