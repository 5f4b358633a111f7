// Package tensor provides the tensor data and view engine: shapes, dtypes,
// packed storage, zero-copy strided views and the materialization policy.
package tensor

import (
	"math"
	"strings"
)

// Value is the constraint for decoded element values.
// Ternary, Int4 and Int8 decode to int8, Int32 to int32, FP16 and FP32 to float32.
type Value interface {
	~int8 | ~int32 | ~float32
}

// Dtype tags the storage kind of a tensor's elements.
// It selects the packing format and the value family; it never changes after creation.
type Dtype uint8

// Supported dtypes.
const (
	Ternary Dtype = iota + 1
	Int4
	Int8
	Int32
	FP16
	FP32
)

var (
	dtypeToString = [...]string{
		Ternary: "ternary",
		Int4:    "int4",
		Int8:    "int8",
		Int32:   "int32",
		FP16:    "fp16",
		FP32:    "fp32",
	}
	dtypeToBits = [...]int{
		Ternary: 2,
		Int4:    4,
		Int8:    8,
		Int32:   32,
		FP16:    16,
		FP32:    32,
	}
)

// Validate returns an error if the Dtype is not one of the supported tags.
func (dt Dtype) Validate() error {
	if dt == 0 || dt > FP32 {
		return invalidf("unknown dtype %d", uint8(dt))
	}
	return nil
}

// String returns a human-readable name for the dtype.
func (dt Dtype) String() string {
	if dt.Validate() != nil {
		return "unknown"
	}
	return dtypeToString[dt]
}

// SizeInBits returns the packed width of one element, or 0 for an invalid dtype.
func (dt Dtype) SizeInBits() int {
	if dt.Validate() != nil {
		return 0
	}
	return dtypeToBits[dt]
}

// ValuesPerByte returns how many elements share one byte (1 for byte-or-wider dtypes).
func (dt Dtype) ValuesPerByte() int {
	bits := dt.SizeInBits()
	if bits == 0 || bits >= 8 {
		return 1
	}
	return 8 / bits
}

// PackedSize returns the number of bytes needed to store n elements.
func (dt Dtype) PackedSize(n int) int {
	bits := dt.SizeInBits()
	if bits >= 8 {
		return n * bits / 8
	}
	per := dt.ValuesPerByte()
	return (n + per - 1) / per
}

// IsFloat reports whether values of this dtype decode to float32.
func (dt Dtype) IsFloat() bool {
	return dt == FP16 || dt == FP32
}

// Range returns the inclusive value range representable by integer dtypes.
// ok is false for float dtypes.
func (dt Dtype) Range() (lo, hi int64, ok bool) {
	switch dt {
	case Ternary:
		return -1, 1, true
	case Int4:
		return -8, 7, true
	case Int8:
		return -128, 127, true
	case Int32:
		return -1 << 31, 1<<31 - 1, true
	default:
		return 0, 0, false
	}
}

// ParseDtype resolves a dtype from its name (case-insensitive).
func ParseDtype(name string) (Dtype, error) {
	lower := strings.ToLower(name)
	for dt := Ternary; dt <= FP32; dt++ {
		if dtypeToString[dt] == lower {
			return dt, nil
		}
	}
	return 0, invalidf("unknown dtype %q", name)
}

// checkFamily verifies that dt decodes to the Go value type V.
func checkFamily[V Value](dt Dtype) error {
	if err := dt.Validate(); err != nil {
		return err
	}
	var zero V
	ok := false
	switch any(zero).(type) {
	case int8:
		ok = dt == Ternary || dt == Int4 || dt == Int8
	case int32:
		ok = dt == Int32
	case float32:
		ok = dt == FP16 || dt == FP32
	}
	if !ok {
		return invalidf("dtype %s cannot hold %T values", dt, zero)
	}
	return nil
}

// FromFloat64 converts x to the value type of dt. Integer dtypes truncate
// toward zero and saturate at the dtype's range; NaN becomes 0.
func FromFloat64[V Value](dt Dtype, x float64) V {
	lo, hi, ok := dt.Range()
	if !ok {
		return V(x)
	}
	if math.IsNaN(x) {
		return 0
	}
	x = math.Trunc(x)
	switch {
	case x < float64(lo):
		return V(lo)
	case x > float64(hi):
		return V(hi)
	}
	return V(int64(x))
}
