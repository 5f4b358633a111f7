// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/strider/internal/tensor"
)

// Value is the constraint for decoded element values: int8, int32 or float32.
type Value = tensor.Value

// Dtype tags the packed storage kind of a tensor's elements.
type Dtype = tensor.Dtype

// Supported dtypes.
const (
	Ternary = tensor.Ternary
	Int4    = tensor.Int4
	Int8    = tensor.Int8
	Int32   = tensor.Int32
	FP16    = tensor.FP16
	FP32    = tensor.FP32
)

// ParseDtype resolves a dtype from its name ("int4", "fp16", ...).
func ParseDtype(name string) (Dtype, error) {
	return tensor.ParseDtype(name)
}

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// Error kinds.
var (
	ErrInvalidArgument = tensor.ErrInvalidArgument
	ErrOutOfBounds     = tensor.ErrOutOfBounds
	ErrNotSupported    = tensor.ErrNotSupported
)

// Kind discriminates the Data variants.
type Kind = tensor.Kind

// Data variants.
const (
	KindDense      = tensor.KindDense
	KindTransposed = tensor.KindTransposed
	KindSliced     = tensor.KindSliced
	KindNCHW       = tensor.KindNCHW
)

// Layout is the geometric part of Data.
type Layout = tensor.Layout

// Data is the storage/view abstraction behind a tensor.
type Data[V Value] = tensor.Data[V]

// Dense is contiguous tensor storage.
type Dense[V Value] = tensor.Dense[V]

// Transposed is a zero-copy permuted view.
type Transposed[V Value] = tensor.Transposed[V]

// View is a zero-copy strided view selected by slice descriptors.
type View[V Value] = tensor.View[V]

// NCHWView is a zero-copy window of a rank-4 (batch, channel, height, width) tensor.
type NCHWView[V Value] = tensor.NCHWView[V]

// SliceDescriptor selects elements of one dimension.
type SliceDescriptor = tensor.SliceDescriptor

// Range selects [start, end) with the given step.
func Range(start, end, step int) SliceDescriptor { return tensor.Range(start, end, step) }

// Index selects a single index and drops the dimension.
func Index(i int) SliceDescriptor { return tensor.Index(i) }

// All keeps a dimension unchanged.
func All() SliceDescriptor { return tensor.All() }

// Backend is the compute interface tensors delegate to.
type Backend[V Value] = tensor.Backend[V]

// Tensor pairs data with a backend.
//
// Example:
//
//	backend := cpu.New[float32]()
//	x, err := tensor.FromData[float32](d, backend)
type Tensor[V Value, B Backend[V]] = tensor.Tensor[V, B]

// FromData wraps existing data with a backend.
func FromData[V Value, B Backend[V]](d Data[V], b B) (*Tensor[V, B], error) {
	return tensor.FromData[V, B](d, b)
}

// Must panics if err is non-nil and returns v otherwise.
func Must[T any](v T, err error) T {
	return tensor.Must(v, err)
}

// Creation functions

// NewDense wraps data as a dense tensor. The tensor takes ownership of data;
// use FromSlice when the caller keeps using its slice.
func NewDense[V Value](dt Dtype, shape Shape, data []V) (*Dense[V], error) {
	return tensor.NewDense(dt, shape, data)
}

// Zeros creates a dense tensor filled with zeros.
//
// Example:
//
//	d, err := tensor.Zeros[float32](tensor.FP32, tensor.Shape{2, 3})
func Zeros[V Value](dt Dtype, shape Shape) (*Dense[V], error) {
	return tensor.Zeros[V](dt, shape)
}

// Full creates a dense tensor filled with value.
func Full[V Value](dt Dtype, shape Shape, value V) (*Dense[V], error) {
	return tensor.Full(dt, shape, value)
}

// FromSlice creates a dense tensor from a copy of values.
func FromSlice[V Value](dt Dtype, shape Shape, values []V) (*Dense[V], error) {
	return tensor.FromSlice(dt, shape, values)
}

// FromBytes decodes packed little-endian bytes of dtype dt.
func FromBytes[V Value](dt Dtype, shape Shape, data []byte) (*Dense[V], error) {
	return tensor.FromBytes[V](dt, shape, data)
}

// FromGenerator creates a dense tensor whose element at idx is gen(idx).
func FromGenerator[V Value](dt Dtype, shape Shape, gen func(idx []int) V) (*Dense[V], error) {
	return tensor.FromGenerator(dt, shape, gen)
}

// Arange creates a 1D tensor with values start, start+1, ... below end.
//
// Example:
//
//	x, err := tensor.Arange[int32](tensor.Int32, 0, 10) // [0, 1, 2, ..., 9]
func Arange[V Value](dt Dtype, start, end int) (*Dense[V], error) {
	return tensor.Arange[V](dt, start, end)
}

// Array builds a dense tensor from nested Go slices.
//
// Example:
//
//	d, err := tensor.Array[float32](tensor.FP32, [][]float32{{1, 2}, {3, 4}})
func Array[V Value](dt Dtype, nested any) (*Dense[V], error) {
	return tensor.Array[V](dt, nested)
}

// Encode packs values into the byte layout of dt.
func Encode[V Value](dt Dtype, values []V) ([]byte, error) {
	return tensor.Encode(dt, values)
}

// Decode unpacks n elements of dt.
func Decode[V Value](dt Dtype, data []byte, n int) ([]V, error) {
	return tensor.Decode[V](dt, data, n)
}

// View construction

// NewView returns a zero-copy strided view of parent.
//
// Example:
//
//	// Every other column of row 1.
//	v, err := tensor.NewView(d, tensor.Index(1), tensor.Range(0, 6, 2))
func NewView[V Value](parent Data[V], descs ...SliceDescriptor) (*View[V], error) {
	return tensor.NewView(parent, descs...)
}

// Transpose permutes dimensions; no perm reverses them.
func Transpose[V Value](d Data[V], perm ...int) (Data[V], error) {
	return tensor.Transpose(d, perm...)
}

// Reshape returns a volume-preserving reshape; one dimension may be -1.
func Reshape[V Value](d Data[V], dims ...int) (*Dense[V], error) {
	return tensor.Reshape(d, dims...)
}

// NewNCHWView builds a rank-4 view with per-dimension offsets and steps.
func NewNCHWView[V Value](parent Data[V], shape Shape, offsets, steps [4]int) (*NCHWView[V], error) {
	return tensor.NewNCHWView(parent, shape, offsets, steps)
}

// BatchSlice selects batches [start, end).
func BatchSlice[V Value](parent Data[V], start, end int) (*NCHWView[V], error) {
	return tensor.BatchSlice(parent, start, end)
}

// ChannelSlice extracts one channel, keeping a size-1 channel dimension.
func ChannelSlice[V Value](parent Data[V], c int) (*NCHWView[V], error) {
	return tensor.ChannelSlice(parent, c)
}

// SpatialSlice selects rows [h0, h1) and columns [w0, w1) of every plane.
func SpatialSlice[V Value](parent Data[V], h0, h1, w0, w1 int) (*NCHWView[V], error) {
	return tensor.SpatialSlice(parent, h0, h1, w0, w1)
}

// Materialization policy

// Policy decides whether views are copied into dense storage.
type Policy = tensor.Policy

// Decision is the outcome of Policy.Decide.
type Decision = tensor.Decision

// DefaultPolicy returns the default thresholds.
func DefaultPolicy() Policy { return tensor.DefaultPolicy() }

// ParsePolicy reads a YAML policy document.
func ParsePolicy(data []byte) (Policy, error) { return tensor.ParsePolicy(data) }

// ComplexityScore rates the cost of lazy access through l, in [0, 100].
func ComplexityScore(l Layout) int { return tensor.ComplexityScore(l) }

// Apply keeps d lazy or materializes it according to p.
func Apply[V Value](p Policy, d Data[V]) (Data[V], error) {
	return tensor.Apply(p, d)
}

// Factories

// Factory builds dense data of one dtype from packed bytes.
type Factory[V Value] = tensor.Factory[V]

// Factories is a read-only set of factories keyed by dtype.
type Factories[V Value] = tensor.Factories[V]

// NewFactories validates and registers fs.
func NewFactories[V Value](fs ...Factory[V]) (*Factories[V], error) {
	return tensor.NewFactories(fs...)
}

// DecodeFactory returns the standard factory for dt.
func DecodeFactory[V Value](dt Dtype) Factory[V] {
	return tensor.DecodeFactory[V](dt)
}

// FloatFactories returns factories for FP32 and FP16.
func FloatFactories() *Factories[float32] { return tensor.FloatFactories() }

// Int8Factories returns factories for Int8, Int4 and Ternary.
func Int8Factories() *Factories[int8] { return tensor.Int8Factories() }

// Int32Factories returns the factory for Int32.
func Int32Factories() *Factories[int32] { return tensor.Int32Factories() }
