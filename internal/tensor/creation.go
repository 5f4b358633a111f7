package tensor

import (
	"reflect"

	"github.com/born-ml/strider/internal/parallel"
)

// Zeros creates a dense tensor filled with zeros.
//
// Example:
//
//	d, err := tensor.Zeros[float32](tensor.FP32, tensor.Shape{3, 4})
func Zeros[V Value](dt Dtype, shape Shape) (*Dense[V], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return NewDense(dt, shape, make([]V, shape.Volume()))
}

// Full creates a dense tensor filled with value.
func Full[V Value](dt Dtype, shape Shape, value V) (*Dense[V], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]V, shape.Volume())
	for i := range data {
		data[i] = value
	}
	return NewDense(dt, shape, data)
}

// FromSlice creates a dense tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[V Value](dt Dtype, shape Shape, values []V) (*Dense[V], error) {
	if shape.Volume() != len(values) {
		return nil, invalidf("shape %v requires %d elements, but got %d", shape, shape.Volume(), len(values))
	}
	return NewDense(dt, shape, append([]V(nil), values...))
}

// FromBytes decodes packed little-endian bytes of dtype dt.
func FromBytes[V Value](dt Dtype, shape Shape, data []byte) (*Dense[V], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	values, err := Decode[V](dt, data, shape.Volume())
	if err != nil {
		return nil, err
	}
	return NewDense(dt, shape, values)
}

// FromGenerator creates a dense tensor whose element at idx is gen(idx).
// gen must be safe for concurrent calls and must not retain idx.
//
// Example:
//
//	// 3x3 identity
//	eye, err := tensor.FromGenerator(tensor.FP32, tensor.Shape{3, 3}, func(idx []int) float32 {
//		if idx[0] == idx[1] {
//			return 1
//		}
//		return 0
//	})
func FromGenerator[V Value](dt Dtype, shape Shape, gen func(idx []int) V) (*Dense[V], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]V, shape.Volume())
	err := parallel.ForRange(len(data), func(start, end int) error {
		idx := make([]int, len(shape))
		for i := start; i < end; i++ {
			shape.Unravel(i, idx)
			data[i] = gen(idx)
		}
		return nil
	}, copyConfig)
	if err != nil {
		return nil, err
	}
	return NewDense(dt, shape, data)
}

// FromFlatGenerator creates a dense tensor whose i-th row-major element is gen(i).
func FromFlatGenerator[V Value](dt Dtype, shape Shape, gen func(i int) V) (*Dense[V], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	data := make([]V, shape.Volume())
	parallel.For(len(data), func(i int) {
		data[i] = gen(i)
	}, copyConfig)
	return NewDense(dt, shape, data)
}

// Arange creates a 1D tensor with values start, start+1, ... below end.
func Arange[V Value](dt Dtype, start, end int) (*Dense[V], error) {
	if end <= start {
		return nil, invalidf("arange: end %d must be greater than start %d", end, start)
	}
	return FromFlatGenerator(dt, Shape{end - start}, func(i int) V {
		return V(start + i)
	})
}

// Array builds a dense tensor from nested Go slices, numpy-array style:
// a []V is rank 1, a [][]V rank 2 and so on. Every row at the same depth must
// have the same length; a scalar V gives a rank-0 tensor.
//
// Example:
//
//	d, err := tensor.Array[float32](tensor.FP32, [][]float32{{1, 2, 3}, {4, 5, 6}})
func Array[V Value](dt Dtype, nested any) (*Dense[V], error) {
	var zero V
	elemType := reflect.TypeOf(zero)

	rv := reflect.ValueOf(nested)
	if !rv.IsValid() {
		return nil, invalidf("array: nil input")
	}

	// Infer the shape from the first element at each depth.
	var shape Shape
	for cur := rv; cur.Kind() == reflect.Slice; {
		if cur.Len() == 0 {
			return nil, invalidf("array: empty row at depth %d", len(shape))
		}
		shape = append(shape, cur.Len())
		cur = cur.Index(0)
	}

	data := make([]V, 0, shape.Volume())
	var walk func(v reflect.Value, depth int) error
	walk = func(v reflect.Value, depth int) error {
		if depth == len(shape) {
			if v.Type() != elemType {
				return invalidf("array: element of type %s, want %s", v.Type(), elemType)
			}
			data = append(data, v.Interface().(V))
			return nil
		}
		if v.Kind() != reflect.Slice {
			return invalidf("array: expected a row at depth %d, got %s", depth, v.Type())
		}
		if v.Len() != shape[depth] {
			return invalidf("array: row of length %d at depth %d, want %d", v.Len(), depth, shape[depth])
		}
		for i := 0; i < v.Len(); i++ {
			if err := walk(v.Index(i), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rv, 0); err != nil {
		return nil, err
	}
	return NewDense(dt, shape, data)
}
