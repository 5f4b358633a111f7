package tensor

import (
	"fmt"
	"strings"
)

// Tensor pairs tensor data with the backend that computes on it.
//
// Type Parameters:
//   - V: decoded element value type (int8, int32 or float32)
//   - B: computation backend
//
// Example:
//
//	backend := cpu.New[float32]()
//	x, _ := tensor.FromData(tensor.Must(tensor.Array[float32](tensor.FP32, [][]float32{{1, 2}, {3, 4}})), backend)
//	y, _ := x.Transpose()
//	z, _ := x.MatMul(y)
type Tensor[V Value, B Backend[V]] struct {
	data    Data[V]
	backend B
}

// FromData wraps existing data.
func FromData[V Value, B Backend[V]](d Data[V], b B) (*Tensor[V, B], error) {
	if d == nil {
		return nil, invalidf("nil data")
	}
	return &Tensor[V, B]{data: d, backend: b}, nil
}

func wrap[V Value, B Backend[V]](d Data[V], b B, err error) (*Tensor[V, B], error) {
	if err != nil {
		return nil, err
	}
	return &Tensor[V, B]{data: d, backend: b}, nil
}

func wrapDense[V Value, B Backend[V]](d *Dense[V], b B, err error) (*Tensor[V, B], error) {
	if err != nil {
		return nil, err
	}
	return &Tensor[V, B]{data: d, backend: b}, nil
}

// Data returns the underlying storage or view.
func (t *Tensor[V, B]) Data() Data[V] { return t.data }

// Backend returns the computation backend.
func (t *Tensor[V, B]) Backend() B { return t.backend }

// Shape returns the tensor's shape.
func (t *Tensor[V, B]) Shape() Shape { return t.data.Shape() }

// Rank returns the number of dimensions.
func (t *Tensor[V, B]) Rank() int { return len(t.data.Shape()) }

// Volume returns the number of elements.
func (t *Tensor[V, B]) Volume() int { return t.data.Shape().Volume() }

// Dtype returns the element storage kind.
func (t *Tensor[V, B]) Dtype() Dtype { return t.data.Dtype() }

// At returns the element at the given indices.
func (t *Tensor[V, B]) At(indices ...int) (V, error) { return t.data.Get(indices...) }

// IsView reports whether the tensor reads through a non-dense variant.
func (t *Tensor[V, B]) IsView() bool { return t.data.Kind() != KindDense }

// Slice returns a zero-copy sub-tensor from 2*rank start/end pairs.
//
// Example:
//
//	rows, err := x.Slice(1, 2, 0, 3) // row 1, columns 0..2
func (t *Tensor[V, B]) Slice(ranges ...int) (*Tensor[V, B], error) {
	d, err := t.data.Slice(ranges...)
	return wrap(d, t.backend, err)
}

// SliceWith returns a zero-copy view selected by per-dimension descriptors.
func (t *Tensor[V, B]) SliceWith(descs ...SliceDescriptor) (*Tensor[V, B], error) {
	v, err := NewView(t.data, descs...)
	if err != nil {
		return nil, err
	}
	return wrap[V, B](v, t.backend, nil)
}

// Transpose permutes dimensions. With no axes, dimensions are reversed.
func (t *Tensor[V, B]) Transpose(axes ...int) (*Tensor[V, B], error) {
	d, err := Transpose(t.data, axes...)
	return wrap(d, t.backend, err)
}

// Reshape returns a tensor with the same elements and a new shape.
// One dimension may be -1 to infer it.
func (t *Tensor[V, B]) Reshape(dims ...int) (*Tensor[V, B], error) {
	d, err := Reshape(t.data, dims...)
	return wrapDense(d, t.backend, err)
}

// Materialize copies the tensor into dense storage (no-op when already dense).
func (t *Tensor[V, B]) Materialize() (*Tensor[V, B], error) {
	d, err := t.data.Materialize()
	return wrapDense(d, t.backend, err)
}

// Contiguous applies policy: the tensor stays a view or becomes dense.
func (t *Tensor[V, B]) Contiguous(policy Policy) (*Tensor[V, B], error) {
	d, err := Apply(policy, t.data)
	return wrap(d, t.backend, err)
}

// ToSlice returns a copy of all elements in row-major order.
func (t *Tensor[V, B]) ToSlice() ([]V, error) {
	out := make([]V, t.Volume())
	if err := t.data.CopyTo(out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// String returns a short description, plus the values for small tensors.
func (t *Tensor[V, B]) String() string {
	head := fmt.Sprintf("Tensor[%s]%v %s on %s", t.Dtype(), t.Shape(), t.data.Kind(), t.backend.Name())
	if t.Volume() > 64 {
		return head
	}
	values, err := t.ToSlice()
	if err != nil {
		return head
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return head + " [" + strings.Join(parts, " ") + "]"
}
