package tensor

import "sort"

// Factory builds dense data of one dtype from packed bytes.
type Factory[V Value] struct {
	Dtype  Dtype
	Decode func(data []byte, n int) ([]V, error)
}

// DecodeFactory returns the factory that unpacks dt with the standard codec.
func DecodeFactory[V Value](dt Dtype) Factory[V] {
	return Factory[V]{
		Dtype: dt,
		Decode: func(data []byte, n int) ([]V, error) {
			return Decode[V](dt, data, n)
		},
	}
}

// Factories is a read-only set of factories keyed by dtype.
// Build one at startup with NewFactories and pass it to the code that loads tensors.
type Factories[V Value] struct {
	byDtype map[Dtype]Factory[V]
}

// NewFactories validates fs (matching value family, no duplicate dtypes).
func NewFactories[V Value](fs ...Factory[V]) (*Factories[V], error) {
	byDtype := make(map[Dtype]Factory[V], len(fs))
	for _, f := range fs {
		if err := checkFamily[V](f.Dtype); err != nil {
			return nil, err
		}
		if f.Decode == nil {
			return nil, invalidf("factory for %s has no decoder", f.Dtype)
		}
		if _, dup := byDtype[f.Dtype]; dup {
			return nil, invalidf("duplicate factory for %s", f.Dtype)
		}
		byDtype[f.Dtype] = f
	}
	return &Factories[V]{byDtype: byDtype}, nil
}

// FloatFactories returns factories for FP32 and FP16.
func FloatFactories() *Factories[float32] {
	return Must(NewFactories(DecodeFactory[float32](FP32), DecodeFactory[float32](FP16)))
}

// Int8Factories returns factories for Int8, Int4 and Ternary.
func Int8Factories() *Factories[int8] {
	return Must(NewFactories(DecodeFactory[int8](Int8), DecodeFactory[int8](Int4), DecodeFactory[int8](Ternary)))
}

// Int32Factories returns the factory for Int32.
func Int32Factories() *Factories[int32] {
	return Must(NewFactories(DecodeFactory[int32](Int32)))
}

// Dtypes returns the registered dtypes in ascending order.
func (f *Factories[V]) Dtypes() []Dtype {
	out := make([]Dtype, 0, len(f.byDtype))
	for dt := range f.byDtype {
		out = append(out, dt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FromBytes decodes data as dtype dt into a dense tensor of the given shape.
func (f *Factories[V]) FromBytes(dt Dtype, shape Shape, data []byte) (*Dense[V], error) {
	factory, ok := f.byDtype[dt]
	if !ok {
		return nil, unsupportedf("no factory registered for %s", dt)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	values, err := factory.Decode(data, shape.Volume())
	if err != nil {
		return nil, err
	}
	return NewDense(dt, shape, values)
}
