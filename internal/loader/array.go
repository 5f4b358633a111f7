package loader

import (
	"math"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/born-ml/strider/internal/tensor"
)

// ParseArray builds a dense tensor of dtype dt from a JSON literal.
// Nested arrays give the shape; every row at the same depth must have the
// same length and every leaf must sit at the same depth. A bare number
// gives a rank-0 tensor. Integer dtypes reject fractional values and values
// outside the dtype's range.
//
// Example:
//
//	d, err := loader.ParseArray[float32](tensor.FP32, []byte(`[[1, 2, 3], [4, 5, 6]]`))
func ParseArray[V tensor.Value](dt tensor.Dtype, data []byte) (*tensor.Dense[V], error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "parse array: %v", err)
	}

	p := arrayParser[V]{dt: dt, leafDepth: -1}
	if err := p.walk(value, typ, 0); err != nil {
		return nil, err
	}
	return tensor.NewDense(dt, p.shape, p.values)
}

type arrayParser[V tensor.Value] struct {
	dt        tensor.Dtype
	shape     tensor.Shape
	leafDepth int
	values    []V
}

func (p *arrayParser[V]) walk(value []byte, typ jsonparser.ValueType, depth int) error {
	switch typ {
	case jsonparser.Array:
		if p.leafDepth >= 0 && depth >= p.leafDepth {
			return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: unexpected row at depth %d", depth)
		}
		return p.row(value, depth)
	case jsonparser.Number:
		if p.leafDepth < 0 {
			p.leafDepth = depth
		}
		if depth != p.leafDepth {
			return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: number at depth %d, want %d", depth, p.leafDepth)
		}
		v, err := p.number(value)
		if err != nil {
			return err
		}
		p.values = append(p.values, v)
		return nil
	default:
		return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: unexpected %s %q at depth %d", typ, value, depth)
	}
}

func (p *arrayParser[V]) row(value []byte, depth int) error {
	type element struct {
		raw []byte
		typ jsonparser.ValueType
	}
	var elems []element
	var eachErr error
	_, err := jsonparser.ArrayEach(value, func(raw []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil && eachErr == nil {
			eachErr = err
		}
		elems = append(elems, element{raw: raw, typ: typ})
	})
	if err == nil {
		err = eachErr
	}
	if err != nil {
		return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: %v", err)
	}
	if len(elems) == 0 {
		return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: empty row at depth %d", depth)
	}

	// The first row reached at each depth fixes that dimension.
	switch {
	case depth == len(p.shape):
		p.shape = append(p.shape, len(elems))
	case p.shape[depth] != len(elems):
		return errors.Wrapf(tensor.ErrInvalidArgument, "parse array: row of length %d at depth %d, want %d", len(elems), depth, p.shape[depth])
	}

	for _, e := range elems {
		if err := p.walk(e.raw, e.typ, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (p *arrayParser[V]) number(raw []byte) (V, error) {
	f, err := jsonparser.ParseFloat(raw)
	if err != nil {
		return 0, errors.Wrapf(tensor.ErrInvalidArgument, "parse array: %v", err)
	}
	lo, hi, isInt := p.dt.Range()
	if !isInt {
		return V(f), nil
	}
	if f != math.Trunc(f) {
		return 0, errors.Wrapf(tensor.ErrInvalidArgument, "parse array: %s value %s is not an integer", p.dt, raw)
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, errors.Wrapf(tensor.ErrInvalidArgument, "parse array: %s value %s outside [%d, %d]", p.dt, raw, lo, hi)
	}
	return V(int64(f)), nil
}
