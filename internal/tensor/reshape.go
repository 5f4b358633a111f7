package tensor

// ResolveShape validates dims against volume, inferring at most one -1 entry.
func ResolveShape(volume int, dims ...int) (Shape, error) {
	shape := make(Shape, len(dims))
	infer := -1
	known := 1
	for i, d := range dims {
		switch {
		case d == -1:
			if infer >= 0 {
				return nil, invalidf("reshape: more than one -1 in %v", dims)
			}
			infer = i
		case d <= 0:
			return nil, invalidf("reshape: invalid dimension %d at %d", d, i)
		default:
			known *= d
		}
		shape[i] = d
	}

	if infer >= 0 {
		if volume%known != 0 {
			return nil, invalidf("reshape: cannot infer dimension: %d elements not divisible by %d", volume, known)
		}
		shape[infer] = volume / known
	}
	if shape.Volume() != volume {
		return nil, invalidf("reshape: shape %v has %d elements, tensor has %d", shape, shape.Volume(), volume)
	}
	return shape, nil
}

// Reshape returns d with a new, volume-preserving shape. Dense data is
// reshaped zero-copy; any other variant is materialized first.
//
// Example:
//
//	r, err := tensor.Reshape(d, 3, -1) // 12 elements -> (3, 4)
func Reshape[V Value](d Data[V], dims ...int) (*Dense[V], error) {
	shape, err := ResolveShape(d.Shape().Volume(), dims...)
	if err != nil {
		return nil, err
	}
	dense, err := d.Materialize()
	if err != nil {
		return nil, err
	}
	return newDense(dense.dtype, shape, dense.data, dense.offset), nil
}
