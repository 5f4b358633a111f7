// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/born-ml/strider/tensor"
)

// TestBackendInterface verifies that MockBackend implements tensor.Backend.
func TestBackendInterface(_ *testing.T) {
	var _ tensor.Backend[float32] = (*tensor.MockBackend[float32])(nil)
	var _ tensor.Backend[int8] = (*tensor.MockBackend[int8])(nil)
}

// TestDenseAPI verifies the Dense alias exposes the expected API.
func TestDenseAPI(t *testing.T) {
	d, err := tensor.Zeros[float32](tensor.FP32, tensor.Shape{2, 3})
	if err != nil {
		t.Fatalf("Zeros failed: %v", err)
	}
	if !d.Shape().Equal(tensor.Shape{2, 3}) {
		t.Errorf("Shape() = %v, want [2 3]", d.Shape())
	}
	if d.Dtype() != tensor.FP32 {
		t.Errorf("Dtype() = %v, want fp32", d.Dtype())
	}
	if d.Kind() != tensor.KindDense {
		t.Errorf("Kind() = %v, want dense", d.Kind())
	}

	b, err := d.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if len(b) != 6*4 {
		t.Errorf("len(Bytes()) = %d, want 24", len(b))
	}
}

func TestViewsThroughPublicAPI(t *testing.T) {
	d := tensor.Must(tensor.Arange[int32](tensor.Int32, 0, 12))
	m := tensor.Must(tensor.Reshape[int32](d, 3, 4))

	v, err := tensor.NewView[int32](m, tensor.Range(0, 3, 2), tensor.Range(1, 4, 2))
	if err != nil {
		t.Fatalf("NewView failed: %v", err)
	}
	if !v.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("Shape() = %v, want [2 2]", v.Shape())
	}

	// Rows 0 and 2, columns 1 and 3.
	want := []int32{1, 3, 9, 11}
	dense, err := v.Materialize()
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	for i, got := range dense.Values() {
		if got != want[i] {
			t.Errorf("element %d = %d, want %d", i, got, want[i])
		}
	}

	decision, err := tensor.DefaultPolicy().Decide(v)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decision.Score != tensor.ComplexityScore(v) {
		t.Errorf("decision score %d != ComplexityScore %d", decision.Score, tensor.ComplexityScore(v))
	}
}

func TestTensorWithMockBackend(t *testing.T) {
	d := tensor.Must(tensor.Array[float32](tensor.FP32, [][]float32{{1, 2}, {3, 4}}))
	x, err := tensor.FromData[float32](d, tensor.NewMockBackend[float32]())
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}

	y, err := x.Add(x)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	got, err := y.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice failed: %v", err)
	}
	want := []float32{2, 4, 6, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestErrorKinds(t *testing.T) {
	_, err := tensor.Zeros[float32](tensor.FP32, tensor.Shape{0, 2})
	if !errors.Is(err, tensor.ErrInvalidArgument) {
		t.Errorf("zero dimension: got %v, want ErrInvalidArgument", err)
	}

	d := tensor.Must(tensor.Arange[int8](tensor.Int8, 0, 4))
	_, err = tensor.NewView[int8](d, tensor.Range(0, 8, 1))
	if !errors.Is(err, tensor.ErrInvalidArgument) {
		t.Errorf("range past end: got %v, want ErrInvalidArgument", err)
	}
	_, err = d.Get(4)
	if !errors.Is(err, tensor.ErrOutOfBounds) {
		t.Errorf("index past end: got %v, want ErrOutOfBounds", err)
	}

	_, err = tensor.Zeros[int8](tensor.FP32, tensor.Shape{2})
	if !errors.Is(err, tensor.ErrInvalidArgument) {
		t.Errorf("dtype/value mismatch: got %v, want ErrInvalidArgument", err)
	}
}
