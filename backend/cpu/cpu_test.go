// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu_test

import (
	"errors"
	"testing"

	"github.com/born-ml/strider/backend/cpu"
	"github.com/born-ml/strider/tensor"
)

func TestNew(t *testing.T) {
	if got := cpu.New[float32]().Name(); got != "CPU" {
		t.Errorf("Name() = %q, want CPU", got)
	}
}

func TestMatMulThroughPublicAPI(t *testing.T) {
	backend := cpu.NewWithConfig[int32](cpu.DefaultConfig())
	d := tensor.Must(tensor.Array[int32](tensor.Int32, [][]int32{{1, 2}, {3, 4}}))
	x := tensor.Must(tensor.FromData[int32](d, backend))

	y, err := x.MatMul(x)
	if err != nil {
		t.Fatalf("MatMul failed: %v", err)
	}
	got, err := y.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice failed: %v", err)
	}
	want := []int32{7, 10, 15, 22}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestIntActivationNotSupported(t *testing.T) {
	d := tensor.Must(tensor.Arange[int8](tensor.Int8, -2, 2))
	x := tensor.Must(tensor.FromData[int8](d, cpu.New[int8]()))

	if _, err := x.Sigmoid(); !errors.Is(err, tensor.ErrNotSupported) {
		t.Errorf("Sigmoid on int8: got %v, want ErrNotSupported", err)
	}
}
