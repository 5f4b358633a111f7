// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API of the strider tensor engine.
//
// # Overview
//
// Tensor data is stored packed by dtype (Ternary, Int4, Int8, Int32, FP16, FP32)
// and decoded to one of three Go value types: int8, int32 or float32.
// On top of dense storage the package offers zero-copy views:
//   - Transposed: permuted dimensions
//   - View: strided slices built from Range, Index and All descriptors
//   - NCHWView: batch, channel and spatial windows of rank-4 tensors
//
// Views of views never nest; descriptors and permutations compose onto the
// original data. A Policy scores each view and decides whether to copy it into
// dense storage or keep reading through it.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/strider/backend/cpu"
//	    "github.com/born-ml/strider/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New[float32]()
//
//	    d, _ := tensor.Array[float32](tensor.FP32, [][]float32{{1, 2, 3}, {4, 5, 6}})
//	    x, _ := tensor.FromData[float32](d, backend)
//
//	    xt, _ := x.Transpose()  // zero-copy (3, 2) view
//	    y, _ := x.MatMul(xt)    // (2, 2), views are materialized by the backend
//	    fmt.Println(y)
//	}
//
// # Errors
//
// Every error wraps one of ErrInvalidArgument, ErrOutOfBounds or
// ErrNotSupported; test for them with errors.Is.
package tensor
