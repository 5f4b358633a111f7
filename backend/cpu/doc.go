// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Float32 matrix multiplication through gonum's BLAS
//   - Saturating integer arithmetic for int8 and int32 dtypes
//   - Row-parallel kernels built on errgroup
//
// # Basic Usage
//
//	backend := cpu.New[int32]()
//	a, _ := tensor.Array[int32](tensor.Int32, [][]int32{{1, 2}, {3, 4}})
//	x, _ := tensor.FromData[int32](a, backend)
//	y, _ := x.MatMul(x) // [[7 10] [15 22]]
//
// # Dtypes
//
// Floating point activations (Sigmoid, Tanh, SiLU, GELU, Softmax) reject
// integer dtypes with tensor.ErrNotSupported. ReLU and arithmetic work for
// every dtype; integer results saturate at the dtype's range.
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each tensor operation
// is isolated and does not share mutable state.
package cpu
