// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/strider/internal/backend/cpu"
	"github.com/born-ml/strider/internal/parallel"
	"github.com/born-ml/strider/tensor"
)

// Backend represents the CPU backend implementation.
//
// Operands of any Data variant are accepted; views are materialized before
// the kernel runs and every result is a fresh dense tensor.
type Backend[V tensor.Value] = internalcpu.CPUBackend[V]

// Compile-time checks that Backend implements tensor.Backend.
var (
	_ tensor.Backend[float32] = (*Backend[float32])(nil)
	_ tensor.Backend[int32]   = (*Backend[int32])(nil)
	_ tensor.Backend[int8]    = (*Backend[int8])(nil)
)

// Config controls how kernels split work across goroutines.
type Config = parallel.Config

// DefaultConfig returns a Config sized to the host.
func DefaultConfig() Config { return parallel.DefaultConfig() }

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/born-ml/strider/backend/cpu"
//	    "github.com/born-ml/strider/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New[float32]()
//	    d, _ := tensor.Zeros[float32](tensor.FP32, tensor.Shape{2, 3})
//	    x, _ := tensor.FromData[float32](d, backend)
//	}
func New[V tensor.Value]() *Backend[V] {
	return internalcpu.New[V]()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
func NewWithConfig[V tensor.Value](cfg Config) *Backend[V] {
	return internalcpu.NewWithConfig[V](cfg)
}
