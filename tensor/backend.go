// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/strider/internal/tensor"
)

// MockBackend is a naive reference backend for tests.
type MockBackend[V Value] = tensor.MockBackend[V]

// NewMockBackend creates a MockBackend.
func NewMockBackend[V Value]() *MockBackend[V] {
	return tensor.NewMockBackend[V]()
}
