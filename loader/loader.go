// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package loader reads tensors from JSON array literals and SafeTensors files.
//
// Example usage:
//
//	import (
//	    "github.com/born-ml/strider/loader"
//	    "github.com/born-ml/strider/tensor"
//	)
//
//	st, err := loader.OpenSafeTensors("weights.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer st.Close()
//
//	w, err := loader.LoadTensor(st, tensor.Int8Factories(), "layer0.weight")
//	if err != nil {
//	    log.Fatal(err)
//	}
package loader

import (
	"io"

	"github.com/born-ml/strider/internal/loader"
	"github.com/born-ml/strider/tensor"
)

// SafeTensorsReader provides access to the tensors of a SafeTensors file.
// Payloads are read on demand.
type SafeTensorsReader = loader.SafeTensorsReader

// SafeTensorInfo describes one entry of a SafeTensors header.
type SafeTensorInfo = loader.SafeTensorInfo

// Packed is anything WriteSafeTensors can serialize; *tensor.Dense satisfies it.
type Packed = loader.Packed

// ParseArray builds a dense tensor of dtype dt from a JSON array literal.
//
// Example:
//
//	d, err := loader.ParseArray[int32](tensor.Int32, []byte(`[[1, 2], [3, 4]]`))
func ParseArray[V tensor.Value](dt tensor.Dtype, data []byte) (*tensor.Dense[V], error) {
	return loader.ParseArray[V](dt, data)
}

// OpenSafeTensors opens a SafeTensors file.
//
// Supported dtypes are F32, F16, I32, I8 and the packed extensions I4 and
// TERNARY. Entries of other dtypes are listed but cannot be loaded.
func OpenSafeTensors(path string) (*SafeTensorsReader, error) {
	return loader.OpenSafeTensors(path)
}

// NewSafeTensorsReader parses SafeTensors data held by r.
func NewSafeTensorsReader(r io.ReaderAt, size int64) (*SafeTensorsReader, error) {
	return loader.NewSafeTensorsReader(r, size)
}

// LoadTensor decodes the named tensor with the factory registered for its dtype.
func LoadTensor[V tensor.Value](st *SafeTensorsReader, fs *tensor.Factories[V], name string) (*tensor.Dense[V], error) {
	return loader.LoadTensor(st, fs, name)
}

// WriteSafeTensors serializes tensors and optional string metadata to w.
func WriteSafeTensors(w io.Writer, tensors map[string]Packed, metadata map[string]string) error {
	return loader.WriteSafeTensors(w, tensors, metadata)
}
