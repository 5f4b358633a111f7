// Package loader reads tensors from external representations.
//
// Two sources are supported:
//   - JSON literals: nested arrays such as [[1, 2], [3, 4]] (numpy-array style)
//   - SafeTensors files: 8-byte header length, JSON header, raw little-endian payload
//
// Both produce *tensor.Dense values; the safetensors path decodes through a
// tensor.Factories registry so the set of accepted dtypes is chosen by the caller.
//
// Example:
//
//	r, err := loader.OpenSafeTensors("weights.safetensors")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	w, err := loader.LoadTensor(r, tensor.FloatFactories(), "layer0.weight")
package loader
