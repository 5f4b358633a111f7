package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/buger/jsonparser"
	"github.com/pkg/errors"

	"github.com/born-ml/strider/internal/tensor"
)

// SafeTensors format:
// [8 bytes: header_size (uint64 LE)]
// [header_size bytes: JSON header]
// [tensor data: raw bytes]

// maxHeaderSize bounds the JSON header (100MB).
const maxHeaderSize = 100 * 1024 * 1024

const metadataKey = "__metadata__"

// SafeTensors dtype names. I4 and TERNARY are packed extensions.
var safeTensorsDtypes = map[string]tensor.Dtype{
	"F32":     tensor.FP32,
	"F16":     tensor.FP16,
	"I32":     tensor.Int32,
	"I8":      tensor.Int8,
	"I4":      tensor.Int4,
	"TERNARY": tensor.Ternary,
}

// SafeTensorsDtypeName returns the header name of dt.
func SafeTensorsDtypeName(dt tensor.Dtype) (string, error) {
	for name, d := range safeTensorsDtypes {
		if d == dt {
			return name, nil
		}
	}
	return "", errors.Wrapf(tensor.ErrNotSupported, "no safetensors name for dtype %s", dt)
}

// SafeTensorInfo describes a tensor in a SafeTensors header.
type SafeTensorInfo struct {
	// DtypeName is the dtype string as written in the header.
	DtypeName string
	// Dtype is zero when DtypeName is not supported.
	Dtype       tensor.Dtype
	Shape       tensor.Shape
	DataOffsets [2]int64 // [start, end) relative to the payload
}

// SafeTensorsReader reads SafeTensors data from any io.ReaderAt.
type SafeTensorsReader struct {
	r          io.ReaderAt
	closer     io.Closer
	tensors    map[string]SafeTensorInfo
	metadata   map[string]string
	dataOffset int64 // Offset where tensor data starts
}

// OpenSafeTensors opens a SafeTensors file. Close releases the file.
func OpenSafeTensors(path string) (*SafeTensorsReader, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open safetensors")
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.Wrap(err, "stat safetensors")
	}
	r, err := NewSafeTensorsReader(file, stat.Size())
	if err != nil {
		_ = file.Close() // Best effort close on error
		return nil, err
	}
	r.closer = file
	return r, nil
}

// NewSafeTensorsReader parses the header of size bytes of SafeTensors data.
// Tensor payloads are read lazily by ReadTensorData and LoadTensor.
func NewSafeTensorsReader(r io.ReaderAt, size int64) (*SafeTensorsReader, error) {
	var sizeBuf [8]byte
	if _, err := r.ReadAt(sizeBuf[:], 0); err != nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "read header size: %v", err)
	}

	headerSize := binary.LittleEndian.Uint64(sizeBuf[:])
	if headerSize > maxHeaderSize || int64(headerSize) > size-8 { //nolint:gosec // G115: bounded above.
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "invalid header size: %d", headerSize)
	}

	header := make([]byte, headerSize)
	if _, err := r.ReadAt(header, 8); err != nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "read header: %v", err)
	}

	dataOffset := int64(8 + headerSize) //nolint:gosec // G115: bounded above.
	st := &SafeTensorsReader{
		r:          r,
		tensors:    make(map[string]SafeTensorInfo),
		metadata:   make(map[string]string),
		dataOffset: dataOffset,
	}
	if err := st.parseHeader(header, size-dataOffset); err != nil {
		return nil, err
	}
	return st, nil
}

func (st *SafeTensorsReader) parseHeader(header []byte, payload int64) error {
	err := jsonparser.ObjectEach(header, func(key, value []byte, typ jsonparser.ValueType, _ int) error {
		name := string(key)
		if name == metadataKey {
			return st.parseMetadata(value, typ)
		}
		if typ != jsonparser.Object {
			return errors.Wrapf(tensor.ErrInvalidArgument, "tensor %s: header entry is %s, want object", name, typ)
		}
		info, err := parseTensorInfo(value, payload)
		if err != nil {
			return errors.Wrapf(err, "tensor %s", name)
		}
		st.tensors[name] = info
		return nil
	})
	if err != nil {
		if errors.Is(err, tensor.ErrInvalidArgument) {
			return errors.Wrap(err, "parse header")
		}
		return errors.Wrapf(tensor.ErrInvalidArgument, "parse header: %v", err)
	}
	return nil
}

func (st *SafeTensorsReader) parseMetadata(value []byte, typ jsonparser.ValueType) error {
	if typ != jsonparser.Object {
		return errors.Wrapf(tensor.ErrInvalidArgument, "%s is %s, want object", metadataKey, typ)
	}
	return jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
		if vt != jsonparser.String {
			return errors.Wrapf(tensor.ErrInvalidArgument, "metadata %s is %s, want string", key, vt)
		}
		s, err := jsonparser.ParseString(v)
		if err != nil {
			return errors.Wrapf(tensor.ErrInvalidArgument, "metadata %s: %v", key, err)
		}
		st.metadata[string(key)] = s
		return nil
	})
}

func parseTensorInfo(value []byte, payload int64) (SafeTensorInfo, error) {
	var info SafeTensorInfo

	name, err := jsonparser.GetString(value, "dtype")
	if err != nil {
		return info, errors.Wrapf(tensor.ErrInvalidArgument, "dtype: %v", err)
	}
	info.DtypeName = name
	info.Dtype = safeTensorsDtypes[name]

	shape, err := parseInts(value, "shape")
	if err != nil {
		return info, err
	}
	info.Shape = make(tensor.Shape, len(shape))
	for i, d := range shape {
		info.Shape[i] = int(d)
	}
	if err := info.Shape.Validate(); err != nil {
		return info, err
	}

	offsets, err := parseInts(value, "data_offsets")
	if err != nil {
		return info, err
	}
	if len(offsets) != 2 {
		return info, errors.Wrapf(tensor.ErrInvalidArgument, "data_offsets has %d entries, want 2", len(offsets))
	}
	info.DataOffsets = [2]int64{offsets[0], offsets[1]}
	start, end := offsets[0], offsets[1]
	if start < 0 || end < start || end > payload {
		return info, errors.Wrapf(tensor.ErrInvalidArgument, "data_offsets [%d, %d] outside payload of %d bytes", start, end, payload)
	}
	if info.Dtype != 0 {
		if want := int64(info.Dtype.PackedSize(info.Shape.Volume())); end-start != want {
			return info, errors.Wrapf(tensor.ErrInvalidArgument, "%s%v needs %d bytes, data_offsets span %d", info.Dtype, info.Shape, want, end-start)
		}
	}
	return info, nil
}

func parseInts(value []byte, key string) ([]int64, error) {
	var out []int64
	var parseErr error
	_, err := jsonparser.ArrayEach(value, func(v []byte, typ jsonparser.ValueType, _ int, _ error) {
		if parseErr != nil {
			return
		}
		if typ != jsonparser.Number {
			parseErr = errors.Wrapf(tensor.ErrInvalidArgument, "%s: element is %s, want number", key, typ)
			return
		}
		n, err := jsonparser.ParseInt(v)
		if err != nil {
			parseErr = errors.Wrapf(tensor.ErrInvalidArgument, "%s: %v", key, err)
			return
		}
		out = append(out, n)
	}, key)
	if parseErr != nil {
		return nil, parseErr
	}
	if err != nil {
		return nil, errors.Wrapf(tensor.ErrInvalidArgument, "%s: %v", key, err)
	}
	return out, nil
}

// Close releases the underlying file, if the reader owns one.
func (st *SafeTensorsReader) Close() error {
	if st.closer != nil {
		return st.closer.Close()
	}
	return nil
}

// Metadata returns the metadata map from the header.
func (st *SafeTensorsReader) Metadata() map[string]string {
	return st.metadata
}

// TensorNames returns the tensor names in ascending order.
func (st *SafeTensorsReader) TensorNames() []string {
	names := make([]string, 0, len(st.tensors))
	for name := range st.tensors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TensorInfo returns information about a specific tensor.
func (st *SafeTensorsReader) TensorInfo(name string) (SafeTensorInfo, error) {
	info, ok := st.tensors[name]
	if !ok {
		return SafeTensorInfo{}, errors.Wrapf(tensor.ErrInvalidArgument, "tensor %s not found", name)
	}
	return info, nil
}

// ReadTensorData reads the raw packed bytes of a tensor.
func (st *SafeTensorsReader) ReadTensorData(name string) ([]byte, error) {
	info, err := st.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	data := make([]byte, info.DataOffsets[1]-info.DataOffsets[0])
	if _, err := st.r.ReadAt(data, st.dataOffset+info.DataOffsets[0]); err != nil {
		return nil, errors.Wrapf(err, "read tensor %s", name)
	}
	return data, nil
}

// LoadTensor decodes the named tensor with the factory registered for its dtype.
func LoadTensor[V tensor.Value](st *SafeTensorsReader, fs *tensor.Factories[V], name string) (*tensor.Dense[V], error) {
	info, err := st.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	if info.Dtype == 0 {
		return nil, errors.Wrapf(tensor.ErrNotSupported, "tensor %s: dtype %s", name, info.DtypeName)
	}
	data, err := st.ReadTensorData(name)
	if err != nil {
		return nil, err
	}
	d, err := fs.FromBytes(info.Dtype, info.Shape, data)
	if err != nil {
		return nil, errors.Wrapf(err, "tensor %s", name)
	}
	return d, nil
}

// Packed is what WriteSafeTensors needs from a tensor. *tensor.Dense of any
// value type satisfies it.
type Packed interface {
	Dtype() tensor.Dtype
	Shape() tensor.Shape
	Bytes() ([]byte, error)
}

// WriteSafeTensors writes tensors (in name order) and metadata in SafeTensors format.
func WriteSafeTensors(w io.Writer, tensors map[string]Packed, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if name == metadataKey {
			return errors.Wrapf(tensor.ErrInvalidArgument, "tensor name %s is reserved", metadataKey)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	type entry struct {
		Dtype       string   `json:"dtype"`
		Shape       []int    `json:"shape"`
		DataOffsets [2]int64 `json:"data_offsets"`
	}
	header := make(map[string]any, len(tensors)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var payload bytes.Buffer
	for _, name := range names {
		t := tensors[name]
		dtName, err := SafeTensorsDtypeName(t.Dtype())
		if err != nil {
			return err
		}
		data, err := t.Bytes()
		if err != nil {
			return errors.Wrapf(err, "encode tensor %s", name)
		}
		start := int64(payload.Len())
		payload.Write(data)
		header[name] = entry{
			Dtype:       dtName,
			Shape:       append([]int{}, t.Shape()...),
			DataOffsets: [2]int64{start, int64(payload.Len())},
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "marshal header")
	}
	// Pad the header with spaces so the payload starts 8-byte aligned.
	if pad := len(headerJSON) % 8; pad != 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte{' '}, 8-pad)...)
	}

	var sizeBuf [8]byte
	binary.LittleEndian.PutUint64(sizeBuf[:], uint64(len(headerJSON)))
	for _, chunk := range [][]byte{sizeBuf[:], headerJSON, payload.Bytes()} {
		if _, err := w.Write(chunk); err != nil {
			return errors.Wrap(err, "write safetensors")
		}
	}
	return nil
}
