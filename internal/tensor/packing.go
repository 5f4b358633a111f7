package tensor

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// Ternary 2-bit codes. 0b11 is unused and rejected on decode.
const (
	ternaryNeg  byte = 0b00
	ternaryZero byte = 0b01
	ternaryPos  byte = 0b10
)

// DecodeFloat32 interprets little-endian bytes as float32 values.
func DecodeFloat32(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, invalidf("float32 decode: %d bytes is not a multiple of 4", len(data))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// EncodeFloat32 writes values as little-endian float32.
func EncodeFloat32(values []float32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// DecodeInt32 interprets little-endian bytes as int32 values.
func DecodeInt32(data []byte) ([]int32, error) {
	if len(data)%4 != 0 {
		return nil, invalidf("int32 decode: %d bytes is not a multiple of 4", len(data))
	}
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:])) //nolint:gosec // G115: bit reinterpretation.
	}
	return out, nil
}

// EncodeInt32 writes values as little-endian int32.
func EncodeInt32(values []int32) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v)) //nolint:gosec // G115: bit reinterpretation.
	}
	return out
}

// DecodeFP16 interprets little-endian IEEE 754 half precision bytes,
// widening each value to float32.
func DecodeFP16(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, invalidf("fp16 decode: %d bytes is not a multiple of 2", len(data))
	}
	out := make([]float32, len(data)/2)
	for i := range out {
		out[i] = float16.Frombits(binary.LittleEndian.Uint16(data[i*2:])).Float32()
	}
	return out, nil
}

// EncodeFP16 narrows values to half precision (round to nearest even).
func EncodeFP16(values []float32) []byte {
	out := make([]byte, len(values)*2)
	for i, v := range values {
		binary.LittleEndian.PutUint16(out[i*2:], float16.Fromfloat32(v).Bits())
	}
	return out
}

// DecodeInt8 reinterprets bytes as signed 8-bit values.
func DecodeInt8(data []byte) []int8 {
	out := make([]int8, len(data))
	for i, b := range data {
		out[i] = int8(b) //nolint:gosec // G115: bit reinterpretation.
	}
	return out
}

// EncodeInt8 reinterprets signed 8-bit values as bytes.
func EncodeInt8(values []int8) []byte {
	out := make([]byte, len(values))
	for i, v := range values {
		out[i] = byte(v)
	}
	return out
}

// PackInt4 packs signed 4-bit values two per byte, high nibble first.
// Values are clamped to [-8, 7]; an odd trailing value leaves the low nibble zero.
func PackInt4(values []int8) []byte {
	out := make([]byte, (len(values)+1)/2)
	for i, v := range values {
		v = min(max(v, -8), 7)
		nib := byte(v) & 0x0F
		if i%2 == 0 {
			out[i/2] |= nib << 4
		} else {
			out[i/2] |= nib
		}
	}
	return out
}

// UnpackInt4 extracts n signed 4-bit values packed high nibble first.
func UnpackInt4(data []byte, n int) ([]int8, error) {
	if n < 0 || (n+1)/2 != len(data) {
		return nil, invalidf("int4 unpack: %d values need %d bytes, got %d", n, (n+1)/2, len(data))
	}
	out := make([]int8, n)
	for i := range out {
		b := data[i/2]
		var nib byte
		if i%2 == 0 {
			nib = b >> 4
		} else {
			nib = b & 0x0F
		}
		out[i] = int8(nib<<4) >> 4 //nolint:gosec // G115: sign extension of the nibble.
	}
	return out, nil
}

// PackTernary packs tri-state values four per byte, first value in the top two bits,
// using the codes -1→00, 0→01, 1→10. Values are clamped to their sign.
// Unused trailing slots are filled with the zero code.
func PackTernary(values []int8) []byte {
	out := make([]byte, (len(values)+3)/4)
	for i := range out {
		out[i] = ternaryZero<<6 | ternaryZero<<4 | ternaryZero<<2 | ternaryZero
	}
	for i, v := range values {
		code := ternaryZero
		switch {
		case v < 0:
			code = ternaryNeg
		case v > 0:
			code = ternaryPos
		}
		shift := uint(6 - 2*(i%4))
		out[i/4] = out[i/4]&^(0b11<<shift) | code<<shift
	}
	return out
}

// UnpackTernary extracts n tri-state values packed by PackTernary.
func UnpackTernary(data []byte, n int) ([]int8, error) {
	if n < 0 || (n+3)/4 != len(data) {
		return nil, invalidf("ternary unpack: %d values need %d bytes, got %d", n, (n+3)/4, len(data))
	}
	out := make([]int8, n)
	for i := range out {
		shift := uint(6 - 2*(i%4))
		switch (data[i/4] >> shift) & 0b11 {
		case ternaryNeg:
			out[i] = -1
		case ternaryZero:
			out[i] = 0
		case ternaryPos:
			out[i] = 1
		default:
			return nil, invalidf("ternary unpack: invalid code 0b11 at element %d", i)
		}
	}
	return out, nil
}

// Decode unpacks n elements of dtype dt from data into the value type V.
// The byte length must match the dtype's packed size for n elements exactly.
func Decode[V Value](dt Dtype, data []byte, n int) ([]V, error) {
	if err := checkFamily[V](dt); err != nil {
		return nil, err
	}
	if want := dt.PackedSize(n); len(data) != want {
		return nil, invalidf("%s decode: %d elements need %d bytes, got %d", dt, n, want, len(data))
	}
	switch dt {
	case FP32:
		vals, err := DecodeFloat32(data)
		return convertValues[V](vals), err
	case FP16:
		vals, err := DecodeFP16(data)
		return convertValues[V](vals), err
	case Int32:
		vals, err := DecodeInt32(data)
		return convertValues[V](vals), err
	case Int8:
		return convertValues[V](DecodeInt8(data)), nil
	case Int4:
		vals, err := UnpackInt4(data, n)
		return convertValues[V](vals), err
	case Ternary:
		vals, err := UnpackTernary(data, n)
		return convertValues[V](vals), err
	}
	return nil, invalidf("unknown dtype %d", uint8(dt))
}

// Encode packs values into the byte layout of dtype dt.
func Encode[V Value](dt Dtype, values []V) ([]byte, error) {
	if err := checkFamily[V](dt); err != nil {
		return nil, err
	}
	switch dt {
	case FP32:
		return EncodeFloat32(convertValues[float32](values)), nil
	case FP16:
		return EncodeFP16(convertValues[float32](values)), nil
	case Int32:
		return EncodeInt32(convertValues[int32](values)), nil
	case Int8:
		return EncodeInt8(convertValues[int8](values)), nil
	case Int4:
		return PackInt4(convertValues[int8](values)), nil
	case Ternary:
		return PackTernary(convertValues[int8](values)), nil
	}
	return nil, invalidf("unknown dtype %d", uint8(dt))
}

func convertValues[V Value, S Value](src []S) []V {
	if src == nil {
		return nil
	}
	out := make([]V, len(src))
	for i, v := range src {
		out[i] = V(v)
	}
	return out
}
