package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt4Packing(t *testing.T) {
	values := []int8{-8, -1, 0, 1, 7}
	packed := PackInt4(values)
	assert.Equal(t, []byte{0x8F, 0x01, 0x70}, packed)

	unpacked, err := UnpackInt4(packed, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, unpacked)

	// Out-of-range values clamp.
	assert.Equal(t, []byte{0x78}, PackInt4([]int8{100, -100}))

	_, err = UnpackInt4(packed, 7)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTernaryPacking(t *testing.T) {
	values := []int8{-1, 0, 1, 0, 1}
	packed := PackTernary(values)
	// 00 01 10 01 | 10 01 01 01 (padding uses the zero code)
	assert.Equal(t, []byte{0x19, 0x95}, packed)

	unpacked, err := UnpackTernary(packed, len(values))
	require.NoError(t, err)
	assert.Equal(t, values, unpacked)

	_, err = UnpackTernary([]byte{0xFF}, 4)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = UnpackTernary(packed, 9)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestFloat32Decode(t *testing.T) {
	vals, err := DecodeFloat32([]byte{0x00, 0x00, 0x80, 0x3F})
	require.NoError(t, err)
	assert.Equal(t, []float32{1.0}, vals)

	_, err = DecodeFloat32([]byte{0x00, 0x00, 0x80})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3F}, EncodeFloat32([]float32{1}))
}

func TestFP16Packing(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x3C}, EncodeFP16([]float32{1}))

	values := []float32{0.5, -2, 65504, 0}
	decoded, err := DecodeFP16(EncodeFP16(values))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)

	_, err = DecodeFP16([]byte{0x00})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInt32Packing(t *testing.T) {
	values := []int32{-1, 0, 1 << 20}
	decoded, err := DecodeInt32(EncodeInt32(values))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, EncodeInt32([]int32{-1})[:4])
}

func TestDecodeEncode(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"int8", func(t *testing.T) {
			vals, err := Decode[int8](Int8, []byte{0xFF, 0x7F}, 2)
			require.NoError(t, err)
			assert.Equal(t, []int8{-1, 127}, vals)
		}},
		{"int4", func(t *testing.T) {
			vals, err := Decode[int8](Int4, []byte{0x8F, 0x01, 0x70}, 5)
			require.NoError(t, err)
			assert.Equal(t, []int8{-8, -1, 0, 1, 7}, vals)
			packed, err := Encode(Int4, vals)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x8F, 0x01, 0x70}, packed)
		}},
		{"fp16 widens to float32", func(t *testing.T) {
			vals, err := Decode[float32](FP16, []byte{0x00, 0x3C, 0x00, 0xC0}, 2)
			require.NoError(t, err)
			assert.Equal(t, []float32{1, -2}, vals)
		}},
		{"length mismatch", func(t *testing.T) {
			_, err := Decode[float32](FP32, make([]byte, 8), 3)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			_, err = Decode[int8](Ternary, []byte{0x55, 0x55}, 4)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}},
		{"family mismatch", func(t *testing.T) {
			_, err := Decode[int8](FP32, make([]byte, 4), 1)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			_, err = Encode(Int32, []float32{1})
			assert.ErrorIs(t, err, ErrInvalidArgument)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}
