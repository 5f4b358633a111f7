package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/strider/loader"
	"github.com/born-ml/strider/tensor"
)

func TestListSafeTensors(t *testing.T) {
	w := tensor.Must(tensor.Array[int8](tensor.Int4, [][]int8{{-8, 7, 1}, {0, 1, 2}}))
	b := tensor.Must(tensor.Zeros[float32](tensor.FP32, tensor.Shape{3}))

	path := filepath.Join(t.TempDir(), "model.safetensors")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, loader.WriteSafeTensors(f, map[string]loader.Packed{"layer.w": w, "layer.b": b}, nil))
	require.NoError(t, f.Close())

	log, hook := test.NewNullLogger()
	var out bytes.Buffer
	require.NoError(t, ListSafeTensors(&out, log, &SafeTensorsArguments{File: path}))

	text := out.String()
	assert.Contains(t, text, "layer.w")
	assert.Contains(t, text, "I4")
	assert.Contains(t, text, "(2, 3)")
	assert.Contains(t, text, "layer.b")
	assert.Contains(t, text, "F32")
	assert.Contains(t, text, "2 Tensors")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("layer.b")), bytes.Index(out.Bytes(), []byte("layer.w")))

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, 2, hook.Entries[0].Data["tensors"])
}

func TestListSafeTensorsMissingFile(t *testing.T) {
	log, _ := test.NewNullLogger()
	err := ListSafeTensors(&bytes.Buffer{}, log, &SafeTensorsArguments{File: filepath.Join(t.TempDir(), "none")})
	assert.Error(t, err)
}
