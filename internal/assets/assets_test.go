package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestReadText(t *testing.T) {
	store := NewFS(fstest.MapFS{
		"shaders/vertex.glsl": {Data: []byte("void main() {}")},
	})

	src, err := ReadText(store, "shaders/vertex.glsl")
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)
}

func TestOpenMissing(t *testing.T) {
	store := NewFS(fstest.MapFS{})

	_, err := ReadText(store, "nope.glsl")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = DecodeImage(store, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecodeImageNormalizesToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(3, 3, 5, 4))
	src.Set(3, 3, color.NRGBA{R: 255, A: 255})
	src.Set(4, 3, color.NRGBA{B: 255, A: 255})

	store := NewFS(fstest.MapFS{"tex.png": {Data: encodePNG(t, src)}})

	img, err := DecodeImage(store, "tex.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 1), img.Bounds())
	assert.Equal(t, []byte{255, 0, 0, 255, 0, 0, 255, 255}, img.Pix)
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	store := NewFS(fstest.MapFS{"bad.png": {Data: []byte("not an image")}})

	_, err := DecodeImage(store, "bad.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
