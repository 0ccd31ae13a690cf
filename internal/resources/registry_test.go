package resources

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/gpu"
	"rendering-engine/internal/gpu/gputest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, files fstest.MapFS) (*Registry, *gputest.Recorder) {
	t.Helper()
	rec := gputest.New()
	r := New(rec, assets.NewFS(files), nil)
	r.Init()
	rec.Reset()
	return r, rec
}

func TestFallbackTexture(t *testing.T) {
	r, _ := newRegistry(t, nil)

	fallback, err := r.TextureID(FallbackTextureName)
	require.NoError(t, err)
	assert.Equal(t, fallback, r.TextureIDOrFallback("unregistered"))

	require.NoError(t, r.CreateTexture("crate", 2, 1, []uint32{0xff000000, 0xffffffff}))
	crate := r.TextureIDOrFallback("crate")
	assert.NotEqual(t, fallback, crate)

	id, err := r.TextureID("crate")
	require.NoError(t, err)
	assert.Equal(t, id, crate)
}

func TestFallbackTextureIsMagenta(t *testing.T) {
	assert.Equal(t, []byte{0xff, 0x00, 0xff, 0xff}, argbToRGBA([]uint32{fallbackColor}))
}

func TestTextureIDUnknown(t *testing.T) {
	r, _ := newRegistry(t, nil)

	_, err := r.TextureID("missing")
	assert.ErrorIs(t, err, ErrUnknownResource)

	_, err = r.RenderTarget("missing")
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestCreateTextureUsesNearestClamp(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTexture("pixel", 1, 1, []uint32{0xff00ff00}))

	params := rec.Find("TexParameters")
	require.Len(t, params, 1)
	assert.Equal(t, gpu.TextureParams{
		MinFilter: gpu.Nearest, MagFilter: gpu.Nearest,
		WrapS: gpu.ClampToEdge, WrapT: gpu.ClampToEdge,
	}, params[0].Args[1])
	assert.Len(t, rec.Find("GenerateMipmap"), 1)

	binds := rec.Find("BindTexture")
	require.Len(t, binds, 2)
	assert.Equal(t, gpu.TextureID(0), binds[1].Args[1])
}

func TestCreateTextureReplacesExisting(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTexture("t", 1, 1, []uint32{0}))
	first, _ := r.TextureID("t")

	require.NoError(t, r.CreateTexture("t", 1, 1, []uint32{0}))
	second, _ := r.TextureID("t")

	assert.NotEqual(t, first, second)
	assert.False(t, rec.Textures[first])
	assert.True(t, rec.Textures[second])
	assert.Len(t, rec.Find("DeleteTexture"), 1)
}

func TestLoadTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	r, rec := newRegistry(t, fstest.MapFS{"textures/crate.png": {Data: buf.Bytes()}})
	require.NoError(t, r.LoadTexture("crate", "textures/crate.png"))

	assert.True(t, r.HasTexture("crate"))
	params := rec.Find("TexParameters")
	require.Len(t, params, 1)
	assert.Equal(t, gpu.TextureParams{
		MinFilter: gpu.LinearMipmapLinear, MagFilter: gpu.Linear,
		WrapS: gpu.Repeat, WrapT: gpu.Repeat,
	}, params[0].Args[1])
	assert.Equal(t, []any{gpu.Texture2D, 2, 2, 16}, rec.Find("TexImage2D")[0].Args)
}

func TestLoadTextureMissingAssetKeepsOldTexture(t *testing.T) {
	r, _ := newRegistry(t, fstest.MapFS{})
	require.NoError(t, r.CreateTexture("crate", 1, 1, []uint32{0}))
	before, _ := r.TextureID("crate")

	err := r.LoadTexture("crate", "textures/crate.png")
	assert.ErrorIs(t, err, assets.ErrNotFound)

	after, err := r.TextureID("crate")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRenderTargetRoundTripLeavesNoTrace(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {64, 32}, {1024, 768}} {
		r, rec := newRegistry(t, nil)
		names := r.TextureNames()

		require.NoError(t, r.CreateTextureForRendering("mirror", size[0], size[1]))
		target, err := r.RenderTarget("mirror")
		require.NoError(t, err)
		assert.Equal(t, size[0], target.Width)
		assert.Equal(t, size[1], target.Height)
		tex, err := r.TextureID("mirror")
		require.NoError(t, err)
		assert.Equal(t, target.Texture, tex)
		assert.Equal(t, []string{"mirror"}, r.RenderTargetNames())

		require.NoError(t, r.DeleteTexture("mirror"))

		assert.Equal(t, names, r.TextureNames())
		assert.Empty(t, r.RenderTargetNames())
		assert.Empty(t, rec.Framebuffers)
		assert.Empty(t, rec.Renderbuffers)
		assert.False(t, rec.Textures[target.Texture])
	}
}

func TestDeleteRenderTargetOrder(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 16, 16))
	target, _ := r.RenderTarget("mirror")
	rec.Reset()

	require.NoError(t, r.DeleteTexture("mirror"))

	assert.Equal(t, []string{"DeleteRenderbuffer", "DeleteTexture", "DeleteFramebuffer"}, rec.Ops())
	assert.Equal(t, []any{target.Renderbuffer}, rec.Calls[0].Args)
	assert.Equal(t, []any{target.Texture}, rec.Calls[1].Args)
	assert.Equal(t, []any{target.Framebuffer}, rec.Calls[2].Args)
}

func TestCreateTextureForRenderingAttachesAndUnbinds(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 32, 16))
	target, _ := r.RenderTarget("mirror")

	assert.Equal(t, []any{32, 16}, rec.Find("RenderbufferDepthStorage")[0].Args)
	assert.Equal(t, []any{target.Texture}, rec.Find("FramebufferTexture")[0].Args)
	assert.Equal(t, []any{target.Renderbuffer}, rec.Find("FramebufferRenderbuffer")[0].Args)

	fbs := rec.Find("BindFramebuffer")
	require.Len(t, fbs, 2)
	assert.Equal(t, []any{target.Framebuffer}, fbs[0].Args)
	assert.Equal(t, []any{gpu.DisplayFramebuffer}, fbs[1].Args)
}

func TestCreateTextureForRenderingIncomplete(t *testing.T) {
	r, rec := newRegistry(t, nil)
	rec.IncompleteFramebuffers = true
	names := r.TextureNames()

	err := r.CreateTextureForRendering("mirror", 16, 16)
	assert.ErrorIs(t, err, ErrIncompleteFramebuffer)

	assert.Equal(t, names, r.TextureNames())
	assert.Empty(t, r.RenderTargetNames())
	assert.Empty(t, rec.Framebuffers)
	assert.Empty(t, rec.Renderbuffers)
}

func TestFailedRenderTargetReplacementKeepsOld(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 16, 16))
	old, _ := r.RenderTarget("mirror")

	rec.IncompleteFramebuffers = true
	err := r.CreateTextureForRendering("mirror", 32, 32)
	assert.ErrorIs(t, err, ErrIncompleteFramebuffer)

	target, err := r.RenderTarget("mirror")
	require.NoError(t, err)
	assert.Equal(t, old, target)
	assert.Equal(t, []string{"mirror"}, r.RenderTargetNames())
	assert.True(t, rec.Textures[old.Texture])
	assert.True(t, rec.Framebuffers[old.Framebuffer])
	assert.True(t, rec.Renderbuffers[old.Renderbuffer])
	assert.Len(t, rec.Framebuffers, 1)
}

func TestReplaceRenderTarget(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 16, 16))
	old, _ := r.RenderTarget("mirror")

	require.NoError(t, r.CreateTextureForRendering("mirror", 32, 32))

	target, err := r.RenderTarget("mirror")
	require.NoError(t, err)
	assert.Equal(t, 32, target.Width)
	assert.False(t, rec.Framebuffers[old.Framebuffer])
	assert.Len(t, rec.Framebuffers, 1)
	assert.Equal(t, []string{"mirror"}, r.RenderTargetNames())
}

func TestReplaceRenderTargetWithPlainTexture(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 16, 16))

	require.NoError(t, r.CreateTexture("mirror", 1, 1, []uint32{0}))

	_, err := r.RenderTarget("mirror")
	assert.ErrorIs(t, err, ErrUnknownResource)
	assert.True(t, r.HasTexture("mirror"))
	assert.Empty(t, rec.Framebuffers)
	assert.Empty(t, rec.Renderbuffers)
}

func TestDeleteUnknownIsNoop(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.DeleteTexture("never-registered"))
	assert.Empty(t, rec.Calls)
}

func TestRenderTargetOrder(t *testing.T) {
	r, _ := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("b", 1, 1))
	require.NoError(t, r.CreateTextureForRendering("a", 1, 1))
	require.NoError(t, r.CreateTextureForRendering("c", 1, 1))
	require.NoError(t, r.DeleteTexture("a"))

	assert.Equal(t, []string{"b", "c"}, r.RenderTargetNames())
}

func TestCameraPreviewTexture(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateCameraPreviewTexture(DeviceCameraTextureName))

	id, err := r.TextureID(DeviceCameraTextureName)
	require.NoError(t, err)
	assert.Equal(t, []any{gpu.TextureExternal, id}, rec.Find("BindTexture")[0].Args)
}

func TestClose(t *testing.T) {
	r, rec := newRegistry(t, nil)
	require.NoError(t, r.CreateTextureForRendering("mirror", 4, 4))
	require.NoError(t, r.CreateTexture("crate", 1, 1, []uint32{0}))

	r.Close()

	assert.Empty(t, r.TextureNames())
	assert.Empty(t, rec.Textures)
	assert.Empty(t, rec.Framebuffers)
	assert.Empty(t, rec.Renderbuffers)
}

func TestFallbackTextureIsReserved(t *testing.T) {
	r, rec := newRegistry(t, fstest.MapFS{})
	fallback, err := r.TextureID(FallbackTextureName)
	require.NoError(t, err)

	assert.ErrorIs(t, r.DeleteTexture(FallbackTextureName), ErrReservedName)
	assert.ErrorIs(t, r.CreateTexture(FallbackTextureName, 1, 1, []uint32{0}), ErrReservedName)
	assert.ErrorIs(t, r.CreateTextureForRendering(FallbackTextureName, 4, 4), ErrReservedName)
	assert.ErrorIs(t, r.CreateCameraPreviewTexture(FallbackTextureName), ErrReservedName)
	assert.ErrorIs(t, r.LoadTexture(FallbackTextureName, "textures/crate.png"), ErrReservedName)
	assert.Empty(t, rec.Calls)

	assert.Equal(t, fallback, r.TextureIDOrFallback("unregistered"))
	assert.True(t, rec.Textures[fallback])
}

func TestCreateTextureRejectsBadPixels(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		pixels        int
	}{
		{"short", 64, 64, 1},
		{"long", 1, 1, 2},
		{"zero width", 0, 4, 0},
		{"negative height", 2, -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, rec := newRegistry(t, nil)
			err := r.CreateTexture("x", tt.width, tt.height, make([]uint32, tt.pixels))
			assert.ErrorIs(t, err, ErrInvalidPixels)
			assert.False(t, r.HasTexture("x"))
			assert.Empty(t, rec.Calls)
		})
	}
}

func TestCreateTextureRejectsBadPixelsKeepsOld(t *testing.T) {
	r, _ := newRegistry(t, nil)
	require.NoError(t, r.CreateTexture("crate", 1, 1, []uint32{0}))
	before, _ := r.TextureID("crate")

	assert.ErrorIs(t, r.CreateTexture("crate", 2, 2, []uint32{0}), ErrInvalidPixels)
	after, err := r.TextureID("crate")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCreateTextureForRenderingRejectsEmptySize(t *testing.T) {
	r, rec := newRegistry(t, nil)
	assert.ErrorIs(t, r.CreateTextureForRendering("mirror", 0, 16), ErrInvalidPixels)
	assert.Empty(t, rec.Calls)
}
