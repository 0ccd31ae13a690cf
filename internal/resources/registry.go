package resources

import (
	"errors"
	"fmt"
	"slices"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/gpu"

	"go.uber.org/zap"
)

const (
	// FallbackTextureName is reserved for the 1x1 magenta texture bound in
	// place of textures that were never registered.
	FallbackTextureName = "fallbackTexture"
	// DeviceCameraTextureName is the texture fed by the device camera stream.
	DeviceCameraTextureName = "androidCameraPreviewTexture"

	fallbackColor uint32 = 0xffff00ff // ARGB magenta
)

var (
	ErrUnknownResource       = errors.New("unknown resource")
	ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")
	ErrReservedName          = errors.New("reserved resource name")
	ErrInvalidPixels         = errors.New("invalid pixel data")
)

// RenderTarget is an offscreen framebuffer with a color texture and a depth
// renderbuffer attached.
type RenderTarget struct {
	Framebuffer  gpu.FramebufferID
	Renderbuffer gpu.RenderbufferID
	Texture      gpu.TextureID
	Width        int
	Height       int
}

// Registry owns GPU textures and render targets by name. Every render
// target's texture is also present in the plain texture map.
type Registry struct {
	backend gpu.Backend
	store   assets.Store
	logger  *zap.Logger

	textures    map[string]gpu.TextureID
	targets     map[string]RenderTarget
	targetOrder []string
}

func New(backend gpu.Backend, store assets.Store, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		backend:  backend,
		store:    store,
		logger:   logger,
		textures: make(map[string]gpu.TextureID),
		targets:  make(map[string]RenderTarget),
	}
}

// Init creates the fallback texture. Only Close frees it.
func (r *Registry) Init() {
	r.createTexture(FallbackTextureName, 1, 1, []uint32{fallbackColor})
}

// CreateTexture uploads width*height ARGB pixels under name, replacing any
// previous resource with that name.
func (r *Registry) CreateTexture(name string, width, height int, argb []uint32) error {
	if err := checkName(name); err != nil {
		return err
	}
	if width <= 0 || height <= 0 || len(argb) != width*height {
		return fmt.Errorf("create texture %q: %w: %d pixels for %dx%d", name, ErrInvalidPixels, len(argb), width, height)
	}
	r.createTexture(name, width, height, argb)
	return nil
}

func (r *Registry) createTexture(name string, width, height int, argb []uint32) {
	r.deleteIfExists(name)

	id := r.backend.CreateTexture()
	r.textures[name] = id

	r.backend.ActiveTexture(0)
	r.backend.BindTexture(gpu.Texture2D, id)
	r.backend.TexParameters(gpu.Texture2D, gpu.TextureParams{
		MinFilter: gpu.Nearest,
		MagFilter: gpu.Nearest,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})
	r.backend.TexImage2D(gpu.Texture2D, width, height, argbToRGBA(argb))
	r.backend.GenerateMipmap(gpu.Texture2D)
	r.backend.BindTexture(gpu.Texture2D, 0)
}

// LoadTexture decodes an image asset and uploads it under name with
// trilinear filtering and repeat wrapping.
func (r *Registry) LoadTexture(name, assetPath string) error {
	if err := checkName(name); err != nil {
		return err
	}
	img, err := assets.DecodeImage(r.store, assetPath)
	if err != nil {
		return fmt.Errorf("load texture %q: %w", name, err)
	}

	r.deleteIfExists(name)

	id := r.backend.CreateTexture()
	r.textures[name] = id

	r.backend.ActiveTexture(0)
	r.backend.BindTexture(gpu.Texture2D, id)
	r.backend.TexParameters(gpu.Texture2D, gpu.TextureParams{
		MinFilter: gpu.LinearMipmapLinear,
		MagFilter: gpu.Linear,
		WrapS:     gpu.Repeat,
		WrapT:     gpu.Repeat,
	})
	r.backend.TexImage2D(gpu.Texture2D, img.Rect.Dx(), img.Rect.Dy(), img.Pix)
	r.backend.GenerateMipmap(gpu.Texture2D)
	r.backend.BindTexture(gpu.Texture2D, 0)
	return nil
}

// CreateCameraPreviewTexture allocates a stream texture for the device camera
func (r *Registry) CreateCameraPreviewTexture(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	r.deleteIfExists(name)

	id := r.backend.CreateTexture()
	r.textures[name] = id

	r.backend.BindTexture(gpu.TextureExternal, id)
	r.backend.TexParameters(gpu.TextureExternal, gpu.TextureParams{
		MinFilter: gpu.Nearest,
		MagFilter: gpu.Nearest,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})
	r.backend.BindTexture(gpu.TextureExternal, 0)
	return nil
}

// CreateTextureForRendering allocates a framebuffer with a width x height
// color texture and a 16-bit depth renderbuffer, registered under name.
// A previous resource with that name is replaced only once the new
// framebuffer is complete.
func (r *Registry) CreateTextureForRendering(name string, width, height int) error {
	if err := checkName(name); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("create render target %q: %w: %dx%d", name, ErrInvalidPixels, width, height)
	}

	fb := r.backend.CreateFramebuffer()
	tex := r.backend.CreateTexture()
	rb := r.backend.CreateRenderbuffer()

	r.backend.BindFramebuffer(fb)
	r.backend.ActiveTexture(0)
	r.backend.BindTexture(gpu.Texture2D, tex)
	r.backend.TexImage2D(gpu.Texture2D, width, height, nil)
	r.backend.TexParameters(gpu.Texture2D, gpu.TextureParams{
		MinFilter: gpu.Linear,
		MagFilter: gpu.Linear,
		WrapS:     gpu.ClampToEdge,
		WrapT:     gpu.ClampToEdge,
	})

	r.backend.BindRenderbuffer(rb)
	r.backend.RenderbufferDepthStorage(width, height)

	r.backend.FramebufferTexture(tex)
	r.backend.FramebufferRenderbuffer(rb)
	complete := r.backend.FramebufferComplete()

	r.backend.BindTexture(gpu.Texture2D, 0)
	r.backend.BindRenderbuffer(0)
	r.backend.BindFramebuffer(gpu.DisplayFramebuffer)

	if !complete {
		r.backend.DeleteRenderbuffer(rb)
		r.backend.DeleteTexture(tex)
		r.backend.DeleteFramebuffer(fb)
		return fmt.Errorf("create render target %q (%dx%d): %w", name, width, height, ErrIncompleteFramebuffer)
	}

	r.deleteIfExists(name)
	r.textures[name] = tex
	r.targets[name] = RenderTarget{
		Framebuffer:  fb,
		Renderbuffer: rb,
		Texture:      tex,
		Width:        width,
		Height:       height,
	}
	r.targetOrder = append(r.targetOrder, name)

	r.logger.Debug("render target created",
		zap.String("name", name), zap.Int("width", width), zap.Int("height", height))
	return nil
}

// DeleteTexture releases the resources registered under name. Unknown names
// are ignored.
func (r *Registry) DeleteTexture(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	r.deleteIfExists(name)
	return nil
}

func checkName(name string) error {
	if name == FallbackTextureName {
		return fmt.Errorf("%w: %q", ErrReservedName, name)
	}
	return nil
}

// deleteIfExists releases renderbuffer, texture and framebuffer in that
// order before dropping the map entries.
func (r *Registry) deleteIfExists(name string) {
	target, isTarget := r.targets[name]
	tex, isTexture := r.textures[name]
	if !isTarget && !isTexture {
		return
	}

	if isTarget {
		r.backend.DeleteRenderbuffer(target.Renderbuffer)
	}
	if isTexture {
		r.backend.DeleteTexture(tex)
	}
	if isTarget {
		r.backend.DeleteFramebuffer(target.Framebuffer)
		r.logger.Debug("render target deleted", zap.String("name", name))
	}

	delete(r.textures, name)
	delete(r.targets, name)
	if i := slices.Index(r.targetOrder, name); i >= 0 {
		r.targetOrder = slices.Delete(r.targetOrder, i, i+1)
	}
}

// TextureID returns the texture registered under name
func (r *Registry) TextureID(name string) (gpu.TextureID, error) {
	id, ok := r.textures[name]
	if !ok {
		return 0, fmt.Errorf("%w: texture %q", ErrUnknownResource, name)
	}
	return id, nil
}

// TextureIDOrFallback returns the texture registered under name, or the
// fallback texture if there is none.
func (r *Registry) TextureIDOrFallback(name string) gpu.TextureID {
	if id, ok := r.textures[name]; ok {
		return id
	}
	return r.textures[FallbackTextureName]
}

// HasTexture reports whether name is registered
func (r *Registry) HasTexture(name string) bool {
	_, ok := r.textures[name]
	return ok
}

// RenderTarget returns the render target registered under name
func (r *Registry) RenderTarget(name string) (RenderTarget, error) {
	t, ok := r.targets[name]
	if !ok {
		return RenderTarget{}, fmt.Errorf("%w: render target %q", ErrUnknownResource, name)
	}
	return t, nil
}

// RenderTargetNames lists render targets in creation order
func (r *Registry) RenderTargetNames() []string {
	return slices.Clone(r.targetOrder)
}

// TextureNames lists every registered texture name, sorted
func (r *Registry) TextureNames() []string {
	names := make([]string, 0, len(r.textures))
	for name := range r.textures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Close releases every registered resource, including the fallback texture
func (r *Registry) Close() {
	for _, name := range r.TextureNames() {
		r.deleteIfExists(name)
	}
}

// argbToRGBA converts packed 0xAARRGGBB pixels to the byte order GL expects
func argbToRGBA(argb []uint32) []byte {
	out := make([]byte, len(argb)*4)
	for i, p := range argb {
		out[i*4+0] = byte(p >> 16)
		out[i*4+1] = byte(p >> 8)
		out[i*4+2] = byte(p)
		out[i*4+3] = byte(p >> 24)
	}
	return out
}
