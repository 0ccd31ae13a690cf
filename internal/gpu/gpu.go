package gpu

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrCompile is returned when a shader program fails to compile or link
var ErrCompile = errors.New("shader compile failed")

// Handles to GPU objects. Zero is never a valid object; for framebuffers it
// names the display.
type (
	ProgramID      uint32
	TextureID      uint32
	FramebufferID  uint32
	RenderbufferID uint32
	BufferID       uint32
)

// DisplayFramebuffer is the default framebuffer owned by the window surface.
const DisplayFramebuffer FramebufferID = 0

type TextureTarget uint8

const (
	Texture2D TextureTarget = iota
	// TextureExternal is a texture fed by a platform stream such as a device camera.
	TextureExternal
)

type TextureFilter uint8

const (
	Nearest TextureFilter = iota
	Linear
	LinearMipmapLinear
)

type TextureWrap uint8

const (
	ClampToEdge TextureWrap = iota
	Repeat
)

// TextureParams groups the sampler parameters applied to a bound texture
type TextureParams struct {
	MinFilter TextureFilter
	MagFilter TextureFilter
	WrapS     TextureWrap
	WrapT     TextureWrap
}

type Capability uint8

const (
	CullFace Capability = iota
	DepthTest
	Blend
)

type DepthFunc uint8

const (
	Less DepthFunc = iota
	Equal
)

type BlendFactor uint8

const (
	One BlendFactor = iota
	SrcAlpha
	OneMinusSrcAlpha
)

type PrimitiveMode uint8

const (
	Triangles PrimitiveMode = iota
	LineLoop
)

// ClearMask selects the buffers cleared by Backend.Clear
type ClearMask uint8

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// Backend is the immediate-mode command surface of an OpenGL ES 2 class
// device. All calls must be made from the thread that owns the context.
type Backend interface {
	CompileProgram(vertexSrc, fragmentSrc string) (ProgramID, error)
	DeleteProgram(p ProgramID)
	UseProgram(p ProgramID)
	// AttribLocation and UniformLocation return a negative value when the
	// linked program does not expose the name.
	AttribLocation(p ProgramID, name string) int32
	UniformLocation(p ProgramID, name string) int32

	CreateTexture() TextureID
	DeleteTexture(id TextureID)
	ActiveTexture(unit uint32)
	BindTexture(target TextureTarget, id TextureID)
	TexParameters(target TextureTarget, params TextureParams)
	// TexImage2D uploads tightly packed RGBA8 pixels. A nil slice only
	// allocates storage.
	TexImage2D(target TextureTarget, width, height int, rgba []byte)
	GenerateMipmap(target TextureTarget)

	CreateFramebuffer() FramebufferID
	DeleteFramebuffer(id FramebufferID)
	BindFramebuffer(id FramebufferID)
	CreateRenderbuffer() RenderbufferID
	DeleteRenderbuffer(id RenderbufferID)
	BindRenderbuffer(id RenderbufferID)
	RenderbufferDepthStorage(width, height int)
	FramebufferTexture(id TextureID)
	FramebufferRenderbuffer(id RenderbufferID)
	FramebufferComplete() bool

	CreateVertexBuffer(data []float32) BufferID
	CreateIndexBuffer(data []uint16) BufferID
	DeleteBuffer(id BufferID)

	EnableAttrib(loc int32)
	DisableAttrib(loc int32)
	AttribPointer(loc int32, buf BufferID, size int)

	Uniform1i(loc int32, v int32)
	Uniform3f(loc int32, x, y, z float32)
	UniformMatrix4f(loc int32, m mgl32.Mat4)

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	FrontFaceCCW()
	CullBackFace()
	DepthFunc(f DepthFunc)
	DepthMask(write bool)
	BlendFunc(src, dst BlendFactor)
	LineWidth(w float32)

	// DrawIndexed draws count 16-bit unsigned indices from indexBuffer.
	DrawIndexed(mode PrimitiveMode, indexBuffer BufferID, count int)
}
