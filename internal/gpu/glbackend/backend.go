package glbackend

import (
	"fmt"
	"strings"

	"rendering-engine/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Backend issues gpu.Backend commands against the current OpenGL context
type Backend struct {
	vao uint32
}

var _ gpu.Backend = (*Backend)(nil)

// New loads the GL function pointers for the current context. The core
// profile has no default vertex array object, so one is created and kept
// bound for the lifetime of the backend.
func New() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	b := &Backend{}
	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)
	return b, nil
}

// Close releases the backend's vertex array object
func (b *Backend) Close() {
	gl.BindVertexArray(0)
	gl.DeleteVertexArrays(1, &b.vao)
}

func (b *Backend) CompileProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return 0, err
	}
	return gpu.ProgramID(program), nil
}

func (b *Backend) DeleteProgram(p gpu.ProgramID) { gl.DeleteProgram(uint32(p)) }
func (b *Backend) UseProgram(p gpu.ProgramID)    { gl.UseProgram(uint32(p)) }

func (b *Backend) AttribLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (b *Backend) UniformLocation(p gpu.ProgramID, name string) int32 {
	return gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00"))
}

func (b *Backend) CreateTexture() gpu.TextureID {
	var id uint32
	gl.GenTextures(1, &id)
	return gpu.TextureID(id)
}

func (b *Backend) DeleteTexture(id gpu.TextureID) {
	t := uint32(id)
	gl.DeleteTextures(1, &t)
}

func (b *Backend) ActiveTexture(unit uint32) { gl.ActiveTexture(gl.TEXTURE0 + unit) }

func (b *Backend) BindTexture(target gpu.TextureTarget, id gpu.TextureID) {
	gl.BindTexture(textureTarget(target), uint32(id))
}

func (b *Backend) TexParameters(target gpu.TextureTarget, p gpu.TextureParams) {
	t := textureTarget(target)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, filter(p.MinFilter))
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, filter(p.MagFilter))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, wrap(p.WrapS))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, wrap(p.WrapT))
}

func (b *Backend) TexImage2D(target gpu.TextureTarget, width, height int, rgba []byte) {
	pixels := gl.Ptr(nil)
	if len(rgba) > 0 {
		pixels = gl.Ptr(rgba)
	}
	gl.TexImage2D(
		textureTarget(target),
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		pixels,
	)
}

func (b *Backend) GenerateMipmap(target gpu.TextureTarget) { gl.GenerateMipmap(textureTarget(target)) }

func (b *Backend) CreateFramebuffer() gpu.FramebufferID {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return gpu.FramebufferID(id)
}

func (b *Backend) DeleteFramebuffer(id gpu.FramebufferID) {
	f := uint32(id)
	gl.DeleteFramebuffers(1, &f)
}

func (b *Backend) BindFramebuffer(id gpu.FramebufferID) { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id)) }

func (b *Backend) CreateRenderbuffer() gpu.RenderbufferID {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return gpu.RenderbufferID(id)
}

func (b *Backend) DeleteRenderbuffer(id gpu.RenderbufferID) {
	r := uint32(id)
	gl.DeleteRenderbuffers(1, &r)
}

func (b *Backend) BindRenderbuffer(id gpu.RenderbufferID) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(id))
}

func (b *Backend) RenderbufferDepthStorage(width, height int) {
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT16, int32(width), int32(height))
}

func (b *Backend) FramebufferTexture(id gpu.TextureID) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(id), 0)
}

func (b *Backend) FramebufferRenderbuffer(id gpu.RenderbufferID) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, uint32(id))
}

func (b *Backend) FramebufferComplete() bool {
	return gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
}

func (b *Backend) CreateVertexBuffer(data []float32) gpu.BufferID {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return gpu.BufferID(id)
}

func (b *Backend) CreateIndexBuffer(data []uint16) gpu.BufferID {
	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, id)
	if len(data) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(data)*2, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return gpu.BufferID(id)
}

func (b *Backend) DeleteBuffer(id gpu.BufferID) {
	buf := uint32(id)
	gl.DeleteBuffers(1, &buf)
}

func (b *Backend) EnableAttrib(loc int32)  { gl.EnableVertexAttribArray(uint32(loc)) }
func (b *Backend) DisableAttrib(loc int32) { gl.DisableVertexAttribArray(uint32(loc)) }

func (b *Backend) AttribPointer(loc int32, buf gpu.BufferID, size int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buf))
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), gl.FLOAT, false, 0, 0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *Backend) Uniform1i(loc int32, v int32)         { gl.Uniform1i(loc, v) }
func (b *Backend) Uniform3f(loc int32, x, y, z float32) { gl.Uniform3f(loc, x, y, z) }

func (b *Backend) UniformMatrix4f(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (b *Backend) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (b *Backend) ClearColor(r, g, bl, a float32) { gl.ClearColor(r, g, bl, a) }

func (b *Backend) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (b *Backend) Enable(c gpu.Capability)  { gl.Enable(capability(c)) }
func (b *Backend) Disable(c gpu.Capability) { gl.Disable(capability(c)) }
func (b *Backend) FrontFaceCCW()            { gl.FrontFace(gl.CCW) }
func (b *Backend) CullBackFace()            { gl.CullFace(gl.BACK) }

func (b *Backend) DepthFunc(f gpu.DepthFunc) {
	switch f {
	case gpu.Equal:
		gl.DepthFunc(gl.EQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

func (b *Backend) DepthMask(write bool) { gl.DepthMask(write) }

func (b *Backend) BlendFunc(src, dst gpu.BlendFactor) {
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

// LineWidth is clamped by core profile drivers to 1.0 for widths they do
// not support; the call is still made so ES drivers honor display density.
func (b *Backend) LineWidth(w float32) { gl.LineWidth(w) }

func (b *Backend) DrawIndexed(mode gpu.PrimitiveMode, indexBuffer gpu.BufferID, count int) {
	glMode := uint32(gl.TRIANGLES)
	if mode == gpu.LineLoop {
		glMode = gl.LINE_LOOP
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(indexBuffer))
	gl.DrawElementsWithOffset(glMode, int32(count), gl.UNSIGNED_SHORT, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
}

// Desktop GL has no GL_TEXTURE_EXTERNAL_OES, so stream textures are plain 2D textures.
func textureTarget(t gpu.TextureTarget) uint32 {
	return gl.TEXTURE_2D
}

func filter(f gpu.TextureFilter) int32 {
	switch f {
	case gpu.Linear:
		return gl.LINEAR
	case gpu.LinearMipmapLinear:
		return gl.LINEAR_MIPMAP_LINEAR
	default:
		return gl.NEAREST
	}
}

func wrap(w gpu.TextureWrap) int32 {
	if w == gpu.Repeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func capability(c gpu.Capability) uint32 {
	switch c {
	case gpu.CullFace:
		return gl.CULL_FACE
	case gpu.Blend:
		return gl.BLEND
	default:
		return gl.DEPTH_TEST
	}
}

func blendFactor(f gpu.BlendFactor) uint32 {
	switch f {
	case gpu.SrcAlpha:
		return gl.SRC_ALPHA
	case gpu.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	default:
		return gl.ONE
	}
}

func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: link: %v", gpu.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%w: %v", gpu.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
