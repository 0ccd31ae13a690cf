// Package gputest provides a gpu.Backend that records every command instead
// of talking to a driver.
package gputest

import (
	"fmt"

	"rendering-engine/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded backend command
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Recorder implements gpu.Backend in memory. Handles are allocated from a
// single counter, so no two objects of any kind share an id.
type Recorder struct {
	Calls []Call

	// FailCompile makes CompileProgram fail for fragment sources it contains.
	FailCompile map[string]bool
	// IncompleteFramebuffers makes FramebufferComplete report false.
	IncompleteFramebuffers bool
	// MissingNames lists attribute and uniform names that resolve to -1 in
	// every program.
	MissingNames map[string]bool

	next          uint32
	Programs      map[gpu.ProgramID]bool
	Textures      map[gpu.TextureID]bool
	Framebuffers  map[gpu.FramebufferID]bool
	Renderbuffers map[gpu.RenderbufferID]bool
	Buffers       map[gpu.BufferID]bool

	locations map[string]int32
}

var _ gpu.Backend = (*Recorder)(nil)

func New() *Recorder {
	return &Recorder{
		FailCompile:   map[string]bool{},
		MissingNames:  map[string]bool{},
		Programs:      map[gpu.ProgramID]bool{},
		Textures:      map[gpu.TextureID]bool{},
		Framebuffers:  map[gpu.FramebufferID]bool{},
		Renderbuffers: map[gpu.RenderbufferID]bool{},
		Buffers:       map[gpu.BufferID]bool{},
		locations:     map[string]int32{},
	}
}

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) alloc() uint32 {
	r.next++
	return r.next
}

// Reset forgets the recorded calls but keeps every live object.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Ops returns the recorded operation names in order, optionally limited to
// the names given.
func (r *Recorder) Ops(only ...string) []string {
	filter := map[string]bool{}
	for _, o := range only {
		filter[o] = true
	}
	var out []string
	for _, c := range r.Calls {
		if len(filter) == 0 || filter[c.Op] {
			out = append(out, c.Op)
		}
	}
	return out
}

// Find returns the recorded calls with the given operation name.
func (r *Recorder) Find(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Location returns the stable location the recorder hands out for name.
func (r *Recorder) Location(name string) int32 {
	if r.MissingNames[name] {
		return -1
	}
	loc, ok := r.locations[name]
	if !ok {
		loc = int32(len(r.locations))
		r.locations[name] = loc
	}
	return loc
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (gpu.ProgramID, error) {
	r.record("CompileProgram")
	if r.FailCompile[fragmentSrc] {
		return 0, fmt.Errorf("%w: injected failure", gpu.ErrCompile)
	}
	id := gpu.ProgramID(r.alloc())
	r.Programs[id] = true
	return id, nil
}

func (r *Recorder) DeleteProgram(p gpu.ProgramID) {
	r.record("DeleteProgram", p)
	delete(r.Programs, p)
}

func (r *Recorder) UseProgram(p gpu.ProgramID) { r.record("UseProgram", p) }

func (r *Recorder) AttribLocation(p gpu.ProgramID, name string) int32 { return r.Location(name) }

func (r *Recorder) UniformLocation(p gpu.ProgramID, name string) int32 { return r.Location(name) }

func (r *Recorder) CreateTexture() gpu.TextureID {
	id := gpu.TextureID(r.alloc())
	r.Textures[id] = true
	r.record("CreateTexture", id)
	return id
}

func (r *Recorder) DeleteTexture(id gpu.TextureID) {
	r.record("DeleteTexture", id)
	delete(r.Textures, id)
}

func (r *Recorder) ActiveTexture(unit uint32) { r.record("ActiveTexture", unit) }

func (r *Recorder) BindTexture(target gpu.TextureTarget, id gpu.TextureID) {
	r.record("BindTexture", target, id)
}

func (r *Recorder) TexParameters(target gpu.TextureTarget, params gpu.TextureParams) {
	r.record("TexParameters", target, params)
}

func (r *Recorder) TexImage2D(target gpu.TextureTarget, width, height int, rgba []byte) {
	r.record("TexImage2D", target, width, height, len(rgba))
}

func (r *Recorder) GenerateMipmap(target gpu.TextureTarget) { r.record("GenerateMipmap", target) }

func (r *Recorder) CreateFramebuffer() gpu.FramebufferID {
	id := gpu.FramebufferID(r.alloc())
	r.Framebuffers[id] = true
	r.record("CreateFramebuffer", id)
	return id
}

func (r *Recorder) DeleteFramebuffer(id gpu.FramebufferID) {
	r.record("DeleteFramebuffer", id)
	delete(r.Framebuffers, id)
}

func (r *Recorder) BindFramebuffer(id gpu.FramebufferID) { r.record("BindFramebuffer", id) }

func (r *Recorder) CreateRenderbuffer() gpu.RenderbufferID {
	id := gpu.RenderbufferID(r.alloc())
	r.Renderbuffers[id] = true
	r.record("CreateRenderbuffer", id)
	return id
}

func (r *Recorder) DeleteRenderbuffer(id gpu.RenderbufferID) {
	r.record("DeleteRenderbuffer", id)
	delete(r.Renderbuffers, id)
}

func (r *Recorder) BindRenderbuffer(id gpu.RenderbufferID) { r.record("BindRenderbuffer", id) }

func (r *Recorder) RenderbufferDepthStorage(width, height int) {
	r.record("RenderbufferDepthStorage", width, height)
}

func (r *Recorder) FramebufferTexture(id gpu.TextureID) { r.record("FramebufferTexture", id) }

func (r *Recorder) FramebufferRenderbuffer(id gpu.RenderbufferID) {
	r.record("FramebufferRenderbuffer", id)
}

func (r *Recorder) FramebufferComplete() bool { return !r.IncompleteFramebuffers }

func (r *Recorder) CreateVertexBuffer(data []float32) gpu.BufferID {
	id := gpu.BufferID(r.alloc())
	r.Buffers[id] = true
	r.record("CreateVertexBuffer", id, len(data))
	return id
}

func (r *Recorder) CreateIndexBuffer(data []uint16) gpu.BufferID {
	id := gpu.BufferID(r.alloc())
	r.Buffers[id] = true
	r.record("CreateIndexBuffer", id, len(data))
	return id
}

func (r *Recorder) DeleteBuffer(id gpu.BufferID) {
	r.record("DeleteBuffer", id)
	delete(r.Buffers, id)
}

func (r *Recorder) EnableAttrib(loc int32)  { r.record("EnableAttrib", loc) }
func (r *Recorder) DisableAttrib(loc int32) { r.record("DisableAttrib", loc) }

func (r *Recorder) AttribPointer(loc int32, buf gpu.BufferID, size int) {
	r.record("AttribPointer", loc, buf, size)
}

func (r *Recorder) Uniform1i(loc int32, v int32) { r.record("Uniform1i", loc, v) }

func (r *Recorder) Uniform3f(loc int32, x, y, z float32) { r.record("Uniform3f", loc, x, y, z) }

func (r *Recorder) UniformMatrix4f(loc int32, m mgl32.Mat4) { r.record("UniformMatrix4f", loc, m) }

func (r *Recorder) Viewport(x, y, width, height int) { r.record("Viewport", x, y, width, height) }

func (r *Recorder) ClearColor(red, green, blue, alpha float32) {
	r.record("ClearColor", red, green, blue, alpha)
}

func (r *Recorder) Clear(mask gpu.ClearMask) { r.record("Clear", mask) }

func (r *Recorder) Enable(c gpu.Capability)  { r.record("Enable", c) }
func (r *Recorder) Disable(c gpu.Capability) { r.record("Disable", c) }
func (r *Recorder) FrontFaceCCW()            { r.record("FrontFaceCCW") }
func (r *Recorder) CullBackFace()            { r.record("CullBackFace") }

func (r *Recorder) DepthFunc(f gpu.DepthFunc) { r.record("DepthFunc", f) }
func (r *Recorder) DepthMask(write bool)      { r.record("DepthMask", write) }

func (r *Recorder) BlendFunc(src, dst gpu.BlendFactor) { r.record("BlendFunc", src, dst) }

func (r *Recorder) LineWidth(w float32) { r.record("LineWidth", w) }

func (r *Recorder) DrawIndexed(mode gpu.PrimitiveMode, indexBuffer gpu.BufferID, count int) {
	r.record("DrawIndexed", mode, indexBuffer, count)
}
