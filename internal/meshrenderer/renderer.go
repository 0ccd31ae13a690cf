package meshrenderer

import (
	"math"

	"rendering-engine/internal/gpu"
	"rendering-engine/internal/scene"
	"rendering-engine/internal/shaders"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DisplayMetrics reports the physical pixel density of the display
type DisplayMetrics interface {
	PixelDensityFactor() float32
}

// Environment is the engine state every draw reads
type Environment interface {
	shaders.TextureLookup
	AmbientColor() mgl32.Vec3
}

// TextureTarget redirects a single draw into an offscreen framebuffer
type TextureTarget struct {
	Framebuffer gpu.FramebufferID
	Width       int
	Height      int
}

// Renderer draws the mesh of the game object it is attached to. One
// renderer exists per (camera, mesh) registration.
type Renderer struct {
	scene.BaseComponent

	backend   gpu.Backend
	env       Environment
	logger    *zap.Logger
	lineWidth float32

	geometry *Geometry
	buildErr error
	builds   int
}

func New(backend gpu.Backend, env Environment, metrics DisplayMetrics, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	lineWidth := float32(1)
	if metrics != nil {
		lineWidth = float32(math.Ceil(float64(metrics.PixelDensityFactor())))
	}
	return &Renderer{
		backend:   backend,
		env:       env,
		logger:    logger,
		lineWidth: lineWidth,
	}
}

// Builds returns how many times the geometry was uploaded
func (r *Renderer) Builds() int {
	return r.builds
}

// InvalidateGeometry drops the cached buffers; the next draw rebuilds them
// from the current mesh.
func (r *Renderer) InvalidateGeometry() {
	if r.geometry != nil {
		r.geometry.release(r.backend)
		r.geometry = nil
	}
	r.buildErr = nil
}

// Release frees the renderer's GPU buffers
func (r *Renderer) Release() {
	r.InvalidateGeometry()
}

func (r *Renderer) ensureGeometry(mesh *scene.MeshComponent) (*Geometry, error) {
	if r.geometry != nil || r.buildErr != nil {
		return r.geometry, r.buildErr
	}
	r.builds++
	r.geometry, r.buildErr = buildGeometry(r.backend, mesh)
	if r.buildErr != nil {
		r.logger.Warn("mesh geometry rejected", zap.Uint64("renderer", uint64(r.ID())), zap.Error(r.buildErr))
	}
	return r.geometry, r.buildErr
}

func (r *Renderer) skip(reason string) bool {
	r.logger.Debug("draw skipped", zap.Uint64("renderer", uint64(r.ID())), zap.String("reason", reason))
	return false
}

// Render draws the mesh once with program as seen by camera. light is only
// used by the directional light program. It reports whether a draw call
// was issued; missing components are not errors.
func (r *Renderer) Render(camera scene.Camera, program shaders.Program, light *scene.DirectionalLightComponent, target *TextureTarget) bool {
	if !r.IsEnabled() {
		return false
	}

	if target != nil {
		r.backend.BindFramebuffer(target.Framebuffer)
		r.backend.Viewport(0, 0, target.Width, target.Height)
		defer r.backend.BindFramebuffer(gpu.DisplayFramebuffer)
	}

	g := r.GameObject()
	material, ok := scene.Find[*scene.MaterialComponent](g)
	if !ok {
		return r.skip("no material")
	}
	transformation, ok := scene.Find[*scene.TransformationComponent](g)
	if !ok {
		return r.skip("no transformation")
	}
	mesh, ok := scene.Find[*scene.MeshComponent](g)
	if !ok {
		return r.skip("no mesh")
	}
	viewProjection, ok := camera.ViewProjectionMatrix()
	if !ok {
		return r.skip("no camera projection")
	}

	geometry, err := r.ensureGeometry(mesh)
	if err != nil {
		return false
	}

	b := r.backend
	b.UseProgram(program.ID)

	position := b.AttribLocation(program.ID, shaders.AttribPosition)
	normal := b.AttribLocation(program.ID, shaders.AttribNormal)
	uv := b.AttribLocation(program.ID, shaders.AttribUV)

	b.EnableAttrib(position)
	b.AttribPointer(position, geometry.Positions, coordinatesPerPosition)
	if normal >= 0 {
		b.EnableAttrib(normal)
		b.AttribPointer(normal, geometry.Normals, coordinatesPerNormal)
	}
	b.EnableAttrib(uv)
	b.AttribPointer(uv, geometry.UVs, coordinatesPerUV)

	defer func() {
		b.DisableAttrib(uv)
		if normal >= 0 {
			b.DisableAttrib(normal)
		}
		b.DisableAttrib(position)
	}()

	filled := shaders.FillUniforms(b, program, shaders.Context{
		Material: material,
		Light:    light,
		Ambient:  r.env.AmbientColor(),
		Textures: r.env,
	})
	if !filled {
		return r.skip("no uniform context for " + program.Variant.String())
	}

	mvp, model := matrices(viewProjection, transformation)
	if loc := b.UniformLocation(program.ID, shaders.UniformMVPMatrix); loc >= 0 {
		b.UniformMatrix4f(loc, mvp)
	}
	if loc := b.UniformLocation(program.ID, shaders.UniformModelMatrix); loc >= 0 {
		b.UniformMatrix4f(loc, model)
	}

	if material.IsDoubleSided {
		b.Disable(gpu.CullFace)
	} else {
		b.Enable(gpu.CullFace)
	}
	mode := gpu.Triangles
	if material.IsWireframe {
		mode = gpu.LineLoop
	}
	b.LineWidth(r.lineWidth)
	b.DrawIndexed(mode, geometry.Indices, geometry.IndexCount)
	return true
}

// matrices returns the MVP matrix, which includes the translation, and the
// model matrix used for normals, which does not.
func matrices(viewProjection mgl32.Mat4, t *scene.TransformationComponent) (mvp, model mgl32.Mat4) {
	scaleRotate := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()).Mul4(t.Rotation.Mat4())
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	return viewProjection.Mul4(translate).Mul4(scaleRotate), scaleRotate
}
