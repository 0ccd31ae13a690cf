package engine

import (
	"rendering-engine/internal/gpu"
	"rendering-engine/internal/meshrenderer"
	"rendering-engine/internal/profiling"
	"rendering-engine/internal/scene"
	"rendering-engine/internal/shaders"

	"go.uber.org/zap"
)

const (
	passBase     = "base"
	passAdditive = "additive"
)

// Render draws one frame: every offscreen target in creation order, then
// the display. It does nothing until both a scene and a display size exist.
func (e *Engine) Render() {
	defer profiling.Track("engine.Render")()

	s := e.sceneProvider()
	if s == nil || e.display == nil {
		return
	}

	for _, name := range e.registry.RenderTargetNames() {
		target, err := e.registry.RenderTarget(name)
		if err != nil {
			continue
		}
		e.renderTarget(s.RenderingTargetCameras(name), target.Framebuffer, target.Width, target.Height)
	}
	e.renderTarget(s.Cameras(), gpu.DisplayFramebuffer, e.display.width, e.display.height)
}

// renderTarget runs the base pass and the additive light passes of every
// camera into framebuffer.
func (e *Engine) renderTarget(cameras []scene.Camera, framebuffer gpu.FramebufferID, width, height int) {
	defer profiling.Track("engine.renderTarget")()

	b := e.backend
	if framebuffer != gpu.DisplayFramebuffer {
		b.BindFramebuffer(framebuffer)
		defer b.BindFramebuffer(gpu.DisplayFramebuffer)
	}
	b.Viewport(0, 0, width, height)
	b.Clear(gpu.ColorBuffer)
	// the base pass never blends, including the first frame after init
	gpu.RestoredState().Apply(b)

	for _, camera := range cameras {
		b.Clear(gpu.DepthBuffer)
		if a, ok := camera.(scene.AspectSetter); ok && height > 0 {
			a.SetAspect(float32(width) / float32(height))
		}

		renderers := e.Renderers(camera)
		for _, r := range renderers {
			material, ok := scene.Find[*scene.MaterialComponent](r.GameObject())
			if !ok {
				e.logger.Debug("renderer without material skipped", zap.Uint64("renderer", uint64(r.ID())))
				continue
			}
			if r.Render(camera, e.baseProgram(material), nil, nil) {
				profiling.CountDraw(passBase)
			}
		}

		gpu.AdditiveState().Apply(b)
		lightProgram := e.programs.Program(shaders.DirectionalLight)
		for _, light := range e.Lights(camera) {
			for _, r := range renderers {
				material, ok := scene.Find[*scene.MaterialComponent](r.GameObject())
				if !ok || material.IsUnlit {
					continue
				}
				if r.Render(camera, lightProgram, light, nil) {
					profiling.CountDraw(passAdditive)
				}
			}
		}
		gpu.RestoredState().Apply(b)
	}
}

// baseProgram picks the base pass variant for a material
func (e *Engine) baseProgram(m *scene.MaterialComponent) shaders.Program {
	switch {
	case m.TextureName == e.DeviceCameraTextureName():
		return e.programs.Program(shaders.CameraPassthrough)
	case m.IsUnlit:
		return e.programs.Program(shaders.Unlit)
	default:
		return e.programs.Program(shaders.Ambient)
	}
}

var _ meshrenderer.Environment = (*Engine)(nil)
