package shaders

import (
	"rendering-engine/internal/gpu"
	"rendering-engine/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// TextureLookup resolves material texture names, substituting a fallback
// for unknown names.
type TextureLookup interface {
	TextureIDOrFallback(name string) gpu.TextureID
}

// Context is the per-draw state a program's uniforms are filled from
type Context struct {
	Material *scene.MaterialComponent
	// Light is required by DirectionalLight and ignored otherwise.
	Light    *scene.DirectionalLightComponent
	Ambient  mgl32.Vec3
	Textures TextureLookup
}

// FillUniforms binds the textures and uploads the uniforms p needs. It
// reports false, uploading nothing, when ctx lacks what the variant needs.
// Uniforms the program does not expose are skipped.
func FillUniforms(b gpu.Backend, p Program, ctx Context) bool {
	if ctx.Material == nil {
		return false
	}

	switch p.Variant {
	case Ambient:
		bindMaterialTexture(b, p, gpu.Texture2D, ctx)
		if loc := b.UniformLocation(p.ID, UniformAmbientColor); loc >= 0 {
			b.Uniform3f(loc, ctx.Ambient.X(), ctx.Ambient.Y(), ctx.Ambient.Z())
		}
	case Unlit:
		bindMaterialTexture(b, p, gpu.Texture2D, ctx)
	case DirectionalLight:
		light := ctx.Light
		if light == nil {
			return false
		}
		bindMaterialTexture(b, p, gpu.Texture2D, ctx)
		if loc := b.UniformLocation(p.ID, UniformLightColor); loc >= 0 {
			b.Uniform3f(loc, light.Color.X(), light.Color.Y(), light.Color.Z())
		}
		if loc := b.UniformLocation(p.ID, UniformLightDirection); loc >= 0 {
			b.Uniform3f(loc, light.Direction.X(), light.Direction.Y(), light.Direction.Z())
		}
	case CameraPassthrough:
		bindMaterialTexture(b, p, gpu.TextureExternal, ctx)
	default:
		return false
	}
	return true
}

// bindMaterialTexture binds the material's texture to unit 0
func bindMaterialTexture(b gpu.Backend, p Program, target gpu.TextureTarget, ctx Context) {
	b.ActiveTexture(0)
	b.BindTexture(target, ctx.Textures.TextureIDOrFallback(ctx.Material.TextureName))
	if loc := b.UniformLocation(p.ID, UniformTexture); loc >= 0 {
		b.Uniform1i(loc, 0)
	}
}
