package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a component that can project the scene
type Camera interface {
	Component
	// ViewProjectionMatrix reports false when the camera cannot produce a
	// matrix yet, e.g. because it is not attached to a game object.
	ViewProjectionMatrix() (mgl32.Mat4, bool)
}

// AspectSetter is implemented by cameras whose projection follows the
// render target's aspect ratio.
type AspectSetter interface {
	SetAspect(aspect float32)
}

// PerspectiveCamera looks down -Z of its game object's transformation
type PerspectiveCamera struct {
	BaseComponent
	FOV    float32 // vertical, degrees
	Near   float32
	Far    float32
	Aspect float32
}

func NewPerspectiveCamera(fov, near, far float32) *PerspectiveCamera {
	return &PerspectiveCamera{
		FOV:    fov,
		Near:   near,
		Far:    far,
		Aspect: 1,
	}
}

func (c *PerspectiveCamera) SetAspect(aspect float32) {
	c.Aspect = aspect
}

func (c *PerspectiveCamera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) ViewProjectionMatrix() (mgl32.Mat4, bool) {
	view, ok := viewMatrix(c.GameObject())
	if !ok {
		return mgl32.Mat4{}, false
	}
	return c.ProjectionMatrix().Mul4(view), true
}

// OrthoCamera uses a fixed box and ignores the target's aspect ratio
type OrthoCamera struct {
	BaseComponent
	Left, Right, Bottom, Top float32
	Near, Far                float32
}

func NewOrthoCamera(left, right, bottom, top, near, far float32) *OrthoCamera {
	return &OrthoCamera{Left: left, Right: right, Bottom: bottom, Top: top, Near: near, Far: far}
}

func (c *OrthoCamera) ViewProjectionMatrix() (mgl32.Mat4, bool) {
	view, ok := viewMatrix(c.GameObject())
	if !ok {
		return mgl32.Mat4{}, false
	}
	return mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far).Mul4(view), true
}

// viewMatrix inverts the camera object's rigid transform. Scale does not
// apply to cameras.
func viewMatrix(g *GameObject) (mgl32.Mat4, bool) {
	if g == nil {
		return mgl32.Mat4{}, false
	}
	t, ok := Find[*TransformationComponent](g)
	if !ok {
		return mgl32.Ident4(), true
	}
	world := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Normalize().Mat4())
	return world.Inv(), true
}
