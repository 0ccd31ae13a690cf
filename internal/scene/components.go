package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// MeshComponent holds immutable geometry. Vertices, Normals and UVs are
// parallel and must have the same length.
type MeshComponent struct {
	BaseComponent
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []int
}

// MaterialComponent describes how a mesh is shaded. TextureName is a key
// into the engine's texture registry.
type MaterialComponent struct {
	BaseComponent
	TextureName   string
	IsUnlit       bool
	IsDoubleSided bool
	IsWireframe   bool
}

type TransformationComponent struct {
	BaseComponent
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// NewTransformation returns the identity transformation
func NewTransformation() *TransformationComponent {
	return &TransformationComponent{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

type DirectionalLightComponent struct {
	BaseComponent
	Color     mgl32.Vec3
	Direction mgl32.Vec3
}

// NewDirectionalLight normalizes direction before storing it
func NewDirectionalLight(color, direction mgl32.Vec3) *DirectionalLightComponent {
	return &DirectionalLightComponent{
		Color:     color,
		Direction: direction.Normalize(),
	}
}
