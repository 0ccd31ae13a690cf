package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindComponent(t *testing.T) {
	g := NewGameObject("box")
	mat := &MaterialComponent{TextureName: "crate"}
	g.AddComponent(mat)
	g.AddComponent(NewTransformation())

	found, ok := Find[*MaterialComponent](g)
	require.True(t, ok)
	assert.Same(t, mat, found)
	assert.Same(t, g, mat.GameObject())

	_, ok = Find[*MeshComponent](g)
	assert.False(t, ok)

	_, ok = Find[*MeshComponent](nil)
	assert.False(t, ok)
}

func TestRemoveComponent(t *testing.T) {
	g := NewGameObject("box")
	mesh := NewCubeMesh(1)
	g.AddComponent(mesh)

	assert.True(t, g.RemoveComponent(mesh))
	assert.Nil(t, mesh.GameObject())
	assert.False(t, g.RemoveComponent(mesh))
	assert.Empty(t, g.Components())
}

func TestComponentIDsAreUnique(t *testing.T) {
	a, b := &MaterialComponent{}, &MaterialComponent{}
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, a.ID(), a.ID())
}

func TestPerspectiveCameraNeedsGameObject(t *testing.T) {
	cam := NewPerspectiveCamera(60, 0.1, 100)
	_, ok := cam.ViewProjectionMatrix()
	assert.False(t, ok)

	g := NewGameObject("camera")
	g.AddComponent(cam)
	vp, ok := cam.ViewProjectionMatrix()
	require.True(t, ok)
	assert.True(t, vp.ApproxEqual(cam.ProjectionMatrix()))
}

func TestPerspectiveCameraAspectChangesProjection(t *testing.T) {
	cam := NewPerspectiveCamera(60, 0.1, 100)
	NewGameObject("camera").AddComponent(cam)

	before, _ := cam.ViewProjectionMatrix()
	cam.SetAspect(800.0 / 600.0)
	after, _ := cam.ViewProjectionMatrix()

	assert.False(t, before.ApproxEqual(after))
	assert.InDelta(t, before.At(0, 0)/(800.0/600.0), after.At(0, 0), 1e-5)
}

func TestCameraViewFollowsTransformation(t *testing.T) {
	cam := NewOrthoCamera(-1, 1, -1, 1, -10, 10)
	g := NewGameObject("camera")
	tr := NewTransformation()
	tr.Position = mgl32.Vec3{0, 0, 5}
	g.AddComponent(tr)
	g.AddComponent(cam)

	vp, ok := cam.ViewProjectionMatrix()
	require.True(t, ok)
	// The camera's own position maps to the center of the view volume.
	p := vp.Mul4x1(mgl32.Vec4{0, 0, 5, 1})
	assert.InDelta(t, 0, p.X(), 1e-5)
	assert.InDelta(t, 0, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestCubeMesh(t *testing.T) {
	m := NewCubeMesh(2)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Normals, 24)
	assert.Len(t, m.UVs, 24)
	assert.Len(t, m.Indices, 36)

	// every face winds counter-clockwise around its outward normal
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		n := b.Sub(a).Cross(c.Sub(a))
		assert.Greater(t, n.Dot(m.Normals[m.Indices[i]]), float32(0))
	}
}

func TestBasicScene(t *testing.T) {
	s := NewBasicScene()
	display := NewPerspectiveCamera(60, 0.1, 100)
	offscreen := NewOrthoCamera(-1, 1, -1, 1, -1, 1)
	s.AddCamera(display)
	s.AddTargetCamera("mirror", offscreen)

	assert.Equal(t, []Camera{display}, s.Cameras())
	assert.Equal(t, []Camera{offscreen}, s.RenderingTargetCameras("mirror"))
	assert.Empty(t, s.RenderingTargetCameras("unknown"))

	ticks := 0
	s.OnUpdate = func() { ticks++ }
	s.Update()
	assert.Equal(t, 1, ticks)

	s.OnScreenConfigUpdate(800, 600)
	w, h := s.ScreenSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
