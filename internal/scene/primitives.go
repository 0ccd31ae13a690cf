package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// cube faces as (normal, u axis, v axis); corners are emitted CCW when seen
// from outside.
var cubeFaces = [6][3]mgl32.Vec3{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},   // north
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}}, // south
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},  // west
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},  // east
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},  // top
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},  // bottom
}

// NewCubeMesh builds an axis aligned cube centered at the origin with 24
// vertices so each face has its own normals and UVs.
func NewCubeMesh(size float32) *MeshComponent {
	h := size / 2
	m := &MeshComponent{}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		center := n.Mul(h)
		base := len(m.Vertices)
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := center.Add(u.Mul(c[0] * h)).Add(v.Mul(c[1] * h))
			m.Vertices = append(m.Vertices, p)
			m.Normals = append(m.Normals, n)
			m.UVs = append(m.UVs, mgl32.Vec2{(c[0] + 1) / 2, (1 - c[1]) / 2})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	return m
}

// NewQuadMesh builds a width x height quad in the XY plane facing +Z
func NewQuadMesh(width, height float32) *MeshComponent {
	w, h := width/2, height/2
	n := mgl32.Vec3{0, 0, 1}
	return &MeshComponent{
		Vertices: []mgl32.Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}},
		Normals:  []mgl32.Vec3{n, n, n, n},
		UVs:      []mgl32.Vec2{{0, 1}, {1, 1}, {1, 0}, {0, 0}},
		Indices:  []int{0, 1, 2, 2, 3, 0},
	}
}
