package meshrenderer

import (
	"errors"
	"fmt"

	"rendering-engine/internal/gpu"
	"rendering-engine/internal/scene"
)

const (
	coordinatesPerPosition = 3
	coordinatesPerNormal   = 3
	coordinatesPerUV       = 2

	// MaxVertices is the most vertices a mesh may have: indices are drawn as
	// 16-bit unsigned integers.
	MaxVertices = 1 << 16
)

var (
	ErrTooManyVertices = errors.New("mesh exceeds 16-bit index range")
	ErrMalformedMesh   = errors.New("malformed mesh")
)

// Geometry is the GPU copy of a mesh, built once per renderer
type Geometry struct {
	Positions  gpu.BufferID
	Normals    gpu.BufferID
	UVs        gpu.BufferID
	Indices    gpu.BufferID
	IndexCount int
}

func buildGeometry(b gpu.Backend, mesh *scene.MeshComponent) (*Geometry, error) {
	n := len(mesh.Vertices)
	if n > MaxVertices {
		return nil, fmt.Errorf("%w: %d vertices", ErrTooManyVertices, n)
	}
	if len(mesh.Normals) != n || len(mesh.UVs) != n {
		return nil, fmt.Errorf("%w: %d vertices, %d normals, %d uvs",
			ErrMalformedMesh, n, len(mesh.Normals), len(mesh.UVs))
	}

	positions := make([]float32, 0, n*coordinatesPerPosition)
	normals := make([]float32, 0, n*coordinatesPerNormal)
	uvs := make([]float32, 0, n*coordinatesPerUV)
	for i := 0; i < n; i++ {
		positions = append(positions, mesh.Vertices[i][:]...)
		normals = append(normals, mesh.Normals[i][:]...)
		uvs = append(uvs, mesh.UVs[i][:]...)
	}

	indices := make([]uint16, len(mesh.Indices))
	for i, idx := range mesh.Indices {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrMalformedMesh, idx, n)
		}
		indices[i] = uint16(idx)
	}

	return &Geometry{
		Positions:  b.CreateVertexBuffer(positions),
		Normals:    b.CreateVertexBuffer(normals),
		UVs:        b.CreateVertexBuffer(uvs),
		Indices:    b.CreateIndexBuffer(indices),
		IndexCount: len(indices),
	}, nil
}

func (g *Geometry) release(b gpu.Backend) {
	b.DeleteBuffer(g.Positions)
	b.DeleteBuffer(g.Normals)
	b.DeleteBuffer(g.UVs)
	b.DeleteBuffer(g.Indices)
}
