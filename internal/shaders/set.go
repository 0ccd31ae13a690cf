package shaders

import (
	"embed"
	"fmt"
	"io/fs"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/gpu"
)

//go:embed glsl/*.glsl
var embedded embed.FS

// Embedded returns the built-in GLSL sources, laid out as DefaultSources
// expects.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "glsl")
	if err != nil {
		panic(err)
	}
	return sub
}

// Sources names the asset paths of the shared vertex shader and of each
// variant's fragment shader.
type Sources struct {
	Vertex    string
	Fragments [variantCount]string
}

func DefaultSources() Sources {
	return Sources{
		Vertex: "vertexShader.glsl",
		Fragments: [variantCount]string{
			Ambient:           "ambientFragmentShader.glsl",
			Unlit:             "unlitFragmentShader.glsl",
			DirectionalLight:  "directionalLightFragmentShader.glsl",
			CameraPassthrough: "cameraFragmentShader.glsl",
		},
	}
}

// Set holds one compiled program per variant
type Set struct {
	backend  gpu.Backend
	programs [variantCount]gpu.ProgramID
}

// Load compiles every variant. On failure the programs compiled so far are
// deleted and the error wraps gpu.ErrCompile.
func Load(backend gpu.Backend, store assets.Store, src Sources) (*Set, error) {
	vertex, err := assets.ReadText(store, src.Vertex)
	if err != nil {
		return nil, fmt.Errorf("read vertex shader: %w", err)
	}

	s := &Set{backend: backend}
	for _, v := range Variants {
		fragment, err := assets.ReadText(store, src.Fragments[v])
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("read %s fragment shader: %w", v, err)
		}
		id, err := backend.CompileProgram(vertex, fragment)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("compile %s shader: %w", v, err)
		}
		s.programs[v] = id
	}
	return s, nil
}

func (s *Set) Program(v Variant) Program {
	return Program{Variant: v, ID: s.programs[v]}
}

// Close deletes every compiled program
func (s *Set) Close() {
	for v, id := range s.programs {
		if id != 0 {
			s.backend.DeleteProgram(id)
			s.programs[v] = 0
		}
	}
}
