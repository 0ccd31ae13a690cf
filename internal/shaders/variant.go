package shaders

import (
	"fmt"

	"rendering-engine/internal/gpu"
)

// Variant is one of the engine's fixed shader programs
type Variant uint8

const (
	Ambient Variant = iota
	Unlit
	DirectionalLight
	CameraPassthrough

	variantCount
)

// Variants lists every variant in compilation order
var Variants = [variantCount]Variant{Ambient, Unlit, DirectionalLight, CameraPassthrough}

func (v Variant) String() string {
	switch v {
	case Ambient:
		return "ambient"
	case Unlit:
		return "unlit"
	case DirectionalLight:
		return "directional-light"
	case CameraPassthrough:
		return "camera-passthrough"
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// Program is a compiled variant
type Program struct {
	Variant Variant
	ID      gpu.ProgramID
}

// Attribute and uniform names shared by every program
const (
	AttribPosition = "positionAttribute"
	AttribNormal   = "normalAttribute"
	AttribUV       = "uvAttribute"

	UniformMVPMatrix      = "mvpMatrixUniform"
	UniformModelMatrix    = "modelMatrixUniform"
	UniformTexture        = "textureUniform"
	UniformAmbientColor   = "ambientColor"
	UniformLightColor     = "directionalLightUniform.color"
	UniformLightDirection = "directionalLightUniform.direction"
)
