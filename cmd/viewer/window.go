package main

import (
	"math"

	"rendering-engine/internal/config"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(s config.WindowSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)
	return window, nil
}

// windowMetrics reports the window's content scale as the pixel density
type windowMetrics struct {
	window   *glfw.Window
	override float32
}

func (m windowMetrics) PixelDensityFactor() float32 {
	if m.override > 0 {
		return m.override
	}
	x, y := m.window.GetContentScale()
	return float32(math.Max(float64(x), float64(y)))
}
