package main

import (
	"time"

	"rendering-engine/internal/input"
	"rendering-engine/internal/profiling"
	"rendering-engine/internal/surface"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

const orbitSpeed = 0.03

func runFrameLoop(window *glfw.Window, host *surface.Host, d *demo, im *input.Manager, slowFrame time.Duration, logger *zap.Logger) {
	frames := 0
	lastFPSCheck := time.Now()

	for !window.ShouldClose() {
		start := time.Now()
		host.OnDrawFrame()

		func() { defer profiling.Track("glfw.SwapBuffers")(); window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()
		handleActions(window, host, d, im)
		im.PostUpdate()
		frames++

		if d := time.Since(start); slowFrame > 0 && d > slowFrame {
			logger.Warn("slow frame",
				zap.Duration("took", d),
				zap.String("top", profiling.TopN(3)),
				zap.Any("draws", profiling.Draws()))
		}
		if time.Since(lastFPSCheck) >= time.Second {
			logger.Debug("fps", zap.Int("frames", frames), zap.Any("draws", profiling.Draws()))
			frames = 0
			lastFPSCheck = time.Now()
		}
	}
}

// handleActions turns input into messages for the render goroutine
func handleActions(window *glfw.Window, host *surface.Host, d *demo, im *input.Manager) {
	if im.JustPressed(input.ActionQuit) {
		window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionToggleWireframe) {
		_ = host.Post(d.toggleWireframe)
	}
	if im.JustPressed(input.ActionToggleUnlit) {
		_ = host.Post(d.toggleUnlit)
	}
	if im.JustPressed(input.ActionToggleLight) {
		_ = host.Post(func() { d.toggleLight(host.Engine()) })
	}

	var orbit, zoom float32
	if im.IsActive(input.ActionOrbitLeft) {
		orbit -= orbitSpeed
	}
	if im.IsActive(input.ActionOrbitRight) {
		orbit += orbitSpeed
	}
	if im.IsActive(input.ActionZoomIn) {
		zoom -= orbitSpeed * 4
	}
	if im.IsActive(input.ActionZoomOut) {
		zoom += orbitSpeed * 4
	}
	if orbit != 0 || zoom != 0 {
		_ = host.Post(func() { d.moveCamera(orbit, zoom) })
	}
}
