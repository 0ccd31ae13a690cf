package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestPressAndRelease(t *testing.T) {
	m := NewManager()

	m.HandleKeyEvent(glfw.KeyF, glfw.Press)
	assert.True(t, m.IsActive(ActionToggleWireframe))
	assert.True(t, m.JustPressed(ActionToggleWireframe))

	m.PostUpdate()
	assert.True(t, m.IsActive(ActionToggleWireframe))
	assert.False(t, m.JustPressed(ActionToggleWireframe))

	// key repeat is not a new press
	m.HandleKeyEvent(glfw.KeyF, glfw.Repeat)
	assert.False(t, m.JustPressed(ActionToggleWireframe))

	m.HandleKeyEvent(glfw.KeyF, glfw.Release)
	assert.False(t, m.IsActive(ActionToggleWireframe))
	assert.True(t, m.JustReleased(ActionToggleWireframe))
}

func TestSeveralKeysForOneAction(t *testing.T) {
	m := NewManager()
	m.HandleKeyEvent(glfw.KeyLeft, glfw.Press)
	assert.True(t, m.IsActive(ActionOrbitLeft))
	m.HandleKeyEvent(glfw.KeyLeft, glfw.Release)
	m.HandleKeyEvent(glfw.KeyA, glfw.Press)
	assert.True(t, m.IsActive(ActionOrbitLeft))
}

func TestBindings(t *testing.T) {
	m := NewManager()
	m.BindKey(glfw.KeyQ, ActionQuit)
	m.BindKey(glfw.KeyQ, ActionCount)
	m.HandleKeyEvent(glfw.KeyQ, glfw.Press)
	assert.True(t, m.JustPressed(ActionQuit))

	m.UnbindKey(glfw.KeyU)
	m.HandleKeyEvent(glfw.KeyU, glfw.Press)
	assert.False(t, m.IsActive(ActionToggleUnlit))

	assert.False(t, m.IsActive(ActionCount))
	assert.False(t, m.JustPressed(-1))
}
