package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer action, not a physical key
type Action int

const (
	ActionQuit Action = iota
	ActionToggleWireframe
	ActionToggleUnlit
	ActionToggleLight
	ActionOrbitLeft
	ActionOrbitRight
	ActionZoomIn
	ActionZoomOut
	ActionCount // Sentinel value for array sizing
)

// Manager maps physical keys to actions and tracks their per-frame state.
// Key events arrive on the main goroutine from glfw.PollEvents; the lock
// lets other goroutines query state.
type Manager struct {
	mu sync.RWMutex

	// one key can map to multiple actions
	keyToActions map[glfw.Key][]Action

	currentState [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager creates a Manager with the default viewer bindings
func NewManager() *Manager {
	m := &Manager{
		keyToActions: make(map[glfw.Key][]Action),
	}

	m.BindKey(glfw.KeyEscape, ActionQuit)
	m.BindKey(glfw.KeyF, ActionToggleWireframe)
	m.BindKey(glfw.KeyU, ActionToggleUnlit)
	m.BindKey(glfw.KeyL, ActionToggleLight)
	m.BindKey(glfw.KeyA, ActionOrbitLeft)
	m.BindKey(glfw.KeyLeft, ActionOrbitLeft)
	m.BindKey(glfw.KeyD, ActionOrbitRight)
	m.BindKey(glfw.KeyRight, ActionOrbitRight)
	m.BindKey(glfw.KeyW, ActionZoomIn)
	m.BindKey(glfw.KeyS, ActionZoomOut)

	return m
}

// BindKey binds a physical key to an action. Several keys may share one.
func (m *Manager) BindKey(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (m *Manager) UnbindKey(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKeyEvent updates the state of every action bound to key
func (m *Manager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	actions, ok := m.keyToActions[key]
	if !ok {
		return
	}
	pressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range actions {
		if pressed && !m.currentState[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.currentState[act] {
			m.justReleased[act] = true
		}
		m.currentState[act] = pressed
	}
}

// SetKeyCallback routes the window's key events into the manager
func (m *Manager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears the edge flags. Call once at the end of each frame.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.justPressed[:])
	clear(m.justReleased[:])
}

// IsActive reports whether the action is held down
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentState[action]
}

// JustPressed reports whether the action was pressed during this frame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}
