package scene

import "sync/atomic"

// ID identifies a component for the lifetime of the process
type ID uint64

var lastID atomic.Uint64

// NewID returns a fresh, never reused component id
func NewID() ID {
	return ID(lastID.Add(1))
}

// Component is anything that can be attached to a GameObject
type Component interface {
	ID() ID
	GameObject() *GameObject
	IsEnabled() bool
	setGameObject(g *GameObject)
}

// BaseComponent provides the bookkeeping every component needs. Embed it by
// value; the id is assigned on first use.
type BaseComponent struct {
	id         ID
	gameObject *GameObject
	Disabled   bool
}

func (b *BaseComponent) ID() ID {
	if b.id == 0 {
		b.id = NewID()
	}
	return b.id
}

func (b *BaseComponent) GameObject() *GameObject { return b.gameObject }

func (b *BaseComponent) IsEnabled() bool { return !b.Disabled }

func (b *BaseComponent) setGameObject(g *GameObject) { b.gameObject = g }

// GameObject is an ordered bag of components
type GameObject struct {
	Name       string
	components []Component
}

func NewGameObject(name string) *GameObject {
	return &GameObject{Name: name}
}

// AddComponent attaches c and makes g its owner
func (g *GameObject) AddComponent(c Component) {
	c.setGameObject(g)
	g.components = append(g.components, c)
}

// RemoveComponent detaches c, reporting whether it was attached to g
func (g *GameObject) RemoveComponent(c Component) bool {
	for i, existing := range g.components {
		if existing.ID() == c.ID() {
			g.components = append(g.components[:i], g.components[i+1:]...)
			c.setGameObject(nil)
			return true
		}
	}
	return false
}

func (g *GameObject) Components() []Component {
	return g.components
}

// Find returns the first component of type T attached to g. A nil g has no
// components.
func Find[T Component](g *GameObject) (T, bool) {
	var zero T
	if g == nil {
		return zero, false
	}
	for _, c := range g.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	return zero, false
}
