// Package surface drives the engine from a windowing system's surface
// callbacks.
package surface

import (
	"context"
	"fmt"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/engine"
	"rendering-engine/internal/gpu"
	"rendering-engine/internal/messagequeue"
	"rendering-engine/internal/profiling"
	"rendering-engine/internal/scene"

	"go.uber.org/zap"
)

// SceneFactory builds the scene once the engine exists. The queue is where
// the scene posts work from other goroutines.
type SceneFactory func(q *messagequeue.Queue, e *engine.Engine) (scene.Scene, error)

// Host owns the engine, the scene and the message queue feeding them. The
// On* callbacks must all be called from the goroutine holding the GPU
// context; Post and PostAndWait are safe from any goroutine.
type Host struct {
	backend gpu.Backend
	store   assets.Store
	factory SceneFactory
	opts    engine.Options
	logger  *zap.Logger

	queue  *messagequeue.Queue
	engine *engine.Engine
	scene  scene.Scene
}

func New(backend gpu.Backend, store assets.Store, factory SceneFactory, opts engine.Options) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
		opts.Logger = logger
	}
	return &Host{
		backend: backend,
		store:   store,
		factory: factory,
		opts:    opts,
		logger:  logger,
		queue:   messagequeue.New(logger.Named("queue")),
	}
}

// OnSurfaceCreated builds the engine and then the scene
func (h *Host) OnSurfaceCreated() error {
	e, err := engine.New(h.backend, h.store, h.currentScene, h.opts)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	h.engine = e

	s, err := h.factory(h.queue, e)
	if err != nil {
		e.Close()
		h.engine = nil
		return fmt.Errorf("create scene: %w", err)
	}
	h.scene = s
	h.logger.Info("surface created")
	return nil
}

// OnSurfaceChanged resizes the viewport and tells the engine and scene
func (h *Host) OnSurfaceChanged(width, height int) {
	if h.engine == nil {
		return
	}
	h.backend.Viewport(0, 0, width, height)
	h.engine.OnScreenConfigUpdate(width, height)
	h.logger.Debug("surface changed", zap.Int("width", width), zap.Int("height", height))
}

// OnDrawFrame runs queued messages, ticks the scene and renders a frame
func (h *Host) OnDrawFrame() {
	if h.engine == nil {
		return
	}
	profiling.ResetFrame()
	defer profiling.Track("surface.OnDrawFrame")()

	h.queue.Drain()
	if h.scene != nil {
		stop := profiling.Track("scene.Update")
		h.scene.Update()
		stop()
	}
	h.engine.Render()
}

// Post runs fn on the render goroutine before the next frame
func (h *Host) Post(fn func()) error {
	return h.queue.Put(fn)
}

// PostAndWait runs fn on the render goroutine and waits for it
func (h *Host) PostAndWait(ctx context.Context, fn func()) error {
	return h.queue.PutAndWait(ctx, fn)
}

// Engine returns the engine, or nil before OnSurfaceCreated
func (h *Host) Engine() *engine.Engine {
	return h.engine
}

func (h *Host) Queue() *messagequeue.Queue {
	return h.queue
}

// Close stops accepting messages and releases the engine's GPU objects
func (h *Host) Close() {
	h.queue.Close()
	if h.engine != nil {
		h.engine.Close()
		h.engine = nil
	}
	h.scene = nil
}

func (h *Host) currentScene() scene.Scene {
	return h.scene
}
