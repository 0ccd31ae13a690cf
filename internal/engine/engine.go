package engine

import (
	"errors"
	"fmt"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/gpu"
	"rendering-engine/internal/meshrenderer"
	"rendering-engine/internal/resources"
	"rendering-engine/internal/scene"
	"rendering-engine/internal/shaders"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var (
	ErrAssociationNotFound = errors.New("association not found")
	ErrNoParentGameObject  = errors.New("mesh has no parent game object")
)

// Options configures a new Engine. The zero value is usable.
type Options struct {
	Logger *zap.Logger
	// Metrics supplies the display density used for wireframe line width.
	Metrics meshrenderer.DisplayMetrics
	// ShaderStore serves the GLSL sources; nil means the embedded shaders.
	ShaderStore assets.Store
	// Sources names the shader assets; nil means shaders.DefaultSources.
	Sources *shaders.Sources
}

// registration is one (camera, mesh) entry of the render list
type registration struct {
	camera scene.ID
	mesh   scene.ID
}

type displayTarget struct {
	width, height int
}

// Engine renders every camera of the scene into the offscreen targets and
// then the display. It must only be used from the thread owning the GPU
// context.
type Engine struct {
	backend       gpu.Backend
	sceneProvider func() scene.Scene
	logger        *zap.Logger
	metrics       meshrenderer.DisplayMetrics

	registry *resources.Registry
	programs *shaders.Set
	ambient  mgl32.Vec3

	renderers       map[registration]*meshrenderer.Renderer
	cameraRenderers adjacency
	cameraLights    adjacency
	lights          map[scene.ID]*scene.DirectionalLightComponent
	lightRefs       map[scene.ID]int

	display *displayTarget
}

// New sets up the global pipeline state, the fallback texture and the
// shader programs. Textures are loaded from store. A shader compile error is returned as is: the engine
// cannot run without all of its programs.
func New(backend gpu.Backend, store assets.Store, sceneProvider func() scene.Scene, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sources := shaders.DefaultSources()
	if opts.Sources != nil {
		sources = *opts.Sources
	}
	shaderStore := opts.ShaderStore
	if shaderStore == nil {
		shaderStore = assets.NewFS(shaders.Embedded())
	}

	e := &Engine{
		backend:         backend,
		sceneProvider:   sceneProvider,
		logger:          logger,
		metrics:         opts.Metrics,
		registry:        resources.New(backend, store, logger),
		renderers:       make(map[registration]*meshrenderer.Renderer),
		cameraRenderers: make(adjacency),
		cameraLights:    make(adjacency),
		lights:          make(map[scene.ID]*scene.DirectionalLightComponent),
		lightRefs:       make(map[scene.ID]int),
	}

	backend.ClearColor(0, 0, 0, 0)
	backend.FrontFaceCCW()
	backend.CullBackFace()
	backend.Enable(gpu.DepthTest)
	gpu.InitialState().Apply(backend)

	e.registry.Init()

	programs, err := shaders.Load(backend, shaderStore, sources)
	if err != nil {
		e.registry.Close()
		logger.Error("shader setup failed", zap.Error(err))
		return nil, fmt.Errorf("load shaders: %w", err)
	}
	e.programs = programs

	logger.Info("rendering engine initialized")
	return e, nil
}

// Close releases every GPU object owned by the engine
func (e *Engine) Close() {
	for key, r := range e.renderers {
		r.Release()
		if g := r.GameObject(); g != nil {
			g.RemoveComponent(r)
		}
		delete(e.renderers, key)
	}
	clear(e.cameraRenderers)
	clear(e.cameraLights)
	clear(e.lights)
	clear(e.lightRefs)
	e.display = nil
	e.programs.Close()
	e.registry.Close()
}

func (e *Engine) SetClearColor(r, g, b, a float32) {
	e.backend.ClearColor(r, g, b, a)
}

func (e *Engine) SetAmbientColor(r, g, b float32) {
	e.ambient = mgl32.Vec3{r, g, b}
}

func (e *Engine) AmbientColor() mgl32.Vec3 {
	return e.ambient
}

// AddMeshToRenderList makes camera draw mesh. Adding a pair that is already
// registered keeps the existing renderer.
func (e *Engine) AddMeshToRenderList(camera scene.Camera, mesh *scene.MeshComponent) error {
	g := mesh.GameObject()
	if g == nil {
		return ErrNoParentGameObject
	}
	key := registration{camera: camera.ID(), mesh: mesh.ID()}
	if e.cameraRenderers.contains(key.camera, key.mesh) {
		return nil
	}

	r := meshrenderer.New(e.backend, e, e.metrics, e.logger)
	g.AddComponent(r)
	e.renderers[key] = r
	e.cameraRenderers.add(key.camera, key.mesh)
	return nil
}

// RemoveMeshFromRenderList undoes AddMeshToRenderList and frees the
// renderer's buffers.
func (e *Engine) RemoveMeshFromRenderList(camera scene.Camera, mesh *scene.MeshComponent) error {
	key := registration{camera: camera.ID(), mesh: mesh.ID()}
	r, ok := e.renderers[key]
	if !ok || !e.cameraRenderers.remove(key.camera, key.mesh) {
		return fmt.Errorf("%w: mesh %d is not rendered by camera %d", ErrAssociationNotFound, key.mesh, key.camera)
	}
	delete(e.renderers, key)
	r.Release()
	if g := r.GameObject(); g != nil {
		g.RemoveComponent(r)
	}
	return nil
}

func (e *Engine) AddDirectionalLight(camera scene.Camera, light *scene.DirectionalLightComponent) {
	if e.cameraLights.add(camera.ID(), light.ID()) {
		e.lights[light.ID()] = light
		e.lightRefs[light.ID()]++
	}
}

func (e *Engine) RemoveDirectionalLight(camera scene.Camera, light *scene.DirectionalLightComponent) error {
	if !e.cameraLights.remove(camera.ID(), light.ID()) {
		return fmt.Errorf("%w: light %d is not seen by camera %d", ErrAssociationNotFound, light.ID(), camera.ID())
	}
	e.lightRefs[light.ID()]--
	if e.lightRefs[light.ID()] == 0 {
		delete(e.lightRefs, light.ID())
		delete(e.lights, light.ID())
	}
	return nil
}

// Renderers returns the renderers registered for camera
func (e *Engine) Renderers(camera scene.Camera) []*meshrenderer.Renderer {
	meshes := e.cameraRenderers.of(camera.ID())
	out := make([]*meshrenderer.Renderer, 0, len(meshes))
	for _, mesh := range meshes {
		out = append(out, e.renderers[registration{camera: camera.ID(), mesh: mesh}])
	}
	return out
}

// Lights returns the directional lights registered for camera
func (e *Engine) Lights(camera scene.Camera) []*scene.DirectionalLightComponent {
	ids := e.cameraLights.of(camera.ID())
	out := make([]*scene.DirectionalLightComponent, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.lights[id])
	}
	return out
}

func (e *Engine) LoadTexture(name, assetPath string) error {
	return e.registry.LoadTexture(name, assetPath)
}

func (e *Engine) CreateTexture(name string, width, height int, argb []uint32) error {
	return e.registry.CreateTexture(name, width, height, argb)
}

func (e *Engine) CreateTextureForRendering(name string, width, height int) error {
	return e.registry.CreateTextureForRendering(name, width, height)
}

func (e *Engine) CreateCameraPreviewTexture() error {
	return e.registry.CreateCameraPreviewTexture(resources.DeviceCameraTextureName)
}

// DeleteTexture frees the texture or render target registered under name.
// The fallback texture cannot be deleted.
func (e *Engine) DeleteTexture(name string) error {
	return e.registry.DeleteTexture(name)
}

func (e *Engine) DeviceCameraTextureName() string {
	return resources.DeviceCameraTextureName
}

func (e *Engine) TextureID(name string) (gpu.TextureID, error) {
	return e.registry.TextureID(name)
}

func (e *Engine) TextureIDOrFallback(name string) gpu.TextureID {
	return e.registry.TextureIDOrFallback(name)
}

// OnScreenConfigUpdate records the display size and forwards it to the scene
func (e *Engine) OnScreenConfigUpdate(width, height int) {
	e.display = &displayTarget{width: width, height: height}
	if s := e.sceneProvider(); s != nil {
		s.OnScreenConfigUpdate(width, height)
	}
}
