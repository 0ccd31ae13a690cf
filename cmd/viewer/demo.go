package main

import (
	"context"
	"math"
	"sync"
	"time"

	"rendering-engine/internal/config"
	"rendering-engine/internal/engine"
	"rendering-engine/internal/messagequeue"
	"rendering-engine/internal/scene"
	"rendering-engine/internal/surface"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	checkerTexture = "checker"
	crateTexture   = "crate"
	mirrorTarget   = "mirror"
)

// demo is a lit spinning cube, also seen through an offscreen camera whose
// picture is shown on an unlit quad.
type demo struct {
	settings config.RenderSettings
	logger   *zap.Logger

	camera     *scene.PerspectiveCamera
	cameraTr   *scene.TransformationComponent
	orbit      float32
	distance   float32
	cube       *scene.TransformationComponent
	material   *scene.MaterialComponent
	warm, cool *scene.DirectionalLightComponent
	coolOn     bool
	angle      float32
}

func newDemo(settings config.RenderSettings, logger *zap.Logger) *demo {
	return &demo{settings: settings, logger: logger}
}

// build is the surface.SceneFactory of the viewer
func (d *demo) build(_ *messagequeue.Queue, e *engine.Engine) (scene.Scene, error) {
	c := d.settings.ClearColor
	e.SetClearColor(c[0], c[1], c[2], c[3])
	a := d.settings.AmbientColor
	e.SetAmbientColor(a[0], a[1], a[2])

	if err := e.CreateTexture(checkerTexture, 8, 8, checkerboard(8, 0xffe0e0e0, 0xff404040)); err != nil {
		return nil, err
	}
	texture := crateTexture
	if err := e.LoadTexture(crateTexture, "crate.png"); err != nil {
		d.logger.Warn("using checker texture", zap.Error(err))
		texture = checkerTexture
	}
	if err := e.CreateTextureForRendering(mirrorTarget, 256, 256); err != nil {
		return nil, err
	}

	s := scene.NewBasicScene()

	d.camera = scene.NewPerspectiveCamera(60, 0.1, 100)
	d.cameraTr = scene.NewTransformation()
	d.distance = 6
	d.moveCamera(0, 0)
	newObject("camera", d.cameraTr, d.camera)
	s.AddCamera(d.camera)

	mirrorCamera := scene.NewPerspectiveCamera(50, 0.1, 100)
	mirrorTr := scene.NewTransformation()
	mirrorTr.Position = mgl32.Vec3{0, 0, 4}
	newObject("mirror camera", mirrorTr, mirrorCamera)
	s.AddTargetCamera(mirrorTarget, mirrorCamera)

	d.cube = scene.NewTransformation()
	d.material = &scene.MaterialComponent{TextureName: texture}
	cubeMesh := scene.NewCubeMesh(1.5)
	newObject("cube", d.cube, d.material, cubeMesh)

	quadTr := scene.NewTransformation()
	quadTr.Position = mgl32.Vec3{3, 0.5, 0}
	quadMesh := scene.NewQuadMesh(2, 2)
	newObject("mirror quad", quadTr, quadMesh, &scene.MaterialComponent{
		TextureName:   mirrorTarget,
		IsUnlit:       true,
		IsDoubleSided: true,
	})

	for _, reg := range []struct {
		camera scene.Camera
		mesh   *scene.MeshComponent
	}{
		{d.camera, cubeMesh},
		{mirrorCamera, cubeMesh},
		{d.camera, quadMesh},
	} {
		if err := e.AddMeshToRenderList(reg.camera, reg.mesh); err != nil {
			return nil, err
		}
	}

	d.warm = scene.NewDirectionalLight(mgl32.Vec3{0.9, 0.7, 0.5}, mgl32.Vec3{-1, -1, -1})
	d.cool = scene.NewDirectionalLight(mgl32.Vec3{0.3, 0.4, 0.8}, mgl32.Vec3{1, -0.5, -0.3})
	newObject("warm light", d.warm)
	newObject("cool light", d.cool)
	for _, camera := range []scene.Camera{d.camera, mirrorCamera} {
		e.AddDirectionalLight(camera, d.warm)
		e.AddDirectionalLight(camera, d.cool)
	}
	d.coolOn = true

	s.OnUpdate = d.spin
	return s, nil
}

func (d *demo) spin() {
	d.angle += 0.01
	d.cube.Rotation = mgl32.QuatRotate(d.angle, mgl32.Vec3{0.3, 1, 0.2}.Normalize())
}

// moveCamera orbits the display camera around the origin
func (d *demo) moveCamera(orbit, zoom float32) {
	d.orbit += orbit
	d.distance = mgl32.Clamp(d.distance+zoom, 2, 20)
	sin, cos := math.Sincos(float64(d.orbit))
	d.cameraTr.Position = mgl32.Vec3{float32(sin) * d.distance, 1.5, float32(cos) * d.distance}
	d.cameraTr.Rotation = mgl32.QuatRotate(d.orbit, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(-0.25, mgl32.Vec3{1, 0, 0}))
}

func (d *demo) toggleWireframe() {
	d.material.IsWireframe = !d.material.IsWireframe
}

func (d *demo) toggleUnlit() {
	d.material.IsUnlit = !d.material.IsUnlit
}

// toggleLight switches the cool light of the display camera
func (d *demo) toggleLight(e *engine.Engine) {
	if e == nil {
		return
	}
	if d.coolOn {
		if err := e.RemoveDirectionalLight(d.camera, d.cool); err != nil {
			d.logger.Error("remove light", zap.Error(err))
			return
		}
	} else {
		e.AddDirectionalLight(d.camera, d.cool)
	}
	d.coolOn = !d.coolOn
}

// animateLights swaps the light colors from another goroutine every two
// seconds. The returned function stops it.
func (d *demo) animateLights(host *surface.Host) func() {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := host.PostAndWait(ctx, func() {
					d.warm.Color, d.cool.Color = d.cool.Color, d.warm.Color
				})
				if err != nil && ctx.Err() == nil {
					d.logger.Warn("light animation stopped", zap.Error(err))
					return
				}
			}
		}
	}()
	return func() {
		cancel()
		wg.Wait()
	}
}

func newObject(name string, components ...scene.Component) *scene.GameObject {
	g := scene.NewGameObject(name)
	for _, c := range components {
		g.AddComponent(c)
	}
	return g
}

func checkerboard(size int, light, dark uint32) []uint32 {
	pixels := make([]uint32, size*size)
	for y := range size {
		for x := range size {
			if (x+y)%2 == 0 {
				pixels[y*size+x] = light
			} else {
				pixels[y*size+x] = dark
			}
		}
	}
	return pixels
}
