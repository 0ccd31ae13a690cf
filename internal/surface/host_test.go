package surface

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/engine"
	"rendering-engine/internal/gpu/gputest"
	"rendering-engine/internal/messagequeue"
	"rendering-engine/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demo struct {
	scene   *scene.BasicScene
	camera  *scene.PerspectiveCamera
	mesh    *scene.MeshComponent
	updates int
}

func (d *demo) factory(q *messagequeue.Queue, e *engine.Engine) (scene.Scene, error) {
	d.scene = scene.NewBasicScene()
	d.scene.OnUpdate = func() { d.updates++ }

	d.camera = scene.NewPerspectiveCamera(60, 0.1, 100)
	scene.NewGameObject("camera").AddComponent(d.camera)
	d.scene.AddCamera(d.camera)

	g := scene.NewGameObject("quad")
	d.mesh = scene.NewQuadMesh(1, 1)
	g.AddComponent(d.mesh)
	g.AddComponent(scene.NewTransformation())
	g.AddComponent(&scene.MaterialComponent{IsUnlit: true})
	if err := e.AddMeshToRenderList(d.camera, d.mesh); err != nil {
		return nil, err
	}
	return d.scene, nil
}

func newHost(t *testing.T) (*Host, *gputest.Recorder, *demo) {
	t.Helper()
	rec := gputest.New()
	d := &demo{}
	h := New(rec, assets.NewFS(fstest.MapFS{}), d.factory, engine.Options{})
	require.NoError(t, h.OnSurfaceCreated())
	return h, rec, d
}

func TestCallbacksBeforeCreateAreIgnored(t *testing.T) {
	rec := gputest.New()
	d := &demo{}
	h := New(rec, assets.NewFS(fstest.MapFS{}), d.factory, engine.Options{})

	h.OnSurfaceChanged(100, 100)
	h.OnDrawFrame()
	assert.Empty(t, rec.Calls)
	assert.Nil(t, h.Engine())
}

func TestSurfaceChanged(t *testing.T) {
	h, rec, d := newHost(t)
	rec.Reset()

	h.OnSurfaceChanged(640, 480)
	assert.Equal(t, []any{0, 0, 640, 480}, rec.Find("Viewport")[0].Args)
	w, hh := d.scene.ScreenSize()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, hh)
}

func TestDrawFrameDrainsUpdatesAndRenders(t *testing.T) {
	h, rec, d := newHost(t)
	h.OnSurfaceChanged(320, 240)

	var order []string
	d.scene.OnUpdate = func() { order = append(order, "update") }
	require.NoError(t, h.Post(func() { order = append(order, "message") }))
	rec.Reset()

	h.OnDrawFrame()
	assert.Equal(t, []string{"message", "update"}, order)
	assert.Len(t, rec.Find("DrawIndexed"), 1)
}

func TestPostedMutationAppliesBeforeRender(t *testing.T) {
	h, rec, d := newHost(t)
	h.OnSurfaceChanged(320, 240)
	require.NoError(t, h.Post(func() {
		require.NoError(t, h.Engine().RemoveMeshFromRenderList(d.camera, d.mesh))
	}))
	rec.Reset()

	h.OnDrawFrame()
	assert.Empty(t, rec.Find("DrawIndexed"))
}

func TestPostAndWaitFromProducer(t *testing.T) {
	h, _, _ := newHost(t)
	done := make(chan error, 1)
	go func() {
		done <- h.PostAndWait(context.Background(), func() {
			h.Engine().SetAmbientColor(1, 0, 0)
		})
	}()

	require.Eventually(t, func() bool { return h.Queue().Len() == 1 }, time.Second, time.Millisecond)
	h.OnDrawFrame()
	require.NoError(t, <-done)
	assert.Equal(t, float32(1), h.Engine().AmbientColor().X())
}

func TestSceneFactoryError(t *testing.T) {
	rec := gputest.New()
	boom := errors.New("boom")
	h := New(rec, assets.NewFS(fstest.MapFS{}), func(*messagequeue.Queue, *engine.Engine) (scene.Scene, error) {
		return nil, boom
	}, engine.Options{})

	assert.ErrorIs(t, h.OnSurfaceCreated(), boom)
	assert.Nil(t, h.Engine())
	assert.Empty(t, rec.Programs)
	assert.Empty(t, rec.Textures)
}

func TestClose(t *testing.T) {
	h, rec, _ := newHost(t)
	h.OnSurfaceChanged(10, 10)
	h.OnDrawFrame()

	h.Close()
	assert.Empty(t, rec.Programs)
	assert.Empty(t, rec.Buffers)
	assert.ErrorIs(t, h.Post(func() {}), messagequeue.ErrClosed)
	assert.Nil(t, h.Engine())
}
