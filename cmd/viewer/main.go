package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"rendering-engine/internal/assets"
	"rendering-engine/internal/config"
	"rendering-engine/internal/engine"
	"rendering-engine/internal/gpu/glbackend"
	"rendering-engine/internal/input"
	"rendering-engine/internal/logging"
	"rendering-engine/internal/surface"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

var configPath = flag.String("config", "", "path to a TOML settings file")

func init() {
	runtime.LockOSThread()
}

func main() {
	flag.Parse()
	closer.Checked(run, true)
	closer.Close()
}

func run() error {
	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		settings = s
	}

	logger, err := logging.New(settings.Log.Level)
	if err != nil {
		return err
	}
	closer.Bind(func() { _ = logger.Sync() })

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(settings.Window)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	backend, err := glbackend.New()
	if err != nil {
		return err
	}
	defer backend.Close()

	opts := engine.Options{
		Logger:  logger.Named("engine"),
		Metrics: windowMetrics{window: window, override: settings.Render.PixelDensity},
	}
	if settings.Render.ShaderDir != "" {
		opts.ShaderStore = assets.NewFS(os.DirFS(settings.Render.ShaderDir))
	}
	textureDir := settings.Render.TextureDir
	if textureDir == "" {
		textureDir = "."
	}

	d := newDemo(settings.Render, logger.Named("demo"))
	host := surface.New(backend, assets.NewFS(os.DirFS(textureDir)), d.build, opts)
	defer host.Close()

	if err := host.OnSurfaceCreated(); err != nil {
		return err
	}
	width, height := window.GetFramebufferSize()
	host.OnSurfaceChanged(width, height)
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		host.OnSurfaceChanged(width, height)
	})
	im := input.NewManager()
	im.SetKeyCallback(window)

	stop := d.animateLights(host)
	defer stop()

	logger.Info("viewer started", zap.Int("width", width), zap.Int("height", height))
	runFrameLoop(window, host, d, im, settings.Log.SlowFrame(), logger)
	return nil
}
