package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Settings holds engine and viewer configuration
type Settings struct {
	Window WindowSettings `toml:"window"`
	Render RenderSettings `toml:"render"`
	Log    LogSettings    `toml:"log"`
}

type WindowSettings struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type RenderSettings struct {
	ClearColor   [4]float32 `toml:"clear_color"`
	AmbientColor [3]float32 `toml:"ambient_color"`
	// PixelDensity overrides the density reported by the display when > 0.
	PixelDensity float32 `toml:"pixel_density"`
	// ShaderDir loads GLSL from disk instead of the embedded sources.
	ShaderDir string `toml:"shader_dir"`
	// TextureDir is the root that texture asset paths are resolved against.
	TextureDir string `toml:"texture_dir"`
}

type LogSettings struct {
	Level string `toml:"level"`
	// SlowFrameMillis is the frame time above which the viewer logs a warning.
	SlowFrameMillis int `toml:"slow_frame_ms"`
}

func (l LogSettings) SlowFrame() time.Duration {
	return time.Duration(l.SlowFrameMillis) * time.Millisecond
}

// Default returns the settings used when no file is given
func Default() Settings {
	return Settings{
		Window: WindowSettings{
			Title:  "rendering-engine",
			Width:  900,
			Height: 600,
		},
		Render: RenderSettings{
			ClearColor:   [4]float32{0, 0, 0, 0},
			AmbientColor: [3]float32{0.2, 0.2, 0.2},
		},
		Log: LogSettings{
			Level:           "info",
			SlowFrameMillis: 50,
		},
	}
}

// Load decodes the TOML file at path over the defaults
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects unusable window sizes and clamps the pixel density
func (s *Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return errors.New("window size must be positive")
	}
	if s.Render.PixelDensity != 0 {
		s.Render.PixelDensity = clampDensity(s.Render.PixelDensity)
	}
	return nil
}

func clampDensity(d float32) float32 {
	if d < 1 {
		return 1
	}
	if d > 4 {
		return 4
	}
	return d
}
