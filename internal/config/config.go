// Package config handles configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Game     GameConfig     `yaml:"game"`
	Render   RenderConfig   `yaml:"render"`
	Audio    AudioConfig    `yaml:"audio"`
	Palette  PaletteConfig  `yaml:"palette"`
	Debug    DebugConfig    `yaml:"debug"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings. Width and Height are logical pixels;
// the window is Scale times larger.
type GraphicsConfig struct {
	Backend    string `yaml:"backend"` // "sdl" or "terminal"
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Scale      int    `yaml:"scale"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// GameConfig holds the map and movement tuning.
type GameConfig struct {
	Map            string        `yaml:"map"`
	StartHeading   float64       `yaml:"start_heading"` // radians
	MoveSpeed      float64       `yaml:"move_speed"`
	SprintSpeed    float64       `yaml:"sprint_speed"`
	Decelerate     float64       `yaml:"decelerate"`
	MouseSpeed     float64       `yaml:"mouse_speed"`
	TurnMultiplier float64       `yaml:"turn_multiplier"`
	DiagonalFactor float64       `yaml:"diagonal_factor"`
	BobbleSpeed    float64       `yaml:"bobble_speed"`
	MaxFrameTime   time.Duration `yaml:"max_frame_time"`
	ShowFPS        bool          `yaml:"show_fps"`
}

// RenderConfig holds raycasting and shading settings.
type RenderConfig struct {
	FOV         float64 `yaml:"fov"` // degrees
	Step        float64 `yaml:"step"`
	MaxRange    float64 `yaml:"max_range"`
	Bobble      float64 `yaml:"bobble"`
	FogPerUnit  float64 `yaml:"fog_per_unit"`
	WallScale   float64 `yaml:"wall_scale"`
	MinimapCell int     `yaml:"minimap_cell"`
	ShowMinimap bool    `yaml:"show_minimap"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	SampleRate   int     `yaml:"sample_rate"`
	Footstep     string  `yaml:"footstep"` // optional WAV replacing the synthesized step
	Muted        bool    `yaml:"muted"`
}

// PaletteConfig maps material codes to RGB overrides.
type PaletteConfig map[int][3]uint8

// DebugConfig holds developer settings.
type DebugConfig struct {
	ScreenshotDir    string `yaml:"screenshot_dir"`
	ScreenshotFormat string `yaml:"screenshot_format"` // "png" or "bmp"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Backend: "sdl",
			Title:   "gridcaster",
			Width:   320,
			Height:  180,
			Scale:   4,
			VSync:   true,
		},
		Game: GameConfig{
			Map:            "map.txt",
			StartHeading:   math.Pi * 0.65,
			MoveSpeed:      8,
			SprintSpeed:    16,
			Decelerate:     1.06,
			MouseSpeed:     0.3,
			TurnMultiplier: 12,
			DiagonalFactor: 0.7,
			BobbleSpeed:    1.2,
			MaxFrameTime:   100 * time.Millisecond,
		},
		Render: RenderConfig{
			FOV:         90,
			Step:        0.02,
			MaxRange:    256,
			Bobble:      8,
			FogPerUnit:  10,
			WallScale:   1,
			MinimapCell: 4,
			ShowMinimap: true,
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.6,
			SampleRate:   44100,
		},
		Palette: PaletteConfig{},
		Debug: DebugConfig{
			ScreenshotDir:    "screenshots",
			ScreenshotFormat: "png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects settings the renderer or integrator cannot run with.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	switch c.Graphics.Backend {
	case "sdl", "terminal":
	default:
		return invalid("unknown backend %q", c.Graphics.Backend)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 || c.Graphics.Scale <= 0 {
		return invalid("viewport %dx%d scale %d", c.Graphics.Width, c.Graphics.Height, c.Graphics.Scale)
	}
	if c.Render.FOV <= 0 || c.Render.FOV >= 180 {
		return invalid("fov %g outside (0, 180)", c.Render.FOV)
	}
	if c.Render.Step <= 0 || c.Render.MaxRange <= 0 {
		return invalid("step %g max_range %g", c.Render.Step, c.Render.MaxRange)
	}
	if c.Render.MinimapCell < 0 {
		return invalid("minimap_cell %d", c.Render.MinimapCell)
	}
	if c.Game.Decelerate <= 1 {
		return invalid("decelerate %g must be greater than 1", c.Game.Decelerate)
	}
	if c.Game.MoveSpeed <= 0 || c.Game.SprintSpeed <= 0 {
		return invalid("move_speed %g sprint_speed %g", c.Game.MoveSpeed, c.Game.SprintSpeed)
	}
	if c.Game.MaxFrameTime <= 0 {
		return invalid("max_frame_time %v", c.Game.MaxFrameTime)
	}
	switch c.Debug.ScreenshotFormat {
	case "png", "bmp":
	default:
		return invalid("screenshot_format %q", c.Debug.ScreenshotFormat)
	}
	return nil
}
