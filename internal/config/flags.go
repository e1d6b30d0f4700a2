package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagMap        = flag.String("map", "", "Path to map file")
	flagBackend    = flag.String("backend", "", "Display backend: sdl or terminal")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Viewport width in logical pixels")
	flagHeight     = flag.Int("height", 0, "Viewport height in logical pixels")
	flagScale      = flag.Int("scale", 0, "Window pixels per logical pixel")
	flagMute       = flag.Bool("mute", false, "Disable sound")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config dir and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagMap != "" {
		cfg.Game.Map = *flagMap
	}
	if *flagBackend != "" {
		cfg.Graphics.Backend = *flagBackend
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Game.ShowFPS = true
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagScale > 0 {
		cfg.Graphics.Scale = *flagScale
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
}
