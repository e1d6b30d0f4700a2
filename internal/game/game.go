// Package game implements the main frame loop.
package game

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/config"
	"github.com/Faultbox/gridcaster/internal/engine/audio"
	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/engine/debug"
	"github.com/Faultbox/gridcaster/internal/engine/input"
	"github.com/Faultbox/gridcaster/internal/engine/renderer"
	"github.com/Faultbox/gridcaster/internal/game/world"
	"github.com/Faultbox/gridcaster/internal/logger"
)

// Display is a presentation backend: a window or a terminal.
type Display interface {
	// PollEvents appends pending input to dst without blocking.
	PollEvents(dst []input.Event) []input.Event
	Present(c *canvas.Canvas) error
	SetPointerCapture(captured bool) error
	Close() error
}

// Sound plays the game's effects.
type Sound interface {
	PlayFootstep() error
	Close() error
}

type titler interface {
	SetTitle(title string)
}

// Game is the main game instance.
type Game struct {
	config  *config.Config
	state   *State
	display Display
	sound   Sound

	integrator *world.Integrator
	renderer   *renderer.Renderer
	frame      *canvas.Canvas
	shots      *debug.ScreenshotCapture
	stats      *debug.FrameStats

	events []input.Event
	now    func() time.Time
	log    *zap.Logger
}

// New loads the map and prepares the frame loop on display d.
func New(cfg *config.Config, d Display) (*Game, error) {
	log := logger.Named("game")

	state, err := NewState(cfg)
	if err != nil {
		return nil, fmt.Errorf("load map: %w", err)
	}

	format, err := debug.ParseFormat(cfg.Debug.ScreenshotFormat)
	if err != nil {
		return nil, err
	}

	rcfg := RendererConfig(cfg)
	pw, ph := rcfg.PixelSize()

	g := &Game{
		config:     cfg,
		state:      state,
		display:    d,
		integrator: world.NewIntegrator(TuningFromConfig(cfg)),
		renderer:   renderer.New(rcfg, state.Map, state.Palette),
		frame:      canvas.New(pw, ph),
		shots:      debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "gridcaster", format),
		stats:      debug.NewFrameStats(),
		events:     make([]input.Event, 0, 32),
		now:        time.Now,
		log:        log,
	}

	if err := d.SetPointerCapture(state.Controls.Locked); err != nil {
		log.Warn("pointer capture failed", zap.Error(err))
	}

	log.Info("game initialized",
		zap.Int("width", pw),
		zap.Int("height", ph),
		zap.Float64("x", state.Player.Position.X()),
		zap.Float64("y", state.Player.Position.Y()),
	)
	return g, nil
}

// NewSound opens the speaker unless audio is muted. Failures are logged and
// yield a silent game.
func NewSound(cfg config.AudioConfig) Sound {
	if cfg.Muted {
		return nil
	}
	m := audio.New()
	m.SetMasterVolume(float64(cfg.MasterVolume))
	m.SetSFXVolume(float64(cfg.SFXVolume))
	if err := m.Init(cfg.SampleRate); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		return nil
	}
	if cfg.Footstep != "" {
		if err := loadFootstep(m, cfg.Footstep); err != nil {
			logger.Warn("using synthesized footstep", zap.String("path", cfg.Footstep), zap.Error(err))
		}
	}
	logger.Info("audio ready",
		zap.Bool("initialized", m.IsInitialized()),
		zap.Float64("master", m.GetMasterVolume()),
		zap.Float64("sfx", m.GetSFXVolume()),
	)
	return m
}

func loadFootstep(m *audio.Manager, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.LoadFootstep(f)
}

// SetSound attaches an effects player. Nil disables sound.
func (g *Game) SetSound(s Sound) {
	g.sound = s
}

// State returns the simulation state.
func (g *Game) State() *State {
	return g.state
}

// Frame returns the most recently rendered frame.
func (g *Game) Frame() *canvas.Canvas {
	return g.frame
}

// Run ticks until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	g.state.Running = true
	last := g.now()

	g.log.Info("starting game loop")
	for g.state.Running {
		select {
		case <-ctx.Done():
			g.log.Info("game loop cancelled")
			return ctx.Err()
		default:
		}

		now := g.now()
		elapsed := now.Sub(last)
		last = now

		if err := g.Tick(elapsed.Seconds()); err != nil {
			return err
		}

		if r, ok := g.stats.Tick(elapsed); ok {
			g.log.Debug("frame stats",
				zap.Float64("fps", r.FPS),
				zap.Int("frames", r.Frames),
				zap.Duration("slowest", r.Slowest),
			)
			if t, ok := g.display.(titler); ok && g.config.Game.ShowFPS {
				t.SetTitle(fmt.Sprintf("%s - %.0f fps", g.config.Graphics.Title, r.FPS))
			}
		}
	}

	g.log.Info("game loop stopped")
	return nil
}

// Tick advances one frame of dt seconds: input, movement, render, present.
func (g *Game) Tick(dt float64) error {
	dt = ClampFrameTime(dt, g.config.Game.MaxFrameTime.Seconds())
	s := g.state

	g.events = g.display.PollEvents(g.events[:0])
	for _, ev := range g.events {
		s.Controls.Apply(ev)
	}
	if s.Controls.QuitRequested() {
		s.Running = false
		return nil
	}

	if locked, changed := s.Controls.CaptureChanged(); changed {
		if err := g.display.SetPointerCapture(locked); err != nil {
			g.log.Warn("pointer capture failed", zap.Error(err))
		}
	}
	if s.Controls.TakeMinimapToggle() {
		mm := g.renderer.Minimap()
		mm.Visible = !mm.Visible
	}

	p := s.Player
	p.Move = s.Controls.Intent()
	p.Turn = s.Controls.Turn()
	g.integrator.SetSprint(p, s.Controls.Sprinting())

	dx, hasPointer := s.Controls.TakePointer()
	res := g.integrator.Step(p, world.Input{PointerDX: dx, HasPointer: hasPointer}, dt)
	if res.Footstep && g.sound != nil {
		if err := g.sound.PlayFootstep(); err != nil {
			g.log.Debug("footstep", zap.Error(err))
		}
	}

	if err := g.renderer.RenderFrame(g.frame, p); err != nil {
		return err
	}
	if err := g.display.Present(g.frame); err != nil {
		return fmt.Errorf("present: %w", err)
	}

	if s.Controls.TakeScreenshot() {
		path, err := g.shots.Capture(g.frame.Image())
		if err != nil {
			g.log.Error("screenshot failed", zap.Error(err))
		} else {
			g.log.Info("screenshot saved", zap.String("path", path))
		}
	}
	return nil
}

// ClampFrameTime limits dt to [0, limit] so a stall cannot teleport the player.
func ClampFrameTime(dt, limit float64) float64 {
	switch {
	case dt < 0 || math.IsNaN(dt):
		return 0
	case dt > limit:
		return limit
	default:
		return dt
	}
}

// Close releases the sound and display.
func (g *Game) Close() error {
	g.log.Info("closing game")

	var err error
	if g.sound != nil {
		err = multierr.Append(err, g.sound.Close())
	}
	if g.display != nil {
		err = multierr.Append(err, g.display.Close())
	}
	return err
}
