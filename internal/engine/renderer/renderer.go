// Package renderer draws first-person frames of the grid into a software canvas.
package renderer

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/engine/raycast"
	"github.com/Faultbox/gridcaster/internal/game/entity"
	"github.com/Faultbox/gridcaster/internal/game/ui"
	"github.com/Faultbox/gridcaster/internal/logger"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

// ErrSurfaceMismatch is returned when the target canvas does not match the
// configured viewport.
var ErrSurfaceMismatch = errors.New("surface size mismatch")

// RenderError describes a failed frame.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Background gradient colors.
var (
	SkyTop      = color.RGBA{128, 128, 128, 255}
	Horizon     = color.RGBA{0, 0, 0, 255}
	FloorBottom = color.RGBA{128, 128, 128, 255}
)

// Config holds renderer configuration.
type Config struct {
	Width  int // logical columns, one ray each
	Height int // logical rows
	Scale  int // pixels per logical unit

	FOV      float64 // degrees
	Step     float64
	MaxRange float64

	Bobble      float64 // view bob amplitude in logical pixels
	FogPerUnit  float64 // shade subtracted per cell of distance
	WallScale   float64 // wall height multiplier at distance 1
	MinimapCell int
	ShowMinimap bool
}

// DefaultConfig returns the stock 320x180 viewport at 4x scale.
func DefaultConfig() Config {
	return Config{
		Width:       320,
		Height:      180,
		Scale:       4,
		FOV:         raycast.DefaultFOV,
		Step:        raycast.DefaultStep,
		MaxRange:    raycast.DefaultMaxRange,
		Bobble:      8,
		FogPerUnit:  10,
		WallScale:   1,
		MinimapCell: ui.DefaultCellSize,
		ShowMinimap: true,
	}
}

// PixelSize returns the canvas size the renderer draws into.
func (c Config) PixelSize() (int, int) {
	return c.Width * c.Scale, c.Height * c.Scale
}

// Renderer draws frames of one map.
type Renderer struct {
	config  Config
	caster  *raycast.Caster
	gm      *gridmap.Map
	palette gridmap.Palette
	minimap *ui.Minimap

	hits []raycast.Hit
}

// New creates a renderer for m. The minimap layout is fixed here.
func New(cfg Config, m *gridmap.Map, pal gridmap.Palette) *Renderer {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	_, ph := cfg.PixelSize()

	mm := ui.NewMinimap(m, pal, ph, cfg.MinimapCell)
	mm.Visible = cfg.ShowMinimap

	r := &Renderer{
		config: cfg,
		caster: &raycast.Caster{
			Step:     cfg.Step,
			MaxRange: cfg.MaxRange,
			FOV:      cfg.FOV,
		},
		gm:      m,
		palette: pal,
		minimap: mm,
		hits:    make([]raycast.Hit, cfg.Width),
	}

	if missing := pal.Missing(m); len(missing) > 0 {
		logger.Warn("materials without palette entry",
			zap.Any("materials", missing),
		)
	}
	logger.Debug("renderer created",
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("scale", cfg.Scale),
		zap.Float64("fov", cfg.FOV),
	)
	return r
}

// Config returns the active configuration.
func (r *Renderer) Config() Config {
	return r.config
}

// Minimap returns the overlay so callers can toggle it.
func (r *Renderer) Minimap() *ui.Minimap {
	return r.minimap
}

// RenderFrame draws the background, one wall slice per column and the
// minimap for the player's current view.
func (r *Renderer) RenderFrame(dst *canvas.Canvas, p *entity.Player) error {
	pw, ph := r.config.PixelSize()
	if w, h := dst.Size(); w != pw || h != ph {
		return &RenderError{
			Op:  "frame",
			Err: fmt.Errorf("%w: canvas %dx%d, viewport %dx%d", ErrSurfaceMismatch, w, h, pw, ph),
		}
	}

	dst.VerticalGradient(0, ph/2, SkyTop, Horizon)
	dst.VerticalGradient(ph/2, ph-ph/2, Horizon, FloorBottom)

	r.hits = r.caster.CastFrame(p, r.gm, r.config.Width, r.hits)
	bob := int(p.BobbleAmount * r.config.Bobble * float64(r.config.Scale))
	for x, hit := range r.hits {
		if hit.Missed() {
			continue
		}
		top, height := r.SliceSpan(hit.Distance)
		dst.FillRect(x*r.config.Scale, top+bob, r.config.Scale, height, r.Shade(hit))
	}

	r.minimap.Draw(dst, p)
	return nil
}

// SliceSpan returns the top row and height in pixels of a wall slice at
// distance d. Slices closer than one cell are clamped to the full height.
func (r *Renderer) SliceSpan(d float64) (top, height int) {
	_, ph := r.config.PixelSize()
	half := float64(ph / 2)
	if d > 0 {
		top = int(half - r.config.WallScale*half/d)
	}
	if top < 0 {
		top = 0
	}
	return top, ph - 2*top
}

// Shade returns the fogged material color for a hit.
func (r *Renderer) Shade(hit raycast.Hit) color.RGBA {
	fog := int(hit.Distance * r.config.FogPerUnit)
	if fog > 255 {
		fog = 255
	}
	base := r.palette.Color(hit.Material)
	return color.RGBA{
		R: clamp255(int(base.R) - fog),
		G: clamp255(int(base.G) - fog),
		B: clamp255(int(base.B) - fog),
		A: 255,
	}
}

func clamp255(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}
