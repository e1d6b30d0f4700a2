package game

import (
	"errors"
	"fmt"
	"image/color"

	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/config"
	"github.com/Faultbox/gridcaster/internal/engine/input"
	"github.com/Faultbox/gridcaster/internal/engine/renderer"
	"github.com/Faultbox/gridcaster/internal/game/entity"
	"github.com/Faultbox/gridcaster/internal/game/world"
	"github.com/Faultbox/gridcaster/internal/logger"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

// ErrNoSpawn is returned for a map with neither a spawn marker nor an empty cell.
var ErrNoSpawn = errors.New("map has no place to spawn")

// State is everything the frame loop mutates. It is owned by one Game and
// only touched from the loop's goroutine.
type State struct {
	Map      *gridmap.Map
	Player   *entity.Player
	Palette  gridmap.Palette
	Controls *input.Controls
	Running  bool
}

// NewState loads the configured map and places the player at its spawn.
func NewState(cfg *config.Config) (*State, error) {
	m, err := gridmap.Load(cfg.Game.Map)
	if err != nil {
		return nil, err
	}
	logger.Info("map loaded",
		zap.String("path", cfg.Game.Map),
		zap.Int("width", m.Width),
		zap.Int("height", m.Height),
		zap.Int("walls", m.Walls()),
	)

	spawn, err := spawnPoint(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Game.Map, err)
	}
	nav := world.NewNavigator(m)
	logger.Debug("spawn region",
		zap.Int("x", spawn.X),
		zap.Int("y", spawn.Y),
		zap.Int("reachable", nav.Reachable(spawn)),
		zap.Int("open", nav.OpenCells()),
	)

	return &State{
		Map:      m,
		Player:   entity.NewPlayer(float64(spawn.X), float64(spawn.Y), cfg.Game.StartHeading, cfg.Game.MoveSpeed),
		Palette:  PaletteFromConfig(cfg.Palette),
		Controls: input.NewControls(),
	}, nil
}

// spawnPoint returns the marked spawn, or the first empty cell in row-major
// order when the map has no marker.
func spawnPoint(m *gridmap.Map) (gridmap.Point, error) {
	if m.HasSpawn {
		return m.Spawn, nil
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y).IsWall() {
				logger.Warn("map has no spawn marker, using first empty cell",
					zap.Int("x", x), zap.Int("y", y))
				return gridmap.Point{X: x, Y: y}, nil
			}
		}
	}
	return gridmap.Point{}, ErrNoSpawn
}

// PaletteFromConfig layers configured colors over the defaults.
func PaletteFromConfig(pc config.PaletteConfig) gridmap.Palette {
	override := make(gridmap.Palette, len(pc))
	for code, rgb := range pc {
		if code <= 0 || code > 255 {
			logger.Warn("ignoring palette entry", zap.Int("material", code))
			continue
		}
		override[gridmap.Material(code)] = color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
	}
	return gridmap.DefaultPalette().Merge(override)
}

// TuningFromConfig converts the movement settings.
func TuningFromConfig(cfg *config.Config) world.Tuning {
	t := world.DefaultTuning()
	t.MoveSpeed = cfg.Game.MoveSpeed
	t.SprintSpeed = cfg.Game.SprintSpeed
	t.Decelerate = cfg.Game.Decelerate
	t.MouseSpeed = cfg.Game.MouseSpeed
	t.TurnMultiplier = cfg.Game.TurnMultiplier
	t.DiagonalFactor = cfg.Game.DiagonalFactor
	t.BobbleSpeed = cfg.Game.BobbleSpeed
	t.Scale = float64(cfg.Graphics.Scale)
	return t
}

// RendererConfig converts the graphics and render settings.
func RendererConfig(cfg *config.Config) renderer.Config {
	return renderer.Config{
		Width:       cfg.Graphics.Width,
		Height:      cfg.Graphics.Height,
		Scale:       cfg.Graphics.Scale,
		FOV:         cfg.Render.FOV,
		Step:        cfg.Render.Step,
		MaxRange:    cfg.Render.MaxRange,
		Bobble:      cfg.Render.Bobble,
		FogPerUnit:  cfg.Render.FogPerUnit,
		WallScale:   cfg.Render.WallScale,
		MinimapCell: cfg.Render.MinimapCell,
		ShowMinimap: cfg.Render.ShowMinimap,
	}
}
