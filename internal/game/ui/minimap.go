// Package ui provides the in-frame overlays drawn on top of the 3D view.
package ui

import (
	"image/color"
	"math"

	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/game/entity"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

// DefaultCellSize is the minimap cell edge in pixels.
const DefaultCellSize = 4

// Minimap colors.
var (
	EmptyColor  = color.RGBA{0, 0, 0, 255}
	PlayerColor = color.RGBA{255, 0, 0, 255}
)

// MinimapLayout positions the minimap in the viewport.
type MinimapLayout struct {
	X, Y int // origin of cell (0, 0)
	Cell int // cell edge in pixels
}

// NewMinimapLayout anchors a map of mapHeight rows to the bottom-left corner
// of a viewport that is viewportHeight pixels tall.
func NewMinimapLayout(mapHeight, viewportHeight, cell int) MinimapLayout {
	return MinimapLayout{
		X:    0,
		Y:    viewportHeight - mapHeight*cell,
		Cell: cell,
	}
}

// CellOrigin returns the top-left pixel of a cell. Cells are drawn one cell
// right and one cell up from the layout origin.
func (l MinimapLayout) CellOrigin(x, y int) (int, int) {
	return l.X + x*l.Cell + l.Cell, l.Y + y*l.Cell - l.Cell
}

// Marker returns the player square origin for a fractional grid position.
func (l MinimapLayout) Marker(pos [2]float64) (int, int) {
	c := float64(l.Cell)
	return int(float64(l.X) + pos[0]*c + c), int(float64(l.Y) + pos[1]*c - c)
}

// HeadingLine returns the endpoints of the heading indicator.
func (l MinimapLayout) HeadingLine(pos [2]float64, heading float64) (x0, y0, x1, y1 float64) {
	c := float64(l.Cell)
	px := float64(int(float64(l.X) + pos[0]*c + c/2))
	py := float64(int(float64(l.Y) + pos[1]*c + c/2))
	x0, y0 = px+c, py-c
	x1 = px + math.Sin(heading)*c*2 + c
	y1 = py + math.Cos(heading)*c*2 - c
	return x0, y0, x1, y1
}

// Minimap draws a top-down view of the grid with the player marker.
type Minimap struct {
	Layout  MinimapLayout
	Visible bool

	gm      *gridmap.Map
	palette gridmap.Palette
}

// NewMinimap creates a visible minimap for m.
func NewMinimap(m *gridmap.Map, pal gridmap.Palette, viewportHeight, cell int) *Minimap {
	if cell <= 0 {
		cell = DefaultCellSize
	}
	return &Minimap{
		Layout:  NewMinimapLayout(m.Height, viewportHeight, cell),
		Visible: true,
		gm:      m,
		palette: pal,
	}
}

// Draw paints the grid, the player square and the heading line.
func (mm *Minimap) Draw(dst *canvas.Canvas, p *entity.Player) {
	if !mm.Visible {
		return
	}
	l := mm.Layout

	for y := 0; y < mm.gm.Height; y++ {
		for x := 0; x < mm.gm.Width; x++ {
			col := EmptyColor
			if mat := mm.gm.At(x, y); mat.IsWall() {
				col = mm.palette.Color(mat)
			}
			cx, cy := l.CellOrigin(x, y)
			dst.FillRect(cx, cy, l.Cell, l.Cell, col)
		}
	}

	pos := [2]float64{p.Position.X(), p.Position.Y()}
	mx, my := l.Marker(pos)
	dst.FillRect(mx, my, l.Cell, l.Cell, PlayerColor)

	x0, y0, x1, y1 := l.HeadingLine(pos, p.Heading)
	dst.DrawLineF(x0, y0, x1, y1, PlayerColor)
}
