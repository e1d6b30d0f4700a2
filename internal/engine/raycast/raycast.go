// Package raycast marches view rays through the tile grid.
package raycast

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/gridcaster/internal/game/entity"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

// Defaults for the march.
const (
	DefaultStep     = 0.02
	DefaultMaxRange = 256.0
	DefaultFOV      = 90.0
)

// Hit is the result of one column's ray.
type Hit struct {
	Distance float64
	Material gridmap.Material
}

// Missed reports whether the ray ran out of range without touching a wall.
func (h Hit) Missed() bool {
	return h.Material == gridmap.Empty
}

// Caster casts one ray per screen column.
type Caster struct {
	Step     float64 // march increment in cells
	MaxRange float64 // rays stop after this distance
	FOV      float64 // horizontal field of view, degrees
}

// NewCaster returns a caster with the default step, range and field of view.
func NewCaster() *Caster {
	return &Caster{
		Step:     DefaultStep,
		MaxRange: DefaultMaxRange,
		FOV:      DefaultFOV,
	}
}

// ColumnAngle returns the ray angle offset from the heading for a column.
// Column screenWidth/2 looks straight ahead.
func (c *Caster) ColumnAngle(screenX, screenWidth int) float64 {
	return float64(screenX-screenWidth/2) * (math.Pi / float64(screenWidth) * c.FOV / 180)
}

// Direction returns the march direction for a column. The vector is
// lengthened by 1/cos of the column angle so that the march parameter is the
// distance along the view axis, which keeps straight walls straight.
func (c *Caster) Direction(heading float64, screenX, screenWidth int) mgl64.Vec2 {
	ra := c.ColumnAngle(screenX, screenWidth)
	rl := 1 / math.Cos(ra)
	return mgl64.Vec2{math.Sin(heading-ra) * rl, math.Cos(heading-ra) * rl}
}

// CastColumn marches the ray for screenX from the player's position.
func (c *Caster) CastColumn(p *entity.Player, m *gridmap.Map, screenX, screenWidth int) Hit {
	return c.March(p.Position, c.Direction(p.Heading, screenX, screenWidth), m)
}

// March steps from origin along dir until it samples a wall. A ray that
// leaves the grid cannot come back into it, so leaving counts as a miss.
func (c *Caster) March(origin, dir mgl64.Vec2, m *gridmap.Map) Hit {
	if c.Step <= 0 {
		return Hit{Distance: c.MaxRange, Material: gridmap.Empty}
	}
	for i := 0; ; i++ {
		d := float64(i) * c.Step
		if d >= c.MaxRange {
			break
		}

		x := int(math.Floor(origin.X() + dir.X()*d))
		y := int(math.Floor(origin.Y() + dir.Y()*d))
		if !m.InBounds(x, y) {
			break
		}
		if mat := m.At(x, y); mat.IsWall() {
			return Hit{Distance: d, Material: mat}
		}
	}
	return Hit{Distance: c.MaxRange, Material: gridmap.Empty}
}

// CastFrame casts every column of a screenWidth wide view into dst,
// growing it as needed, and returns it.
func (c *Caster) CastFrame(p *entity.Player, m *gridmap.Map, screenWidth int, dst []Hit) []Hit {
	if cap(dst) < screenWidth {
		dst = make([]Hit, screenWidth)
	}
	dst = dst[:screenWidth]
	for x := range dst {
		dst[x] = c.CastColumn(p, m, x, screenWidth)
	}
	return dst
}
