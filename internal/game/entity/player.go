// Package entity holds the simulated actors of the game world.
package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MoveIntent is the movement requested by the held keys.
// Each axis is -1, 0 or 1.
type MoveIntent struct {
	Forward int // 1 forward, -1 back
	Strafe  int // 1 left, -1 right
}

// Active reports whether any axis is requested.
func (m MoveIntent) Active() bool {
	return m.Forward != 0 || m.Strafe != 0
}

// Clamped returns the intent with both axes limited to {-1, 0, 1}.
func (m MoveIntent) Clamped() MoveIntent {
	return MoveIntent{Forward: Sign(m.Forward), Strafe: Sign(m.Strafe)}
}

// Player is the first-person camera and its motion state.
// Position is in grid cells; the fractional part is the offset within a cell.
type Player struct {
	Position mgl64.Vec2
	Velocity mgl64.Vec2 // displacement applied on the next tick, in cells

	// Heading in radians. Heading 0 faces +Y.
	Heading float64

	Move  MoveIntent
	Turn  int // keyboard turn, -1, 0 or 1
	Speed float64

	// View bob: BobblePhase accumulates distance walked, BobbleAmount is the
	// resulting oscillation in [-1, 1].
	BobblePhase  float64
	BobbleAmount float64
}

// NewPlayer places a resting player at (x, y).
func NewPlayer(x, y, heading, speed float64) *Player {
	return &Player{
		Position: mgl64.Vec2{x, y},
		Heading:  heading,
		Speed:    speed,
	}
}

// Facing returns the unit vector the player looks along.
func (p *Player) Facing() mgl64.Vec2 {
	return mgl64.Vec2{math.Sin(p.Heading), math.Cos(p.Heading)}
}

// Sign maps an integer onto {-1, 0, 1}.
func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
