// Package world advances the simulated player through the grid.
package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/gridcaster/internal/game/entity"
)

// Tuning holds the movement constants.
type Tuning struct {
	MoveSpeed   float64 // cells per second
	SprintSpeed float64 // cells per second while sprinting
	Decelerate  float64 // per-tick divisor applied to velocity and idle bob, > 1

	MouseSpeed     float64 // radians per pointer unit per second
	TurnMultiplier float64 // keyboard turn rate relative to MouseSpeed
	Scale          float64 // window scale factor, multiplies turn rates

	// DiagonalFactor scales the summed vector when walking and strafing at once.
	// It is a flat 0.7, not 1/sqrt(2), so diagonal motion is slightly slower
	// than a true normalization would give.
	DiagonalFactor float64

	BobbleSpeed float64 // bob cycles per cell walked, in radians
	BobbleRest  float64 // idle bob below this magnitude snaps to rest
}

// DefaultTuning returns the stock movement feel.
func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:      8,
		SprintSpeed:    16,
		Decelerate:     1.06,
		MouseSpeed:     0.3,
		TurnMultiplier: 12,
		Scale:          1,
		DiagonalFactor: 0.7,
		BobbleSpeed:    1.2,
		BobbleRest:     1e-3,
	}
}

// Input is the per-tick pointer input. Movement and turn intent live on the Player.
type Input struct {
	PointerDX  float64 // horizontal pointer motion accumulated this tick
	HasPointer bool    // pointer deltas are only honored while the camera is captured
}

// StepResult reports what happened during a tick.
type StepResult struct {
	Moved    bool // move intent was active
	Footstep bool // the view bob started a new cycle
}

// Integrator turns input intent into player motion.
type Integrator struct {
	Tuning Tuning
}

// NewIntegrator creates an integrator with the given tuning.
func NewIntegrator(t Tuning) *Integrator {
	return &Integrator{Tuning: t}
}

// Step advances p by dt seconds.
func (ig *Integrator) Step(p *entity.Player, in Input, dt float64) StepResult {
	t := ig.Tuning
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	if in.HasPointer && in.PointerDX != 0 {
		p.Heading = WrapHeading(p.Heading - in.PointerDX*dt*t.MouseSpeed*t.Scale)
	}

	var res StepResult
	move := p.Move.Clamped()
	if move.Active() {
		var nv mgl64.Vec2
		if move.Forward != 0 {
			nv = nv.Add(p.Facing().Mul(dt * p.Speed * float64(move.Forward)))
		}
		if move.Strafe != 0 {
			nv = nv.Add(axis(p.Heading + math.Pi/2).Mul(dt * p.Speed * float64(move.Strafe)))
		}
		if move.Forward != 0 && move.Strafe != 0 {
			nv = nv.Mul(t.DiagonalFactor)
		}
		p.Velocity = nv

		prev := p.BobbleAmount
		p.BobblePhase += math.Abs(nv.X()) + math.Abs(nv.Y())
		p.BobbleAmount = math.Sin(p.BobblePhase * t.BobbleSpeed)
		res.Moved = true
		res.Footstep = prev < 0 && p.BobbleAmount >= 0
	}

	p.Position = p.Position.Add(p.Velocity)

	if turn := entity.Sign(p.Turn); turn != 0 {
		p.Heading = WrapHeading(p.Heading + float64(turn)*dt*t.MouseSpeed*t.Scale*t.TurnMultiplier)
	}

	p.Velocity[0] /= t.Decelerate
	p.Velocity[1] /= t.Decelerate

	if !move.Active() {
		p.BobbleAmount /= t.Decelerate
		if math.Abs(p.BobbleAmount) < t.BobbleRest {
			p.BobbleAmount = 0
			p.BobblePhase = 0
		}
	}

	return res
}

// SetSprint switches the player between walking and sprinting speed.
func (ig *Integrator) SetSprint(p *entity.Player, sprint bool) {
	if sprint {
		p.Speed = ig.Tuning.SprintSpeed
	} else {
		p.Speed = ig.Tuning.MoveSpeed
	}
}

// WrapHeading keeps a heading inside [0, 2π).
// Reaching 2π resets the heading to exactly zero rather than taking the
// remainder; going below zero adds full turns.
func WrapHeading(h float64) float64 {
	for h < 0 {
		h += 2 * math.Pi
	}
	if h >= 2*math.Pi {
		return 0
	}
	return h
}

func axis(angle float64) mgl64.Vec2 {
	return mgl64.Vec2{math.Sin(angle), math.Cos(angle)}
}
