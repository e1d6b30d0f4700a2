package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Faultbox/gridcaster/internal/game/entity"
)

const eps = 1e-9

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func newTestPlayer() *entity.Player {
	return entity.NewPlayer(5, 5, 0, DefaultTuning().MoveSpeed)
}

func TestStep_ForwardMovesAlongHeading(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Forward = 1

	ig.Step(p, Input{}, 0.1)

	// heading 0 faces +Y: displacement speed*dt = 0.8 cells
	if !approx(p.Position.X(), 5, eps) || !approx(p.Position.Y(), 5.8, eps) {
		t.Errorf("expected position (5, 5.8), got %v", p.Position)
	}
	// velocity is damped after the position update
	if !approx(p.Velocity.Y(), 0.8/1.06, eps) {
		t.Errorf("expected damped velocity %f, got %f", 0.8/1.06, p.Velocity.Y())
	}
}

func TestStep_StrafeIsPerpendicular(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Strafe = 1

	ig.Step(p, Input{}, 0.1)

	if !approx(p.Position.X(), 5.8, eps) || !approx(p.Position.Y(), 5, eps) {
		t.Errorf("expected position (5.8, 5), got %v", p.Position)
	}
}

func TestStep_DiagonalScaling(t *testing.T) {
	const dt = 1.0 / 60
	ig := NewIntegrator(DefaultTuning())

	run := func(forward, strafe int) mgl64.Vec2 {
		p := newTestPlayer()
		p.Heading = 0.4
		p.Move = entity.MoveIntent{Forward: forward, Strafe: strafe}
		ig.Step(p, Input{}, dt)
		return p.Velocity
	}

	fwd := run(1, 0)
	side := run(0, 1)
	diag := run(1, 1)

	// The combined vector is scaled by a flat 0.7.
	want := fwd.Add(side).Mul(0.7)
	if !approx(diag.X(), want.X(), eps) || !approx(diag.Y(), want.Y(), eps) {
		t.Errorf("expected diagonal velocity %v, got %v", want, diag)
	}

	// Forward and strafe axes are orthogonal, so the diagonal speed is
	// 0.7*sqrt(2) of the single-axis speed rather than exactly 1.
	ratio := diag.Len() / fwd.Len()
	if !approx(ratio, 0.7*math.Sqrt2, 1e-9) {
		t.Errorf("expected |diag|/|fwd| = %f, got %f", 0.7*math.Sqrt2, ratio)
	}
}

func TestStep_SprintDoublesSpeed(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	walk := newTestPlayer()
	run := newTestPlayer()
	ig.SetSprint(run, true)
	walk.Move.Forward, run.Move.Forward = 1, 1

	ig.Step(walk, Input{}, 0.05)
	ig.Step(run, Input{}, 0.05)

	if !approx(run.Velocity.Len(), 2*walk.Velocity.Len(), eps) {
		t.Errorf("sprint speed %f should be twice walk speed %f", run.Velocity.Len(), walk.Velocity.Len())
	}

	ig.SetSprint(run, false)
	if run.Speed != DefaultTuning().MoveSpeed {
		t.Errorf("expected walk speed after release, got %f", run.Speed)
	}
}

func TestStep_DecayIdempotence(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()

	for i := 0; i < 1000; i++ {
		ig.Step(p, Input{}, 0.016)
		if p.Velocity != (mgl64.Vec2{}) {
			t.Fatalf("tick %d: velocity drifted to %v", i, p.Velocity)
		}
	}
	if p.Position != (mgl64.Vec2{5, 5}) {
		t.Errorf("resting player moved to %v", p.Position)
	}
}

func TestStep_VelocityKeepsDecayingAfterRelease(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Forward = 1
	ig.Step(p, Input{}, 0.1)
	p.Move.Forward = 0

	prev := p.Velocity.Len()
	prevY := p.Position.Y()
	for i := 0; i < 20; i++ {
		ig.Step(p, Input{}, 0.1)
		if p.Velocity.Len() >= prev {
			t.Fatalf("tick %d: velocity did not decay (%f >= %f)", i, p.Velocity.Len(), prev)
		}
		if p.Position.Y() <= prevY {
			t.Fatalf("tick %d: player should keep gliding forward", i)
		}
		prev = p.Velocity.Len()
		prevY = p.Position.Y()
	}
}

func TestStep_BobbleFollowsDistance(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Forward = 1

	ig.Step(p, Input{}, 0.1)

	if !approx(p.BobblePhase, 0.8, eps) {
		t.Errorf("expected bobble phase 0.8, got %f", p.BobblePhase)
	}
	if !approx(p.BobbleAmount, math.Sin(0.8*1.2), eps) {
		t.Errorf("expected bobble amount %f, got %f", math.Sin(0.8*1.2), p.BobbleAmount)
	}
}

func TestStep_BobbleSettlesWhenIdle(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Forward = 1
	ig.Step(p, Input{}, 0.1)
	p.Move.Forward = 0

	start := p.BobbleAmount
	ig.Step(p, Input{}, 0.1)
	if !approx(p.BobbleAmount, start/1.06, eps) {
		t.Errorf("expected bob to damp to %f, got %f", start/1.06, p.BobbleAmount)
	}

	for i := 0; i < 500 && p.BobbleAmount != 0; i++ {
		ig.Step(p, Input{}, 0.1)
	}
	if p.BobbleAmount != 0 || p.BobblePhase != 0 {
		t.Errorf("expected bob at rest, got amount=%g phase=%g", p.BobbleAmount, p.BobblePhase)
	}
}

func TestStep_FootstepOnBobCycle(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Move.Forward = 1

	steps := 0
	for i := 0; i < 600; i++ {
		if ig.Step(p, Input{}, 1.0/60).Footstep {
			steps++
		}
	}
	// 600 ticks at 8 cells/s walk 80 cells; one step per 2π/1.2 cells
	cycles := 80 * 1.2 / (2 * math.Pi)
	want := int(cycles)
	if steps < want-1 || steps > want+1 {
		t.Errorf("expected about %d footsteps, got %d", want, steps)
	}
}

func TestStep_HeadingWrapResetsToZero(t *testing.T) {
	const dt = 0.1
	tuning := DefaultTuning()
	ig := NewIntegrator(tuning)
	p := newTestPlayer()
	p.Turn = 1

	inc := dt * tuning.MouseSpeed * tuning.Scale * tuning.TurnMultiplier
	wrapped := false
	for i := 0; i < 100 && !wrapped; i++ {
		prev := p.Heading
		ig.Step(p, Input{}, dt)
		if prev+inc >= 2*math.Pi {
			if p.Heading != 0 {
				t.Fatalf("tick %d: expected heading reset to exactly 0, got %v", i, p.Heading)
			}
			wrapped = true
			continue
		}
		if !approx(p.Heading, prev+inc, eps) {
			t.Fatalf("tick %d: expected heading %f, got %f", i, prev+inc, p.Heading)
		}
	}
	if !wrapped {
		t.Fatal("heading never crossed 2π")
	}
}

func TestStep_PointerTurn(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	p := newTestPlayer()
	p.Heading = 1

	ig.Step(p, Input{PointerDX: 10, HasPointer: true}, 0.1)
	if !approx(p.Heading, 1-10*0.1*0.3, eps) {
		t.Errorf("expected heading %f, got %f", 1-10*0.1*0.3, p.Heading)
	}

	// pointer deltas are ignored while the camera is not captured
	ig.Step(p, Input{PointerDX: 10}, 0.1)
	if !approx(p.Heading, 0.7, eps) {
		t.Errorf("uncaptured pointer should not turn, got %f", p.Heading)
	}
}

func TestStep_ClampsIntent(t *testing.T) {
	ig := NewIntegrator(DefaultTuning())
	a, b := newTestPlayer(), newTestPlayer()
	a.Move.Forward = 5
	b.Move.Forward = 1

	ig.Step(a, Input{}, 0.1)
	ig.Step(b, Input{}, 0.1)

	if a.Position != b.Position {
		t.Errorf("out-of-range intent should clamp: %v vs %v", a.Position, b.Position)
	}
}

func TestWrapHeading(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{math.Nextafter(2*math.Pi, 0), math.Nextafter(2*math.Pi, 0)},
		{2*math.Pi + 0.001, 0},
		{-0.5, 2*math.Pi - 0.5},
		{-4*math.Pi - 1, 2*math.Pi - 1},
		{-1e-18, 0}, // rounds up to 2π after the turn is added
	}

	for _, tt := range tests {
		got := WrapHeading(tt.in)
		if !approx(got, tt.want, 1e-12) {
			t.Errorf("WrapHeading(%g) = %g, want %g", tt.in, got, tt.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("WrapHeading(%g) = %g, outside [0, 2π)", tt.in, got)
		}
	}
}
