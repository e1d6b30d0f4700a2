package raycast

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/Faultbox/gridcaster/internal/game/entity"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

func mustParse(t *testing.T, src string) *gridmap.Map {
	t.Helper()
	m, err := gridmap.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return m
}

// openMap builds a width x height map with every cell empty except walls.
func openMap(t *testing.T, width, height int, walls map[[2]int]byte) *gridmap.Map {
	t.Helper()
	var b strings.Builder
	b.WriteString(strconv.Itoa(width) + "," + strconv.Itoa(height) + "\n")
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if w, ok := walls[[2]int{x, y}]; ok {
				b.WriteByte(w)
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte('\n')
	}
	return mustParse(t, b.String())
}

// withinStep reports whether a marched distance is within one march step of
// the exact distance. The epsilon absorbs float error in i*Step.
func withinStep(c *Caster, got, want float64) bool {
	return math.Abs(got-want) <= c.Step+1e-9
}

func TestColumnAngle(t *testing.T) {
	c := NewCaster()

	if a := c.ColumnAngle(640, 1280); a != 0 {
		t.Errorf("center column should look straight ahead, got %f", a)
	}
	if a := c.ColumnAngle(0, 1280); math.Abs(a+math.Pi/4) > 1e-12 {
		t.Errorf("left edge should be -fov/2 = %f, got %f", -math.Pi/4, a)
	}
}

func TestCastColumn_SingleWallStraightAhead(t *testing.T) {
	tests := []struct {
		name    string
		heading float64
		x, y    float64
		wall    [2]int
		want    float64
	}{
		{"facing +y", 0, 3.5, 1.5, [2]int{3, 6}, 4.5},
		{"facing +x", math.Pi / 2, 1.25, 3.5, [2]int{6, 3}, 4.75},
		{"facing -y", math.Pi, 3.5, 5.5, [2]int{3, 0}, 4.5},
	}

	c := NewCaster()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := openMap(t, 7, 7, map[[2]int]byte{tt.wall: '3'})
			p := entity.NewPlayer(tt.x, tt.y, tt.heading, 8)

			hit := c.CastColumn(p, m, 320, 640)
			if hit.Material != 3 {
				t.Fatalf("expected material 3, got %d (distance %f)", hit.Material, hit.Distance)
			}
			if !withinStep(c, hit.Distance, tt.want) {
				t.Errorf("expected distance %f within %f, got %f", tt.want, c.Step, hit.Distance)
			}
		})
	}
}

func TestCastColumn_MissInsideGrid(t *testing.T) {
	// Long open corridor: the ray exhausts its range without leaving the grid.
	m := openMap(t, 300, 3, nil)
	p := entity.NewPlayer(0.5, 1.5, math.Pi/2, 8)
	c := NewCaster()

	hit := c.CastColumn(p, m, 320, 640)
	if !hit.Missed() || hit.Distance != DefaultMaxRange {
		t.Errorf("expected (%f, 0), got (%f, %d)", DefaultMaxRange, hit.Distance, hit.Material)
	}
}

func TestCastColumn_LeavingGridIsMiss(t *testing.T) {
	m := openMap(t, 4, 4, nil)
	c := NewCaster()

	for _, heading := range []float64{0, 1, 2, 3, 4, 5, 6} {
		p := entity.NewPlayer(2, 2, heading, 8)
		for _, col := range []int{0, 100, 320, 639} {
			hit := c.CastColumn(p, m, col, 640)
			if !hit.Missed() || hit.Distance != DefaultMaxRange {
				t.Errorf("heading %f col %d: expected miss at max range, got %+v", heading, col, hit)
			}
		}
	}
}

func TestCastColumn_BorderedRoom(t *testing.T) {
	room := mustParse(t, "3,3\n000\n0P0\n000\n")
	if room.Walls() != 0 || room.Spawn != (gridmap.Point{X: 1, Y: 1}) {
		t.Fatalf("unexpected room: walls=%d spawn=%+v", room.Walls(), room.Spawn)
	}

	bordered := mustParse(t, "3,3\n444\n4P4\n444\n")
	p := entity.NewPlayer(float64(bordered.Spawn.X), float64(bordered.Spawn.Y), 0, 8)
	c := NewCaster()

	hit := c.CastColumn(p, bordered, 640, 1280)
	if hit.Material != 4 {
		t.Fatalf("expected border material 4, got %d", hit.Material)
	}
	if !withinStep(c, hit.Distance, 1.0) {
		t.Errorf("expected distance 1.0, got %f", hit.Distance)
	}
}

func TestCastFrame_FlatWallHasNoFisheye(t *testing.T) {
	m := openMap(t, 21, 8, func() map[[2]int]byte {
		w := make(map[[2]int]byte)
		for x := 0; x < 21; x++ {
			w[[2]int{x, 7}] = '1'
		}
		return w
	}())
	p := entity.NewPlayer(10.5, 2, 0, 8)
	c := NewCaster()

	hits := c.CastFrame(p, m, 160, nil)
	if len(hits) != 160 {
		t.Fatalf("expected 160 hits, got %d", len(hits))
	}
	for x, h := range hits {
		if h.Material != 1 {
			t.Fatalf("column %d missed the wall", x)
		}
		if !withinStep(c, h.Distance, 5) {
			t.Errorf("column %d: expected corrected distance 5, got %f", x, h.Distance)
		}
	}

	again := c.CastFrame(p, m, 80, hits)
	if len(again) != 80 || &again[0] != &hits[0] {
		t.Error("CastFrame should reuse the destination slice")
	}
}

func TestMarch_NonPositiveStep(t *testing.T) {
	m := openMap(t, 2, 2, nil)
	c := &Caster{Step: 0, MaxRange: 10, FOV: 90}

	hit := c.CastColumn(entity.NewPlayer(1, 1, 0, 8), m, 0, 10)
	if !hit.Missed() || hit.Distance != 10 {
		t.Errorf("expected miss at range 10, got %+v", hit)
	}
}
