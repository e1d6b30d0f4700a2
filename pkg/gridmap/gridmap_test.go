package gridmap

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// generateMap builds random well-formed map text with a single spawn marker.
func generateMap(rng *rand.Rand, width, height int) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(width) + "," + strconv.Itoa(height) + "\n")
	spawnX, spawnY := rng.Intn(width), rng.Intn(height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == spawnX && y == spawnY {
				b.WriteByte('P')
				continue
			}
			b.WriteByte(byte('0' + rng.Intn(10)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestParse_EmptyRoomWithSpawn(t *testing.T) {
	m, err := Parse([]byte("3,3\n000\n0P0\n000\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if m.Width != 3 || m.Height != 3 {
		t.Errorf("expected 3x3, got %dx%d", m.Width, m.Height)
	}
	if !m.HasSpawn {
		t.Fatal("expected spawn to be recorded")
	}
	if m.Spawn != (Point{X: 1, Y: 1}) {
		t.Errorf("expected spawn (1,1), got %+v", m.Spawn)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := m.At(x, y); got != Empty {
				t.Errorf("cell (%d,%d): expected empty, got %d", x, y, got)
			}
		}
	}
	if m.Walls() != 0 {
		t.Errorf("expected no walls, got %d", m.Walls())
	}
}

func TestParse_Materials(t *testing.T) {
	m, err := Parse([]byte("4,2\n1234\n9P05\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := [][]Material{{1, 2, 3, 4}, {9, 0, 0, 5}}
	for y, row := range want {
		for x, mat := range row {
			if got := m.At(x, y); got != mat {
				t.Errorf("cell (%d,%d): expected %d, got %d", x, y, mat, got)
			}
		}
	}

	mats := m.Materials()
	if len(mats) != 6 || mats[0] != 1 || mats[5] != 9 {
		t.Errorf("unexpected materials %v", mats)
	}
	if m.Walls() != 6 {
		t.Errorf("expected 6 walls, got %d", m.Walls())
	}
}

func TestParse_CRLFAndTrailingBlankLines(t *testing.T) {
	m, err := Parse([]byte("2,2\r\n11\r\n1P\r\n\r\n\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if m.At(1, 0) != 1 || m.Spawn != (Point{X: 1, Y: 1}) {
		t.Errorf("unexpected map:\n%s spawn %+v", m, m.Spawn)
	}
}

func TestParse_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		w, h := 1+rng.Intn(24), 1+rng.Intn(24)
		src := generateMap(rng, w, h)

		m, err := Parse([]byte(src))
		if err != nil {
			t.Fatalf("map %d: Parse failed: %v\n%s", i, err, src)
		}
		if m.At(m.Spawn.X, m.Spawn.Y) != Empty {
			t.Errorf("map %d: spawn cell should be empty", i)
		}

		out := m.Encode()
		if !bytes.Equal(out, []byte(src)) {
			t.Errorf("map %d: round trip mismatch\nwant:\n%s\ngot:\n%s", i, src, out)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"empty file", "", 1},
		{"no header", "\n000\n", 1},
		{"header missing height", "3\n000\n", 1},
		{"header extra field", "3,3,3\n000\n000\n000\n", 1},
		{"header whitespace", "3, 3\n000\n000\n000\n", 1},
		{"header not numeric", "a,3\n000\n000\n000\n", 1},
		{"zero width", "0,3\n\n\n\n", 1},
		{"short row", "3,2\n000\n00\n", 3},
		{"long row", "3,2\n0000\n000\n", 2},
		{"missing rows", "3,3\n000\n000\n", 4},
		{"bad cell", "3,1\n0x0\n", 2},
		{"two spawns", "3,1\nP0P\n", 2},
		{"trailing data", "2,1\n00\n11\n", 3},
		{"signed width", "+3,1\n000\n", 1},
		{"negative height", "3,-1\n000\n", 1},
		{"width out of range", "99999999999999999999,1\n0\n", 1},
		{"huge width", "1000000000000000,1\n0\n", 2},
		{"width overflows cell count", "4611686018427387904,2\n0\n0\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if errors.Is(err, ErrNotFound) {
				t.Errorf("malformed error should not match ErrNotFound: %v", err)
			}
			var le *LoadError
			if !errors.As(err, &le) {
				t.Fatalf("expected *LoadError, got %T", err)
			}
			if le.Kind != Malformed {
				t.Errorf("expected kind Malformed, got %v", le.Kind)
			}
			if le.Line != tt.line {
				t.Errorf("expected line %d, got %d (%v)", tt.line, le.Line, err)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	_, err := Load(path)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.txt")
	if err := os.WriteFile(path, []byte("3,2\n111\n1P1\n"), 0644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Walls() != 5 {
		t.Errorf("expected 5 walls, got %d", m.Walls())
	}
}

func TestLoad_MalformedCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(path, []byte("3,2\n111\n11\n"), 0644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}

	_, err := Load(path)
	var le *LoadError
	if !errors.As(err, &le) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if le.Path != path || le.Kind != Malformed {
		t.Errorf("unexpected error fields: %+v", le)
	}
}

func TestAt_OutOfBoundsPanics(t *testing.T) {
	m, err := Parse([]byte("2,2\n00\n00\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cases := [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}}
	for _, c := range cases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("At(%d,%d) should panic", c[0], c[1])
				}
			}()
			m.At(c[0], c[1])
		}()
	}
}

func TestPalette(t *testing.T) {
	p := DefaultPalette()

	if c := p.Color(1); c.R != 140 || c.G != 200 || c.B != 204 {
		t.Errorf("material 1: unexpected color %v", c)
	}
	if c := p.Color(2); c.R != 255 || c.G != 140 || c.B != 140 {
		t.Errorf("material 2: unexpected color %v", c)
	}
	if c := p.Color(Empty); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("empty: expected opaque black, got %v", c)
	}

	small := Palette{1: p[1]}
	if c := small.Color(7); c != MissingColor {
		t.Errorf("expected MissingColor for unknown material, got %v", c)
	}

	m, err := Parse([]byte("3,1\n127\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	missing := small.Missing(m)
	if len(missing) != 2 || missing[0] != 2 || missing[1] != 7 {
		t.Errorf("expected missing [2 7], got %v", missing)
	}

	merged := small.Merge(Palette{7: MissingColor})
	if len(merged) != 2 || len(small) != 1 {
		t.Errorf("merge should copy: merged=%d small=%d", len(merged), len(small))
	}
}
