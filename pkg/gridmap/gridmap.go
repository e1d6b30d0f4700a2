// Package gridmap loads and serves the static tile grid the raycaster walks.
package gridmap

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
)

// Material identifies what occupies a cell. Zero is empty floor.
type Material uint8

// Empty is the passable material.
const Empty Material = 0

// IsWall reports whether the material blocks rays.
func (m Material) IsWall() bool {
	return m != Empty
}

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

// Map is a width x height grid of materials stored row-major.
// It is not modified after Parse returns.
type Map struct {
	Width  int
	Height int

	// Spawn is the cell marked with the player sentinel, valid when HasSpawn is set.
	Spawn    Point
	HasSpawn bool

	cells []Material
}

// InBounds reports whether (x, y) addresses a cell of the map.
func (m *Map) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Width && y < m.Height
}

// At returns the material at (x, y).
// Callers must stay inside the grid; an out-of-range read panics so that
// marching bugs surface immediately instead of sampling garbage.
func (m *Map) At(x, y int) Material {
	if !m.InBounds(x, y) {
		panic(fmt.Sprintf("gridmap: cell (%d,%d) outside %dx%d map", x, y, m.Width, m.Height))
	}
	return m.cells[x+y*m.Width]
}

// Walls returns the number of non-empty cells.
func (m *Map) Walls() int {
	n := 0
	for _, c := range m.cells {
		if c.IsWall() {
			n++
		}
	}
	return n
}

// Materials returns the distinct wall materials used by the map, ascending.
func (m *Map) Materials() []Material {
	seen := make(map[Material]bool)
	for _, c := range m.cells {
		if c.IsWall() {
			seen[c] = true
		}
	}
	out := make([]Material, 0, len(seen))
	for mat := range seen {
		out = append(out, mat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Encode renders the map back into the text format accepted by Parse.
// The spawn cell is written as the player sentinel.
func (m *Map) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(strconv.Itoa(m.Width))
	buf.WriteByte(',')
	buf.WriteString(strconv.Itoa(m.Height))
	buf.WriteByte('\n')

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.HasSpawn && m.Spawn.X == x && m.Spawn.Y == y {
				buf.WriteByte(SpawnMarker)
				continue
			}
			buf.WriteByte('0' + byte(m.cells[x+y*m.Width]))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// String returns the grid as digits, one row per line, without header or spawn.
func (m *Map) String() string {
	var buf bytes.Buffer
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			buf.WriteByte('0' + byte(m.cells[x+y*m.Width]))
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
