package world

import (
	"container/heap"
	"math"

	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

// pathNode is one open or closed cell of an A* search.
type pathNode struct {
	cell   gridmap.Point
	g, f   float64
	parent *pathNode
	index  int
}

type pathHeap []*pathNode

func (h pathHeap) Len() int           { return len(h) }
func (h pathHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h pathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pathHeap) Push(x any) {
	node := x.(*pathNode)
	node.index = len(*h)
	*h = append(*h, node)
}

func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// neighbors in clockwise order starting south. Odd entries are diagonal.
var neighbors = [8]gridmap.Point{
	{X: 0, Y: 1},
	{X: -1, Y: 1},
	{X: -1, Y: 0},
	{X: -1, Y: -1},
	{X: 0, Y: -1},
	{X: 1, Y: -1},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
}

// Navigator answers walkability questions about a map. Diagonal steps need
// both side cells open so paths never squeeze between two wall corners.
type Navigator struct {
	gm *gridmap.Map
}

// NewNavigator returns a navigator over m, or nil when m is nil.
func NewNavigator(m *gridmap.Map) *Navigator {
	if m == nil {
		return nil
	}
	return &Navigator{gm: m}
}

// Walkable reports whether a player may stand in cell (x, y).
func (n *Navigator) Walkable(x, y int) bool {
	if n == nil {
		return false
	}
	return n.gm.InBounds(x, y) && !n.gm.At(x, y).IsWall()
}

// FindPath returns the cells from start to goal inclusive, or nil when the
// goal cannot be reached.
func (n *Navigator) FindPath(start, goal gridmap.Point) []gridmap.Point {
	if !n.Walkable(start.X, start.Y) || !n.Walkable(goal.X, goal.Y) {
		return nil
	}

	open := &pathHeap{}
	closed := make(map[gridmap.Point]bool)
	nodes := make(map[gridmap.Point]*pathNode)

	first := &pathNode{cell: start, f: octile(start, goal)}
	heap.Push(open, first)
	nodes[start] = first

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.cell == goal {
			return unwind(current)
		}
		closed[current.cell] = true

		for i, d := range neighbors {
			next := gridmap.Point{X: current.cell.X + d.X, Y: current.cell.Y + d.Y}
			if closed[next] || !n.step(current.cell, d) {
				continue
			}

			cost := 1.0
			if i%2 == 1 {
				cost = math.Sqrt2
			}
			g := current.g + cost

			node, seen := nodes[next]
			switch {
			case !seen:
				node = &pathNode{cell: next, g: g, f: g + octile(next, goal), parent: current}
				nodes[next] = node
				heap.Push(open, node)
			case g < node.g:
				node.f += g - node.g
				node.g = g
				node.parent = current
				heap.Fix(open, node.index)
			}
		}
	}
	return nil
}

// Reachable counts the walkable cells connected to start, start included.
func (n *Navigator) Reachable(start gridmap.Point) int {
	if !n.Walkable(start.X, start.Y) {
		return 0
	}

	seen := map[gridmap.Point]bool{start: true}
	queue := []gridmap.Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range neighbors {
			next := gridmap.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
			if seen[next] || !n.step(cur, d) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return len(seen)
}

// OpenCells counts every walkable cell of the map.
func (n *Navigator) OpenCells() int {
	if n == nil {
		return 0
	}
	return n.gm.Width*n.gm.Height - n.gm.Walls()
}

func (n *Navigator) step(from, d gridmap.Point) bool {
	if !n.Walkable(from.X+d.X, from.Y+d.Y) {
		return false
	}
	if d.X != 0 && d.Y != 0 {
		return n.Walkable(from.X+d.X, from.Y) && n.Walkable(from.X, from.Y+d.Y)
	}
	return true
}

func octile(a, b gridmap.Point) float64 {
	dx := math.Abs(float64(b.X - a.X))
	dy := math.Abs(float64(b.Y - a.Y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

func unwind(node *pathNode) []gridmap.Point {
	var path []gridmap.Point
	for ; node != nil; node = node.parent {
		path = append(path, node.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
