// mapcheck validates gridcaster map files and prints what they contain.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/gridcaster/internal/game/world"
	"github.com/Faultbox/gridcaster/pkg/gridmap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cellFlag parses "x,y" cell coordinates.
type cellFlag struct {
	gridmap.Point
	set bool
}

func (c *cellFlag) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

func (c *cellFlag) Set(v string) error {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return fmt.Errorf("want x,y, got %q", v)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return err
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return err
	}
	c.Point = gridmap.Point{X: x, Y: y}
	c.set = true
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mapcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quiet := fs.Bool("q", false, "Only report errors")
	grid := fs.Bool("grid", true, "Print the grid")
	var goal cellFlag
	fs.Var(&goal, "path", "Require a walkable route from spawn to cell `x,y`")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `mapcheck - validate gridcaster map files

Usage:
  mapcheck [options] <map.txt>...
  mapcheck -path 5,3 level.txt

Options:`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	pal := gridmap.DefaultPalette()
	failed := 0
	for _, path := range fs.Args() {
		m, err := gridmap.Load(path)
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "FAIL %v\n", err)
			continue
		}

		var route []gridmap.Point
		if goal.set {
			if !m.HasSpawn {
				failed++
				fmt.Fprintf(stderr, "FAIL %s: no spawn marker to route from\n", path)
				continue
			}
			route = world.NewNavigator(m).FindPath(m.Spawn, goal.Point)
			if route == nil {
				failed++
				fmt.Fprintf(stderr, "FAIL %s: no route from spawn to (%d, %d)\n", path, goal.X, goal.Y)
				continue
			}
		}
		if *quiet {
			continue
		}

		fmt.Fprintf(stdout, "OK   %s\n", path)
		fmt.Fprintf(stdout, "  size:      %dx%d\n", m.Width, m.Height)
		if m.HasSpawn {
			fmt.Fprintf(stdout, "  spawn:     (%d, %d)\n", m.Spawn.X, m.Spawn.Y)
		} else {
			fmt.Fprintln(stdout, "  spawn:     none (first empty cell is used)")
		}
		fmt.Fprintf(stdout, "  walls:     %d\n", m.Walls())
		if m.HasSpawn {
			nav := world.NewNavigator(m)
			fmt.Fprintf(stdout, "  reachable: %d of %d open cells\n", nav.Reachable(m.Spawn), nav.OpenCells())
		}
		if route != nil {
			fmt.Fprintf(stdout, "  route:     (%d, %d) in %d steps\n", goal.X, goal.Y, len(route)-1)
		}
		fmt.Fprintf(stdout, "  materials: %v\n", m.Materials())
		if missing := pal.Missing(m); len(missing) > 0 {
			fmt.Fprintf(stdout, "  no color:  %v\n", missing)
		}
		if *grid {
			fmt.Fprintln(stdout, m.String())
		}
	}

	if failed > 0 {
		return 1
	}
	return 0
}
