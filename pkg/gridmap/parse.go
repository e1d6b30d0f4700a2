package gridmap

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// SpawnMarker marks the player's starting cell in a map file.
const SpawnMarker = 'P'

// Load errors. Match them with errors.Is on the error returned by Load or Parse.
var (
	ErrNotFound  = errors.New("map not found")
	ErrMalformed = errors.New("malformed map")
)

// ErrorKind classifies a LoadError.
type ErrorKind int

const (
	NotFound ErrorKind = iota + 1
	Malformed
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case Malformed:
		return "Malformed"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// LoadError describes why a map could not be loaded.
type LoadError struct {
	Kind ErrorKind
	Path string // empty when parsing in-memory data
	Line int    // 1-based file line, 0 when not tied to a line
	Err  error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel().Error())
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels.
func (e *LoadError) Is(target error) bool {
	return target == e.sentinel()
}

func (e *LoadError) sentinel() error {
	if e.Kind == NotFound {
		return ErrNotFound
	}
	return ErrMalformed
}

func malformed(line int, format string, args ...any) *LoadError {
	return &LoadError{Kind: Malformed, Line: line, Err: fmt.Errorf(format, args...)}
}

// Load reads and parses a map file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return nil, &LoadError{Kind: NotFound, Path: path, Err: err}
		}
		return nil, &LoadError{Kind: NotFound, Path: path, Err: fmt.Errorf("reading map file: %w", err)}
	}

	m, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return m, nil
}

// Parse parses the text map format:
//
//	<width>,<height>
//	<height rows of exactly width cells, '0'-'9' or 'P'>
func Parse(data []byte) (*Map, error) {
	lines := strings.Split(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	if len(lines) == 0 || lines[0] == "" {
		return nil, malformed(1, "missing dimension header")
	}
	width, height, err := parseHeader(lines[0])
	if err != nil {
		return nil, err
	}

	rows := lines[1:]
	if len(rows) < height {
		return nil, malformed(len(lines), "expected %d rows, got %d", height, countRows(rows))
	}

	// Row lengths are checked before allocating, so width*height never
	// exceeds the size of the input.
	for y, row := range rows[:height] {
		if len(row) != width {
			return nil, malformed(y+2, "row has %d cells, want %d", len(row), width)
		}
	}

	m := &Map{
		Width:  width,
		Height: height,
		cells:  make([]Material, width*height),
	}

	for y := 0; y < height; y++ {
		row := rows[y]
		line := y + 2
		for x := 0; x < width; x++ {
			ch := row[x]
			switch {
			case ch >= '0' && ch <= '9':
				m.cells[x+y*width] = Material(ch - '0')
			case ch == SpawnMarker:
				if m.HasSpawn {
					return nil, malformed(line, "second spawn marker at (%d,%d), first at (%d,%d)",
						x, y, m.Spawn.X, m.Spawn.Y)
				}
				m.Spawn = Point{X: x, Y: y}
				m.HasSpawn = true
			default:
				return nil, malformed(line, "invalid cell %q at column %d", ch, x)
			}
		}
	}

	for i, rest := range rows[height:] {
		if strings.TrimSpace(rest) != "" {
			return nil, malformed(height+2+i, "unexpected data after %d rows", height)
		}
	}

	return m, nil
}

// parseHeader splits "<width>,<height>" and parses each token as a positive integer.
func parseHeader(header string) (int, int, error) {
	tokens := strings.Split(header, ",")
	if len(tokens) != 2 {
		return 0, 0, malformed(1, "dimension header %q: want <width>,<height>", header)
	}

	dims := [2]int{}
	for i, tok := range tokens {
		if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
			return 0, 0, malformed(1, "dimension %q is not a decimal number", tok)
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return 0, 0, malformed(1, "dimension %q: %w", tok, err)
		}
		if n <= 0 {
			return 0, 0, malformed(1, "dimension %d must be positive", n)
		}
		dims[i] = n
	}
	return dims[0], dims[1], nil
}

func countRows(rows []string) int {
	n := 0
	for _, r := range rows {
		if r != "" {
			n++
		}
	}
	return n
}
