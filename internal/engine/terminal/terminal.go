// Package terminal presents frames in a text terminal using half-block cells.
package terminal

import (
	"fmt"
	"image/color"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/engine/canvas"
	"github.com/Faultbox/gridcaster/internal/engine/input"
	"github.com/Faultbox/gridcaster/internal/logger"
)

// Terminals report presses and repeats but never releases, so a key counts
// as held until it has been quiet for a while. The first press waits out the
// terminal's autorepeat delay.
const (
	HoldTime    = 150 * time.Millisecond
	InitialHold = 500 * time.Millisecond
)

// PointerScale converts one cell of mouse motion into pointer units.
const PointerScale = 8.0

// HalfBlock draws the upper pixel in the foreground and the lower in the background.
const HalfBlock = '▀'

type heldKey struct {
	last    time.Time
	repeats int
}

// Screen is a display backed by a tcell screen.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	held    map[input.Action]*heldKey
	now     func() time.Time
	mouseX  int
	mouseOK bool

	log *zap.Logger
}

// New opens the controlling terminal.
func New() (*Screen, error) {
	sc, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("create terminal screen: %w", err)
	}
	return NewWithScreen(sc)
}

// NewWithScreen initializes sc and starts reading its events.
func NewWithScreen(sc tcell.Screen) (*Screen, error) {
	if err := sc.Init(); err != nil {
		return nil, fmt.Errorf("init terminal screen: %w", err)
	}
	sc.HideCursor()
	sc.EnableMouse(tcell.MouseMotionEvents)
	sc.Clear()

	s := &Screen{
		screen: sc,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
		held:   make(map[input.Action]*heldKey),
		now:    time.Now,
		log:    logger.Named("terminal"),
	}
	go s.pump()

	w, h := sc.Size()
	s.log.Info("terminal opened", zap.Int("cols", w), zap.Int("rows", h))
	return s, nil
}

// pump forwards blocking tcell reads to the frame loop. It exits when the
// screen is finalized.
func (s *Screen) pump() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// PollEvents drains pending terminal events without blocking.
func (s *Screen) PollEvents(dst []input.Event) []input.Event {
	for {
		select {
		case ev := <-s.events:
			dst = s.translate(ev, dst)
		default:
			return s.releaseStale(dst)
		}
	}
}

func (s *Screen) translate(ev tcell.Event, dst []input.Event) []input.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return s.translateKey(ev, dst)

	case *tcell.EventMouse:
		x, _ := ev.Position()
		if s.mouseOK && x != s.mouseX {
			dst = append(dst, input.PointerMove(float64(x-s.mouseX)*PointerScale))
		}
		s.mouseX, s.mouseOK = x, true
		if ev.Buttons()&tcell.Button1 != 0 {
			dst = append(dst, input.Event{Type: input.EventPointerClick})
		}

	case *tcell.EventResize:
		s.screen.Sync()
	}
	return dst
}

func (s *Screen) translateKey(ev *tcell.EventKey, dst []input.Event) []input.Event {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return append(dst, input.Event{Type: input.EventQuit})
	case tcell.KeyEscape:
		return append(dst, input.KeyDown(input.ActionPause), input.KeyUp(input.ActionPause))
	case tcell.KeyF12:
		return append(dst, input.KeyDown(input.ActionScreenshot))
	case tcell.KeyLeft:
		return s.press(input.ActionTurnLeft, dst)
	case tcell.KeyRight:
		return s.press(input.ActionTurnRight, dst)
	case tcell.KeyRune:
	default:
		return dst
	}

	r := ev.Rune()
	if r == 'm' || r == 'M' {
		return append(dst, input.KeyDown(input.ActionToggleMinimap))
	}
	a, ok := runeActions[unicode.ToLower(r)]
	if !ok {
		return dst
	}
	// Shifted letters sprint.
	if unicode.IsUpper(r) {
		dst = s.press(input.ActionSprint, dst)
	}
	return s.press(a, dst)
}

var runeActions = map[rune]input.Action{
	'w': input.ActionForward,
	's': input.ActionBack,
	'a': input.ActionStrafeLeft,
	'd': input.ActionStrafeRight,
}

// press emits a key down for a newly held action and refreshes its timer.
func (s *Screen) press(a input.Action, dst []input.Event) []input.Event {
	now := s.now()
	if k, ok := s.held[a]; ok {
		k.last = now
		k.repeats++
		return dst
	}
	s.held[a] = &heldKey{last: now}
	return append(dst, input.KeyDown(a))
}

// releaseStale emits key ups for actions that stopped repeating.
func (s *Screen) releaseStale(dst []input.Event) []input.Event {
	now := s.now()
	for a, k := range s.held {
		hold := HoldTime
		if k.repeats == 0 {
			hold = InitialHold
		}
		if now.Sub(k.last) > hold {
			delete(s.held, a)
			dst = append(dst, input.KeyUp(a))
		}
	}
	return dst
}

// Present draws the canvas scaled to the terminal, two pixels per cell.
func (s *Screen) Present(c *canvas.Canvas) error {
	cols, rows := s.screen.Size()
	Downsample(c, cols, rows, func(x, y int, upper, lower color.RGBA) {
		style := tcell.StyleDefault.
			Foreground(rgb(upper)).
			Background(rgb(lower))
		s.screen.SetContent(x, y, HalfBlock, nil, style)
	})
	s.screen.Show()
	return nil
}

// SetPointerCapture reports mouse motion only while captured; clicks are
// always reported so that a click can recapture.
func (s *Screen) SetPointerCapture(captured bool) error {
	if captured {
		s.screen.EnableMouse(tcell.MouseMotionEvents)
	} else {
		s.screen.EnableMouse(tcell.MouseButtonEvents)
		s.mouseOK = false
	}
	return nil
}

// Close restores the terminal.
func (s *Screen) Close() error {
	close(s.done)
	s.screen.Fini()
	s.log.Info("terminal closed")
	return nil
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Downsample maps the canvas onto cols x rows half-block cells by nearest
// sampling and calls fn with the upper and lower pixel of every cell.
func Downsample(c *canvas.Canvas, cols, rows int, fn func(x, y int, upper, lower color.RGBA)) {
	w, h := c.Size()
	if cols <= 0 || rows <= 0 || w == 0 || h == 0 {
		return
	}
	sub := rows * 2
	for y := 0; y < rows; y++ {
		uy := (2 * y) * h / sub
		ly := (2*y + 1) * h / sub
		for x := 0; x < cols; x++ {
			px := x * w / cols
			fn(x, y, c.At(px, uy), c.At(px, ly))
		}
	}
}
