package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/gridcaster/internal/engine/input"
)

var keyActions = map[sdl.Keycode]input.Action{
	sdl.K_w:      input.ActionForward,
	sdl.K_s:      input.ActionBack,
	sdl.K_a:      input.ActionStrafeLeft,
	sdl.K_d:      input.ActionStrafeRight,
	sdl.K_LEFT:   input.ActionTurnLeft,
	sdl.K_RIGHT:  input.ActionTurnRight,
	sdl.K_LSHIFT: input.ActionSprint,
	sdl.K_ESCAPE: input.ActionPause,
	sdl.K_F12:    input.ActionScreenshot,
	sdl.K_m:      input.ActionToggleMinimap,
}

// ActionForKey maps an SDL key to its bound action.
func ActionForKey(k sdl.Keycode) (input.Action, bool) {
	a, ok := keyActions[k]
	return a, ok
}

// KeyEvent translates an SDL keyboard event. Unbound keys and auto-repeated
// presses of one-shot actions produce no event.
func KeyEvent(e *sdl.KeyboardEvent) (input.Event, bool) {
	action, ok := ActionForKey(e.Keysym.Sym)
	if !ok {
		return input.Event{}, false
	}
	switch e.Type {
	case sdl.KEYDOWN:
		if e.Repeat != 0 && action.OneShot() {
			return input.Event{}, false
		}
		return input.KeyDown(action), true
	case sdl.KEYUP:
		return input.KeyUp(action), true
	}
	return input.Event{}, false
}
