// Package input turns backend events into player intent.
package input

import "github.com/Faultbox/gridcaster/internal/game/entity"

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventPointerMove
	EventPointerClick
)

// Action is a bound control, independent of the physical key.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionStrafeLeft
	ActionStrafeRight
	ActionTurnLeft
	ActionTurnRight
	ActionSprint
	ActionPause
	ActionScreenshot
	ActionToggleMinimap
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionForward:       "forward",
	ActionBack:          "back",
	ActionStrafeLeft:    "strafe_left",
	ActionStrafeRight:   "strafe_right",
	ActionTurnLeft:      "turn_left",
	ActionTurnRight:     "turn_right",
	ActionSprint:        "sprint",
	ActionPause:         "pause",
	ActionScreenshot:    "screenshot",
	ActionToggleMinimap: "toggle_minimap",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// OneShot reports whether the action fires once per press rather than
// while held. Backends drop auto-repeated presses of these.
func (a Action) OneShot() bool {
	return a == ActionScreenshot || a == ActionToggleMinimap
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Action Action
	DX     float64 // horizontal pointer motion, EventPointerMove only
}

// KeyDown returns a key press event.
func KeyDown(a Action) Event { return Event{Type: EventKeyDown, Action: a} }

// KeyUp returns a key release event.
func KeyUp(a Action) Event { return Event{Type: EventKeyUp, Action: a} }

// PointerMove returns a relative pointer motion event.
func PointerMove(dx float64) Event { return Event{Type: EventPointerMove, DX: dx} }

// Controls is the lock/quit state machine and the held-key state.
//
// While the pointer is locked, key presses and pointer motion steer the
// player. Releasing pause unlocks, and releasing it again while unlocked
// quits. A click relocks. Key releases are honored in either state so that
// keys let go while unlocked do not stay held.
type Controls struct {
	Locked bool

	move   entity.MoveIntent
	turn   int
	sprint bool

	pointerDX  float64
	hasPointer bool

	quit          bool
	screenshot    bool
	toggleMinimap bool
	lockChanged   bool
}

// NewControls returns controls with the pointer locked.
func NewControls() *Controls {
	return &Controls{Locked: true}
}

// Apply feeds one event into the state machine.
func (c *Controls) Apply(ev Event) {
	switch ev.Type {
	case EventQuit:
		c.quit = true

	case EventKeyDown:
		if !c.Locked {
			return
		}
		switch ev.Action {
		case ActionForward:
			c.move.Forward = 1
		case ActionBack:
			c.move.Forward = -1
		case ActionStrafeLeft:
			c.move.Strafe = 1
		case ActionStrafeRight:
			c.move.Strafe = -1
		case ActionTurnLeft:
			c.turn = 1
		case ActionTurnRight:
			c.turn = -1
		case ActionSprint:
			c.sprint = true
		case ActionScreenshot:
			c.screenshot = true
		case ActionToggleMinimap:
			c.toggleMinimap = true
		}

	case EventKeyUp:
		switch ev.Action {
		case ActionForward, ActionBack:
			c.move.Forward = 0
		case ActionStrafeLeft, ActionStrafeRight:
			c.move.Strafe = 0
		case ActionTurnLeft, ActionTurnRight:
			c.turn = 0
		case ActionSprint:
			c.sprint = false
		case ActionPause:
			if c.Locked {
				c.setLocked(false)
			} else {
				c.quit = true
			}
		}

	case EventPointerMove:
		if c.Locked {
			c.pointerDX += ev.DX
			c.hasPointer = true
		}

	case EventPointerClick:
		if !c.Locked {
			c.setLocked(true)
		}
	}
}

func (c *Controls) setLocked(locked bool) {
	c.Locked = locked
	c.lockChanged = true
}

// Intent returns the held movement axes.
func (c *Controls) Intent() entity.MoveIntent { return c.move }

// Turn returns the held keyboard turn direction.
func (c *Controls) Turn() int { return c.turn }

// Sprinting reports whether the sprint key is held.
func (c *Controls) Sprinting() bool { return c.sprint }

// QuitRequested reports whether the session should end.
func (c *Controls) QuitRequested() bool { return c.quit }

// TakePointer returns the pointer motion accumulated since the last call.
func (c *Controls) TakePointer() (dx float64, ok bool) {
	dx, ok = c.pointerDX, c.hasPointer
	c.pointerDX, c.hasPointer = 0, false
	return dx, ok
}

// CaptureChanged reports a lock transition since the last call and the new
// lock state. Backends use it to toggle relative pointer mode.
func (c *Controls) CaptureChanged() (locked, changed bool) {
	changed = c.lockChanged
	c.lockChanged = false
	return c.Locked, changed
}

// TakeScreenshot reports and clears a pending screenshot request.
func (c *Controls) TakeScreenshot() bool {
	req := c.screenshot
	c.screenshot = false
	return req
}

// TakeMinimapToggle reports and clears a pending minimap toggle.
func (c *Controls) TakeMinimapToggle() bool {
	req := c.toggleMinimap
	c.toggleMinimap = false
	return req
}
