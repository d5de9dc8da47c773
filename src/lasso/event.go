package lasso

import (
	"fmt"
	"math"
)

// SurfaceID names one plotting surface. The empty ID means "no surface".
type SurfaceID string

// Button identifies a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button (plain motion).
	ButtonNone Button = iota
	// ButtonPrimary is the button that draws a lasso.
	ButtonPrimary
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonSecondary is the secondary (right) button.
	ButtonSecondary
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonMiddle:
		return "middle"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Sample is one pointer observation in data coordinates.
type Sample struct {
	X       float64
	Y       float64
	Button  Button
	Surface SurfaceID
}

// Defined reports whether the sample happened over a surface with usable
// coordinates.
func (s Sample) Defined() bool {
	if s.Surface == "" {
		return false
	}
	return !math.IsNaN(s.X) && !math.IsInf(s.X, 0) && !math.IsNaN(s.Y) && !math.IsInf(s.Y, 0)
}

// EventKind is the type of an input event.
type EventKind uint8

const (
	// KeyPress is a key (or pre-joined key combination) going down.
	KeyPress EventKind = iota + 1
	// KeyRelease is a key (or combination) going up.
	KeyRelease
	// PointerPress is a pointer button going down.
	PointerPress
	// PointerMove is pointer motion.
	PointerMove
	// PointerRelease is a pointer button going up.
	PointerRelease
)

// String returns a string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case KeyPress:
		return "key-press"
	case KeyRelease:
		return "key-release"
	case PointerPress:
		return "press"
	case PointerMove:
		return "move"
	case PointerRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Event is one input event delivered to the Controller.
type Event struct {
	Kind EventKind
	// Key is the key name or '+'-joined combination for key events.
	Key string
	// Sample carries the pointer data for pointer events.
	Sample Sample
}

func (e Event) String() string {
	switch e.Kind {
	case KeyPress, KeyRelease:
		return fmt.Sprintf("%s %q", e.Kind, e.Key)
	default:
		s := e.Sample
		return fmt.Sprintf("%s %s (%g, %g) on %q", e.Kind, s.Button, s.X, s.Y, s.Surface)
	}
}

// KeyEvent builds a key press or release event.
func KeyEvent(combo string, down bool) Event {
	if down {
		return Event{Kind: KeyPress, Key: combo}
	}
	return Event{Kind: KeyRelease, Key: combo}
}

// PointerEvent builds a pointer event of the given kind.
func PointerEvent(kind EventKind, surface SurfaceID, x, y float64, button Button) Event {
	return Event{Kind: kind, Sample: Sample{X: x, Y: y, Button: button, Surface: surface}}
}
