// Package replay reads scripted input sessions and feeds them to a
// lasso.Controller, so selections can be reproduced without a window.
//
//	modifiers: [control]
//	events:
//	  - key_press: control
//	  - press: {surface: xy, x: 0, y: 0}
//	  - path: {surface: xy, points: [[1, 0], [1, 1], [0, 1]]}
//	  - release: {surface: xy, x: 0, y: 1}
//	  - key_release: control
//
// Pointer entries default to the primary button; "button" may be primary,
// middle, secondary or none.
package replay

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"plot-lasso/src/lasso"
)

// ErrEmptyScript is returned for scripts without events.
var ErrEmptyScript = errors.New("replay script has no events")

// Script is a parsed replay file.
type Script struct {
	// Modifiers overrides the configured modifier gate when non-empty.
	Modifiers []string `yaml:"modifiers"`
	Steps     []Step   `yaml:"events"`
}

// Step is one entry of the events list. Exactly one field is set.
type Step struct {
	KeyPress   string   `yaml:"key_press,omitempty"`
	KeyRelease string   `yaml:"key_release,omitempty"`
	Press      *Pointer `yaml:"press,omitempty"`
	Move       *Pointer `yaml:"move,omitempty"`
	Release    *Pointer `yaml:"release,omitempty"`
	Path       *Path    `yaml:"path,omitempty"`
}

// Pointer is a pointer position in data coordinates. A nil X or Y means the
// pointer is outside every surface.
type Pointer struct {
	Surface string   `yaml:"surface"`
	X       *float64 `yaml:"x"`
	Y       *float64 `yaml:"y"`
	Button  string   `yaml:"button"`
}

// Path is a run of plain moves on one surface.
type Path struct {
	Surface string       `yaml:"surface"`
	Points  [][2]float64 `yaml:"points"`
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a script and checks every step.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse replay script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, ErrEmptyScript
	}
	if _, err := s.Events(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Events expands the script into controller events.
func (s *Script) Events() ([]lasso.Event, error) {
	var events []lasso.Event
	for i, step := range s.Steps {
		evs, err := step.events()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i+1, err)
		}
		events = append(events, evs...)
	}
	return events, nil
}

func (st Step) events() ([]lasso.Event, error) {
	set := 0
	for _, ok := range []bool{st.KeyPress != "", st.KeyRelease != "", st.Press != nil, st.Move != nil, st.Release != nil, st.Path != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("expected exactly one of key_press, key_release, press, move, release, path; got %d", set)
	}

	switch {
	case st.KeyPress != "":
		return []lasso.Event{lasso.KeyEvent(st.KeyPress, true)}, nil
	case st.KeyRelease != "":
		return []lasso.Event{lasso.KeyEvent(st.KeyRelease, false)}, nil
	case st.Press != nil:
		return st.Press.event(lasso.PointerPress, lasso.ButtonPrimary)
	case st.Move != nil:
		return st.Move.event(lasso.PointerMove, lasso.ButtonNone)
	case st.Release != nil:
		return st.Release.event(lasso.PointerRelease, lasso.ButtonPrimary)
	default:
		if st.Path.Surface == "" {
			return nil, errors.New("path needs a surface")
		}
		evs := make([]lasso.Event, 0, len(st.Path.Points))
		for _, p := range st.Path.Points {
			evs = append(evs, lasso.PointerEvent(lasso.PointerMove, lasso.SurfaceID(st.Path.Surface), p[0], p[1], lasso.ButtonNone))
		}
		return evs, nil
	}
}

func (p *Pointer) event(kind lasso.EventKind, def lasso.Button) ([]lasso.Event, error) {
	button, err := parseButton(p.Button, def)
	if err != nil {
		return nil, err
	}
	x, y := math.NaN(), math.NaN()
	if p.X != nil {
		x = *p.X
	}
	if p.Y != nil {
		y = *p.Y
	}
	return []lasso.Event{lasso.PointerEvent(kind, lasso.SurfaceID(p.Surface), x, y, button)}, nil
}

func parseButton(s string, def lasso.Button) (lasso.Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "primary", "left", "1":
		return lasso.ButtonPrimary, nil
	case "middle", "2":
		return lasso.ButtonMiddle, nil
	case "secondary", "right", "3":
		return lasso.ButtonSecondary, nil
	case "none":
		return lasso.ButtonNone, nil
	default:
		return lasso.ButtonNone, fmt.Errorf("unknown button %q", s)
	}
}

// Run feeds events to c in order and stops at the first handler error.
func Run(c *lasso.Controller, events []lasso.Event) error {
	for i, ev := range events {
		if err := c.Handle(ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev, err)
		}
	}
	return nil
}
