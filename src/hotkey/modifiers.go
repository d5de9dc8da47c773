package hotkey

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical modifier names.
const (
	Control = "control"
	Shift   = "shift"
	Alt     = "alt"
	Super   = "super"
)

// DefaultModifiers is the gate used when nothing else is configured.
var DefaultModifiers = []string{Control}

// Split converts a combination string like "ctrl+shift" into normalized key
// names. Parts that are not modifiers are returned lower-cased.
func Split(combo string) []string {
	parts := strings.Split(strings.ToLower(combo), "+")
	var keys []string

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keys = append(keys, Normalize(part))
	}

	return keys
}

// Normalize maps the many spellings hosts use for modifier keys to the
// canonical names. Unknown names are returned unchanged.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("_", "", "-", "", " ", "").Replace(name)

	switch name {
	case "ctrl", "control", "leftcontrol", "rightcontrol", "lctrl", "rctrl",
		"controlleft", "controlright", "ctrlleft", "ctrlright":
		return Control
	case "shift", "leftshift", "rightshift", "lshift", "rshift",
		"shiftleft", "shiftright":
		return Shift
	case "alt", "option", "opt", "menu", "leftalt", "rightalt", "lalt", "ralt",
		"altleft", "altright", "altgr":
		return Alt
	case "super", "win", "cmd", "command", "meta", "leftsuper", "rightsuper",
		"superleft", "superright", "lwin", "rwin":
		return Super
	default:
		return name
	}
}

// IsModifier reports whether name normalizes to one of the canonical modifiers.
func IsModifier(name string) bool {
	switch Normalize(name) {
	case Control, Shift, Alt, Super:
		return true
	}
	return false
}

// ParseModifiers parses a modifier list separated by commas or '+'. An empty
// list yields DefaultModifiers. Duplicate names collapse.
func ParseModifiers(list string) ([]string, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return append([]string(nil), DefaultModifiers...), nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, field := range strings.Split(list, ",") {
		for _, name := range Split(field) {
			if !IsModifier(name) {
				return nil, fmt.Errorf("unknown modifier %q", name)
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return append([]string(nil), DefaultModifiers...), nil
	}
	return names, nil
}

// ModifierState tracks which of the configured modifiers are held. It is not
// safe for concurrent use; the owner serializes key events.
type ModifierState struct {
	pressed map[string]bool
}

// NewModifierState returns a state tracking names (normalized). An empty
// list tracks nothing and is always armed.
func NewModifierState(names []string) *ModifierState {
	s := &ModifierState{pressed: make(map[string]bool, len(names))}
	for _, n := range names {
		s.pressed[Normalize(n)] = false
	}
	return s
}

// Press marks every configured key in combo as held. It reports whether the
// armed condition changed.
func (s *ModifierState) Press(combo string) bool {
	return s.set(combo, true)
}

// Release marks every configured key in combo as released. It reports
// whether the armed condition changed.
func (s *ModifierState) Release(combo string) bool {
	return s.set(combo, false)
}

func (s *ModifierState) set(combo string, down bool) bool {
	before := s.Armed()
	for _, key := range Split(combo) {
		if _, ok := s.pressed[key]; ok {
			s.pressed[key] = down
		}
	}
	return before != s.Armed()
}

// Armed reports whether all configured modifiers are held.
func (s *ModifierState) Armed() bool {
	for _, down := range s.pressed {
		if !down {
			return false
		}
	}
	return true
}

// Pressed reports whether the named modifier is currently held.
func (s *ModifierState) Pressed(name string) bool {
	return s.pressed[Normalize(name)]
}

// Tracks reports whether name is one of the configured modifiers.
func (s *ModifierState) Tracks(name string) bool {
	_, ok := s.pressed[Normalize(name)]
	return ok
}

// Names returns the configured modifier names in sorted order.
func (s *ModifierState) Names() []string {
	names := make([]string, 0, len(s.pressed))
	for n := range s.pressed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Reset releases every modifier.
func (s *ModifierState) Reset() {
	for n := range s.pressed {
		s.pressed[n] = false
	}
}
