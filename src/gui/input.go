package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"plot-lasso/src/hotkey"
	"plot-lasso/src/lasso"
)

var modifierMasks = []struct {
	name string
	mask fyne.KeyModifier
}{
	{hotkey.Control, fyne.KeyModifierControl},
	{hotkey.Shift, fyne.KeyModifierShift},
	{hotkey.Alt, fyne.KeyModifierAlt},
	{hotkey.Super, fyne.KeyModifierSuper},
}

// modSync keeps track of the modifiers reported to the controller. Window
// key events and the modifier mask on mouse events both feed it, so a
// modifier released while another window had focus is still noticed. Left
// and right keys are tracked separately; a modifier is up once both are.
type modSync struct {
	tracked map[string]bool
	held    map[string]bool
	keys    map[string]map[fyne.KeyName]bool
}

func newModSync(modifiers []string) *modSync {
	m := &modSync{
		tracked: make(map[string]bool),
		held:    make(map[string]bool),
		keys:    make(map[string]map[fyne.KeyName]bool),
	}
	for _, name := range modifiers {
		m.tracked[hotkey.Normalize(name)] = true
	}
	return m
}

// key handles a window key event. Only tracked modifiers produce events.
func (m *modSync) key(name fyne.KeyName, down bool) []lasso.Event {
	n := hotkey.Normalize(string(name))
	if !m.tracked[n] {
		return nil
	}
	if down {
		if m.keys[n] == nil {
			m.keys[n] = make(map[fyne.KeyName]bool)
		}
		m.keys[n][name] = true
	} else {
		delete(m.keys[n], name)
		down = len(m.keys[n]) > 0
	}
	if m.held[n] == down {
		return nil
	}
	m.held[n] = down
	return []lasso.Event{lasso.KeyEvent(n, down)}
}

// mask brings the held set in line with a mouse event's modifier mask.
func (m *modSync) mask(mod fyne.KeyModifier) []lasso.Event {
	var out []lasso.Event
	for _, mm := range modifierMasks {
		if !m.tracked[mm.name] {
			continue
		}
		down := mod&mm.mask != 0
		if !down {
			delete(m.keys, mm.name)
		}
		if down != m.held[mm.name] {
			m.held[mm.name] = down
			out = append(out, lasso.KeyEvent(mm.name, down))
		}
	}
	return out
}

func (m *modSync) reset() {
	clear(m.held)
	clear(m.keys)
}

func buttonOf(b desktop.MouseButton) lasso.Button {
	switch {
	case b&desktop.MouseButtonPrimary != 0:
		return lasso.ButtonPrimary
	case b&desktop.MouseButtonSecondary != 0:
		return lasso.ButtonSecondary
	case b&desktop.MouseButtonTertiary != 0:
		return lasso.ButtonMiddle
	default:
		return lasso.ButtonNone
	}
}
