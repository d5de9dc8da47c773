package tui

import (
	"github.com/gdamore/tcell/v2"

	"plot-lasso/src/hotkey"
	"plot-lasso/src/lasso"
)

// Terminals report modifiers only as part of mouse and key events, never
// their release. The mouse modifier mask is therefore diffed against what
// has been reported so far.
var modMasks = []struct {
	name string
	mask tcell.ModMask
}{
	{hotkey.Control, tcell.ModCtrl},
	{hotkey.Shift, tcell.ModShift},
	{hotkey.Alt, tcell.ModAlt},
	{hotkey.Super, tcell.ModMeta},
}

var buttonMasks = []struct {
	mask   tcell.ButtonMask
	button lasso.Button
}{
	{tcell.Button1, lasso.ButtonPrimary},
	{tcell.Button3, lasso.ButtonMiddle},
	{tcell.Button2, lasso.ButtonSecondary},
}

// samplerFunc turns a cell position into a lasso sample.
type samplerFunc func(col, row int, button lasso.Button) lasso.Sample

// input converts terminal mouse events into controller events.
type input struct {
	sample  samplerFunc
	tracked map[string]bool
	held    map[string]bool
	buttons tcell.ButtonMask

	// latched holds every tracked modifier down regardless of the mask.
	latched bool
}

func newInput(sample samplerFunc, modifiers []string) *input {
	in := &input{
		sample:  sample,
		tracked: make(map[string]bool),
		held:    make(map[string]bool),
	}
	for _, m := range modifiers {
		in.tracked[hotkey.Normalize(m)] = true
	}
	return in
}

// toggleLatch flips the latch and returns the key events that bring the
// controller in line with it.
func (in *input) toggleLatch() []lasso.Event {
	in.latched = !in.latched
	var out []lasso.Event
	for _, m := range modMasks {
		if !in.tracked[m.name] {
			continue
		}
		if in.latched && !in.held[m.name] {
			in.held[m.name] = true
			out = append(out, lasso.KeyEvent(m.name, true))
		}
		if !in.latched && in.held[m.name] {
			in.held[m.name] = false
			out = append(out, lasso.KeyEvent(m.name, false))
		}
	}
	return out
}

// release forgets all state, e.g. after the controller was reset.
func (in *input) release() {
	in.latched = false
	clear(in.held)
	in.buttons = 0
}

// mouse translates one mouse event.
func (in *input) mouse(ev *tcell.EventMouse) []lasso.Event {
	var out []lasso.Event

	if !in.latched {
		mods := ev.Modifiers()
		for _, m := range modMasks {
			if !in.tracked[m.name] {
				continue
			}
			down := mods&m.mask != 0
			if down != in.held[m.name] {
				in.held[m.name] = down
				out = append(out, lasso.KeyEvent(m.name, down))
			}
		}
	}

	col, row := ev.Position()
	buttons := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	changed := false
	for _, b := range buttonMasks {
		was, now := in.buttons&b.mask != 0, buttons&b.mask != 0
		switch {
		case !was && now:
			out = append(out, event(lasso.PointerPress, in.sample(col, row, b.button)))
			changed = true
		case was && !now:
			out = append(out, event(lasso.PointerRelease, in.sample(col, row, b.button)))
			changed = true
		}
	}
	in.buttons = buttons
	if !changed {
		out = append(out, event(lasso.PointerMove, in.sample(col, row, lasso.ButtonNone)))
	}
	return out
}

func event(kind lasso.EventKind, s lasso.Sample) lasso.Event {
	return lasso.Event{Kind: kind, Sample: s}
}
