// Package global reports modifier keys from a system-wide keyboard hook.
// It links libuiohook through gohook, so only desktop hosts import it; the
// modifier gate itself lives in the parent hotkey package.
package global

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gohook "github.com/robotn/gohook"

	"plot-lasso/src/hotkey"
)

// KeyFunc receives modifier transitions from the listener.
type KeyFunc func(name string, down bool)

// Listen installs a global keyboard hook and reports press/release
// transitions of the given modifiers to post until ctx is done. post runs on
// the hook goroutine; callers hand events over to their own loop.
func Listen(ctx context.Context, names []string, post KeyFunc, logger *slog.Logger) error {
	if post == nil {
		return errors.New("hotkey: nil callback")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	wanted := make(map[string]bool)
	for _, n := range names {
		n = hotkey.Normalize(n)
		if keyNameToKeycodes(n) == nil {
			return fmt.Errorf("hotkey: cannot map key %q to keycodes", n)
		}
		wanted[n] = true
	}
	if len(wanted) == 0 {
		return errors.New("hotkey: no modifiers to listen for")
	}

	logger.Info("global modifier listener configured", "modifiers", strings.Join(names, "+"))

	evChan := gohook.Start()
	if evChan == nil {
		return errors.New("hotkey: gohook.Start returned nil channel")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in hotkey goroutine", "panic", r)
			}
		}()
		defer gohook.End()

		keys := newHeldKeys()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-evChan:
				if !ok {
					logger.Info("hook event channel closed")
					return
				}
				name, code, down, ok := modifierForEvent(ev.Kind, ev.Keycode, ev.Rawcode)
				if !ok || !wanted[name] || !keys.update(name, code, down) {
					continue
				}
				logger.Debug("modifier transition", "key", name, "down", down)
				post(name, down)
			}
		}
	}()

	return nil
}

// heldKeys tracks the physical keys held for each modifier name. A name is
// down while any of its keys is, so releasing right Ctrl with left Ctrl still
// held is not a transition. Key repeat is not one either.
type heldKeys map[string]map[uint16]bool

func newHeldKeys() heldKeys { return make(heldKeys) }

// update records a key event and reports whether the name changed state.
func (h heldKeys) update(name string, code uint16, down bool) bool {
	codes := h[name]
	wasDown := len(codes) > 0
	if down {
		if codes == nil {
			codes = make(map[uint16]bool)
			h[name] = codes
		}
		codes[code] = true
	} else {
		delete(codes, code)
	}
	return wasDown != (len(codes) > 0)
}

// modifierForEvent classifies a hook event as a modifier transition and
// returns the code of the physical key.
func modifierForEvent(kind uint8, keycode, rawcode uint16) (string, uint16, bool, bool) {
	var down bool
	switch kind {
	case gohook.KeyDown, gohook.KeyHold:
		down = true
	case gohook.KeyUp:
		down = false
	default:
		return "", 0, false, false
	}

	lookup, code := keyNameToKeycodes, keycode
	if keycode == 0 {
		lookup, code = keyNameToRawcodes, rawcode
	}
	for _, name := range []string{hotkey.Control, hotkey.Shift, hotkey.Alt, hotkey.Super} {
		for _, c := range lookup(name) {
			if code == c {
				return name, code, down, true
			}
		}
	}
	return "", 0, false, false
}

// keyNameToKeycodes maps a modifier to its libuiohook virtual keycodes
// (left and right variants).
func keyNameToKeycodes(keyName string) []uint16 {
	switch hotkey.Normalize(keyName) {
	case hotkey.Control:
		return []uint16{0x001D, 0x0E1D} // VC_CONTROL_L, VC_CONTROL_R
	case hotkey.Shift:
		return []uint16{0x002A, 0x0036} // VC_SHIFT_L, VC_SHIFT_R
	case hotkey.Alt:
		return []uint16{0x0038, 0x0E38} // VC_ALT_L, VC_ALT_R
	case hotkey.Super:
		return []uint16{0x0E5B, 0x0E5C} // VC_META_L, VC_META_R
	default:
		return nil
	}
}

// keyNameToRawcodes maps a modifier to Windows virtual key rawcodes, used
// when the hook reports no portable keycode.
func keyNameToRawcodes(keyName string) []uint16 {
	switch hotkey.Normalize(keyName) {
	case hotkey.Control:
		return []uint16{162, 163} // VK_LCONTROL, VK_RCONTROL
	case hotkey.Shift:
		return []uint16{160, 161} // VK_LSHIFT, VK_RSHIFT
	case hotkey.Alt:
		return []uint16{164, 165} // VK_LMENU, VK_RMENU
	case hotkey.Super:
		return []uint16{91, 92} // VK_LWIN, VK_RWIN
	default:
		return nil
	}
}
