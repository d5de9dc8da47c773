package replay

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/lasso"
)

const square = `
modifiers: [control, shift]
events:
  - key_press: ctrl+shift
  - press: {surface: ax, x: 0, y: 0}
  - move: {surface: other, x: 9, y: 9}
  - path: {surface: ax, points: [[1, 0], [1, 1], [0, 1]]}
  - move: {surface: ax}
  - release: {surface: ax, x: 0, y: 1}
  - key_release: shift
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(square))
	require.NoError(t, err)
	assert.Equal(t, []string{"control", "shift"}, s.Modifiers)

	events, err := s.Events()
	require.NoError(t, err)
	require.Len(t, events, 9)

	assert.Equal(t, lasso.KeyEvent("ctrl+shift", true), events[0])
	assert.Equal(t, lasso.PointerEvent(lasso.PointerPress, "ax", 0, 0, lasso.ButtonPrimary), events[1])
	assert.Equal(t, lasso.PointerEvent(lasso.PointerMove, "ax", 1, 1, lasso.ButtonNone), events[4])
	assert.True(t, math.IsNaN(events[6].Sample.X))
	assert.Equal(t, lasso.PointerRelease, events[7].Kind)
	assert.Equal(t, lasso.KeyEvent("shift", false), events[8])
}

func TestRun(t *testing.T) {
	s, err := Parse([]byte(square))
	require.NoError(t, err)
	events, err := s.Events()
	require.NoError(t, err)

	var closed *lasso.Session
	c := lasso.New(lasso.Options{
		Modifiers: s.Modifiers,
		Handler: lasso.HandlerFuncs{Close: func(sess *lasso.Session) error {
			closed = sess
			return nil
		}},
	})
	require.NoError(t, Run(c, events))

	require.NotNil(t, closed)
	assert.Equal(t, 4, closed.Len())
	assert.Equal(t, lasso.SurfaceID("ax"), closed.Surface())
	assert.Equal(t, lasso.Idle, c.State())
}

func TestRunStopsAtError(t *testing.T) {
	s, err := Parse([]byte(square))
	require.NoError(t, err)
	events, err := s.Events()
	require.NoError(t, err)

	boom := errors.New("boom")
	c := lasso.New(lasso.Options{
		Modifiers: s.Modifiers,
		Handler:   lasso.HandlerFuncs{Close: func(*lasso.Session) error { return boom }},
	})
	err = Run(c, events)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "event 8")
	assert.Equal(t, lasso.Armed, c.State(), "remaining events were not applied")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "events: []", ErrEmptyScript},
		{"syntax", "events: [", nil},
		{"two fields", "events:\n  - {key_press: a, key_release: b}", nil},
		{"no fields", "events:\n  - {}", nil},
		{"bad button", "events:\n  - press: {surface: a, x: 0, y: 0, button: fourth}", nil},
		{"path without surface", "events:\n  - path: {points: [[0, 0]]}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.text))
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(square), 0o600))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 7)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
