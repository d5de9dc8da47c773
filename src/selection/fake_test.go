package selection

import (
	"testing"

	"github.com/stretchr/testify/require"

	"plot-lasso/src/lasso"
)

type fakeMarkers struct {
	surface lasso.SurfaceID
	style   MarkerStyle
	xs, ys  []float64
	visible bool
}

func (m *fakeMarkers) SetOffsets(xs, ys []float64) { m.xs, m.ys = xs, ys }
func (m *fakeMarkers) SetVisible(v bool) { m.visible = v }

// Offsets makes the overlay look like any other scatter.
func (m *fakeMarkers) Offsets() ([]float64, []float64) { return m.xs, m.ys }

type fakeScatter struct {
	name   string
	xs, ys []float64
}

func (s *fakeScatter) Offsets() ([]float64, []float64) { return s.xs, s.ys }
func (s *fakeScatter) Label() string { return s.name }

type fakeLine struct {
	name   string
	xs, ys []float64
}

func (l *fakeLine) Data() ([]float64, []float64) { return l.xs, l.ys }
func (l *fakeLine) Label() string { return l.name }

type fakeText struct{ text string }

// valueScatter cannot be used as a map key.
type valueScatter struct{ xs, ys []float64 }

func (s valueScatter) Offsets() ([]float64, []float64) { return s.xs, s.ys }

type fakeScene struct {
	children map[lasso.SurfaceID][]any
	tools    map[lasso.SurfaceID][]any
	markers  []*fakeMarkers
	redraws  int
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		children: make(map[lasso.SurfaceID][]any),
		tools:    make(map[lasso.SurfaceID][]any),
	}
}

func (s *fakeScene) add(surface lasso.SurfaceID, objs ...any) {
	s.children[surface] = append(s.children[surface], objs...)
}

func (s *fakeScene) Children(surface lasso.SurfaceID) []any { return s.children[surface] }
func (s *fakeScene) ToolArtists(surface lasso.SurfaceID) []any { return s.tools[surface] }
func (s *fakeScene) Redraw() { s.redraws++ }

func (s *fakeScene) NewMarkers(surface lasso.SurfaceID, style MarkerStyle) Markers {
	m := &fakeMarkers{surface: surface, style: style, visible: true}
	s.markers = append(s.markers, m)
	s.add(surface, m)
	return m
}

func (s *fakeScene) markersOn(surface lasso.SurfaceID) []*fakeMarkers {
	var out []*fakeMarkers
	for _, m := range s.markers {
		if m.surface == surface {
			out = append(out, m)
		}
	}
	return out
}

// drawSession runs a lasso through pts on surface and returns the finished
// session, whatever its length.
func drawSession(t *testing.T, surface lasso.SurfaceID, pts ...[2]float64) *lasso.Session {
	t.Helper()
	require.NotEmpty(t, pts)

	c := lasso.New(lasso.Options{Modifiers: []string{}})
	require.NoError(t, c.Press(lasso.Sample{X: pts[0][0], Y: pts[0][1], Button: lasso.ButtonPrimary, Surface: surface}))
	for _, p := range pts[1:] {
		require.NoError(t, c.Move(lasso.Sample{X: p[0], Y: p[1], Surface: surface}))
	}
	last := pts[len(pts)-1]
	require.NoError(t, c.Release(lasso.Sample{X: last[0], Y: last[1], Button: lasso.ButtonPrimary, Surface: surface}))
	require.NotNil(t, c.Last())
	return c.Last()
}

// unitSquare encloses [-0.5, 1.5] on both axes.
var unitSquare = [][2]float64{{-0.5, -0.5}, {1.5, -0.5}, {1.5, 1.5}, {-0.5, 1.5}}
