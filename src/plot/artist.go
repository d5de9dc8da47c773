package plot

import (
	"fmt"

	"github.com/google/uuid"

	"plot-lasso/src/lasso"
	"plot-lasso/src/selection"
)

// Artist is anything drawn inside an Axes.
type Artist interface {
	ID() string
	Visible() bool
	SetVisible(visible bool)
}

type base struct {
	id      string
	name    string
	visible bool
}

func newBase(name string) base {
	return base{id: uuid.NewString(), name: name, visible: true}
}

func (b *base) ID() string { return b.id }
func (b *base) Visible() bool { return b.visible }
func (b *base) SetVisible(visible bool) { b.visible = visible }

func (b *base) label(kind string) string {
	if b.name != "" {
		return b.name
	}
	return fmt.Sprintf("%s-%s", kind, b.id[:8])
}

// Scatter is a set of markers at data positions.
type Scatter struct {
	base
	xs, ys []float64
	Style  selection.MarkerStyle
}

// Offsets returns the marker positions.
func (s *Scatter) Offsets() ([]float64, []float64) { return s.xs, s.ys }

// SetOffsets replaces the marker positions. The slices are copied.
func (s *Scatter) SetOffsets(xs, ys []float64) {
	s.xs = append([]float64(nil), xs...)
	s.ys = append([]float64(nil), ys...)
}

// Label returns the configured name or a generated one.
func (s *Scatter) Label() string { return s.label("scatter") }

// Line is a polyline through data positions.
type Line struct {
	base
	xs, ys []float64
	Style  lasso.Style
	// Animated lines are left out of full redraws and only painted through
	// Presenter.DrawArtist.
	Animated bool
}

// Data returns the vertex coordinates.
func (l *Line) Data() ([]float64, []float64) { return l.xs, l.ys }

// SetData replaces the vertices. The slices are copied.
func (l *Line) SetData(xs, ys []float64) {
	l.xs = append([]float64(nil), xs...)
	l.ys = append([]float64(nil), ys...)
}

// Label returns the configured name or a generated one.
func (l *Line) Label() string { return l.label("line") }

// Text is a string anchored at a data position.
type Text struct {
	base
	X, Y    float64
	Content string
	Color   string
}

// Label returns the configured name or a generated one.
func (t *Text) Label() string { return t.label("text") }
