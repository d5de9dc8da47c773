package lasso

import "plot-lasso/src/geometry"

// Style is the look of the lasso outline and its closing guides.
type Style struct {
	// Color is a color name or hex string understood by the presenter.
	Color string
	// LineStyle is one of "-", "--", ":" or "-.".
	LineStyle string
	// Width is the stroke width in pixels.
	Width float64
}

// DefaultStyle is a thin dotted black line.
func DefaultStyle() Style {
	return Style{Color: "k", LineStyle: ":", Width: 1}
}

// Frame is what has to be shown while a session is open.
type Frame struct {
	// Path is the outline accumulated so far, in time order.
	Path []geometry.Point
	// Guides are the segments first-sample→cursor and last-sample→cursor.
	Guides [2][2]geometry.Point
}

// Renderer draws visual feedback. Selection results never depend on it.
type Renderer interface {
	// SaveBackground captures the surface so later frames can be drawn
	// incrementally on top of it.
	SaveBackground(surface SurfaceID)
	// ClearLasso removes the outline of a previous session.
	ClearLasso(surface SurfaceID)
	// DrawLasso restores the saved background and draws the frame.
	DrawLasso(surface SurfaceID, f Frame, style Style)
	// FinishLasso removes the guides and leaves the closed outline.
	FinishLasso(surface SurfaceID, closed []geometry.Point, style Style)
	// Redraw repaints everything.
	Redraw()
}

// NopRenderer draws nothing.
type NopRenderer struct{}

func (NopRenderer) SaveBackground(SurfaceID) {}
func (NopRenderer) ClearLasso(SurfaceID) {}
func (NopRenderer) DrawLasso(SurfaceID, Frame, Style) {}
func (NopRenderer) FinishLasso(SurfaceID, []geometry.Point, Style) {}
func (NopRenderer) Redraw() {}
