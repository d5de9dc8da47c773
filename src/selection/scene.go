package selection

import (
	"fmt"
	"reflect"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
)

// Scene is the plotting host seen by the selection handlers.
type Scene interface {
	// Children lists the objects drawn on a surface.
	Children(surface lasso.SurfaceID) []any
	// ToolArtists lists the objects the lasso itself added to a surface.
	ToolArtists(surface lasso.SurfaceID) []any
	// NewMarkers adds an empty, visible marker overlay to a surface.
	NewMarkers(surface lasso.SurfaceID, style MarkerStyle) Markers
	// Redraw repaints the scene.
	Redraw()
}

// Markers is an overlay highlighting selected points.
type Markers interface {
	SetOffsets(xs, ys []float64)
	SetVisible(visible bool)
}

// OffsetSource is a scatter-like object exposing its point offsets.
type OffsetSource interface {
	Offsets() (xs, ys []float64)
}

// DataSource is a line-like object exposing its vertex data.
type DataSource interface {
	Data() (xs, ys []float64)
}

// Labeled objects name themselves in reports.
type Labeled interface {
	Label() string
}

// MarkerStyle describes the selection overlay.
type MarkerStyle struct {
	Color  string
	Symbol string
	Size   float64
}

// DefaultMarkerStyle draws red crosses.
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{Color: "r", Symbol: "x", Size: 6}
}

// XY is a point set given as parallel coordinate slices.
type XY struct {
	X []float64
	Y []float64
}

// Len returns the number of points.
func (xy XY) Len() int { return len(xy.X) }

func (xy XY) validate() error {
	if len(xy.X) != len(xy.Y) {
		return fmt.Errorf("%w: %d x values, %d y values", geometry.ErrLengthMismatch, len(xy.X), len(xy.Y))
	}
	return nil
}

// Hit is the outcome of one selection against one point set.
type Hit struct {
	Surface lasso.SurfaceID
	// Source names the point set: the object label, or the surface for
	// explicitly configured data.
	Source string
	X      []float64
	Y      []float64
	Mask   geometry.Mask
}

// Selected returns the coordinates of the selected points.
func (h Hit) Selected() ([]float64, []float64) {
	return h.Mask.Filter(h.X, h.Y)
}

// Summary returns count and means of the selected points.
func (h Hit) Summary() Summary {
	return Summarize(h.X, h.Y, h.Mask)
}

// pointsOf extracts coordinates from a supported object.
func pointsOf(obj any) (XY, bool) {
	switch src := obj.(type) {
	case OffsetSource:
		xs, ys := src.Offsets()
		return XY{X: xs, Y: ys}, true
	case DataSource:
		xs, ys := src.Data()
		return XY{X: xs, Y: ys}, true
	default:
		return XY{}, false
	}
}

func labelOf(obj any) string {
	if l, ok := obj.(Labeled); ok {
		return l.Label()
	}
	return fmt.Sprintf("%T", obj)
}

// hashable reports whether obj can be used as a map key.
func hashable(obj any) bool {
	return obj != nil && reflect.TypeOf(obj).Comparable()
}

// sameObject compares identities without panicking on uncomparable values.
func sameObject(a, b any) bool {
	if !hashable(a) || !hashable(b) {
		return false
	}
	return a == b
}
