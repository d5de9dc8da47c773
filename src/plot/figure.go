package plot

import (
	"image"
	"math"

	"plot-lasso/src/lasso"
	"plot-lasso/src/selection"
)

// Range is a closed data interval.
type Range struct {
	Min float64
	Max float64
}

// Span returns Max-Min, or 1 for empty ranges.
func (r Range) Span() float64 {
	if d := r.Max - r.Min; d != 0 {
		return d
	}
	return 1
}

// Figure is a canvas holding axes.
type Figure struct {
	Width  int
	Height int
	Title  string

	axes   []*Axes
	byID   map[lasso.SurfaceID]*Axes
	linked map[lasso.SurfaceID]selection.XY
}

// NewFigure returns an empty figure of the given pixel size.
func NewFigure(width, height int) *Figure {
	return &Figure{
		Width:  width,
		Height: height,
		byID:   make(map[lasso.SurfaceID]*Axes),
	}
}

// Bounds returns the canvas rectangle.
func (f *Figure) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// AddAxes adds a plotting surface covering rect (pixels) and showing the
// data ranges xlim and ylim. An existing axes with the same id is replaced.
func (f *Figure) AddAxes(id lasso.SurfaceID, rect image.Rectangle, xlim, ylim Range) *Axes {
	ax := &Axes{id: id, rect: rect.Canon(), xlim: xlim, ylim: ylim}
	if old, ok := f.byID[id]; ok {
		for i, a := range f.axes {
			if a == old {
				f.axes = append(f.axes[:i], f.axes[i+1:]...)
				break
			}
		}
	}
	f.axes = append(f.axes, ax)
	f.byID[id] = ax
	return ax
}

// Axes returns the axes with the given id, or nil.
func (f *Figure) Axes(id lasso.SurfaceID) *Axes { return f.byID[id] }

// AllAxes returns the axes in the order they were added.
func (f *Figure) AllAxes() []*Axes { return append([]*Axes(nil), f.axes...) }

// AxesAt returns the topmost axes containing the pixel, or nil.
func (f *Figure) AxesAt(px, py float64) *Axes {
	for i := len(f.axes) - 1; i >= 0; i-- {
		if f.axes[i].ContainsPixel(px, py) {
			return f.axes[i]
		}
	}
	return nil
}

// ToLassoSample hit-tests a pixel position and converts it to data
// coordinates of the axes under it. Outside every axes the sample has no
// surface and NaN coordinates.
func (f *Figure) ToLassoSample(px, py float64, button lasso.Button) lasso.Sample {
	ax := f.AxesAt(px, py)
	if ax == nil {
		return lasso.Sample{X: math.NaN(), Y: math.NaN(), Button: button}
	}
	x, y := ax.ToData(px, py)
	return lasso.Sample{X: x, Y: y, Button: button, Surface: ax.id}
}

// SetLinked records point sets shared across surfaces, for handlers that
// select from explicit data.
func (f *Figure) SetLinked(data map[lasso.SurfaceID]selection.XY) { f.linked = data }

// Linked returns the point sets recorded with SetLinked.
func (f *Figure) Linked() map[lasso.SurfaceID]selection.XY { return f.linked }

// Axes is one plotting surface.
type Axes struct {
	id       lasso.SurfaceID
	rect     image.Rectangle
	xlim     Range
	ylim     Range
	children []Artist

	Title string
}

func (a *Axes) ID() lasso.SurfaceID { return a.id }
func (a *Axes) Rect() image.Rectangle { return a.rect }
func (a *Axes) Limits() (x, y Range) { return a.xlim, a.ylim }
func (a *Axes) SetLimits(x, y Range) { a.xlim, a.ylim = x, y }
func (a *Axes) Children() []Artist { return append([]Artist(nil), a.children...) }
func (a *Axes) Add(artist Artist) { a.children = append(a.children, artist) }
func (a *Axes) ContainsPixel(px, py float64) bool {
	r := a.rect
	return px >= float64(r.Min.X) && px <= float64(r.Max.X) &&
		py >= float64(r.Min.Y) && py <= float64(r.Max.Y)
}

// Remove detaches artist. It reports whether the artist was present.
func (a *Axes) Remove(artist Artist) bool {
	for i, c := range a.children {
		if c == artist {
			a.children = append(a.children[:i], a.children[i+1:]...)
			return true
		}
	}
	return false
}

// ToData converts a pixel position to data coordinates. Pixel y grows
// downwards, data y upwards.
func (a *Axes) ToData(px, py float64) (x, y float64) {
	r := a.rect
	fx := (px - float64(r.Min.X)) / math.Max(float64(r.Dx()), 1)
	fy := (float64(r.Max.Y) - py) / math.Max(float64(r.Dy()), 1)
	return a.xlim.Min + fx*a.xlim.Span(), a.ylim.Min + fy*a.ylim.Span()
}

// ToPixel converts data coordinates to a pixel position.
func (a *Axes) ToPixel(x, y float64) (px, py float64) {
	r := a.rect
	fx := (x - a.xlim.Min) / a.xlim.Span()
	fy := (y - a.ylim.Min) / a.ylim.Span()
	return float64(r.Min.X) + fx*float64(r.Dx()), float64(r.Max.Y) - fy*float64(r.Dy())
}

// Scatter adds markers at (xs[i], ys[i]).
func (a *Axes) Scatter(name string, xs, ys []float64, style selection.MarkerStyle) *Scatter {
	s := &Scatter{base: newBase(name), Style: style}
	s.SetOffsets(xs, ys)
	a.Add(s)
	return s
}

// Plot adds a polyline through (xs[i], ys[i]).
func (a *Axes) Plot(name string, xs, ys []float64, style lasso.Style) *Line {
	l := &Line{base: newBase(name), Style: style}
	l.SetData(xs, ys)
	a.Add(l)
	return l
}

// Text adds a label at (x, y).
func (a *Axes) Text(x, y float64, s string) *Text {
	t := &Text{base: newBase(""), X: x, Y: y, Content: s, Color: "k"}
	a.Add(t)
	return t
}

// AutoScale fits the limits to the data of every scatter and line, with a 5%
// margin. Axes without data keep their limits.
func (a *Axes) AutoScale() {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(xs, ys []float64) {
		for i := range xs {
			if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				continue
			}
			minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
			minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
		}
	}
	for _, c := range a.children {
		switch v := c.(type) {
		case *Scatter:
			grow(v.Offsets())
		case *Line:
			grow(v.Data())
		}
	}
	if math.IsInf(minX, 1) {
		return
	}
	padX := (maxX - minX) * 0.05
	padY := (maxY - minY) * 0.05
	if padX == 0 {
		padX = 0.5
	}
	if padY == 0 {
		padY = 0.5
	}
	a.xlim = Range{Min: minX - padX, Max: maxX + padX}
	a.ylim = Range{Min: minY - padY, Max: maxY + padY}
}
