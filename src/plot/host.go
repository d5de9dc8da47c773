package plot

import (
	"log/slog"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
	"plot-lasso/src/selection"
)

// Presenter puts a figure on screen. Hosts (raster window, terminal)
// implement it.
type Presenter interface {
	// SaveBackground remembers the current pixels of the axes.
	SaveBackground(ax *Axes)
	// RestoreBackground puts the remembered pixels back.
	RestoreBackground(ax *Axes)
	// DrawArtist paints one artist, animated or not, on top of the axes.
	DrawArtist(ax *Axes, a Artist)
	// Blit shows the axes region.
	Blit(ax *Axes)
	// Draw repaints the whole figure, skipping animated artists.
	Draw(f *Figure)
}

// lassoArtists are the lines the lasso adds to an axes.
type lassoArtists struct {
	path   *Line
	guides [2]*Line
}

func (t *lassoArtists) all() []*Line {
	var out []*Line
	if t.path != nil {
		out = append(out, t.path)
	}
	for _, g := range t.guides {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

// Host adapts a Figure and a Presenter to the lasso renderer and the
// selection scene contracts.
type Host struct {
	fig    *Figure
	pres   Presenter
	logger *slog.Logger
	tools  map[lasso.SurfaceID]*lassoArtists
}

var (
	_ lasso.Renderer  = (*Host)(nil)
	_ selection.Scene = (*Host)(nil)
)

// NewHost returns a host drawing fig through pres.
func NewHost(fig *Figure, pres Presenter, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{
		fig:    fig,
		pres:   pres,
		logger: logger,
		tools:  make(map[lasso.SurfaceID]*lassoArtists),
	}
}

// Figure returns the hosted figure.
func (h *Host) Figure() *Figure { return h.fig }

func (h *Host) axes(surface lasso.SurfaceID) *Axes {
	ax := h.fig.Axes(surface)
	if ax == nil {
		h.logger.Warn("unknown surface", "surface", surface)
	}
	return ax
}

// SaveBackground snapshots the surface before any lasso is drawn on it.
func (h *Host) SaveBackground(surface lasso.SurfaceID) {
	if ax := h.axes(surface); ax != nil {
		h.pres.SaveBackground(ax)
	}
}

// ClearLasso removes the outline and guides from the surface.
func (h *Host) ClearLasso(surface lasso.SurfaceID) {
	t, ok := h.tools[surface]
	if !ok {
		return
	}
	delete(h.tools, surface)
	if ax := h.fig.Axes(surface); ax != nil {
		for _, l := range t.all() {
			ax.Remove(l)
		}
	}
}

// DrawLasso paints the open outline and its guides over the saved
// background.
func (h *Host) DrawLasso(surface lasso.SurfaceID, f lasso.Frame, style lasso.Style) {
	ax := h.axes(surface)
	if ax == nil {
		return
	}

	t, ok := h.tools[surface]
	if !ok {
		t = &lassoArtists{}
		h.tools[surface] = t
	}
	if t.path == nil {
		t.path = ax.Plot("lasso", nil, nil, style)
		t.path.Animated = true
	}
	for i := range t.guides {
		if t.guides[i] == nil {
			t.guides[i] = ax.Plot("lasso-guide", nil, nil, style)
			t.guides[i].Animated = true
		}
	}

	t.path.SetData(split(f.Path))
	for i, g := range f.Guides {
		t.guides[i].SetData(split(g[:]))
	}

	h.pres.RestoreBackground(ax)
	for _, l := range t.all() {
		h.pres.DrawArtist(ax, l)
	}
	h.pres.Blit(ax)
}

// FinishLasso drops the guides and leaves the closed outline as a regular
// line, visible until the next session starts.
func (h *Host) FinishLasso(surface lasso.SurfaceID, closed []geometry.Point, style lasso.Style) {
	ax := h.axes(surface)
	if ax == nil {
		return
	}

	t, ok := h.tools[surface]
	if !ok {
		t = &lassoArtists{}
		h.tools[surface] = t
	}
	for i, g := range t.guides {
		if g != nil {
			ax.Remove(g)
			t.guides[i] = nil
		}
	}
	if t.path == nil {
		t.path = ax.Plot("lasso", nil, nil, style)
	}
	t.path.SetData(split(closed))
	t.path.Animated = false
}

// Redraw repaints the whole figure.
func (h *Host) Redraw() { h.pres.Draw(h.fig) }

// Children lists the artists of the surface.
func (h *Host) Children(surface lasso.SurfaceID) []any {
	ax := h.fig.Axes(surface)
	if ax == nil {
		return nil
	}
	children := ax.Children()
	out := make([]any, len(children))
	for i, c := range children {
		out[i] = c
	}
	return out
}

// ToolArtists lists the lines the lasso added to the surface.
func (h *Host) ToolArtists(surface lasso.SurfaceID) []any {
	t, ok := h.tools[surface]
	if !ok {
		return nil
	}
	var out []any
	for _, l := range t.all() {
		out = append(out, l)
	}
	return out
}

// NewMarkers adds an empty scatter used to highlight selections.
func (h *Host) NewMarkers(surface lasso.SurfaceID, style selection.MarkerStyle) selection.Markers {
	ax := h.fig.Axes(surface)
	if ax == nil {
		h.logger.Warn("markers requested for unknown surface", "surface", surface)
		return &Scatter{base: newBase("selection"), Style: style}
	}
	return ax.Scatter("selection", nil, nil, style)
}

func split(pts []geometry.Point) (xs, ys []float64) {
	xs = make([]float64, len(pts))
	ys = make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}
