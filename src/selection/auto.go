package selection

import (
	"fmt"
	"log/slog"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
)

// Picked maps each object with at least one selected point to its mask.
type Picked map[any]geometry.Mask

// AutoOptions configures an AutoHandler.
type AutoOptions struct {
	// Markers styles the overlay. The zero value means DefaultMarkerStyle.
	Markers MarkerStyle
	// OnPick receives the picked objects and their hits in drawing order.
	// It is called even when nothing was picked. Its error is returned from
	// OnClose.
	OnPick func(picked Picked, hits []Hit) error
	Logger *slog.Logger
}

// AutoHandler selects from whatever scatter and line objects are drawn on
// the surface where the lasso was closed.
type AutoHandler struct {
	scene  Scene
	style  MarkerStyle
	onPick func(Picked, []Hit) error
	logger *slog.Logger

	markers map[lasso.SurfaceID]Markers
	last    Picked
}

// NewAutoHandler returns a handler discovering point sets in scene.
func NewAutoHandler(scene Scene, opts AutoOptions) *AutoHandler {
	h := &AutoHandler{
		scene:   scene,
		style:   opts.Markers,
		onPick:  opts.OnPick,
		logger:  opts.Logger,
		markers: make(map[lasso.SurfaceID]Markers),
	}
	if h.style == (MarkerStyle{}) {
		h.style = DefaultMarkerStyle()
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Last returns the most recent pick, or nil.
func (h *AutoHandler) Last() Picked { return h.last }

// Clear hides the highlights and forgets the last pick. The caller redraws.
func (h *AutoHandler) Clear() {
	for _, m := range h.markers {
		m.SetVisible(false)
	}
	h.last = nil
}

// OnOpen creates the session surface's overlay on first use and hides it
// afterwards.
func (h *AutoHandler) OnOpen(s *lasso.Session) error {
	if m, ok := h.markers[s.Surface()]; ok {
		m.SetVisible(false)
		return nil
	}
	h.markers[s.Surface()] = h.scene.NewMarkers(s.Surface(), h.style)
	return nil
}

// OnClose picks points, highlights them and notifies OnPick.
func (h *AutoHandler) OnClose(s *lasso.Session) error {
	picked, hits, err := h.pick(s)
	if err != nil {
		return err
	}

	if len(hits) > 0 {
		var xs, ys []float64
		for _, hit := range hits {
			hx, hy := hit.Selected()
			xs = append(xs, hx...)
			ys = append(ys, hy...)
		}
		m, ok := h.markers[s.Surface()]
		if !ok {
			m = h.scene.NewMarkers(s.Surface(), h.style)
			h.markers[s.Surface()] = m
		}
		m.SetOffsets(xs, ys)
		m.SetVisible(true)
		h.scene.Redraw()
	}

	if h.onPick != nil {
		return h.onPick(picked, hits)
	}
	return nil
}

// Select returns the masks of every supported object on the session surface
// with at least one point inside the outline.
func (h *AutoHandler) Select(s *lasso.Session) (Picked, error) {
	picked, _, err := h.pick(s)
	return picked, err
}

func (h *AutoHandler) pick(s *lasso.Session) (Picked, []Hit, error) {
	poly := s.Polygon()
	if err := poly.Validate(); err != nil {
		return nil, nil, fmt.Errorf("select on %q: %w", s.Surface(), err)
	}

	surface := s.Surface()
	skip := append([]any(nil), h.scene.ToolArtists(surface)...)
	for _, m := range h.markers {
		skip = append(skip, m)
	}

	picked := make(Picked)
	var hits []Hit
	for _, child := range h.scene.Children(surface) {
		if isAny(child, skip) {
			continue
		}
		if !hashable(child) {
			h.logger.Debug("object is not supported, skipping", "object", fmt.Sprintf("%T", child))
			continue
		}
		xy, ok := pointsOf(child)
		if !ok {
			h.logger.Debug("object is not supported, skipping", "object", labelOf(child))
			continue
		}
		mask, err := geometry.Contains(poly, xy.X, xy.Y)
		if err != nil {
			h.logger.Debug("object has malformed data, skipping", "object", labelOf(child), "error", err)
			continue
		}
		if !mask.Any() {
			continue
		}
		h.logger.Info("picked", "object", labelOf(child), "indices", mask.Indices())
		picked[child] = mask
		hits = append(hits, Hit{Surface: surface, Source: labelOf(child), X: xy.X, Y: xy.Y, Mask: mask})
	}

	h.last = picked
	return picked, hits, nil
}

func isAny(obj any, set []any) bool {
	for _, o := range set {
		if sameObject(obj, o) {
			return true
		}
	}
	return false
}
