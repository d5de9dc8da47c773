package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
)

var (
	// ErrUnknownSurface is returned when a session closes on a surface the
	// handler has no data for.
	ErrUnknownSurface = errors.New("no data configured for surface")
	// ErrLinkedLength is returned when linked surfaces hold point sets of
	// different sizes.
	ErrLinkedLength = errors.New("linked surfaces must hold the same number of points")
)

// XYOptions configures an XYHandler.
type XYOptions struct {
	// Markers styles the overlays. The zero value means DefaultMarkerStyle.
	Markers MarkerStyle
	// OnSelect receives the mask and one hit per configured surface, sorted
	// by surface. Its error is returned from OnClose.
	OnSelect func(mask geometry.Mask, hits []Hit) error
	Logger   *slog.Logger
}

// XYHandler selects from explicitly given point sets. Every configured
// surface shows the same records, so the mask computed on the surface where
// the lasso was drawn is applied to all of them.
type XYHandler struct {
	scene    Scene
	data     map[lasso.SurfaceID]XY
	surfaces []lasso.SurfaceID
	style    MarkerStyle
	onSelect func(geometry.Mask, []Hit) error
	logger   *slog.Logger

	markers map[lasso.SurfaceID]Markers
	last    geometry.Mask
}

// NewXYHandler validates data and returns a handler drawing overlays on scene.
func NewXYHandler(scene Scene, data map[lasso.SurfaceID]XY, opts XYOptions) (*XYHandler, error) {
	h := &XYHandler{
		scene:    scene,
		data:     make(map[lasso.SurfaceID]XY, len(data)),
		style:    opts.Markers,
		onSelect: opts.OnSelect,
		logger:   opts.Logger,
		markers:  make(map[lasso.SurfaceID]Markers, len(data)),
	}
	if h.style == (MarkerStyle{}) {
		h.style = DefaultMarkerStyle()
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}

	n := -1
	for surface, xy := range data {
		if err := xy.validate(); err != nil {
			return nil, fmt.Errorf("surface %q: %w", surface, err)
		}
		if n >= 0 && xy.Len() != n {
			return nil, fmt.Errorf("%w: surface %q has %d points, expected %d", ErrLinkedLength, surface, xy.Len(), n)
		}
		n = xy.Len()
		h.data[surface] = xy
		h.surfaces = append(h.surfaces, surface)
	}
	sort.Slice(h.surfaces, func(i, j int) bool { return h.surfaces[i] < h.surfaces[j] })
	return h, nil
}

// Surfaces returns the configured surfaces in sorted order.
func (h *XYHandler) Surfaces() []lasso.SurfaceID {
	return append([]lasso.SurfaceID(nil), h.surfaces...)
}

// Last returns the most recent selection mask, or nil.
func (h *XYHandler) Last() geometry.Mask { return h.last }

// Clear hides the highlights and forgets the last selection. The caller
// redraws.
func (h *XYHandler) Clear() {
	for _, m := range h.markers {
		m.SetVisible(false)
	}
	h.last = nil
}

// OnOpen creates the overlays on first use and hides them afterwards.
func (h *XYHandler) OnOpen(*lasso.Session) error {
	for _, surface := range h.surfaces {
		if m, ok := h.markers[surface]; ok {
			m.SetVisible(false)
			continue
		}
		h.markers[surface] = h.scene.NewMarkers(surface, h.style)
	}
	return nil
}

// OnClose selects, highlights the selection on every surface and notifies
// OnSelect.
func (h *XYHandler) OnClose(s *lasso.Session) error {
	mask, err := h.Select(s)
	if err != nil {
		return err
	}

	hits := make([]Hit, 0, len(h.surfaces))
	for _, surface := range h.surfaces {
		xy := h.data[surface]
		hits = append(hits, Hit{Surface: surface, Source: string(surface), X: xy.X, Y: xy.Y, Mask: mask})

		m, ok := h.markers[surface]
		if !ok {
			m = h.scene.NewMarkers(surface, h.style)
			h.markers[surface] = m
		}
		m.SetOffsets(mask.Filter(xy.X, xy.Y))
		m.SetVisible(true)
	}
	h.scene.Redraw()

	h.logger.Info("selection", "surface", s.Surface(), "selected", mask.Count(), "of", len(mask))
	if h.onSelect != nil {
		return h.onSelect(mask, hits)
	}
	return nil
}

// Select computes the mask of the session surface's points inside the
// session outline and records it as Last.
func (h *XYHandler) Select(s *lasso.Session) (geometry.Mask, error) {
	xy, ok := h.data[s.Surface()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSurface, s.Surface())
	}
	mask, err := s.Contains(xy.X, xy.Y)
	if err != nil {
		return nil, fmt.Errorf("select on %q: %w", s.Surface(), err)
	}
	h.last = mask
	return mask, nil
}
