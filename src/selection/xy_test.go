package selection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
)

func linkedData() map[lasso.SurfaceID]XY {
	return map[lasso.SurfaceID]XY{
		"a": {X: []float64{0, 1, 2}, Y: []float64{0, 1, 2}},
		"b": {X: []float64{10, 20, 30}, Y: []float64{5, 6, 7}},
	}
}

func TestXYHandlerLinkedSelection(t *testing.T) {
	scene := newFakeScene()
	var gotHits []Hit
	h, err := NewXYHandler(scene, linkedData(), XYOptions{
		OnSelect: func(_ geometry.Mask, hits []Hit) error {
			gotHits = hits
			return nil
		},
	})
	require.NoError(t, err)

	sess := drawSession(t, "a", unitSquare...)
	require.NoError(t, h.OnOpen(sess))
	require.Len(t, scene.markers, 2)

	require.NoError(t, h.OnClose(sess))
	assert.Equal(t, geometry.Mask{true, true, false}, h.Last())
	assert.Equal(t, 1, scene.redraws)

	a := scene.markersOn("a")[0]
	assert.True(t, a.visible)
	assert.Equal(t, []float64{0, 1}, a.xs)

	b := scene.markersOn("b")[0]
	assert.True(t, b.visible)
	assert.Equal(t, []float64{10, 20}, b.xs)
	assert.Equal(t, []float64{5, 6}, b.ys)
	assert.Equal(t, DefaultMarkerStyle(), b.style)

	require.Len(t, gotHits, 2)
	assert.Equal(t, lasso.SurfaceID("a"), gotHits[0].Surface)
	assert.Equal(t, lasso.SurfaceID("b"), gotHits[1].Surface)
	assert.Equal(t, 2, gotHits[1].Summary().Count)
}

func TestXYHandlerReopenHidesMarkers(t *testing.T) {
	scene := newFakeScene()
	h, err := NewXYHandler(scene, linkedData(), XYOptions{})
	require.NoError(t, err)

	sess := drawSession(t, "b", [2]float64{0, 0}, [2]float64{100, 0}, [2]float64{100, 100}, [2]float64{0, 100})
	require.NoError(t, h.OnOpen(sess))
	require.NoError(t, h.OnClose(sess))
	assert.Equal(t, geometry.Mask{true, true, true}, h.Last())

	require.NoError(t, h.OnOpen(sess))
	assert.Len(t, scene.markers, 2, "overlays are reused")
	for _, m := range scene.markers {
		assert.False(t, m.visible)
	}
}

func TestNewXYHandlerValidation(t *testing.T) {
	tests := []struct {
		name string
		data map[lasso.SurfaceID]XY
		want error
	}{
		{
			name: "length mismatch",
			data: map[lasso.SurfaceID]XY{"a": {X: []float64{1, 2}, Y: []float64{1}}},
			want: geometry.ErrLengthMismatch,
		},
		{
			name: "linked length",
			data: map[lasso.SurfaceID]XY{
				"a": {X: []float64{1, 2}, Y: []float64{1, 2}},
				"b": {X: []float64{1}, Y: []float64{1}},
			},
			want: ErrLinkedLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewXYHandler(newFakeScene(), tt.data, XYOptions{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestXYHandlerErrors(t *testing.T) {
	scene := newFakeScene()
	h, err := NewXYHandler(scene, linkedData(), XYOptions{})
	require.NoError(t, err)

	t.Run("unknown surface", func(t *testing.T) {
		sess := drawSession(t, "c", unitSquare...)
		_, err := h.Select(sess)
		assert.ErrorIs(t, err, ErrUnknownSurface)
	})

	t.Run("invalid polygon", func(t *testing.T) {
		sess := drawSession(t, "a", [2]float64{0, 0}, [2]float64{1, 1})
		_, err := h.Select(sess)
		assert.ErrorIs(t, err, geometry.ErrInvalidPolygon)
	})

	t.Run("callback error", func(t *testing.T) {
		boom := errors.New("boom")
		h, err := NewXYHandler(scene, linkedData(), XYOptions{
			OnSelect: func(geometry.Mask, []Hit) error { return boom },
		})
		require.NoError(t, err)
		sess := drawSession(t, "a", unitSquare...)
		require.NoError(t, h.OnOpen(sess))
		assert.ErrorIs(t, h.OnClose(sess), boom)
	})
}

func TestXYHandlerThroughController(t *testing.T) {
	scene := newFakeScene()
	h, err := NewXYHandler(scene, linkedData(), XYOptions{})
	require.NoError(t, err)

	c := lasso.New(lasso.Options{Handler: h, Modifiers: []string{"shift"}})
	c.KeyPress("shift")
	require.NoError(t, c.Press(lasso.Sample{X: 1.5, Y: 1.5, Button: lasso.ButtonPrimary, Surface: "a"}))
	for _, p := range [][2]float64{{2.5, 1.5}, {2.5, 2.5}, {1.5, 2.5}} {
		require.NoError(t, c.Move(lasso.Sample{X: p[0], Y: p[1], Surface: "a"}))
	}
	require.NoError(t, c.Release(lasso.Sample{X: 1.5, Y: 2.5, Button: lasso.ButtonPrimary, Surface: "a"}))

	assert.Equal(t, geometry.Mask{false, false, true}, h.Last())
	assert.Equal(t, []lasso.SurfaceID{"a", "b"}, h.Surfaces())
}

func TestXYHandlerClear(t *testing.T) {
	scene := newFakeScene()
	h, err := NewXYHandler(scene, linkedData(), XYOptions{})
	require.NoError(t, err)

	sess := drawSession(t, "a", unitSquare...)
	require.NoError(t, h.OnOpen(sess))
	require.NoError(t, h.OnClose(sess))
	require.NotNil(t, h.Last())

	h.Clear()
	assert.Nil(t, h.Last())
	for _, m := range scene.markers {
		assert.False(t, m.visible)
	}
}
