package plot

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/lasso"
	"plot-lasso/src/selection"
)

func testFigure() *Figure {
	fig := NewFigure(200, 100)
	fig.AddAxes("left", image.Rect(0, 0, 100, 100), Range{0, 10}, Range{0, 10})
	fig.AddAxes("right", image.Rect(100, 0, 200, 100), Range{-1, 1}, Range{100, 200})
	return fig
}

func TestAxesCoordinates(t *testing.T) {
	ax := testFigure().Axes("left")

	x, y := ax.ToData(0, 100)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	x, y = ax.ToData(50, 25)
	assert.InDelta(t, 5, x, 1e-12)
	assert.InDelta(t, 7.5, y, 1e-12)

	px, py := ax.ToPixel(x, y)
	assert.InDelta(t, 50, px, 1e-9)
	assert.InDelta(t, 25, py, 1e-9)
}

func TestToLassoSample(t *testing.T) {
	fig := testFigure()

	s := fig.ToLassoSample(150, 50, lasso.ButtonPrimary)
	assert.Equal(t, lasso.SurfaceID("right"), s.Surface)
	assert.InDelta(t, 0, s.X, 1e-12)
	assert.InDelta(t, 150, s.Y, 1e-12)
	assert.True(t, s.Defined())

	out := fig.ToLassoSample(500, 50, lasso.ButtonPrimary)
	assert.False(t, out.Defined())
	assert.True(t, math.IsNaN(out.X))
}

func TestAxesChildren(t *testing.T) {
	ax := testFigure().Axes("left")
	s := ax.Scatter("pts", []float64{1}, []float64{2}, selection.DefaultMarkerStyle())
	l := ax.Plot("", []float64{0, 1}, []float64{0, 1}, lasso.DefaultStyle())
	txt := ax.Text(1, 1, "hello")

	require.Len(t, ax.Children(), 3)
	assert.Equal(t, "pts", s.Label())
	assert.Contains(t, l.Label(), "line-")
	assert.NotEqual(t, s.ID(), l.ID())

	assert.True(t, ax.Remove(txt))
	assert.False(t, ax.Remove(txt))
	assert.Len(t, ax.Children(), 2)
}

func TestAddAxesReplaces(t *testing.T) {
	fig := testFigure()
	fig.AddAxes("left", image.Rect(0, 0, 10, 10), Range{0, 1}, Range{0, 1})
	assert.Len(t, fig.AllAxes(), 2)
	assert.Equal(t, image.Rect(0, 0, 10, 10), fig.Axes("left").Rect())
}

func TestAutoScale(t *testing.T) {
	fig := NewFigure(100, 100)
	ax := fig.AddAxes("a", image.Rect(0, 0, 100, 100), Range{0, 1}, Range{0, 1})
	ax.Scatter("", []float64{0, 10}, []float64{5, 5}, selection.DefaultMarkerStyle())
	ax.AutoScale()

	xl, yl := ax.Limits()
	assert.InDelta(t, -0.5, xl.Min, 1e-12)
	assert.InDelta(t, 10.5, xl.Max, 1e-12)
	assert.InDelta(t, 4.5, yl.Min, 1e-12)
	assert.InDelta(t, 5.5, yl.Max, 1e-12)
}
