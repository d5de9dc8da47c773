package render

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/geometry"
	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
	"plot-lasso/src/selection"
)

func testScene() (*plot.Figure, *plot.Axes) {
	fig := plot.NewFigure(120, 120)
	ax := fig.AddAxes("ax", image.Rect(10, 10, 110, 110), plot.Range{Min: 0, Max: 10}, plot.Range{Min: 0, Max: 10})
	return fig, ax
}

func isWhite(c color.RGBA) bool { return c == color.RGBA{255, 255, 255, 255} }

func TestDrawScatter(t *testing.T) {
	fig, ax := testScene()
	ax.Scatter("", []float64{5}, []float64{5}, selection.MarkerStyle{Color: "r", Symbol: "s", Size: 6})

	r := NewRaster(fig.Width, fig.Height, nil)
	var presented []image.Rectangle
	r.OnPresent = func(frame *image.RGBA, dirty image.Rectangle) {
		presented = append(presented, dirty)
		assert.Equal(t, image.Rect(0, 0, 120, 120), frame.Bounds())
	}
	r.Draw(fig)

	img := r.Snapshot()
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(60, 60))
	assert.True(t, isWhite(img.RGBAAt(30, 30)))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(10, 50), "frame")
	assert.Equal(t, []image.Rectangle{image.Rect(0, 0, 120, 120)}, presented)
}

func TestAnimatedLineOnlyDrawnExplicitly(t *testing.T) {
	fig, ax := testScene()
	line := ax.Plot("", []float64{0, 10}, []float64{5, 5}, lasso.Style{Color: "b", LineStyle: "-", Width: 3})
	line.Animated = true

	r := NewRaster(fig.Width, fig.Height, nil)
	r.Draw(fig)
	assert.True(t, isWhite(r.Snapshot().RGBAAt(60, 60)))

	r.DrawArtist(ax, line)
	assert.False(t, isWhite(r.Snapshot().RGBAAt(60, 60)))
}

func TestBackgroundRestore(t *testing.T) {
	fig, ax := testScene()
	r := NewRaster(fig.Width, fig.Height, nil)
	r.Draw(fig)
	r.SaveBackground(ax)

	line := ax.Plot("", []float64{0, 10}, []float64{5, 5}, lasso.Style{Color: "k", LineStyle: "-", Width: 2})
	r.DrawArtist(ax, line)
	require.False(t, isWhite(r.Snapshot().RGBAAt(60, 60)))

	r.RestoreBackground(ax)
	assert.True(t, isWhite(r.Snapshot().RGBAAt(60, 60)))
}

func TestHostRendersLasso(t *testing.T) {
	fig, ax := testScene()
	r := NewRaster(fig.Width, fig.Height, nil)
	r.Draw(fig)
	h := plot.NewHost(fig, r, nil)

	var blits int
	r.OnPresent = func(_ *image.RGBA, dirty image.Rectangle) {
		if dirty == ax.Rect() {
			blits++
		}
	}

	h.SaveBackground("ax")
	pts := []geometry.Point{{X: 2, Y: 2}, {X: 8, Y: 2}, {X: 8, Y: 8}}
	h.DrawLasso("ax", lasso.Frame{
		Path:   pts,
		Guides: [2][2]geometry.Point{{pts[0], pts[2]}, {pts[2], pts[2]}},
	}, lasso.Style{Color: "k", LineStyle: "-", Width: 2})
	assert.Equal(t, 1, blits)

	px, py := ax.ToPixel(5, 2)
	assert.False(t, isWhite(r.Snapshot().RGBAAt(int(px), int(py))))
}

func TestSave(t *testing.T) {
	fig, _ := testScene()
	r := NewRaster(fig.Width, fig.Height, nil)
	r.Draw(fig)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, r.Save(path))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, st.Size())

	data, err := r.PNG()
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	assert.Error(t, r.Save(filepath.Join(t.TempDir(), "out.unknown")))
}
