package tui

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/eventloop"
	"plot-lasso/src/geometry"
	"plot-lasso/src/hotkey"
	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
	"plot-lasso/src/selection"
)

func stubSampler(col, row int, b lasso.Button) lasso.Sample {
	return lasso.Sample{X: float64(col), Y: float64(row), Button: b, Surface: "s"}
}

func kinds(evs []lasso.Event) []lasso.EventKind {
	out := make([]lasso.EventKind, len(evs))
	for i, ev := range evs {
		out[i] = ev.Kind
	}
	return out
}

func TestInputSyncsModifiersFromMouse(t *testing.T) {
	in := newInput(stubSampler, []string{"ctrl"})

	evs := in.mouse(tcell.NewEventMouse(5, 5, tcell.ButtonNone, tcell.ModCtrl))
	require.Len(t, evs, 2)
	assert.Equal(t, lasso.KeyEvent(hotkey.Control, true), evs[0])
	assert.Equal(t, lasso.PointerMove, evs[1].Kind)

	evs = in.mouse(tcell.NewEventMouse(6, 5, tcell.Button1, tcell.ModCtrl))
	assert.Equal(t, []lasso.EventKind{lasso.PointerPress}, kinds(evs))
	assert.Equal(t, lasso.ButtonPrimary, evs[0].Sample.Button)
	assert.Equal(t, 6.0, evs[0].Sample.X)

	evs = in.mouse(tcell.NewEventMouse(7, 5, tcell.Button1, tcell.ModCtrl))
	assert.Equal(t, []lasso.EventKind{lasso.PointerMove}, kinds(evs))

	evs = in.mouse(tcell.NewEventMouse(7, 6, tcell.ButtonNone, tcell.ModNone))
	require.Len(t, evs, 2)
	assert.Equal(t, lasso.KeyEvent(hotkey.Control, false), evs[0])
	assert.Equal(t, lasso.PointerRelease, evs[1].Kind)
	assert.Equal(t, lasso.ButtonPrimary, evs[1].Sample.Button)
}

func TestInputIgnoresUntrackedModifiers(t *testing.T) {
	in := newInput(stubSampler, []string{"shift"})
	evs := in.mouse(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModCtrl|tcell.ModAlt))
	assert.Equal(t, []lasso.EventKind{lasso.PointerMove}, kinds(evs))
}

func TestInputSecondaryButton(t *testing.T) {
	in := newInput(stubSampler, nil)
	evs := in.mouse(tcell.NewEventMouse(1, 1, tcell.Button2, tcell.ModNone))
	require.Len(t, evs, 1)
	assert.Equal(t, lasso.PointerPress, evs[0].Kind)
	assert.Equal(t, lasso.ButtonSecondary, evs[0].Sample.Button)
}

func TestInputLatch(t *testing.T) {
	in := newInput(stubSampler, []string{"ctrl", "shift"})

	evs := in.toggleLatch()
	assert.Equal(t, []lasso.Event{
		lasso.KeyEvent(hotkey.Control, true),
		lasso.KeyEvent(hotkey.Shift, true),
	}, evs)

	// The mask is not consulted while latched.
	evs = in.mouse(tcell.NewEventMouse(1, 1, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []lasso.EventKind{lasso.PointerMove}, kinds(evs))

	evs = in.toggleLatch()
	assert.Equal(t, []lasso.Event{
		lasso.KeyEvent(hotkey.Control, false),
		lasso.KeyEvent(hotkey.Shift, false),
	}, evs)
}

func TestStatusLine(t *testing.T) {
	in := newInput(stubSampler, []string{"control"})
	assert.Contains(t, statusLine([]string{"control"}, in), "hold control")
	assert.Contains(t, statusLine(nil, in), "hold none")
	in.toggleLatch()
	assert.Contains(t, statusLine([]string{"control"}, in), "latch (on)")
}

func testFigure() *plot.Figure {
	fig := plot.NewFigure(800, 480)
	ax := fig.AddAxes("main", image.Rect(100, 48, 700, 432), plot.Range{Max: 10}, plot.Range{Max: 10})
	ax.Scatter("points", []float64{5, 9.9}, []float64{5, 9.9}, selection.MarkerStyle{Color: "b", Symbol: "o", Size: 6})
	return fig
}

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 25)
	return s
}

func TestGridDraw(t *testing.T) {
	s := simScreen(t)
	defer s.Fini()

	fig := testFigure()
	g := NewGrid(s, fig, nil)
	cols, rows := g.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)

	g.Draw(fig)
	assert.Equal(t, tcell.RuneULCorner, g.Rune(10, 2))
	assert.Equal(t, tcell.RuneLRCorner, g.Rune(70, 21))
	assert.Equal(t, '●', g.Rune(40, 12))
	assert.Equal(t, rune(0), g.Rune(80, 0))
}

func TestGridSampleRoundTrip(t *testing.T) {
	s := simScreen(t)
	defer s.Fini()

	g := NewGrid(s, testFigure(), nil)
	sm := g.Sample(40, 12, lasso.ButtonPrimary)
	assert.Equal(t, lasso.SurfaceID("main"), sm.Surface)
	assert.InDelta(t, 5.08, sm.X, 0.01)
	assert.InDelta(t, 4.74, sm.Y, 0.01)

	outside := g.Sample(0, 0, lasso.ButtonPrimary)
	assert.False(t, outside.Defined())
}

func TestGridLassoFrame(t *testing.T) {
	s := simScreen(t)
	defer s.Fini()

	fig := testFigure()
	g := NewGrid(s, fig, nil)
	host := plot.NewHost(fig, g, nil)
	host.Redraw()

	host.SaveBackground("main")
	host.DrawLasso("main", lasso.Frame{
		Guides: [2][2]geometry.Point{{{X: 1, Y: 5}, {X: 3, Y: 5}}, {{X: 1, Y: 5}, {X: 3, Y: 5}}},
	}, lasso.DefaultStyle())
	px, py := fig.Axes("main").ToPixel(2, 5)
	col, row := int(px*80/800), int(py*24/480)
	assert.Equal(t, '·', g.Rune(col, row))

	// Restoring the background removes the guides again.
	g.RestoreBackground(fig.Axes("main"))
	assert.Equal(t, ' ', g.Rune(col, row))
}

func TestRunDrawsLassoAndSelects(t *testing.T) {
	s := simScreen(t)
	defer s.Fini()

	fig := testFigure()
	g := NewGrid(s, fig, nil)
	host := plot.NewHost(fig, g, nil)
	auto := selection.NewAutoHandler(host, selection.AutoOptions{})
	ctrl := lasso.New(lasso.Options{Handler: auto, Renderer: host})
	loop := eventloop.New(ctrl, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	s.InjectMouse(20, 5, tcell.ButtonNone, tcell.ModCtrl)
	s.InjectMouse(20, 5, tcell.Button1, tcell.ModCtrl)
	s.InjectMouse(60, 5, tcell.Button1, tcell.ModCtrl)
	s.InjectMouse(60, 18, tcell.Button1, tcell.ModCtrl)
	s.InjectMouse(20, 18, tcell.Button1, tcell.ModCtrl)
	s.InjectMouse(20, 18, tcell.ButtonNone, tcell.ModCtrl)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	err := Run(ctx, s, Options{Loop: loop, Host: host, Grid: g, Modifiers: ctrl.Modifiers()})
	require.NoError(t, err)

	var picked selection.Picked
	require.NoError(t, loop.Do(ctx, func() { picked = auto.Last() }))
	require.Len(t, picked, 1)
	for _, mask := range picked {
		assert.Equal(t, []int{0}, mask.Indices())
	}
}
