package gui

import (
	"image"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
)

// plotWidget shows the rendered figure and turns mouse input over it into
// lasso events. All callbacks run on the fyne main goroutine.
type plotWidget struct {
	widget.BaseWidget

	fig  *plot.Figure
	img  *canvas.Image
	mods *modSync
	post func(lasso.Event)

	pressed bool
	lastPos fyne.Position
}

var (
	_ desktop.Mouseable = (*plotWidget)(nil)
	_ desktop.Hoverable = (*plotWidget)(nil)
	_ fyne.Draggable    = (*plotWidget)(nil)
)

func newPlotWidget(fig *plot.Figure, frame image.Image, mods *modSync, post func(lasso.Event)) *plotWidget {
	img := canvas.NewImageFromImage(frame)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScalePixels
	img.SetMinSize(fyne.NewSize(320, 200))

	w := &plotWidget{fig: fig, img: img, mods: mods, post: post}
	w.ExtendBaseWidget(w)
	return w
}

func (w *plotWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.img)
}

// setFrame replaces the displayed image.
func (w *plotWidget) setFrame(frame image.Image) {
	w.img.Image = frame
	w.img.Refresh()
}

// sample maps a widget position to figure pixels; the image is stretched
// over the whole widget.
func (w *plotWidget) sample(pos fyne.Position, b lasso.Button) lasso.Sample {
	size := w.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return lasso.Sample{X: math.NaN(), Y: math.NaN(), Button: b}
	}
	px := float64(pos.X/size.Width) * float64(w.fig.Width)
	py := float64(pos.Y/size.Height) * float64(w.fig.Height)
	return w.fig.ToLassoSample(px, py, b)
}

func (w *plotWidget) emit(evs ...lasso.Event) {
	for _, ev := range evs {
		w.post(ev)
	}
}

func (w *plotWidget) pointer(kind lasso.EventKind, pos fyne.Position, b lasso.Button) {
	w.lastPos = pos
	w.emit(lasso.Event{Kind: kind, Sample: w.sample(pos, b)})
}

func (w *plotWidget) MouseDown(ev *desktop.MouseEvent) {
	w.emit(w.mods.mask(ev.Modifier)...)
	b := buttonOf(ev.Button)
	if b == lasso.ButtonPrimary {
		w.pressed = true
	}
	w.pointer(lasso.PointerPress, ev.Position, b)
}

func (w *plotWidget) MouseUp(ev *desktop.MouseEvent) {
	w.emit(w.mods.mask(ev.Modifier)...)
	b := buttonOf(ev.Button)
	if b == lasso.ButtonPrimary {
		if !w.pressed {
			return
		}
		w.pressed = false
	}
	w.pointer(lasso.PointerRelease, ev.Position, b)
}

func (w *plotWidget) MouseIn(ev *desktop.MouseEvent) {
	w.emit(w.mods.mask(ev.Modifier)...)
}

func (w *plotWidget) MouseMoved(ev *desktop.MouseEvent) {
	w.emit(w.mods.mask(ev.Modifier)...)
	w.pointer(lasso.PointerMove, ev.Position, lasso.ButtonNone)
}

func (w *plotWidget) MouseOut() {}

// Dragged keeps samples coming while the primary button is held; fyne
// stops hover events during a drag.
func (w *plotWidget) Dragged(ev *fyne.DragEvent) {
	w.pointer(lasso.PointerMove, ev.Position, lasso.ButtonNone)
}

// DragEnd closes the lasso when the button comes up outside the widget and
// no MouseUp is delivered.
func (w *plotWidget) DragEnd() {
	if !w.pressed {
		return
	}
	w.pressed = false
	w.pointer(lasso.PointerRelease, w.lastPos, lasso.ButtonPrimary)
}
