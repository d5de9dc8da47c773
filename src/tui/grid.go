package tui

import (
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
	"plot-lasso/src/render"
)

// cell is one character of the grid.
type cell struct {
	r     rune
	style tcell.Style
}

var blank = cell{r: ' ', style: tcell.StyleDefault}

// Grid presents a figure on a terminal by scaling figure pixels down to
// character cells. The last row is kept for a status line.
type Grid struct {
	mu     sync.Mutex
	screen tcell.Screen
	fig    *plot.Figure
	logger *slog.Logger

	cols, rows  int
	buf         []cell
	backgrounds map[lasso.SurfaceID][]cell
	colors      map[string]tcell.Color
	status      string
}

var _ plot.Presenter = (*Grid)(nil)

// NewGrid returns a grid sized to the screen.
func NewGrid(screen tcell.Screen, fig *plot.Figure, logger *slog.Logger) *Grid {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Grid{
		screen:      screen,
		fig:         fig,
		logger:      logger,
		backgrounds: make(map[lasso.SurfaceID][]cell),
		colors:      make(map[string]tcell.Color),
	}
	g.Resize()
	return g
}

// Resize picks up the current screen size. Saved backgrounds are dropped.
func (g *Grid) Resize() {
	g.mu.Lock()
	defer g.mu.Unlock()
	cols, rows := g.screen.Size()
	rows-- // status line
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	g.cols, g.rows = cols, rows
	g.buf = make([]cell, cols*rows)
	for i := range g.buf {
		g.buf[i] = blank
	}
	clear(g.backgrounds)
}

// Size returns the plotting area in cells.
func (g *Grid) Size() (cols, rows int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cols, g.rows
}

// Pixel converts a cell position to the figure pixel at the cell centre.
func (g *Grid) Pixel(col, row int) (px, py float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	px = (float64(col) + 0.5) * float64(g.fig.Width) / float64(g.cols)
	py = (float64(row) + 0.5) * float64(g.fig.Height) / float64(g.rows)
	return px, py
}

// Sample hit-tests a cell against the figure.
func (g *Grid) Sample(col, row int, button lasso.Button) lasso.Sample {
	px, py := g.Pixel(col, row)
	return g.fig.ToLassoSample(px, py, button)
}

// SetStatus replaces the status line and shows it.
func (g *Grid) SetStatus(s string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.status = s
	g.flushStatus()
	g.screen.Show()
}

// Rune returns what the grid holds at a cell, for inspection.
func (g *Grid) Rune(col, row int) rune {
	g.mu.Lock()
	defer g.mu.Unlock()
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return 0
	}
	return g.buf[row*g.cols+col].r
}

func (g *Grid) SaveBackground(ax *plot.Axes) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.backgrounds[ax.ID()] = append([]cell(nil), g.buf...)
}

func (g *Grid) RestoreBackground(ax *plot.Axes) {
	g.mu.Lock()
	defer g.mu.Unlock()
	bg, ok := g.backgrounds[ax.ID()]
	if !ok || len(bg) != len(g.buf) {
		return
	}
	r := g.cellRect(ax.Rect())
	for row := r.Min.Y; row < r.Max.Y; row++ {
		i := row*g.cols + r.Min.X
		copy(g.buf[i:i+r.Dx()], bg[i:i+r.Dx()])
	}
}

func (g *Grid) DrawArtist(ax *plot.Axes, a plot.Artist) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawArtist(ax, a)
}

func (g *Grid) Blit(ax *plot.Axes) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.flush(g.cellRect(ax.Rect()))
	g.screen.Show()
}

// Draw repaints the figure, skipping animated lines.
func (g *Grid) Draw(fig *plot.Figure) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.buf {
		g.buf[i] = blank
	}
	if fig.Title != "" {
		g.text((g.cols-len(fig.Title))/2, 0, fig.Title, tcell.StyleDefault.Bold(true))
	}
	for _, ax := range fig.AllAxes() {
		g.drawFrame(ax)
		for _, a := range ax.Children() {
			if l, ok := a.(*plot.Line); ok && l.Animated {
				continue
			}
			g.drawArtist(ax, a)
		}
	}
	g.flush(image.Rect(0, 0, g.cols, g.rows))
	g.flushStatus()
	g.screen.Show()
}

// cellRect maps a pixel rectangle to the cells it covers, clipped to the
// grid.
func (g *Grid) cellRect(r image.Rectangle) image.Rectangle {
	c0, r0 := g.cell(float64(r.Min.X), float64(r.Min.Y))
	c1, r1 := g.cell(float64(r.Max.X), float64(r.Max.Y))
	return image.Rect(c0, r0, c1+1, r1+1).Intersect(image.Rect(0, 0, g.cols, g.rows))
}

func (g *Grid) cell(px, py float64) (col, row int) {
	col = int(math.Floor(px * float64(g.cols) / float64(g.fig.Width)))
	row = int(math.Floor(py * float64(g.rows) / float64(g.fig.Height)))
	return col, row
}

func (g *Grid) set(col, row int, r rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.buf[row*g.cols+col] = cell{r: r, style: style}
}

func (g *Grid) text(col, row int, s string, style tcell.Style) {
	for _, r := range s {
		g.set(col, row, r, style)
		col++
	}
}

func (g *Grid) drawFrame(ax *plot.Axes) {
	r := g.cellRect(ax.Rect())
	if r.Empty() {
		return
	}
	x0, y0, x1, y1 := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1
	for x := x0; x <= x1; x++ {
		g.set(x, y0, tcell.RuneHLine, tcell.StyleDefault)
		g.set(x, y1, tcell.RuneHLine, tcell.StyleDefault)
	}
	for y := y0; y <= y1; y++ {
		g.set(x0, y, tcell.RuneVLine, tcell.StyleDefault)
		g.set(x1, y, tcell.RuneVLine, tcell.StyleDefault)
	}
	g.set(x0, y0, tcell.RuneULCorner, tcell.StyleDefault)
	g.set(x1, y0, tcell.RuneURCorner, tcell.StyleDefault)
	g.set(x0, y1, tcell.RuneLLCorner, tcell.StyleDefault)
	g.set(x1, y1, tcell.RuneLRCorner, tcell.StyleDefault)

	if ax.Title != "" && y0 > 0 {
		g.text(x0+(x1-x0-len(ax.Title))/2, y0-1, ax.Title, tcell.StyleDefault.Bold(true))
	}
}

func (g *Grid) drawArtist(ax *plot.Axes, a plot.Artist) {
	if !a.Visible() {
		return
	}
	frame := g.cellRect(ax.Rect())
	clip := image.Rect(frame.Min.X+1, frame.Min.Y+1, frame.Max.X-1, frame.Max.Y-1)
	inside := func(col, row int) bool { return image.Pt(col, row).In(clip) }

	switch v := a.(type) {
	case *plot.Scatter:
		style := tcell.StyleDefault.Foreground(g.color(v.Style.Color))
		r := markerRune(v.Style.Symbol)
		xs, ys := v.Offsets()
		for i := range xs {
			if i >= len(ys) {
				break
			}
			col, row := g.cell(ax.ToPixel(xs[i], ys[i]))
			if inside(col, row) {
				g.set(col, row, r, style)
			}
		}

	case *plot.Line:
		style := tcell.StyleDefault.Foreground(g.color(v.Style.Color))
		r := lineRune(v.Style.LineStyle)
		xs, ys := v.Data()
		prevOK := false
		var pc, pr int
		for i := range xs {
			if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				prevOK = false
				continue
			}
			col, row := g.cell(ax.ToPixel(xs[i], ys[i]))
			if prevOK {
				bresenham(pc, pr, col, row, func(c, r0 int) {
					if inside(c, r0) {
						g.set(c, r0, r, style)
					}
				})
			}
			pc, pr, prevOK = col, row, true
		}

	case *plot.Text:
		col, row := g.cell(ax.ToPixel(v.X, v.Y))
		if inside(col, row) {
			g.text(col, row, v.Content, tcell.StyleDefault.Foreground(g.color(v.Color)))
		}

	default:
		g.logger.Debug("cannot draw artist", "artist", a.ID())
	}
}

func (g *Grid) color(name string) tcell.Color {
	if c, ok := g.colors[name]; ok {
		return c
	}
	rgba, err := render.ParseColor(name)
	c := tcell.ColorDefault
	if err != nil {
		g.logger.Warn("unknown colour, using default", "colour", name, "error", err)
	} else {
		c = tcell.NewRGBColor(int32(rgba.R), int32(rgba.G), int32(rgba.B))
	}
	g.colors[name] = c
	return c
}

func (g *Grid) flush(r image.Rectangle) {
	for row := r.Min.Y; row < r.Max.Y; row++ {
		for col := r.Min.X; col < r.Max.X; col++ {
			c := g.buf[row*g.cols+col]
			g.screen.SetContent(col, row, c.r, nil, c.style)
		}
	}
}

func (g *Grid) flushStatus() {
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(g.status)
	for col := 0; col < g.cols; col++ {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		g.screen.SetContent(col, g.rows, r, nil, style)
	}
}

func markerRune(symbol string) rune {
	switch symbol {
	case "x":
		return 'x'
	case "+":
		return '+'
	case "s":
		return '■'
	case ".":
		return '·'
	default:
		return '●'
	}
}

func lineRune(style string) rune {
	switch style {
	case ":":
		return '·'
	case "--", "-.":
		return '∙'
	default:
		return '•'
	}
}

func bresenham(x0, y0, x1, y1 int, fn func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		fn(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
