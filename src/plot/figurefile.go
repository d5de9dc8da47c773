package plot

import (
	"errors"
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"plot-lasso/src/lasso"
	"plot-lasso/src/selection"
)

// ErrBadFigure is wrapped by every figure file validation error.
var ErrBadFigure = errors.New("invalid figure file")

// FigureFile is the TOML description of a figure:
//
//	title = "demo"
//	width = 900
//	height = 450
//
//	[records]            # optional table shared by linked axes
//	n = 500
//	seed = 7
//	random = ["a", "b", "c"]
//	columns = { d = [1.0, 2.0] }
//
//	[[axes]]
//	id = "ab"
//	rect = [50, 30, 430, 410]  # x0, y0, x1, y1 in pixels
//	xy = ["a", "b"]            # plot two record columns and link the axes
//
//	  [[axes.scatter]]
//	  x = [1.0, 2.0]
//	  y = [3.0, 4.0]
//	  color = "tab:blue"
type FigureFile struct {
	Title   string       `toml:"title"`
	Width   int          `toml:"width"`
	Height  int          `toml:"height"`
	Records *RecordsFile `toml:"records"`
	Axes    []AxesFile   `toml:"axes"`
}

// RecordsFile is a table of equally long columns.
type RecordsFile struct {
	N       int                  `toml:"n"`
	Seed    uint64               `toml:"seed"`
	Random  []string             `toml:"random"`
	Mean    float64              `toml:"mean"`
	Std     float64              `toml:"std"`
	Columns map[string][]float64 `toml:"columns"`
}

type AxesFile struct {
	ID      string        `toml:"id"`
	Title   string        `toml:"title"`
	Rect    []int         `toml:"rect"`
	XLim    []float64     `toml:"xlim"`
	YLim    []float64     `toml:"ylim"`
	XY      []string      `toml:"xy"`
	Marker  MarkerFile    `toml:"marker"`
	Scatter []ScatterFile `toml:"scatter"`
	Line    []LineFile    `toml:"line"`
	Text    []TextFile    `toml:"text"`
}

type MarkerFile struct {
	Color  string  `toml:"color"`
	Symbol string  `toml:"marker"`
	Size   float64 `toml:"size"`
}

type ScatterFile struct {
	MarkerFile
	Name   string    `toml:"name"`
	X      []float64 `toml:"x"`
	Y      []float64 `toml:"y"`
	Random *RandomXY `toml:"random"`
}

// RandomXY generates N normally distributed points.
type RandomXY struct {
	N    int       `toml:"n"`
	Seed uint64    `toml:"seed"`
	Mean []float64 `toml:"mean"`
	Std  []float64 `toml:"std"`
}

type LineFile struct {
	Name  string    `toml:"name"`
	X     []float64 `toml:"x"`
	Y     []float64 `toml:"y"`
	Color string    `toml:"color"`
	Style string    `toml:"style"`
	Width float64   `toml:"width"`
}

type TextFile struct {
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`
	Text string  `toml:"text"`
}

// LoadFigure reads and builds a TOML figure file.
func LoadFigure(path string) (*Figure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read figure: %w", err)
	}
	fig, err := DecodeFigure(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fig, nil
}

// DecodeFigure builds a figure from TOML text.
func DecodeFigure(text string) (*Figure, error) {
	var ff FigureFile
	md, err := toml.Decode(text, &ff)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFigure, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrBadFigure, undecoded[0].String())
	}
	return ff.Build()
}

// Build turns the description into a figure.
func (ff FigureFile) Build() (*Figure, error) {
	w, h := ff.Width, ff.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	if len(ff.Axes) == 0 {
		return nil, fmt.Errorf("%w: no axes", ErrBadFigure)
	}

	records, err := ff.Records.columns()
	if err != nil {
		return nil, err
	}

	fig := NewFigure(w, h)
	fig.Title = ff.Title
	linked := make(map[lasso.SurfaceID]selection.XY)

	for i, af := range ff.Axes {
		id := lasso.SurfaceID(af.ID)
		if id == "" {
			id = lasso.SurfaceID(fmt.Sprintf("axes%d", i+1))
		}
		if fig.Axes(id) != nil {
			return nil, fmt.Errorf("%w: duplicate axes id %q", ErrBadFigure, id)
		}

		rect, err := af.rect(w, h, i, len(ff.Axes))
		if err != nil {
			return nil, fmt.Errorf("axes %q: %w", id, err)
		}
		ax := fig.AddAxes(id, rect, Range{0, 1}, Range{0, 1})
		ax.Title = af.Title

		if err := af.populate(ax, records, linked); err != nil {
			return nil, fmt.Errorf("axes %q: %w", id, err)
		}

		ax.AutoScale()
		if len(af.XLim) > 0 || len(af.YLim) > 0 {
			xl, yl := ax.Limits()
			if xl, err = limit(af.XLim, xl); err != nil {
				return nil, fmt.Errorf("axes %q xlim: %w", id, err)
			}
			if yl, err = limit(af.YLim, yl); err != nil {
				return nil, fmt.Errorf("axes %q ylim: %w", id, err)
			}
			ax.SetLimits(xl, yl)
		}
	}

	if len(linked) > 0 {
		fig.SetLinked(linked)
	}
	return fig, nil
}

func (af AxesFile) rect(w, h, i, n int) (image.Rectangle, error) {
	if len(af.Rect) == 0 {
		// Side by side, with a margin for ticks.
		cell := w / n
		return image.Rect(i*cell+40, 30, (i+1)*cell-10, h-40), nil
	}
	if len(af.Rect) != 4 {
		return image.Rectangle{}, fmt.Errorf("%w: rect needs 4 values, got %d", ErrBadFigure, len(af.Rect))
	}
	r := image.Rect(af.Rect[0], af.Rect[1], af.Rect[2], af.Rect[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("%w: empty rect %v", ErrBadFigure, r)
	}
	return r, nil
}

func (af AxesFile) populate(ax *Axes, records map[string][]float64, linked map[lasso.SurfaceID]selection.XY) error {
	if len(af.XY) > 0 {
		if len(af.XY) != 2 {
			return fmt.Errorf("%w: xy needs 2 column names", ErrBadFigure)
		}
		xs, ok := records[af.XY[0]]
		if !ok {
			return fmt.Errorf("%w: unknown column %q", ErrBadFigure, af.XY[0])
		}
		ys, ok := records[af.XY[1]]
		if !ok {
			return fmt.Errorf("%w: unknown column %q", ErrBadFigure, af.XY[1])
		}
		ax.Scatter(af.XY[0]+"/"+af.XY[1], xs, ys, af.Marker.style(selection.MarkerStyle{Color: "tab:blue", Symbol: "o", Size: 3}))
		linked[ax.ID()] = selection.XY{X: xs, Y: ys}
	}

	for _, sf := range af.Scatter {
		xs, ys := sf.X, sf.Y
		if sf.Random != nil {
			xs, ys = sf.Random.generate()
		}
		if len(xs) != len(ys) {
			return fmt.Errorf("%w: scatter %q has %d x and %d y values", ErrBadFigure, sf.Name, len(xs), len(ys))
		}
		ax.Scatter(sf.Name, xs, ys, sf.style(selection.MarkerStyle{Color: "tab:blue", Symbol: "o", Size: 3}))
	}

	for _, lf := range af.Line {
		if len(lf.X) != len(lf.Y) {
			return fmt.Errorf("%w: line %q has %d x and %d y values", ErrBadFigure, lf.Name, len(lf.X), len(lf.Y))
		}
		style := lasso.Style{Color: lf.Color, LineStyle: lf.Style, Width: lf.Width}
		if style.Color == "" {
			style.Color = "tab:orange"
		}
		if style.LineStyle == "" {
			style.LineStyle = "-"
		}
		if style.Width <= 0 {
			style.Width = 1.5
		}
		ax.Plot(lf.Name, lf.X, lf.Y, style)
	}

	for _, tf := range af.Text {
		ax.Text(tf.X, tf.Y, tf.Text)
	}
	return nil
}

func (m MarkerFile) style(def selection.MarkerStyle) selection.MarkerStyle {
	if m.Color != "" {
		def.Color = m.Color
	}
	if m.Symbol != "" {
		def.Symbol = m.Symbol
	}
	if m.Size > 0 {
		def.Size = m.Size
	}
	return def
}

func (r *RecordsFile) columns() (map[string][]float64, error) {
	cols := make(map[string][]float64)
	if r == nil {
		return cols, nil
	}

	n := -1
	names := make([]string, 0, len(r.Columns))
	for name := range r.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		col := r.Columns[name]
		if n >= 0 && len(col) != n {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrBadFigure, name, len(col), n)
		}
		n = len(col)
		cols[name] = col
	}

	if len(r.Random) > 0 {
		count := r.N
		if n >= 0 {
			count = n
		}
		if count <= 0 {
			return nil, fmt.Errorf("%w: records need n > 0 for random columns", ErrBadFigure)
		}
		std := r.Std
		if std <= 0 {
			std = 1
		}
		rng := rand.New(rand.NewPCG(r.Seed, r.Seed^0x9e3779b97f4a7c15))
		for _, name := range r.Random {
			if _, dup := cols[name]; dup {
				return nil, fmt.Errorf("%w: duplicate column %q", ErrBadFigure, name)
			}
			col := make([]float64, count)
			for i := range col {
				col[i] = r.Mean + std*rng.NormFloat64()
			}
			cols[name] = col
		}
	}
	return cols, nil
}

func (r RandomXY) generate() ([]float64, []float64) {
	n := r.N
	if n <= 0 {
		n = 1000
	}
	mean := [2]float64{}
	std := [2]float64{1, 1}
	copy(mean[:], r.Mean)
	copy(std[:], r.Std)

	rng := rand.New(rand.NewPCG(r.Seed, r.Seed^0x9e3779b97f4a7c15))
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		xs[i] = mean[0] + std[0]*rng.NormFloat64()
		ys[i] = mean[1] + std[1]*rng.NormFloat64()
	}
	return xs, ys
}

func limit(v []float64, def Range) (Range, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		if v[0] == v[1] {
			return Range{}, fmt.Errorf("%w: empty range", ErrBadFigure)
		}
		return Range{Min: v[0], Max: v[1]}, nil
	default:
		return Range{}, fmt.Errorf("%w: need 2 values, got %d", ErrBadFigure, len(v))
	}
}

// DemoFigure shows a normally distributed cloud on one axes and the same
// records in another projection on a second, linked axes.
func DemoFigure(seed uint64) *Figure {
	fig, err := FigureFile{
		Title:  "lasso demo",
		Width:  960,
		Height: 480,
		Records: &RecordsFile{
			N:      2000,
			Seed:   seed,
			Random: []string{"x", "y", "z"},
		},
		Axes: []AxesFile{
			{ID: "xy", Title: "x / y", XY: []string{"x", "y"}},
			{ID: "xz", Title: "x / z", XY: []string{"x", "z"}},
		},
	}.Build()
	if err != nil {
		panic(err)
	}
	return fig
}
