package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"math"
	"strconv"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"plot-lasso/src/lasso"
	"plot-lasso/src/plot"
)

const tickCount = 5

// Raster draws figures into an in-memory RGBA image.
type Raster struct {
	mu          sync.Mutex
	img         *image.RGBA
	backgrounds map[lasso.SurfaceID]*image.RGBA
	colors      palette
	logger      *slog.Logger

	// OnPresent receives a copy of the canvas and the changed region after
	// Blit and Draw. It must not call back into the raster.
	OnPresent func(frame *image.RGBA, dirty image.Rectangle)
}

var _ plot.Presenter = (*Raster)(nil)

// NewRaster returns a white canvas of the given size.
func NewRaster(width, height int, logger *slog.Logger) *Raster {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Raster{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		backgrounds: make(map[lasso.SurfaceID]*image.RGBA),
		logger:      logger,
	}
	r.colors = palette{
		cache: make(map[string]color.RGBA),
		bad: func(name string, err error) {
			logger.Warn("unknown colour, using black", "colour", name, "error", err)
		},
	}
	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)
	return r
}

// Bounds returns the canvas rectangle.
func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }

// Snapshot returns a copy of the canvas.
func (r *Raster) Snapshot() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Raster) snapshot() *image.RGBA {
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

// Save writes the canvas to path; the format follows the extension.
func (r *Raster) Save(path string) error {
	return imaging.Save(r.Snapshot(), path)
}

// PNG encodes the canvas.
func (r *Raster) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, r.Snapshot(), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveBackground copies the pixels of the axes rectangle.
func (r *Raster) SaveBackground(ax *plot.Axes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rect := ax.Rect().Intersect(r.img.Bounds())
	bg := image.NewRGBA(rect)
	draw.Draw(bg, rect, r.img, rect.Min, draw.Src)
	r.backgrounds[ax.ID()] = bg
}

// RestoreBackground puts the pixels saved by SaveBackground back.
func (r *Raster) RestoreBackground(ax *plot.Axes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bg, ok := r.backgrounds[ax.ID()]
	if !ok {
		return
	}
	draw.Draw(r.img, bg.Bounds(), bg, bg.Bounds().Min, draw.Src)
}

// DrawArtist paints a single artist clipped to its axes.
func (r *Raster) DrawArtist(ax *plot.Axes, a plot.Artist) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawArtist(ax, a)
}

// Blit presents the axes region.
func (r *Raster) Blit(ax *plot.Axes) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.present(ax.Rect())
}

// Draw repaints the whole figure. Animated lines and hidden artists are
// skipped.
func (r *Raster) Draw(fig *plot.Figure) {
	r.mu.Lock()
	defer r.mu.Unlock()

	draw.Draw(r.img, r.img.Bounds(), image.White, image.Point{}, draw.Src)
	if fig.Title != "" {
		w := font.MeasureString(basicfont.Face7x13, fig.Title).Round()
		r.text(r.img, fig.Title, (r.img.Bounds().Dx()-w)/2, 16, color.RGBA{A: 0xff})
	}

	for _, ax := range fig.AllAxes() {
		r.drawAxes(ax)
		for _, a := range ax.Children() {
			if l, ok := a.(*plot.Line); ok && l.Animated {
				continue
			}
			r.drawArtist(ax, a)
		}
	}
	r.present(r.img.Bounds())
}

func (r *Raster) present(dirty image.Rectangle) {
	if r.OnPresent != nil {
		r.OnPresent(r.snapshot(), dirty.Intersect(r.img.Bounds()))
	}
}

func (r *Raster) drawAxes(ax *plot.Axes) {
	rect := ax.Rect()
	black := color.RGBA{A: 0xff}
	gray := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}

	// Frame.
	for x := rect.Min.X; x <= rect.Max.X; x++ {
		r.img.SetRGBA(x, rect.Min.Y, black)
		r.img.SetRGBA(x, rect.Max.Y, black)
	}
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		r.img.SetRGBA(rect.Min.X, y, black)
		r.img.SetRGBA(rect.Max.X, y, black)
	}

	xl, yl := ax.Limits()
	for i := 0; i < tickCount; i++ {
		f := float64(i) / float64(tickCount-1)

		xv := xl.Min + f*(xl.Max-xl.Min)
		px, _ := ax.ToPixel(xv, yl.Min)
		x := int(math.Round(px))
		for d := 0; d < 4; d++ {
			r.img.SetRGBA(x, rect.Max.Y+d, black)
		}
		label := formatTick(xv)
		w := font.MeasureString(basicfont.Face7x13, label).Round()
		r.text(r.img, label, x-w/2, rect.Max.Y+16, gray)

		yv := yl.Min + f*(yl.Max-yl.Min)
		_, py := ax.ToPixel(xl.Min, yv)
		y := int(math.Round(py))
		for d := 0; d < 4; d++ {
			r.img.SetRGBA(rect.Min.X-d, y, black)
		}
		label = formatTick(yv)
		w = font.MeasureString(basicfont.Face7x13, label).Round()
		r.text(r.img, label, rect.Min.X-w-6, y+4, gray)
	}

	if ax.Title != "" {
		w := font.MeasureString(basicfont.Face7x13, ax.Title).Round()
		r.text(r.img, ax.Title, rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y-4, black)
	}
}

func (r *Raster) drawArtist(ax *plot.Axes, a plot.Artist) {
	if !a.Visible() {
		return
	}
	rect := ax.Rect().Intersect(r.img.Bounds())
	if rect.Empty() {
		return
	}
	origin := point{float64(rect.Min.X), float64(rect.Min.Y)}

	switch v := a.(type) {
	case *plot.Scatter:
		xs, ys := v.Offsets()
		if len(xs) == 0 {
			return
		}
		z := vector.NewRasterizer(rect.Dx(), rect.Dy())
		for i := range xs {
			if i >= len(ys) {
				break
			}
			px, py := ax.ToPixel(xs[i], ys[i])
			marker(z, v.Style.Symbol, point{px - origin.x, py - origin.y}, v.Style.Size)
		}
		r.fill(z, rect, v.Style.Color)

	case *plot.Line:
		xs, ys := v.Data()
		pts := make([]point, 0, len(xs))
		for i := range xs {
			if i >= len(ys) || math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				continue
			}
			px, py := ax.ToPixel(xs[i], ys[i])
			pts = append(pts, point{px, py})
		}
		if len(pts) < 2 {
			return
		}
		z := vector.NewRasterizer(rect.Dx(), rect.Dy())
		for _, seg := range dashed(pts, dashPattern(v.Style.LineStyle, v.Style.Width)) {
			strokeSegment(z, origin, seg[0], seg[1], v.Style.Width)
		}
		r.fill(z, rect, v.Style.Color)

	case *plot.Text:
		px, py := ax.ToPixel(v.X, v.Y)
		clip := r.img.SubImage(rect).(*image.RGBA)
		r.text(clip, v.Content, int(math.Round(px)), int(math.Round(py)), r.colors.get(v.Color))

	default:
		r.logger.Debug("cannot draw artist", "artist", a.ID())
	}
}

func (r *Raster) fill(z *vector.Rasterizer, rect image.Rectangle, colorName string) {
	z.Draw(r.img, rect, image.NewUniform(r.colors.get(colorName)), image.Point{})
}

func (r *Raster) text(dst *image.RGBA, s string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 3, 64)
}
