package render

import (
	"math"

	"golang.org/x/image/vector"
)

type point struct{ x, y float64 }

// dashPattern returns on/off lengths in pixels, or nil for solid lines.
func dashPattern(style string, width float64) []float64 {
	w := math.Max(width, 1)
	var unit []float64
	switch style {
	case "--", "dashed":
		unit = []float64{3.7, 1.6}
	case ":", "dotted":
		unit = []float64{1, 1.65}
	case "-.", "dashdot":
		unit = []float64{6.4, 1.6, 1, 1.6}
	default:
		return nil
	}
	out := make([]float64, len(unit))
	for i, u := range unit {
		out[i] = math.Max(u*w, 1)
	}
	return out
}

// dashed splits a polyline into the visible pieces of the pattern. The
// pattern continues across vertices.
func dashed(pts []point, pattern []float64) [][2]point {
	var out [][2]point
	if len(pts) < 2 {
		return out
	}
	if len(pattern) == 0 {
		for i := 1; i < len(pts); i++ {
			out = append(out, [2]point{pts[i-1], pts[i]})
		}
		return out
	}

	idx, left := 0, pattern[0]
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.x-a.x, b.y-a.y
		length := math.Hypot(dx, dy)
		pos := 0.0
		for pos < length {
			step := math.Min(left, length-pos)
			if idx%2 == 0 {
				t0, t1 := pos/length, (pos+step)/length
				out = append(out, [2]point{
					{a.x + dx*t0, a.y + dy*t0},
					{a.x + dx*t1, a.y + dy*t1},
				})
			}
			pos += step
			left -= step
			if left <= 1e-9 {
				idx = (idx + 1) % len(pattern)
				left = pattern[idx]
			}
		}
	}
	return out
}

// strokeSegment adds a width-wide quad around a..b, offset by origin.
func strokeSegment(z *vector.Rasterizer, origin point, a, b point, width float64) {
	dx, dy := b.x-a.x, b.y-a.y
	length := math.Hypot(dx, dy)
	hw := math.Max(width, 1) / 2
	var nx, ny, ex, ey float64
	if length == 0 {
		nx, ny = 0, hw
		ex, ey = hw, 0
	} else {
		nx, ny = -dy/length*hw, dx/length*hw
		// Square caps keep short dots visible.
		ex, ey = dx/length*hw*0.5, dy/length*hw*0.5
	}
	ax, ay := a.x-origin.x-ex, a.y-origin.y-ey
	bx, by := b.x-origin.x+ex, b.y-origin.y+ey
	z.MoveTo(float32(ax+nx), float32(ay+ny))
	z.LineTo(float32(bx+nx), float32(by+ny))
	z.LineTo(float32(bx-nx), float32(by-ny))
	z.LineTo(float32(ax-nx), float32(ay-ny))
	z.ClosePath()
}

// fillCircle adds a circle approximated by a polygon.
func fillCircle(z *vector.Rasterizer, c point, r float64) {
	const n = 16
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		x, y := float32(c.x+r*math.Cos(a)), float32(c.y+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// marker adds one marker symbol of the given size centred at c (already in
// rasterizer coordinates).
func marker(z *vector.Rasterizer, symbol string, c point, size float64) {
	h := math.Max(size, 2) / 2
	zero := point{}
	switch symbol {
	case "x":
		strokeSegment(z, zero, point{c.x - h, c.y - h}, point{c.x + h, c.y + h}, 1.2)
		strokeSegment(z, zero, point{c.x - h, c.y + h}, point{c.x + h, c.y - h}, 1.2)
	case "+":
		strokeSegment(z, zero, point{c.x - h, c.y}, point{c.x + h, c.y}, 1.2)
		strokeSegment(z, zero, point{c.x, c.y - h}, point{c.x, c.y + h}, 1.2)
	case "s":
		z.MoveTo(float32(c.x-h), float32(c.y-h))
		z.LineTo(float32(c.x+h), float32(c.y-h))
		z.LineTo(float32(c.x+h), float32(c.y+h))
		z.LineTo(float32(c.x-h), float32(c.y+h))
		z.ClosePath()
	case ".":
		fillCircle(z, c, math.Max(h/2, 1))
	default:
		fillCircle(z, c, h)
	}
}
