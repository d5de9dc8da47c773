package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidPolygon is returned when a polygon has fewer than 3 vertices.
	ErrInvalidPolygon = errors.New("polygon needs at least 3 vertices")
	// ErrLengthMismatch is returned when x and y coordinate slices differ in length.
	ErrLengthMismatch = errors.New("x and y coordinates differ in length")
)

// boundaryTolerance scales with the polygon extent so that data in any unit
// gets the same relative edge snapping.
const boundaryTolerance = 1e-9

// Point is a position in data space.
type Point struct {
	X float64
	Y float64
}

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Polygon is an ordered vertex list. The last vertex is implicitly joined
// back to the first.
type Polygon []Point

// Validate returns ErrInvalidPolygon if the polygon cannot enclose an area.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return fmt.Errorf("%w: got %d", ErrInvalidPolygon, len(p))
	}
	return nil
}

// Closed returns a copy with the first vertex appended at the end.
func (p Polygon) Closed() []Point {
	if len(p) == 0 {
		return nil
	}
	out := make([]Point, 0, len(p)+1)
	out = append(out, p...)
	return append(out, p[0])
}

// Bounds returns the lower-left and upper-right corners of the bounding box.
func (p Polygon) Bounds() (min, max Point) {
	if len(p) == 0 {
		return Point{}, Point{}
	}
	min, max = p[0], p[0]
	for _, v := range p[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

// Area returns the absolute shoelace area. Self-intersecting outlines report
// the net area of their lobes.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var area2 float64
	for i := range p {
		j := (i + 1) % len(p)
		area2 += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(area2) / 2
}

// ContainsPoint reports whether pt lies inside the polygon or on its boundary.
// Polygons with fewer than 3 vertices contain nothing.
func (p Polygon) ContainsPoint(pt Point) bool {
	if len(p) < 3 {
		return false
	}
	return newTester(p).contains(pt)
}

// tester caches what every point query of one polygon needs.
type tester struct {
	poly     Polygon
	min, max Point
	eps      float64
}

func newTester(p Polygon) tester {
	min, max := p.Bounds()
	extent := math.Max(max.X-min.X, max.Y-min.Y)
	if extent == 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		extent = 1
	}
	return tester{poly: p, min: min, max: max, eps: boundaryTolerance * extent}
}

func (t tester) contains(pt Point) bool {
	if !pt.Finite() {
		return false
	}
	if pt.X < t.min.X-t.eps || pt.X > t.max.X+t.eps || pt.Y < t.min.Y-t.eps || pt.Y > t.max.Y+t.eps {
		return false
	}

	inside := false
	poly := t.poly
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]

		if t.onSegment(pt, a, b) {
			return true
		}

		intersects := ((a.Y > pt.Y) != (b.Y > pt.Y)) &&
			(pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X)
		if intersects {
			inside = !inside
		}
	}
	return inside
}

func (t tester) onSegment(pt, a, b Point) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(pt.X-a.X, pt.Y-a.Y) <= t.eps
	}
	// Distance from pt to the infinite line through a and b.
	cross := (pt.X-a.X)*dy - (pt.Y-a.Y)*dx
	if math.Abs(cross)/length > t.eps {
		return false
	}
	return pt.X >= math.Min(a.X, b.X)-t.eps && pt.X <= math.Max(a.X, b.X)+t.eps &&
		pt.Y >= math.Min(a.Y, b.Y)-t.eps && pt.Y <= math.Max(a.Y, b.Y)+t.eps
}
