package lasso

import (
	"plot-lasso/src/geometry"
)

// MinCloseSamples is the smallest sample count that produces a close
// notification; anything up to and including 3 samples is discarded.
const MinCloseSamples = 4

// Session is one lasso interaction. Handlers receive it at open and close;
// it must not be retained past OnClose.
type Session struct {
	surface SurfaceID
	samples []Sample
	closed  bool
}

func newSession(first Sample) *Session {
	return &Session{surface: first.Surface, samples: []Sample{first}}
}

// Surface returns the surface the session started on.
func (s *Session) Surface() SurfaceID { return s.surface }

// Len returns the number of accumulated samples.
func (s *Session) Len() int { return len(s.samples) }

// Closed reports whether the pointer was released.
func (s *Session) Closed() bool { return s.closed }

// Samples returns a copy of the accumulated samples in time order.
func (s *Session) Samples() []Sample {
	return append([]Sample(nil), s.samples...)
}

// XY returns the sample coordinates as two parallel slices.
func (s *Session) XY() (xs, ys []float64) {
	xs = make([]float64, len(s.samples))
	ys = make([]float64, len(s.samples))
	for i, p := range s.samples {
		xs[i], ys[i] = p.X, p.Y
	}
	return xs, ys
}

// Polygon returns the outline in data space. The closing edge back to the
// first sample is implicit.
func (s *Session) Polygon() geometry.Polygon {
	poly := make(geometry.Polygon, len(s.samples))
	for i, p := range s.samples {
		poly[i] = geometry.Point{X: p.X, Y: p.Y}
	}
	return poly
}

// Contains reports, per point, whether (xs[i], ys[i]) lies inside the
// session outline. It fails with geometry.ErrInvalidPolygon for outlines
// with fewer than 3 vertices.
func (s *Session) Contains(xs, ys []float64) (geometry.Mask, error) {
	return geometry.Contains(s.Polygon(), xs, ys)
}

func (s *Session) append(p Sample) {
	s.samples = append(s.samples, p)
}

func (s *Session) first() geometry.Point {
	p := s.samples[0]
	return geometry.Point{X: p.X, Y: p.Y}
}

func (s *Session) last() geometry.Point {
	p := s.samples[len(s.samples)-1]
	return geometry.Point{X: p.X, Y: p.Y}
}

func (s *Session) closeable() bool {
	return len(s.samples) >= MinCloseSamples
}
