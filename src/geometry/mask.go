package geometry

import "fmt"

// Mask holds one containment flag per queried point.
type Mask []bool

// Count returns the number of true entries.
func (m Mask) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Any reports whether at least one entry is true.
func (m Mask) Any() bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// Indices returns the positions of the true entries in ascending order.
func (m Mask) Indices() []int {
	idx := make([]int, 0, m.Count())
	for i, v := range m {
		if v {
			idx = append(idx, i)
		}
	}
	return idx
}

// Filter returns the coordinates whose mask entry is true. xs and ys must
// have the same length as the mask.
func (m Mask) Filter(xs, ys []float64) ([]float64, []float64) {
	n := m.Count()
	fx := make([]float64, 0, n)
	fy := make([]float64, 0, n)
	for i, v := range m {
		if v && i < len(xs) && i < len(ys) {
			fx = append(fx, xs[i])
			fy = append(fy, ys[i])
		}
	}
	return fx, fy
}

// Contains tests every point (xs[i], ys[i]) against poly and returns the
// resulting mask. Boundary points count as inside.
func Contains(poly Polygon, xs, ys []float64) (Mask, error) {
	if err := poly.Validate(); err != nil {
		return nil, err
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(xs), len(ys))
	}

	t := newTester(poly)
	mask := make(Mask, len(xs))
	for i := range xs {
		mask[i] = t.contains(Point{X: xs[i], Y: ys[i]})
	}
	return mask, nil
}
