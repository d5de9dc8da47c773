package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square() Polygon {
	return Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
}

func TestContainsPoint(t *testing.T) {
	poly := square()

	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"center", Point{X: 5.5, Y: 5.5}, true},
		{"outside left", Point{X: -1, Y: 5}, false},
		{"outside above", Point{X: 5, Y: 10.5}, false},
		{"left edge", Point{X: 0, Y: 5}, true},
		{"top edge", Point{X: 3, Y: 10}, true},
		{"vertex", Point{X: 10, Y: 10}, true},
		{"nan", Point{X: math.NaN(), Y: 5}, false},
		{"inf", Point{X: math.Inf(1), Y: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, poly.ContainsPoint(tt.pt))
		})
	}
}

func TestContainsConcave(t *testing.T) {
	// U shape opening upwards.
	poly := Polygon{
		{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 6}, {X: 4, Y: 6},
		{X: 4, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 6}, {X: 0, Y: 6},
	}

	mask, err := Contains(poly, []float64{1, 3, 5, 3}, []float64{5, 4, 5, 1})
	require.NoError(t, err)
	assert.Equal(t, Mask{true, false, true, true}, mask)
}

func TestContainsVerticesAndInterior(t *testing.T) {
	poly := Polygon{{X: -2, Y: -1}, {X: 3, Y: -2}, {X: 4, Y: 2}, {X: 0, Y: 4}, {X: -3, Y: 1}}

	var xs, ys []float64
	for _, v := range poly {
		xs = append(xs, v.X)
		ys = append(ys, v.Y)
	}
	xs = append(xs, 0, 1, 9, -9)
	ys = append(ys, 0, 1, 0, 9)

	mask, err := Contains(poly, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, Mask{true, true, true, true, true, true, true, false, false}, mask)
}

func TestContainsOrientationAndRotation(t *testing.T) {
	poly := Polygon{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 5, Y: 3}, {X: 2, Y: 5}, {X: -1, Y: 3}}
	xs := []float64{2, 0, 4.9, -1, 2, 6, 2.5}
	ys := []float64{2, 0, 2.9, 0, 5, 5, -0.1}

	want, err := Contains(poly, xs, ys)
	require.NoError(t, err)

	reversed := make(Polygon, len(poly))
	for i, v := range poly {
		reversed[len(poly)-1-i] = v
	}
	got, err := Contains(reversed, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, want, got, "reversed traversal")

	for shift := 1; shift < len(poly); shift++ {
		rotated := append(append(Polygon{}, poly[shift:]...), poly[:shift]...)
		got, err := Contains(rotated, xs, ys)
		require.NoError(t, err)
		assert.Equal(t, want, got, "rotation by %d", shift)
	}
}

func TestContainsErrors(t *testing.T) {
	_, err := Contains(Polygon{{X: 0, Y: 0}, {X: 1, Y: 1}}, []float64{0}, []float64{0})
	assert.True(t, errors.Is(err, ErrInvalidPolygon))

	_, err = Contains(square(), []float64{0, 1}, []float64{0})
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestContainsEmptyInput(t *testing.T) {
	mask, err := Contains(square(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, mask)
}

func TestContainsSmallScale(t *testing.T) {
	poly := Polygon{{X: 0, Y: 0}, {X: 1e-6, Y: 0}, {X: 1e-6, Y: 1e-6}, {X: 0, Y: 1e-6}}
	mask, err := Contains(poly, []float64{5e-7, 2e-6}, []float64{5e-7, 5e-7})
	require.NoError(t, err)
	assert.Equal(t, Mask{true, false}, mask)
}

func TestBoundsAndArea(t *testing.T) {
	poly := Polygon{{X: 1, Y: 2}, {X: 5, Y: 2}, {X: 5, Y: 6}, {X: 1, Y: 6}}
	min, max := poly.Bounds()
	assert.Equal(t, Point{X: 1, Y: 2}, min)
	assert.Equal(t, Point{X: 5, Y: 6}, max)
	assert.InDelta(t, 16.0, poly.Area(), 1e-12)

	assert.Len(t, poly.Closed(), 5)
	assert.Equal(t, poly[0], poly.Closed()[4])
}

func TestMaskHelpers(t *testing.T) {
	m := Mask{true, false, true}
	assert.Equal(t, 2, m.Count())
	assert.True(t, m.Any())
	assert.Equal(t, []int{0, 2}, m.Indices())

	fx, fy := m.Filter([]float64{1, 2, 3}, []float64{4, 5, 6})
	assert.Equal(t, []float64{1, 3}, fx)
	assert.Equal(t, []float64{4, 6}, fy)

	assert.False(t, Mask{false}.Any())
}
