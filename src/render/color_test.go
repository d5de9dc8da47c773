package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"k", color.RGBA{0, 0, 0, 255}},
		{"r", color.RGBA{255, 0, 0, 255}},
		{"tab:blue", color.RGBA{0x1f, 0x77, 0xb4, 255}},
		{"C1", color.RGBA{0xff, 0x7f, 0x0e, 255}},
		{"White", color.RGBA{255, 255, 255, 255}},
		{"#00ff00", color.RGBA{0, 255, 0, 255}},
		{"#0f0", color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "tab:teal", "chartreuse-ish", "#12"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestPaletteFallsBack(t *testing.T) {
	var bad []string
	p := palette{cache: map[string]color.RGBA{}, bad: func(name string, _ error) { bad = append(bad, name) }}

	assert.Equal(t, color.RGBA{A: 255}, p.get("nope"))
	p.get("nope")
	assert.Equal(t, []string{"nope"}, bad)
}
