package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plot-lasso/src/lasso"
)

const sampleFigure = `
title = "sample"
width = 400
height = 200

[records]
n = 50
seed = 3
random = ["a", "b"]
columns = { c = [] }

[[axes]]
id = "ab"
xy = ["a", "b"]

[[axes]]
id = "free"
rect = [210, 10, 390, 190]
xlim = [0, 10]
ylim = [0, 10]

  [[axes.scatter]]
  name = "pts"
  x = [1.0, 2.0, 3.0]
  y = [1.0, 2.0, 3.0]
  color = "tab:green"
  marker = "s"

  [[axes.scatter]]
  name = "cloud"
  random = { n = 20, seed = 1, mean = [5.0, 5.0] }

  [[axes.line]]
  name = "trend"
  x = [0.0, 10.0]
  y = [0.0, 10.0]

  [[axes.text]]
  x = 1.0
  y = 9.0
  text = "note"
`

func TestDecodeFigure(t *testing.T) {
	_, err := DecodeFigure(sampleFigure)
	// "c" has no values while random columns need 50.
	require.ErrorIs(t, err, ErrBadFigure)
}

func TestDecodeFigureValid(t *testing.T) {
	text := sampleFigure
	text = replaceOnce(t, text, "columns = { c = [] }\n", "")

	fig, err := DecodeFigure(text)
	require.NoError(t, err)

	assert.Equal(t, "sample", fig.Title)
	require.Len(t, fig.AllAxes(), 2)

	free := fig.Axes("free")
	require.NotNil(t, free)
	xl, _ := free.Limits()
	assert.Equal(t, Range{0, 10}, xl)
	assert.Len(t, free.Children(), 4)

	pts := free.Children()[0].(*Scatter)
	assert.Equal(t, "s", pts.Style.Symbol)
	assert.Equal(t, "tab:green", pts.Style.Color)

	linked := fig.Linked()
	require.Contains(t, linked, lasso.SurfaceID("ab"))
	assert.Equal(t, 50, linked["ab"].Len())
}

func TestDecodeFigureDeterministic(t *testing.T) {
	text := replaceOnce(t, sampleFigure, "columns = { c = [] }\n", "")
	a, err := DecodeFigure(text)
	require.NoError(t, err)
	b, err := DecodeFigure(text)
	require.NoError(t, err)
	assert.Equal(t, a.Linked(), b.Linked())
}

func TestDecodeFigureErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "width = "},
		{"no axes", "width = 10"},
		{"unknown key", "[[axes]]\nid = \"a\"\ncolour = \"r\""},
		{"bad rect", "[[axes]]\nrect = [1, 2, 3]"},
		{"empty rect", "[[axes]]\nrect = [5, 5, 5, 5]"},
		{"unknown column", "[[axes]]\nxy = [\"a\", \"b\"]"},
		{"scatter mismatch", "[[axes]]\n[[axes.scatter]]\nx = [1.0]\ny = []"},
		{"duplicate id", "[[axes]]\nid = \"a\"\n[[axes]]\nid = \"a\""},
		{"bad limit", "[[axes]]\nxlim = [1.0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFigure(tt.text)
			assert.ErrorIs(t, err, ErrBadFigure)
		})
	}
}

func TestLoadFigure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fig.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[axes]]\nid = \"only\"\n[[axes.text]]\ntext = \"hi\"\n"), 0o600))

	fig, err := LoadFigure(path)
	require.NoError(t, err)
	assert.NotNil(t, fig.Axes("only"))

	_, err = LoadFigure(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDemoFigure(t *testing.T) {
	fig := DemoFigure(42)
	require.Len(t, fig.AllAxes(), 2)
	linked := fig.Linked()
	require.Len(t, linked, 2)
	assert.Equal(t, linked["xy"].X, linked["xz"].X)
}

func replaceOnce(t *testing.T, s, old, new string) string {
	t.Helper()
	require.Contains(t, s, old)
	return strings.Replace(s, old, new, 1)
}
