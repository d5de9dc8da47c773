package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// tableau is the default ten-colour cycle ("tab:" names and C0..C9).
var tableau = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

var tableauNames = map[string]int{
	"blue": 0, "orange": 1, "green": 2, "red": 3, "purple": 4,
	"brown": 5, "pink": 6, "gray": 7, "grey": 7, "olive": 8, "cyan": 9,
}

var namedColors = map[string]string{
	"b": "#0000ff", "g": "#008000", "r": "#ff0000", "c": "#00bfbf",
	"m": "#bf00bf", "y": "#bfbf00", "k": "#000000", "w": "#ffffff",

	"black": "#000000", "white": "#ffffff", "red": "#ff0000", "green": "#008000",
	"blue": "#0000ff", "yellow": "#ffff00", "cyan": "#00ffff", "magenta": "#ff00ff",
	"orange": "#ffa500", "purple": "#800080", "gray": "#808080", "grey": "#808080",
	"lightgray": "#d3d3d3", "lightgrey": "#d3d3d3", "darkgray": "#a9a9a9",
	"darkgrey": "#a9a9a9", "navy": "#000080", "teal": "#008080",
}

// ParseColor understands single-letter colours (k, r, ...), tab:name,
// C0..C9, common names and #rgb/#rrggbb hex strings.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("empty colour")
	}

	hex := name
	switch {
	case strings.HasPrefix(name, "tab:"):
		i, ok := tableauNames[strings.TrimPrefix(name, "tab:")]
		if !ok {
			return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
		}
		hex = tableau[i]
	case len(name) == 2 && name[0] == 'c' && name[1] >= '0' && name[1] <= '9':
		hex = tableau[name[1]-'0']
	case namedColors[name] != "":
		hex = namedColors[name]
	case !strings.HasPrefix(name, "#"):
		return color.RGBA{}, fmt.Errorf("unknown colour %q", s)
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("unknown colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// palette caches parsed colours and falls back to black for unknown names.
type palette struct {
	cache map[string]color.RGBA
	bad   func(name string, err error)
}

func (p *palette) get(name string) color.RGBA {
	if c, ok := p.cache[name]; ok {
		return c
	}
	c, err := ParseColor(name)
	if err != nil {
		c = color.RGBA{A: 0xff}
		if p.bad != nil {
			p.bad(name, err)
		}
	}
	p.cache[name] = c
	return c
}
