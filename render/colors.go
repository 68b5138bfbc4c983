package render

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"blue":    "#0000ff",
	"cyan":    "#00ffff",
	"gray":    "#808080",
	"green":   "#008000",
	"lime":    "#00ff00",
	"magenta": "#ff00ff",
	"navy":    "#000080",
	"orange":  "#ffa500",
	"pink":    "#ffc0cb",
	"purple":  "#800080",
	"red":     "#ff0000",
	"teal":    "#008080",
	"white":   "#ffffff",
	"yellow":  "#ffff00",
}

// Palette resolves configured dataset colors to hex. Datasets without a usable
// color get a generated one that stays fixed for the name.
type Palette struct {
	colors map[string]colorful.Color
}

func NewPalette() *Palette {
	return &Palette{
		colors: make(map[string]colorful.Color),
	}
}

func (p *Palette) HexColor(datasetName, configured string) string {
	configured = strings.ToLower(strings.TrimSpace(configured))

	if hex, ok := namedColors[configured]; ok {
		configured = hex
	}

	if c, err := colorful.Hex(configured); err == nil {
		return c.Hex()
	}

	c, ok := p.colors[datasetName]
	if !ok {
		c = colorful.HappyColor()
		p.colors[datasetName] = c
	}

	return c.Hex()
}
