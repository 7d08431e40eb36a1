package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-petals/internal/petal"
)

// Palette colours a ring of petals along a short HCL arc, pink into coral.
type Palette struct {
	Off    colorful.Color
	petals []colorful.Color
}

const (
	hueStart  = 330.0
	hueSpan   = 60.0
	chroma    = 0.55
	luminance = 0.72
)

func NewPalette(n int) Palette {
	p := Palette{petals: make([]colorful.Color, max(n, 0))}
	for i := range p.petals {
		h := math.Mod(hueStart+hueSpan*float64(i)/float64(n), 360)
		p.petals[i] = colorful.Hcl(h, chroma, luminance).Clamped()
	}
	return p
}

// Base is petal i's fully visible colour.
func (p Palette) Base(i int) colorful.Color {
	if len(p.petals) == 0 {
		return colorful.Hcl(hueStart, chroma, luminance).Clamped()
	}
	return p.petals[((i%len(p.petals))+len(p.petals))%len(p.petals)]
}

// Shade blends from Off to the petal's colour by its opacity.
func (p Palette) Shade(i int, s petal.VisualState) colorful.Color {
	return p.Off.BlendLab(p.Base(i), s.Opacity).Clamped()
}
