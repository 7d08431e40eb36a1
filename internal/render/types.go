package render

import (
	"image/color"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

// Color is a linear 0..1 RGB value for one LED.
type Color struct{ R, G, B float32 }

func FromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: clamp255(c.R), G: clamp255(c.G), B: clamp255(c.B), A: 255}
}

func clamp255(x float32) byte {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return byte(x*255.0 + 0.5)
}

// Frame is one rendered tick of the player.
type Frame struct {
	Seq uint64    `json:"seq"`
	At  time.Time `json:"at"`
	sequence.Snapshot
}
