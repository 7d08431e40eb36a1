package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/coreman2200/funtimes-petals/internal/layout"
)

// RasterOptions configures the PNG snapshot.
type RasterOptions struct {
	Size        int // output edge in pixels
	Supersample int
	Label       bool // draw the playback state under the flower
	Background  color.Color
}

func DefaultRasterOptions() RasterOptions {
	return RasterOptions{
		Size:        320,
		Supersample: 3,
		Label:       true,
		Background:  color.RGBA{24, 20, 28, 255},
	}
}

var (
	colorCenter = color.RGBA{250, 204, 21, 255}
	colorLabel  = color.RGBA{220, 220, 220, 255}
)

// Geometry at the reference size of 400px; everything scales from there.
const (
	refSize     = 400.0
	petalLength = 62.0
	petalWidth  = 24.0
	centerR     = 22.0
	ellipseSegs = 48
)

// Rasterize draws the flower: one ellipse per petal pointing away from the
// centre, sized by Scale, shifted by TranslateX/Y, with alpha from Opacity.
func Rasterize(f Frame, pal Palette, opts RasterOptions) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultRasterOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Background == nil {
		opts.Background = DefaultRasterOptions().Background
	}
	big := opts.Size * opts.Supersample
	unit := float64(big) / refSize

	img := image.NewRGBA(image.Rect(0, 0, big, big))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	ring := layout.Fit(len(f.Petals), float64(big), float64(big))
	for i, s := range f.Petals {
		if s.Opacity <= 0 || s.Scale <= 0 {
			continue
		}
		cx, cy := ring.Point(i)
		cx += s.TranslateX * unit
		cy += s.TranslateY * unit
		c := pal.Base(i)
		r, g, b := c.RGB255()
		fill := color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(s.Opacity * 255))}
		fillEllipse(img, cx, cy, petalWidth*unit*s.Scale, petalLength*unit*s.Scale, ring.Angle(i), fill)
	}
	fillEllipse(img, float64(big)/2, float64(big)/2, centerR*unit, centerR*unit, 0, colorCenter)

	if opts.Label {
		drawLabel(img, big/2, big-int(24*unit), strings.ToUpper(string(f.State)), 16*unit)
	}

	if opts.Supersample == 1 {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Over, nil)
	return out
}

// fillEllipse fills an ellipse whose long axis (ry) points along angle,
// measured clockwise from 12 o'clock.
func fillEllipse(dst *image.RGBA, cx, cy, rx, ry, angle float64, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	radX, radY := math.Sin(angle), -math.Cos(angle)
	tanX, tanY := math.Cos(angle), math.Sin(angle)
	for k := 0; k <= ellipseSegs; k++ {
		th := 2 * math.Pi * float64(k) / ellipseSegs
		u, v := rx*math.Cos(th), ry*math.Sin(th)
		x := float32(cx + tanX*u + radX*v)
		y := float32(cy + tanY*u + radY*v)
		if k == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

func drawLabel(dst *image.RGBA, x, y int, text string, size float64) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return
	}
	defer face.Close()
	width := font.MeasureString(face, text).Ceil()
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(colorLabel),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x - width/2), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// EncodePNG writes a snapshot of f as PNG.
func EncodePNG(w io.Writer, f Frame, pal Palette, opts RasterOptions) error {
	return png.Encode(w, Rasterize(f, pal, opts))
}
