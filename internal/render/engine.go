package render

import (
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"
)

// Driver abstracts an LED transport (SPI, console, etc.).
type Driver interface {
	Write([]Color) error
}

// Engine turns frames into one colour per LED, applies post-processing,
// then writes to every driver.
type Engine struct {
	Palette        Palette
	PixelsPerPetal int
	Brightness     float64
	Limiter        Limiter
	Drivers        []Driver

	Out []Color

	// last frame's durations in µs; read from other goroutines via Timings
	shadeUS atomic.Int64
	totalUS atomic.Int64
}

// NewEngine allocates an engine for a ring of petals, each wired to
// perPetal consecutive LEDs.
func NewEngine(petals, perPetal int, brightness float64, drv ...Driver) (*Engine, error) {
	if petals < 0 {
		return nil, errors.New("invalid petal count")
	}
	if perPetal < 1 {
		perPetal = 1
	}
	return &Engine{
		Palette:        NewPalette(petals),
		PixelsPerPetal: perPetal,
		Brightness:     brightness,
		Limiter:        DefaultLimiter(),
		Drivers:        drv,
		Out:            make([]Color, petals*perPetal),
	}, nil
}

// Pixels is the strip length for a ring of n petals.
func (e *Engine) Pixels(n int) int { return n * e.PixelsPerPetal }

// Shade fills Out from f and returns it.
func (e *Engine) Shade(f Frame) []Color {
	n := e.Pixels(len(f.Petals))
	if cap(e.Out) < n {
		e.Out = make([]Color, n)
	}
	e.Out = e.Out[:n]
	for i, s := range f.Petals {
		c := FromColorful(e.Palette.Shade(i, s))
		for k := 0; k < e.PixelsPerPetal; k++ {
			e.Out[i*e.PixelsPerPetal+k] = c
		}
	}
	ScaleBrightness(e.Out, e.Brightness)
	e.Limiter.Apply(e.Out)
	return e.Out
}

// RenderOnce shades f and pushes it to every driver. A failing driver does
// not stop the others.
func (e *Engine) RenderOnce(f Frame) error {
	start := time.Now()
	out := e.Shade(f)
	e.shadeUS.Store(time.Since(start).Microseconds())

	var errs []error
	for i, d := range e.Drivers {
		if err := d.Write(out); err != nil {
			errs = append(errs, fmt.Errorf("driver %d: %w", i, err))
		}
	}
	e.totalUS.Store(time.Since(start).Microseconds())
	return errors.Join(errs...)
}

// Timings reports how long the last RenderOnce spent shading and in total,
// in milliseconds.
func (e *Engine) Timings() (shadeMS, totalMS float64) {
	return float64(e.shadeUS.Load()) / 1000.0, float64(e.totalUS.Load()) / 1000.0
}

// Strip lays buf out as a 1×N image, the shape display.Drawer LED strips take.
func Strip(buf []Color) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, len(buf), 1))
	for x := range buf {
		im.SetNRGBA(x, 0, buf[x].NRGBA())
	}
	return im
}
