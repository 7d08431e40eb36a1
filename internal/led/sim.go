package led

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/render"
)

// Sim counts frames and keeps the last one, useful headless and in tests.
type Sim struct {
	// LogEvery logs a compact summary every n frames; 0 disables it.
	LogEvery int

	mu    sync.Mutex
	count int
	last  []render.Color
}

func NewSim() *Sim { return &Sim{} }

func (d *Sim) Name() string { return "sim" }

func (d *Sim) Write(buf []render.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.count++
	d.last = append(d.last[:0], buf...)
	if d.LogEvery > 0 && d.count%d.LogEvery == 0 {
		var r, g, b float64
		for i := range buf {
			r += float64(buf[i].R)
			g += float64(buf[i].G)
			b += float64(buf[i].B)
		}
		n := float64(max(len(buf), 1))
		log.Debug().Int("frame", d.count).
			Floats64("avg", []float64{r / n, g / n, b / n}).
			Msg("sim frame")
	}
	return nil
}

func (d *Sim) Close() error { return nil }

// Frames is how many frames have been written.
func (d *Sim) Frames() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Last returns a copy of the most recent frame.
func (d *Sim) Last() []render.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]render.Color(nil), d.last...)
}
