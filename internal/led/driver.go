package led

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/render"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes one colour per LED.
	Write(buf []render.Color) error
	// Close releases resources.
	Close() error
	Name() string
}

// Options selects and sizes a driver.
type Options struct {
	Kind    string // "spi" | "console" | "sim"
	Dev     string // SPI port name; empty picks the first one
	Pixels  int
	SpeedHz int
}

// Open builds the driver opts.Kind names. Hardware that cannot be reached
// falls back to the simulator so the animation keeps running.
func Open(opts Options) (Driver, error) {
	switch opts.Kind {
	case "sim", "":
		return NewSim(), nil
	case "console":
		return NewConsole(opts.Pixels), nil
	case "spi":
		drv, err := NewSPI(opts.Dev, opts.Pixels, opts.SpeedHz)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", opts.Dev).
				Int("speed_hz", opts.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			return NewSim(), nil
		}
		return drv, nil
	}
	return nil, fmt.Errorf("unknown driver %q", opts.Kind)
}
