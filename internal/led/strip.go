package led

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-petals/internal/render"
)

// DefaultSpeed is the nrzled bit clock for WS2812-class strips.
const DefaultSpeed = 2500 * physic.KiloHertz

// Strip drives any periph display.Drawer that takes a 1×N image: an nrzled
// strip on SPI, or the ANSI console emulator.
type Strip struct {
	mu     sync.Mutex
	name   string
	drawer display.Drawer
	closer io.Closer
}

// NewSPI opens an SPI port (e.g. "SPI0.0", or "" for the first one) and
// drives a WS2812-class strip of pixels LEDs through it.
func NewSPI(dev string, pixels, speedHz int) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	s, err := NewSPIPort(port, pixels, speedHz)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return s, nil
}

// NewSPIPort wraps an already opened port.
func NewSPIPort(port spi.PortCloser, pixels, speedHz int) (*Strip, error) {
	if pixels < 0 {
		return nil, fmt.Errorf("invalid LED count: %d", pixels)
	}
	freq := DefaultSpeed
	if speedHz > 0 {
		freq = physic.Frequency(speedHz) * physic.Hertz
	}
	d, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: pixels,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	_ = d.Halt()
	return &Strip{name: "spi", drawer: d, closer: port}, nil
}

// NewConsole prints the strip as coloured blocks on stdout.
func NewConsole(pixels int) *Strip {
	return &Strip{name: "console", drawer: screen.New(max(pixels, 1))}
}

func (s *Strip) Name() string { return s.name }

func (s *Strip) String() string { return s.drawer.String() }

func (s *Strip) Write(buf []render.Color) error {
	if len(buf) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return errors.New("strip closed")
	}
	if err := s.drawer.Draw(s.drawer.Bounds(), render.Strip(buf), image.Point{}); err != nil {
		return fmt.Errorf("%s write: %w", s.name, err)
	}
	return nil
}

// Close blanks the LEDs and releases the port.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return nil
	}
	err := s.drawer.Halt()
	s.drawer = nil
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}
