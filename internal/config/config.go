package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-petals/internal/petal"
)

var ErrInvalid = errors.New("invalid config")

type SPI struct {
	Dev            string `yaml:"dev"`              // e.g. SPI0.0 or /dev/spidev0.0
	PixelsPerPetal int    `yaml:"pixels_per_petal"` // LEDs wired to each petal
	SpeedHz        int    `yaml:"speed_hz"`         // e.g. 2500000

	// power limiter; budget_ma 0 leaves the current budget off
	WhiteCap float64 `yaml:"white_cap"` // max R+G+B per LED, 3 is no cap
	ChanMA   float64 `yaml:"chan_ma"`   // mA per channel at full scale
	BudgetMA float64 `yaml:"budget_ma"` // whole-strip current budget
	Knee     float64 `yaml:"knee"`      // fraction of budget where soft limiting starts
}

type Config struct {
	Petals     int     `yaml:"petals"`
	Profile    string  `yaml:"profile"` // "fade" | "slide"
	FPS        int     `yaml:"fps"`
	Addr       string  `yaml:"addr"`   // HTTP listen address, empty disables the server
	UI         string  `yaml:"ui"`     // "tui" | "headless"
	Driver     string  `yaml:"driver"` // "console" | "spi" | "sim"
	Brightness float64 `yaml:"brightness"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`

	SPI SPI `yaml:"spi,omitempty"`
}

// Default is the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Petals:     5,
		Profile:    petal.Default.Name,
		FPS:        60,
		Addr:       ":8080",
		UI:         "tui",
		Driver:     "sim",
		Brightness: 0.6,
		LogLevel:   "info",
		SPI: SPI{
			Dev:            "",
			PixelsPerPetal: 1,
			SpeedHz:        2500000,
			WhiteCap:       3.0,
			ChanMA:         20,
			BudgetMA:       0,
			Knee:           0.9,
		},
	}
}

// Validate rejects values the rest of the program cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Petals < 0:
		return fmt.Errorf("%w: petals must be >= 0, got %d", ErrInvalid, c.Petals)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps must be in 1..240, got %d", ErrInvalid, c.FPS)
	case c.Brightness < 0 || c.Brightness > 1:
		return fmt.Errorf("%w: brightness must be in [0,1], got %g", ErrInvalid, c.Brightness)
	case c.SPI.PixelsPerPetal < 0:
		return fmt.Errorf("%w: spi.pixels_per_petal must be >= 0", ErrInvalid)
	case c.SPI.WhiteCap <= 0 || c.SPI.WhiteCap > 3:
		return fmt.Errorf("%w: spi.white_cap must be in (0,3], got %g", ErrInvalid, c.SPI.WhiteCap)
	case c.SPI.ChanMA <= 0:
		return fmt.Errorf("%w: spi.chan_ma must be > 0, got %g", ErrInvalid, c.SPI.ChanMA)
	case c.SPI.BudgetMA < 0:
		return fmt.Errorf("%w: spi.budget_ma must be >= 0, got %g", ErrInvalid, c.SPI.BudgetMA)
	case c.SPI.Knee <= 0 || c.SPI.Knee >= 1:
		return fmt.Errorf("%w: spi.knee must be in (0,1), got %g", ErrInvalid, c.SPI.Knee)
	}
	if _, err := petal.LookupProfile(c.Profile); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.UI {
	case "tui", "headless":
	default:
		return fmt.Errorf("%w: ui %q", ErrInvalid, c.UI)
	}
	switch c.Driver {
	case "console", "spi", "sim":
	default:
		return fmt.Errorf("%w: driver %q", ErrInvalid, c.Driver)
	}
	return nil
}

// Load reads path over the defaults, so a file only needs the keys it changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
