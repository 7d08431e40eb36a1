package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/config"
	"github.com/coreman2200/funtimes-petals/internal/frame"
	"github.com/coreman2200/funtimes-petals/internal/led"
	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/ws"
)

// Bootstrap builds a Conductor, its LED driver and websocket hub from cfg.
// A nil clock means the wall clock.
func Bootstrap(cfg *config.Config, clock frame.Clock) (*Conductor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	profile, err := petal.LookupProfile(cfg.Profile)
	if err != nil {
		return nil, err
	}

	perPetal := max(cfg.SPI.PixelsPerPetal, 1)
	drv, err := led.Open(led.Options{
		Kind:    cfg.Driver,
		Dev:     cfg.SPI.Dev,
		Pixels:  cfg.Petals * perPetal,
		SpeedHz: cfg.SPI.SpeedHz,
	})
	if err != nil {
		return nil, fmt.Errorf("open driver: %w", err)
	}

	limiter := render.Limiter{
		WhiteCap: cfg.SPI.WhiteCap,
		ChanMA:   cfg.SPI.ChanMA,
		BudgetMA: cfg.SPI.BudgetMA,
		Knee:     cfg.SPI.Knee,
	}
	c, err := New(Options{
		Petals:         cfg.Petals,
		Profile:        profile,
		FPS:            cfg.FPS,
		Clock:          clock,
		Drivers:        []led.Driver{drv},
		PixelsPerPetal: perPetal,
		Brightness:     cfg.Brightness,
		Limiter:        &limiter,
		Hub:            func(c *Conductor) *ws.Hub { return ws.NewHub(c) },
	})
	if err != nil {
		_ = drv.Close()
		return nil, err
	}
	log.Info().
		Int("petals", cfg.Petals).
		Str("profile", profile.Name).
		Str("driver", drv.Name()).
		Float64("budget_ma", cfg.SPI.BudgetMA).
		Msg("conductor ready")
	return c, nil
}
