package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/api"
	"github.com/coreman2200/funtimes-petals/internal/app"
	"github.com/coreman2200/funtimes-petals/internal/config"
	"github.com/coreman2200/funtimes-petals/internal/tui"
)

func main() {
	def := config.Default()

	// ---- Flags (remain usable; config.yaml fills in what they don't set) ----
	var (
		petals     = flag.Int("petals", def.Petals, "number of petals on the ring")
		profile    = flag.String("profile", def.Profile, "animation profile: fade | slide")
		fps        = flag.Int("fps", def.FPS, "target frames per second")
		brightness = flag.Float64("brightness", def.Brightness, "global LED brightness 0..1")
		driver     = flag.String("driver", def.Driver, "driver: spi | console | sim")
		spiDev     = flag.String("spi-dev", def.SPI.Dev, "SPI port for driver=spi (empty picks the first)")
		perPetal   = flag.Int("pixels-per-petal", def.SPI.PixelsPerPetal, "LEDs wired to each petal")
		addr       = flag.String("addr", def.Addr, "HTTP listen address; empty disables the server")
		ui         = flag.String("ui", def.UI, "ui: tui | headless")
		logLevel   = flag.String("log-level", def.LogLevel, "log level: debug | info | warn | error")
		logFile    = flag.String("log-file", "", "log file (defaults to petals.log in tui mode)")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		saveConfig = flag.Bool("save-config", false, "write the effective config back to -config and exit")
	)
	flag.Parse()

	// ---- Effective params: defaults, then config.yaml, then explicit flags ----
	cfg := def
	var loadErr error
	if c, err := config.Load(*configPath); err != nil {
		loadErr = err
	} else {
		cfg = c
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "petals":
			cfg.Petals = *petals
		case "profile":
			cfg.Profile = *profile
		case "fps":
			cfg.FPS = *fps
		case "brightness":
			cfg.Brightness = *brightness
		case "driver":
			cfg.Driver = *driver
		case "spi-dev":
			cfg.SPI.Dev = *spiDev
		case "pixels-per-petal":
			cfg.SPI.PixelsPerPetal = *perPetal
		case "addr":
			cfg.Addr = *addr
		case "ui":
			cfg.UI = *ui
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		}
	})

	// ---- Logging ----
	closeLog := setupLogging(cfg)
	defer closeLog()
	if loadErr != nil && !errors.Is(loadErr, os.ErrNotExist) {
		log.Warn().Err(loadErr).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *saveConfig {
		if err := config.Save(*configPath, cfg); err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("save config")
		}
		log.Info().Str("path", *configPath).Msg("config saved")
		return
	}

	// ---- Conductor ----
	c, err := app.Bootstrap(cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(loopDone)
	}()

	// ---- HTTP ----
	var srv *http.Server
	if cfg.Addr != "" {
		srv = &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewEngine(c),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Addr).Msg("HTTP server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server crashed")
				stop()
			}
		}()
	}

	// ---- UI ----
	if cfg.UI == "tui" {
		if err := runTUI(ctx, c); err != nil {
			log.Error().Err(err).Msg("tui")
		}
		stop()
	} else {
		<-ctx.Done()
	}

	// ---- Graceful shutdown ----
	log.Info().Msg("shutting down")
	<-loopDone
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

func runTUI(ctx context.Context, c *app.Conductor) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ui := tui.New(screen, c, c.Eng.Palette)
	ui.Update(c.Snapshot())
	c.Subscribe(ui.Update)
	ui.Run(ctx)
	return nil
}

// setupLogging routes zerolog to stdout, or to a file while the TUI owns
// the terminal.
func setupLogging(cfg *config.Config) func() {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	var out io.Writer = os.Stdout
	closer := func() {}
	path := cfg.LogFile
	if path == "" && cfg.UI == "tui" {
		path = "petals.log"
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			out = f
			closer = func() { _ = f.Close() }
		}
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: out != io.Writer(os.Stdout)})
	return closer
}
