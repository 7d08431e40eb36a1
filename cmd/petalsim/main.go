package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/app"
	"github.com/coreman2200/funtimes-petals/internal/frame"
	"github.com/coreman2200/funtimes-petals/internal/led"
	"github.com/coreman2200/funtimes-petals/internal/petal"
)

func main() {
	var (
		petals   = flag.Int("petals", 5, "number of petals")
		profile  = flag.String("profile", "fade", "animation profile: fade | slide")
		script   = flag.String("script", "start@0,pause@450,pause@900,stop@1500", "button presses as button@ms, comma separated")
		duration = flag.Duration("duration", 4*time.Second, "simulated time to run")
		dt       = flag.Duration("dt", 16*time.Millisecond, "simulated frame step")
		logLevel = flag.String("log-level", "debug", "log level")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})

	steps, err := parseScript(*script)
	if err != nil {
		log.Fatal().Err(err).Msg("script")
	}
	prof, err := petal.LookupProfile(*profile)
	if err != nil {
		log.Fatal().Err(err).Msg("profile")
	}
	if *dt <= 0 {
		log.Fatal().Dur("dt", *dt).Msg("dt must be positive")
	}

	clock := frame.NewManualClock(time.Unix(0, 0).UTC())
	sim := led.NewSim()
	sim.LogEvery = 30
	c, err := app.New(app.Options{
		Petals:         *petals,
		Profile:        prof,
		FPS:            int(time.Second / *dt),
		Clock:          clock,
		Drivers:        []led.Driver{sim},
		PixelsPerPetal: 1,
		Brightness:     1,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("conductor")
	}
	defer c.Close()

	var elapsed time.Duration
	for elapsed <= *duration {
		for len(steps) > 0 && steps[0].at <= elapsed {
			f, _ := c.Press(string(steps[0].button))
			fmt.Printf("[%6dms] press %-5s -> %s\n", elapsed.Milliseconds(), steps[0].button, f.State)
			steps = steps[1:]
		}
		if err := c.Advance(*dt); err != nil {
			log.Fatal().Err(err).Msg("advance")
		}
		elapsed += *dt
	}

	f := c.Snapshot()
	fmt.Printf("final: state=%s index=%d mode=%s frames=%d\n", f.State, f.Index, f.Mode, sim.Frames())
	for i, st := range f.Petals {
		fmt.Printf("  petal %d scale=%.2f opacity=%.2f y=%.1f\n", i, st.Scale, st.Opacity, st.TranslateY)
	}
}
