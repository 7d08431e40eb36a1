package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/animate"
	diag "github.com/coreman2200/funtimes-petals/internal/diagnostics"
	"github.com/coreman2200/funtimes-petals/internal/frame"
	"github.com/coreman2200/funtimes-petals/internal/led"
	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
	"github.com/coreman2200/funtimes-petals/internal/ws"
)

// DefaultBroadcastEvery caps websocket frames at ~20 FPS.
const DefaultBroadcastEvery = 50 * time.Millisecond

var ErrNotManual = errors.New("conductor clock is not manual")

// Options sizes a Conductor.
type Options struct {
	Petals         int
	Profile        petal.Profile
	FPS            int
	Clock          frame.Clock
	Drivers        []led.Driver
	PixelsPerPetal int
	Brightness     float64

	// Limiter, when set, replaces render.DefaultLimiter.
	Limiter *render.Limiter

	// Hub, when set, builds the hub that receives frames and diagnostics.
	Hub func(c *Conductor) *ws.Hub
}

// Conductor wires the player to the frame loop, the LED engine and the
// network surfaces.
type Conductor struct {
	Player *sequence.SafePlayer
	Sched  *frame.Scheduler
	Clock  frame.Clock
	Eng    *render.Engine
	Loop   *frame.Loop
	Hub    *ws.Hub
	Diags  *diag.Ring

	Drivers        []led.Driver
	BroadcastEvery time.Duration

	seq    atomic.Uint64
	events chan diag.Diagnostic

	// touched only by the frame goroutine
	lastCast      time.Time
	driverFailing bool

	subsMu sync.Mutex
	subs   []func(render.Frame)
}

func New(opts Options) (*Conductor, error) {
	clock := opts.Clock
	if clock == nil {
		clock = frame.SystemClock{}
	}
	drivers := make([]render.Driver, len(opts.Drivers))
	for i, d := range opts.Drivers {
		drivers[i] = d
	}
	eng, err := render.NewEngine(opts.Petals, opts.PixelsPerPetal, opts.Brightness, drivers...)
	if err != nil {
		return nil, err
	}
	if opts.Limiter != nil {
		eng.Limiter = *opts.Limiter
	}

	c := &Conductor{
		Sched:          frame.NewScheduler(),
		Clock:          clock,
		Eng:            eng,
		Diags:          diag.NewRing(256),
		Drivers:        opts.Drivers,
		BroadcastEvery: DefaultBroadcastEvery,
		events:         make(chan diag.Diagnostic, 64),
	}
	anim := animate.New(c.Sched, clock, opts.Profile)
	p := sequence.NewPlayer(petal.NewRing(opts.Petals, petal.Visible), anim, sequence.Hooks{
		OnTransition: func(from, to sequence.State, b sequence.Buttons) {
			log.Info().Str("from", string(from)).Str("to", string(to)).
				Bool("start", b.Start).Bool("pause", b.Pause).Bool("stop", b.Stop).
				Msg("playback")
			c.emit(diag.Transition(from, to, b))
		},
		OnPetal: func(i int, m petal.Mode, o animate.Outcome) {
			log.Debug().Int("petal", i).Str("mode", m.String()).Str("outcome", o.String()).Msg("petal settled")
			c.emit(diag.Settled(i, m, o))
		},
		OnIgnored: func(b sequence.Button, s sequence.State) {
			log.Debug().Str("button", string(b)).Str("state", string(s)).Msg("press ignored")
			c.emit(diag.Ignored(b, s))
		},
	})
	c.Player = sequence.NewSafePlayer(p)
	c.Loop = &frame.Loop{
		FPS:     opts.FPS,
		Sched:   c.Sched,
		Clock:   clock,
		Lock:    c.Player,
		OnFrame: c.afterFrame,
	}
	if opts.Hub != nil {
		c.Hub = opts.Hub(c)
	}
	return c, nil
}

// Press applies a named button press and returns the frame right after it.
func (c *Conductor) Press(name string) (render.Frame, error) {
	b, err := sequence.ParseButton(name)
	if err != nil {
		return render.Frame{}, err
	}
	c.Player.Press(b)
	return c.Snapshot(), nil
}

// Snapshot is the current frame without advancing anything.
func (c *Conductor) Snapshot() render.Frame {
	return render.Frame{Seq: c.seq.Load(), At: c.Clock.Now(), Snapshot: c.Player.Snapshot()}
}

// Subscribe registers fn to receive every rendered frame, on the frame
// goroutine.
func (c *Conductor) Subscribe(fn func(render.Frame)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subs = append(c.subs, fn)
}

// Run drives the frame loop until ctx is done.
func (c *Conductor) Run(ctx context.Context) {
	if c.Hub != nil {
		go c.pump(ctx)
	}
	log.Info().Int("fps", c.Loop.FPS).Int("drivers", len(c.Drivers)).Msg("frame loop starting")
	c.Loop.Run(ctx)
}

// Advance moves a manual clock by d and runs one frame. Simulations and
// tests use it in place of Run.
func (c *Conductor) Advance(d time.Duration) error {
	mc, ok := c.Clock.(*frame.ManualClock)
	if !ok {
		return ErrNotManual
	}
	var now time.Time
	c.Player.With(func(*sequence.Player) {
		now = mc.Advance(d)
		c.Sched.Tick(now)
	})
	c.afterFrame(now)
	return nil
}

// Close releases every driver.
func (c *Conductor) Close() error {
	var errs []error
	for _, d := range c.Drivers {
		errs = append(errs, d.Close())
	}
	return errors.Join(errs...)
}

func (c *Conductor) afterFrame(now time.Time) {
	f := render.Frame{Seq: c.seq.Add(1), At: now, Snapshot: c.Player.Snapshot()}

	if err := c.Eng.RenderOnce(f); err != nil {
		if !c.driverFailing {
			log.Warn().Err(err).Msg("driver write failed")
			c.emit(diag.DriverWrite(err))
		}
		c.driverFailing = true
	} else {
		c.driverFailing = false
	}

	if c.Hub != nil && now.Sub(c.lastCast) >= c.BroadcastEvery {
		c.lastCast = now
		c.Hub.BroadcastFrame(f)
	}

	c.subsMu.Lock()
	subs := c.subs
	c.subsMu.Unlock()
	for _, fn := range subs {
		fn(f)
	}
}

// emit stamps d with the conductor's clock, records it and queues it for
// /diag. It never blocks, since hooks run under the player lock.
func (c *Conductor) emit(d diag.Diagnostic) {
	d.Time = c.Clock.Now()
	c.Diags.Push(d)
	if c.Hub == nil {
		return
	}
	select {
	case c.events <- d:
	default:
	}
}

func (c *Conductor) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case d := <-c.events:
			c.Hub.PushDiag(d)
		}
	}
}
