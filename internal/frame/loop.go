package frame

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultFPS = 60

// Loop ticks a Scheduler at a fixed rate until its context is cancelled.
type Loop struct {
	FPS   int
	Sched *Scheduler
	Clock Clock

	// Lock is held while the scheduler ticks, so frame callbacks never race
	// with button presses taking the same lock.
	Lock sync.Locker

	// OnFrame runs after each tick, outside Lock.
	OnFrame func(now time.Time)

	frames atomic.Uint64
}

func (l *Loop) interval() time.Duration {
	fps := l.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Frames reports how many ticks have run.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// Run blocks until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	clock := l.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	ticker := time.NewTicker(l.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := clock.Now()
			if l.Lock != nil {
				l.Lock.Lock()
			}
			l.Sched.Tick(now)
			if l.Lock != nil {
				l.Lock.Unlock()
			}
			l.frames.Add(1)
			if l.OnFrame != nil {
				l.OnFrame(now)
			}
		}
	}
}
