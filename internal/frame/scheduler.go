// Package frame provides the display-refresh primitive animations run on:
// a scheduler of one-shot per-frame callbacks, a clock, and a ticking loop.
package frame

import (
	"sync"
	"time"
)

// Handle identifies a requested frame callback. Zero is never issued.
type Handle uint64

// Callback runs once on the next frame.
type Callback func(now time.Time)

// Scheduler queues one-shot callbacks for the next frame. It is not safe for
// concurrent use; callers serialize Tick with everything else that touches
// animated state.
type Scheduler struct {
	next  Handle
	queue []Handle
	live  map[Handle]Callback
}

func NewScheduler() *Scheduler {
	return &Scheduler{live: map[Handle]Callback{}}
}

// Request schedules cb for the next Tick.
func (s *Scheduler) Request(cb Callback) Handle {
	s.next++
	h := s.next
	s.live[h] = cb
	s.queue = append(s.queue, h)
	return h
}

// Cancel drops a pending callback. Unknown or fired handles are ignored.
func (s *Scheduler) Cancel(h Handle) {
	delete(s.live, h)
}

// Pending reports how many callbacks are waiting for the next frame.
func (s *Scheduler) Pending() int { return len(s.live) }

// Tick fires every callback requested before this call, in request order.
// Callbacks requested while ticking wait for the following frame.
func (s *Scheduler) Tick(now time.Time) int {
	batch := s.queue
	s.queue = nil
	fired := 0
	for _, h := range batch {
		cb, ok := s.live[h]
		if !ok {
			continue
		}
		delete(s.live, h)
		cb(now)
		fired++
	}
	return fired
}

// Clock is the time source animations measure elapsed time against.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Used by tests and simulations.
type ManualClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// Step advances clock by d and ticks s at the new time.
func Step(s *Scheduler, c *ManualClock, d time.Duration) int {
	return s.Tick(c.Advance(d))
}
