// Package animate drives one petal at a time from its current visual state
// to a target over per-frame callbacks.
package animate

import (
	"time"

	"github.com/coreman2200/funtimes-petals/internal/frame"
	"github.com/coreman2200/funtimes-petals/internal/petal"
)

// Outcome is how a Task settled.
type Outcome int

const (
	Pending Outcome = iota
	Completed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Animator starts Tasks on a shared scheduler.
type Animator struct {
	Sched   *frame.Scheduler
	Clock   frame.Clock
	Profile petal.Profile
}

func New(s *frame.Scheduler, c frame.Clock, p petal.Profile) *Animator {
	return &Animator{Sched: s, Clock: c, Profile: p}
}

// Task is one petal animation. It settles exactly once.
type Task struct {
	Start    petal.VisualState
	Target   petal.VisualState
	Mode     petal.Mode
	Duration time.Duration

	petal     *petal.Petal
	sched     *frame.Scheduler
	startTime time.Time
	handle    frame.Handle
	outcome   Outcome
	waiters   []func(Outcome)
}

// Animate cancels whatever the petal was doing and starts moving it toward
// target. The first frame is applied before Animate returns.
func (a *Animator) Animate(p *petal.Petal, target petal.VisualState, mode petal.Mode) *Task {
	t := &Task{
		Target: target,
		Mode:   mode,
		petal:  p,
		sched:  a.Sched,
	}
	p.Attach(t)

	t.Start = p.State()
	t.startTime = a.Clock.Now()
	t.Duration = a.Profile.Duration(t.Start, target)
	t.step(t.startTime)
	return t
}

func (t *Task) step(now time.Time) {
	t.handle = 0
	if t.outcome != Pending {
		return
	}
	progress := 1.0
	if t.Duration > 0 {
		progress = min(float64(now.Sub(t.startTime))/float64(t.Duration), 1)
	}
	t.petal.SetState(petal.Interpolate(t.Start, t.Target, progress, t.Mode))

	if progress < 1 {
		t.handle = t.sched.Request(t.step)
		return
	}
	t.petal.SetState(t.Target)
	t.petal.Detach(t)
	t.settle(Completed)
}

// Cancel stops the task where it is. The petal keeps its last written state.
func (t *Task) Cancel() {
	if t.outcome != Pending {
		return
	}
	if t.handle != 0 {
		t.sched.Cancel(t.handle)
		t.handle = 0
	}
	t.petal.Detach(t)
	t.settle(Cancelled)
}

func (t *Task) settle(o Outcome) {
	t.outcome = o
	waiters := t.waiters
	t.waiters = nil
	for _, fn := range waiters {
		fn(o)
	}
}

func (t *Task) Outcome() Outcome { return t.outcome }

func (t *Task) Settled() bool { return t.outcome != Pending }

func (t *Task) Petal() *petal.Petal { return t.petal }

// Then registers fn to run when the task settles, or runs it now if it
// already has.
func (t *Task) Then(fn func(Outcome)) {
	if t.outcome != Pending {
		fn(t.outcome)
		return
	}
	t.waiters = append(t.waiters, fn)
}
