package diagnostics

import (
	"fmt"
	"sync"
	"time"

	"github.com/coreman2200/funtimes-petals/internal/animate"
	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

const (
	CodeTransition  = "PLAYBACK.TRANSITION"
	CodeIgnored     = "PLAYBACK.IGNORED"
	CodeSettled     = "PETAL.SETTLED"
	CodeDriverWrite = "DRIVER.WRITE"
	CodeControl     = "CONTROL.INVALID"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func Transition(from, to sequence.State, b sequence.Buttons) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     CodeTransition,
		Summary:  fmt.Sprintf("%s -> %s", from, to),
		Evidence: map[string]any{"from": from, "to": to, "buttons": b},
	}
}

func Ignored(b sequence.Button, s sequence.State) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     CodeIgnored,
		Summary:  fmt.Sprintf("%s is disabled while %s", b, s),
		Evidence: map[string]any{"button": b, "state": s},
	}
}

func Settled(index int, mode petal.Mode, o animate.Outcome) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Info,
		Code:     CodeSettled,
		Summary:  fmt.Sprintf("petal %d %s %s", index, mode, o),
		Evidence: map[string]any{"index": index, "mode": mode.String(), "outcome": o.String()},
	}
}

func DriverWrite(err error) Diagnostic {
	return Diagnostic{
		Time:           time.Now(),
		Severity:       Warn,
		Code:           CodeDriverWrite,
		Summary:        "LED driver write failed",
		Detail:         err.Error(),
		LikelyCauses:   []string{"SPI port unplugged or busy", "strip shorter than the configured pixel count"},
		SuggestedFixes: []string{"check wiring and spi.dev", "run with driver: sim to isolate the animation"},
	}
}

func Control(err error, raw string) Diagnostic {
	return Diagnostic{
		Time:     time.Now(),
		Severity: Err,
		Code:     CodeControl,
		Summary:  "control message rejected",
		Detail:   err.Error(),
		Evidence: map[string]any{"message": raw},
	}
}

// Ring keeps the most recent diagnostics.
type Ring struct {
	mu    sync.Mutex
	buf   []Diagnostic
	next  int
	full  bool
	total uint64
}

func NewRing(size int) *Ring {
	return &Ring{buf: make([]Diagnostic, max(size, 1))}
}

func (r *Ring) Push(d Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buf[r.next] = d
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	r.total++
}

// List returns the kept diagnostics, oldest first.
func (r *Ring) List() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Diagnostic(nil), r.buf[:r.next]...)
	}
	out := make([]Diagnostic, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	return append(out, r.buf[:r.next]...)
}

// Total counts every diagnostic ever pushed.
func (r *Ring) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
