package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-petals/internal/animate"
	"github.com/coreman2200/funtimes-petals/internal/petal"
)

// State enumerates playback states.
type State string

const (
	Idle     State = "idle"
	Playing  State = "playing"
	Pausing  State = "pausing"
	Stopping State = "stopping"
)

// Button is one of the three user triggers.
type Button string

const (
	Start Button = "start"
	Pause Button = "pause"
	Stop  Button = "stop"
)

var ErrUnknownButton = errors.New("unknown button")

// ParseButton accepts a button name in any case.
func ParseButton(name string) (Button, error) {
	switch b := Button(strings.ToLower(strings.TrimSpace(name))); b {
	case Start, Pause, Stop:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownButton, name)
}

// Buttons holds which triggers are enabled.
type Buttons struct {
	Start bool `json:"start"`
	Pause bool `json:"pause"`
	Stop  bool `json:"stop"`
}

// Enabled reports whether b is enabled.
func (bs Buttons) Enabled(b Button) bool {
	switch b {
	case Start:
		return bs.Start
	case Pause:
		return bs.Pause
	case Stop:
		return bs.Stop
	}
	return false
}

// EnabledFor is the fixed enablement table. While pausing, Pause stays on
// because a second press resumes.
func EnabledFor(s State) Buttons {
	switch s {
	case Playing:
		return Buttons{Start: false, Pause: true, Stop: true}
	case Pausing:
		return Buttons{Start: false, Pause: true, Stop: true}
	case Stopping:
		return Buttons{Start: true, Pause: false, Stop: false}
	default:
		return Buttons{Start: true, Pause: false, Stop: false}
	}
}

// Position is which petal animates next and toward which target.
type Position struct {
	Index int        `json:"index"`
	Mode  petal.Mode `json:"-"`
}

// Hooks are dependency-injected callbacks into the surrounding app. They run
// with the player's lock held and must not call back into the player.
type Hooks struct {
	// OnTransition fires on every playback state change.
	OnTransition func(from, to State, b Buttons)
	// OnPetal fires when a driver's petal animation settles.
	OnPetal func(index int, mode petal.Mode, o animate.Outcome)
	// OnIgnored fires for presses that are disabled in the current state.
	OnIgnored func(b Button, s State)
}

// Snapshot is a copy of everything a renderer needs.
type Snapshot struct {
	State      State               `json:"state"`
	Buttons    Buttons             `json:"buttons"`
	Index      int                 `json:"index"`
	Mode       string              `json:"mode"`
	Generation uint64              `json:"generation"`
	Profile    string              `json:"profile"`
	Petals     []petal.VisualState `json:"petals"`
}
