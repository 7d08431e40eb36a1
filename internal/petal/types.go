package petal

import (
	"errors"
	"fmt"
	"time"
)

// VisualState is a snapshot of one petal's transform and opacity.
type VisualState struct {
	Scale      float64 `json:"scale"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Opacity    float64 `json:"opacity"`
}

// Mode is the sequence sub-phase: petals are either being removed or added.
type Mode int

const (
	Remove Mode = iota
	Add
)

func (m Mode) String() string {
	if m == Add {
		return "add"
	}
	return "remove"
}

// Flip returns the opposite sub-phase.
func (m Mode) Flip() Mode {
	if m == Add {
		return Remove
	}
	return Add
}

// Target returns the state a petal animates toward in this mode.
func (m Mode) Target(p Profile) VisualState {
	if m == Add {
		return p.Visible
	}
	return p.Hidden
}

const (
	BaseDuration = 200 * time.Millisecond
	MinDuration  = 100 * time.Millisecond
	MaxScale     = 1.0
)

var (
	Visible = VisualState{Scale: 1, Opacity: 1}
	Hidden  = VisualState{Scale: 0.4, Opacity: 0}
	Reset   = VisualState{Scale: 0, Opacity: 1}
)

// Profile groups the target states and timing bounds for one animation look.
type Profile struct {
	Name         string
	Visible      VisualState
	Hidden       VisualState
	Reset        VisualState
	BaseDuration time.Duration
	MinDuration  time.Duration
	MaxScale     float64
}

var ErrUnknownProfile = errors.New("unknown profile")

// Fade shrinks petals in place and fades them out.
var Fade = Profile{
	Name:         "fade",
	Visible:      Visible,
	Hidden:       Hidden,
	Reset:        Reset,
	BaseDuration: BaseDuration,
	MinDuration:  MinDuration,
	MaxScale:     MaxScale,
}

// Slide drops petals downward while shrinking, on a slower clock.
var Slide = Profile{
	Name:         "slide",
	Visible:      Visible,
	Hidden:       VisualState{Scale: 0.4, TranslateY: 20, Opacity: 0},
	Reset:        Reset,
	BaseDuration: time.Second,
	MinDuration:  MinDuration,
	MaxScale:     MaxScale,
}

// Default is the profile used when none is configured.
var Default = Fade

var profiles = map[string]Profile{
	Fade.Name:  Fade,
	Slide.Name: Slide,
}

// LookupProfile returns a built-in profile by name. An empty name yields Default.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		return Default, nil
	}
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists the built-in profiles.
func ProfileNames() []string {
	return []string{Fade.Name, Slide.Name}
}
