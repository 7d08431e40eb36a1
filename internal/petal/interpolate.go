package petal

import (
	"math"
	"time"
)

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func lerp(a, b, u float64) float64 {
	return a + (b-a)*u
}

// DeriveOpacity maps an interpolated scale to opacity. Appearing and
// disappearing use different curves on purpose; they are not inverses.
func DeriveOpacity(scale float64, mode Mode) float64 {
	if mode == Add {
		if scale <= 0.7 {
			return 1
		}
		return clamp01(scale / 0.8)
	}
	if scale >= 0.8 {
		return 0
	}
	return clamp01((scale - 0.8) / 0.8)
}

// Interpolate returns the state at progress (clamped to [0,1]) between start
// and target. Scale and translation are linear; opacity is derived from the
// interpolated scale. Both endpoints are returned exactly.
func Interpolate(start, target VisualState, progress float64, mode Mode) VisualState {
	if progress <= 0 {
		return start
	}
	if progress >= 1 {
		return target
	}
	scale := lerp(start.Scale, target.Scale, progress)
	return VisualState{
		Scale:      scale,
		TranslateX: lerp(start.TranslateX, target.TranslateX, progress),
		TranslateY: lerp(start.TranslateY, target.TranslateY, progress),
		Opacity:    DeriveOpacity(scale, mode),
	}
}

// Duration is how long a transition from start to target should take: the
// remaining scale distance against MaxScale, never shorter than MinDuration.
func (p Profile) Duration(start, target VisualState) time.Duration {
	maxScale := p.MaxScale
	if maxScale <= 0 {
		maxScale = MaxScale
	}
	ratio := math.Abs(target.Scale-start.Scale) / maxScale
	d := time.Duration(ratio * float64(p.BaseDuration))
	if d < p.MinDuration {
		return p.MinDuration
	}
	return d
}

// Duration uses the Default profile.
func Duration(start, target VisualState) time.Duration {
	return Default.Duration(start, target)
}
