package petal

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deriveOpacityCases = []struct {
	Scale  float64
	Mode   Mode
	Expect float64
}{
	{0.7, Add, 1},
	{0.2, Add, 1},
	{0.72, Add, 0.9},
	{0.8, Add, 1},
	{1.0, Add, 1},
	{0.8, Remove, 0},
	{1.0, Remove, 0},
	{0.5, Remove, 0},
	{0.0, Remove, 0},
}

func TestDeriveOpacity(t *testing.T) {
	for k, v := range deriveOpacityCases {
		t.Run("case"+strconv.Itoa(k), func(t *testing.T) {
			assert.InDelta(t, v.Expect, DeriveOpacity(v.Scale, v.Mode), 1e-9, "scale=%v mode=%v", v.Scale, v.Mode)
		})
	}
}

func TestDeriveOpacityStaysInRange(t *testing.T) {
	for s := 0.0; s <= 1.0; s += 0.01 {
		for _, m := range []Mode{Add, Remove} {
			o := DeriveOpacity(s, m)
			assert.GreaterOrEqual(t, o, 0.0)
			assert.LessOrEqual(t, o, 1.0)
		}
	}
}

func TestInterpolateEndpointsExact(t *testing.T) {
	start := VisualState{Scale: 0.63, TranslateX: 1.1, TranslateY: 7.3, Opacity: 0.42}
	target := Slide.Hidden

	for _, m := range []Mode{Add, Remove} {
		assert.Equal(t, start, Interpolate(start, target, 0, m))
		assert.Equal(t, target, Interpolate(start, target, 1, m))
		assert.Equal(t, start, Interpolate(start, target, -0.5, m))
		assert.Equal(t, target, Interpolate(start, target, 3, m))
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	got := Interpolate(Visible, Slide.Hidden, 0.5, Remove)
	assert.InDelta(t, 0.7, got.Scale, 1e-9)
	assert.InDelta(t, 10, got.TranslateY, 1e-9)
	assert.InDelta(t, 0, got.TranslateX, 1e-9)
	assert.Equal(t, 0.0, got.Opacity)

	got = Interpolate(Hidden, Visible, 0.5, Add)
	assert.InDelta(t, 0.7, got.Scale, 1e-9)
	assert.Equal(t, 1.0, got.Opacity)
}

func TestDurationFloorAndMonotonic(t *testing.T) {
	start := VisualState{Scale: 1}
	prev := time.Duration(0)
	for delta := 0.0; delta <= 1.0; delta += 0.05 {
		d := Duration(start, VisualState{Scale: 1 - delta})
		assert.GreaterOrEqual(t, d, MinDuration)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
	assert.Equal(t, MinDuration, Duration(Visible, Visible))
	assert.InDelta(t, float64(200*time.Millisecond), float64(Duration(Reset, Visible)), float64(time.Microsecond))
	assert.InDelta(t, float64(120*time.Millisecond), float64(Duration(Visible, Hidden)), float64(time.Microsecond))
}

func TestSlideProfileDuration(t *testing.T) {
	assert.InDelta(t, float64(600*time.Millisecond), float64(Slide.Duration(Visible, Slide.Hidden)), float64(time.Microsecond))
}

func TestLookupProfile(t *testing.T) {
	p, err := LookupProfile("")
	require.NoError(t, err)
	assert.Equal(t, Default.Name, p.Name)

	p, err = LookupProfile("slide")
	require.NoError(t, err)
	assert.Equal(t, 20.0, p.Hidden.TranslateY)

	_, err = LookupProfile("bounce")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestModeFlipAndTarget(t *testing.T) {
	assert.Equal(t, Add, Remove.Flip())
	assert.Equal(t, Remove, Add.Flip())
	assert.Equal(t, Hidden, Remove.Target(Fade))
	assert.Equal(t, Visible, Add.Target(Fade))
	assert.Equal(t, "add", Add.String())
}
