package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

type recorder struct {
	pressed []string
}

func (r *recorder) Press(name string) (render.Frame, error) {
	r.pressed = append(r.pressed, name)
	return render.Frame{Snapshot: sequence.Snapshot{State: sequence.Playing, Buttons: sequence.EnabledFor(sequence.Playing)}}, nil
}

func newSim(t *testing.T) (tcell.SimulationScreen, *UI, *recorder) {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	s.SetSize(80, 24)
	rec := &recorder{}
	return s, New(s, rec, render.NewPalette(5)), rec
}

func row(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return b.String()
}

func screenText(s tcell.SimulationScreen) string {
	_, _, h := s.GetContents()
	var lines []string
	for y := 0; y < h; y++ {
		lines = append(lines, row(s, y))
	}
	return strings.Join(lines, "\n")
}

func idleFrame() render.Frame {
	return render.Frame{Snapshot: sequence.Snapshot{
		State:   sequence.Idle,
		Buttons: sequence.EnabledFor(sequence.Idle),
		Mode:    "remove",
		Petals:  []petal.VisualState{petal.Visible, petal.Visible, petal.Hidden, petal.Visible, petal.Visible},
	}}
}

func TestDrawShowsPetalsAndButtons(t *testing.T) {
	s, ui, _ := newSim(t)
	ui.Update(idleFrame())
	ui.Draw()

	text := screenText(s)
	assert.Equal(t, 4, strings.Count(text, "✿"))
	assert.Equal(t, 1, strings.Count(text, "·"))
	assert.Contains(t, row(s, 21), "[ Start ]")
	assert.Contains(t, row(s, 21), "[ Pause ]")
	assert.Contains(t, row(s, 21), "[ Stop ]")
	assert.Contains(t, row(s, 20), "idle")
}

func TestKeysPressButtons(t *testing.T) {
	_, ui, rec := newSim(t)
	ui.Update(idleFrame())
	ui.Draw()

	assert.True(t, ui.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)))
	assert.True(t, ui.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	assert.True(t, ui.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.Equal(t, []string{"start", "pause", "stop"}, rec.pressed)

	assert.False(t, ui.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, ui.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestMouseClicksButtons(t *testing.T) {
	_, ui, rec := newSim(t)
	ui.Update(idleFrame())
	ui.Draw()

	// "[ Pause ]" is the second button, starting at column 13.
	ui.HandleEvent(tcell.NewEventMouse(15, 21, tcell.Button1, tcell.ModNone))
	ui.HandleEvent(tcell.NewEventMouse(15, 10, tcell.Button1, tcell.ModNone))
	ui.HandleEvent(tcell.NewEventMouse(3, 21, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, []string{"pause"}, rec.pressed)
}

func TestGlyphs(t *testing.T) {
	assert.Equal(t, '✿', glyph(petal.Visible))
	assert.Equal(t, '·', glyph(petal.Hidden))
	assert.Equal(t, '❀', glyph(petal.VisualState{Scale: 0.7, Opacity: 1}))
	assert.Equal(t, '•', glyph(petal.VisualState{Scale: 0.45, Opacity: 1}))
	assert.Equal(t, "Start", title("start"))
}
