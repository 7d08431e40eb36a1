// Package tui draws the flower and its three buttons in a terminal.
package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-petals/internal/layout"
	"github.com/coreman2200/funtimes-petals/internal/petal"
	"github.com/coreman2200/funtimes-petals/internal/render"
	"github.com/coreman2200/funtimes-petals/internal/sequence"
)

const redrawEvery = 33 * time.Millisecond

// Presser is where button presses go.
type Presser interface {
	Press(name string) (render.Frame, error)
}

type hitBox struct {
	button sequence.Button
	x0, x1 int
	y      int
}

type UI struct {
	screen tcell.Screen
	ctrl   Presser
	pal    render.Palette

	mu    sync.Mutex
	frame render.Frame
	dirty bool

	boxes []hitBox
}

func New(s tcell.Screen, ctrl Presser, pal render.Palette) *UI {
	return &UI{screen: s, ctrl: ctrl, pal: pal, dirty: true}
}

// Update stores the latest frame; the next redraw picks it up. Safe to call
// from the frame goroutine.
func (u *UI) Update(f render.Frame) {
	u.mu.Lock()
	u.frame = f
	u.dirty = true
	u.mu.Unlock()
}

// Run polls input and redraws until the user quits or ctx is done. The
// caller owns Init and Fini.
func (u *UI) Run(ctx context.Context) {
	u.screen.EnableMouse()
	u.screen.HideCursor()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	ticker := time.NewTicker(redrawEvery)
	defer ticker.Stop()
	u.Draw()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			if !u.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			u.mu.Lock()
			dirty := u.dirty
			u.mu.Unlock()
			if dirty {
				u.Draw()
			}
		}
	}
}

// HandleEvent applies one input event. It returns false when the user asked
// to quit.
func (u *UI) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 's', 'S':
				u.press(sequence.Start)
			case 'p', 'P', ' ':
				u.press(sequence.Pause)
			case 'x', 'X':
				u.press(sequence.Stop)
			}
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			break
		}
		x, y := ev.Position()
		if b, ok := u.hit(x, y); ok {
			u.press(b)
		}

	case *tcell.EventResize:
		u.screen.Sync()
		u.Draw()
	}
	return true
}

func (u *UI) press(b sequence.Button) {
	f, err := u.ctrl.Press(string(b))
	if err != nil {
		log.Warn().Err(err).Str("button", string(b)).Msg("press failed")
		return
	}
	u.Update(f)
	u.Draw()
}

func (u *UI) hit(x, y int) (sequence.Button, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, b := range u.boxes {
		if y == b.y && x >= b.x0 && x < b.x1 {
			return b.button, true
		}
	}
	return "", false
}

// Draw renders the current frame.
func (u *UI) Draw() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.dirty = false
	f := u.frame

	s := u.screen
	s.Clear()
	w, h := s.Size()

	// Terminal cells are about twice as tall as wide, so x is stretched.
	flowerH := h - 5
	radius := float64(min(flowerH, w/2)) * 0.36
	ring := layout.Ring{Count: len(f.Petals), Radius: radius, CenterX: float64(w) / 2, CenterY: float64(flowerH) / 2}
	for i, st := range f.Petals {
		px, py := ring.Point(i)
		x := int(ring.CenterX + (px-ring.CenterX)*2 + 0.5)
		y := int(py + 0.5)
		if st.TranslateY > petal.Slide.Hidden.TranslateY/2 {
			y++
		}
		s.SetContent(x, y, glyph(st), nil, u.petalStyle(i, st))
	}
	if len(f.Petals) > 0 {
		s.SetContent(int(ring.CenterX), int(ring.CenterY), '●', nil, tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	status := fmt.Sprintf("%-8s petal %d  %s  #%d", f.State, f.Index, f.Mode, f.Seq)
	if f.State == "" {
		status = "waiting for first frame"
	}
	drawText(s, 2, h-4, status, tcell.StyleDefault.Foreground(tcell.ColorSilver))

	u.boxes = u.boxes[:0]
	x := 2
	for _, b := range []sequence.Button{sequence.Start, sequence.Pause, sequence.Stop} {
		label := fmt.Sprintf("[ %s ]", title(string(b)))
		style := tcell.StyleDefault.Foreground(tcell.ColorGray).Dim(true)
		if f.Buttons.Enabled(b) {
			style = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen).Bold(true)
		}
		drawText(s, x, h-3, label, style)
		u.boxes = append(u.boxes, hitBox{button: b, x0: x, x1: x + len(label), y: h - 3})
		x += len(label) + 2
	}
	drawText(s, 2, h-1, "s start  p pause  x stop  q quit", tcell.StyleDefault.Foreground(tcell.ColorGray))
	s.Show()
}

func (u *UI) petalStyle(i int, st petal.VisualState) tcell.Style {
	c := colorful.Color{}.BlendLab(u.pal.Base(i), max(st.Opacity, 0.15)).Clamped()
	r, g, b := c.RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

func glyph(st petal.VisualState) rune {
	switch {
	case st.Opacity <= 0:
		return '·'
	case st.Scale >= 0.9:
		return '✿'
	case st.Scale >= 0.6:
		return '❀'
	default:
		return '•'
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
