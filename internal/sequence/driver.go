package sequence

import (
	"github.com/coreman2200/funtimes-petals/internal/animate"
	"github.com/coreman2200/funtimes-petals/internal/petal"
)

// Driver loops. Each one captures the generation it was launched with and
// quits as soon as that generation is superseded or the playback state no
// longer matches. Position only changes after an awaited animation
// completes, so at most one petal moves at a time.

// forward walks the ring clockwise: hide every petal in index order, then
// show them again, until playback leaves Playing.
func (p *Player) forward(gen uint64) {
	for p.live(gen, Playing) && len(p.petals) > 0 {
		if p.pos.Index >= len(p.petals) {
			p.pos.Index = 0
			p.pos.Mode = p.pos.Mode.Flip()
			continue
		}
		if !p.animateCurrent(gen, 1, p.forward) {
			return
		}
	}
}

// reverse unwinds counter-clockwise: finish the current sub-phase down to
// index 0, then bring every petal back from the top, then settle into Idle.
func (p *Player) reverse(gen uint64) {
	for p.live(gen, Stopping) {
		n := len(p.petals)
		if p.pos.Index >= n {
			p.pos.Index = n - 1
		}
		if p.pos.Index < 0 {
			if p.pos.Mode == petal.Add {
				p.setState(Idle)
				p.pos.Index = 0
				continue
			}
			p.pos.Index = n - 1
			p.pos.Mode = petal.Add
			continue
		}
		if !p.animateCurrent(gen, -1, p.reverse) {
			return
		}
	}
}

// animateCurrent starts the petal at the current position. If the animation
// is still running it arranges for resume to be called on completion and
// returns false; it returns true only when the caller should keep looping
// right away.
func (p *Player) animateCurrent(gen uint64, step int, resume func(uint64)) bool {
	idx, mode := p.pos.Index, p.pos.Mode
	task := p.anim.Animate(p.petals[idx], mode.Target(p.anim.Profile), mode)
	p.current = task

	if task.Settled() {
		return p.advance(gen, idx, mode, step, task.Outcome())
	}
	task.Then(func(o animate.Outcome) {
		if p.advance(gen, idx, mode, step, o) {
			resume(gen)
		}
	})
	return false
}

// advance records a settled animation and moves the position if the loop
// that started it is still the live one.
func (p *Player) advance(gen uint64, idx int, mode petal.Mode, step int, o animate.Outcome) bool {
	if p.hooks.OnPetal != nil {
		p.hooks.OnPetal(idx, mode, o)
	}
	if o != animate.Completed || gen != p.gen {
		return false
	}
	p.pos.Index += step
	return true
}

func (p *Player) live(gen uint64, s State) bool {
	return gen == p.gen && p.state == s
}
