package sequence

import (
	"sync"

	"github.com/coreman2200/funtimes-petals/internal/animate"
	"github.com/coreman2200/funtimes-petals/internal/petal"
)

// Player owns the playback state, the sequence position and the petal ring.
// It is not safe for concurrent use; see SafePlayer.
type Player struct {
	hooks  Hooks
	anim   *animate.Animator
	petals []*petal.Petal

	state   State
	pos     Position
	gen     uint64
	current *animate.Task
}

// NewPlayer constructs an Idle Player over petals.
func NewPlayer(petals []*petal.Petal, anim *animate.Animator, h Hooks) *Player {
	return &Player{
		hooks:  h,
		anim:   anim,
		petals: petals,
		state:  Idle,
		pos:    Position{Index: 0, Mode: petal.Remove},
	}
}

// Press applies a button press. Presses that are disabled in the current
// state are ignored whatever the UI showed. Reports whether anything changed.
func (p *Player) Press(b Button) bool {
	switch b {
	case Start:
		return p.Start()
	case Pause:
		return p.Pause()
	case Stop:
		return p.Stop()
	}
	return false
}

// Start begins playback from Idle, or abandons a reversal and resumes
// clockwise from wherever it got to.
func (p *Player) Start() bool {
	switch p.state {
	case Idle:
		p.setState(Playing)
		p.pos.Mode = petal.Remove
	case Stopping:
		p.setState(Playing)
		p.pos.Mode = p.pos.Mode.Flip()
	default:
		p.ignore(Start)
		return false
	}
	p.launch(p.forward)
	return true
}

// Pause freezes the current petal mid-frame; pressed again it resumes.
func (p *Player) Pause() bool {
	switch p.state {
	case Playing:
		p.setState(Pausing)
		p.gen++
		if pt := p.petalAt(p.pos.Index); pt != nil {
			pt.CancelInflight()
		}
	case Pausing:
		p.setState(Playing)
		p.launch(p.forward)
	default:
		p.ignore(Pause)
		return false
	}
	return true
}

// Stop reverses the sequence until every petal has settled, then idles.
func (p *Player) Stop() bool {
	switch p.state {
	case Playing, Pausing:
		p.pos.Mode = p.pos.Mode.Flip()
		p.setState(Stopping)
		p.launch(p.reverse)
		return true
	}
	p.ignore(Stop)
	return false
}

func (p *Player) launch(loop func(gen uint64)) {
	p.gen++
	loop(p.gen)
}

func (p *Player) setState(s State) {
	from := p.state
	p.state = s
	if p.hooks.OnTransition != nil {
		p.hooks.OnTransition(from, s, EnabledFor(s))
	}
}

func (p *Player) ignore(b Button) {
	if p.hooks.OnIgnored != nil {
		p.hooks.OnIgnored(b, p.state)
	}
}

func (p *Player) petalAt(i int) *petal.Petal {
	if i < 0 || i >= len(p.petals) {
		return nil
	}
	return p.petals[i]
}

func (p *Player) State() State { return p.state }

func (p *Player) Position() Position { return p.pos }

func (p *Player) Buttons() Buttons { return EnabledFor(p.state) }

func (p *Player) Petals() []*petal.Petal { return p.petals }

// Current is the most recently started driver animation, if any.
func (p *Player) Current() *animate.Task { return p.current }

// Snapshot copies the player's observable state.
func (p *Player) Snapshot() Snapshot {
	return Snapshot{
		State:      p.state,
		Buttons:    EnabledFor(p.state),
		Index:      p.pos.Index,
		Mode:       p.pos.Mode.String(),
		Generation: p.gen,
		Profile:    p.anim.Profile.Name,
		Petals:     petal.States(p.petals),
	}
}

// --- Lightweight synchronization helpers ---

// SafePlayer serializes every touch of a Player, including frame ticks, so
// the whole sequence behaves as if it ran on one thread.
type SafePlayer struct {
	mu sync.Mutex
	P  *Player
}

func NewSafePlayer(p *Player) *SafePlayer {
	return &SafePlayer{P: p}
}

func (s *SafePlayer) With(f func(p *Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s.P)
}

// Lock and Unlock let SafePlayer guard a frame.Loop.
func (s *SafePlayer) Lock()   { s.mu.Lock() }
func (s *SafePlayer) Unlock() { s.mu.Unlock() }

func (s *SafePlayer) Press(b Button) (changed bool) {
	s.With(func(p *Player) { changed = p.Press(b) })
	return changed
}

func (s *SafePlayer) Snapshot() (snap Snapshot) {
	s.With(func(p *Player) { snap = p.Snapshot() })
	return snap
}
