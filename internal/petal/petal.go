package petal

// Inflight is a live per-frame subscription driving a petal.
type Inflight interface {
	Cancel()
}

// Petal is one animated element. It carries at most one live subscription;
// attaching a new one cancels the old.
type Petal struct {
	index    int
	state    VisualState
	inflight Inflight
}

func New(index int, initial VisualState) *Petal {
	return &Petal{index: index, state: initial}
}

// NewRing builds n petals in index order, all starting at initial.
func NewRing(n int, initial VisualState) []*Petal {
	if n < 0 {
		n = 0
	}
	out := make([]*Petal, n)
	for i := range out {
		out[i] = New(i, initial)
	}
	return out
}

func (p *Petal) Index() int { return p.index }

func (p *Petal) State() VisualState { return p.state }

func (p *Petal) SetState(s VisualState) { p.state = s }

// Animating reports whether a subscription is attached.
func (p *Petal) Animating() bool { return p.inflight != nil }

// Attach cancels any current subscription and installs f.
func (p *Petal) Attach(f Inflight) {
	p.CancelInflight()
	p.inflight = f
}

// Detach clears the subscription only if f is still the attached one.
func (p *Petal) Detach(f Inflight) {
	if p.inflight == f {
		p.inflight = nil
	}
}

// CancelInflight cancels and clears the live subscription, freezing the
// petal at whatever state was last written. Reports whether one existed.
func (p *Petal) CancelInflight() bool {
	f := p.inflight
	if f == nil {
		return false
	}
	p.inflight = nil
	f.Cancel()
	return true
}

// States copies the visual state of every petal.
func States(petals []*Petal) []VisualState {
	out := make([]VisualState, len(petals))
	for i, p := range petals {
		out[i] = p.state
	}
	return out
}
