// Package splitpane models the resizable two-panel layout divider. Only the
// left panel width is stored; the right panel is always the remainder. The
// drag lifecycle is an explicit state machine so the viewport-wide pointer
// listeners attach and detach exactly once per drag.
package splitpane

import "sync"

// DragState is the divider's interaction state.
type DragState string

const (
	Idle     DragState = "idle"
	Dragging DragState = "dragging"
)

// Listeners receives attach/detach calls as the state machine transitions.
// Attach is called on Idle→Dragging, Detach on Dragging→Idle, so repeated
// drags cannot leak listeners.
type Listeners interface {
	Attach()
	Detach()
}

// Pane holds the divider position as a percentage of container width.
type Pane struct {
	mu        sync.Mutex
	state     DragState
	leftPct   float64
	minPct    float64
	maxPct    float64
	listeners Listeners
}

// New returns an idle pane. Width starts at initialPct; bounds outside
// (0,100) or inverted fall back to 20/80.
func New(initialPct, minPct, maxPct float64) *Pane {
	if minPct <= 0 || maxPct >= 100 || minPct >= maxPct {
		minPct, maxPct = 20, 80
	}
	if initialPct < minPct || initialPct > maxPct {
		initialPct = (minPct + maxPct) / 2
	}
	return &Pane{state: Idle, leftPct: initialPct, minPct: minPct, maxPct: maxPct}
}

// SetListeners installs the attach/detach hooks. Optional.
func (p *Pane) SetListeners(l Listeners) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = l
}

// PointerDown starts a drag on the divider.
func (p *Pane) PointerDown() {
	p.mu.Lock()
	if p.state == Dragging {
		p.mu.Unlock()
		return
	}
	p.state = Dragging
	l := p.listeners
	p.mu.Unlock()

	if l != nil {
		l.Attach()
	}
}

// PointerMove recomputes the left width from the pointer's horizontal
// position within a container of the given width. The computed percentage
// is accepted only inside [min,max]; out-of-bounds moves retain the
// previous width rather than clamping to the edge, so the divider does not
// jump when the pointer re-enters range. No-op while idle.
func (p *Pane) PointerMove(pointerX, containerWidth float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Dragging || containerWidth <= 0 {
		return
	}
	pct := pointerX / containerWidth * 100
	if pct < p.minPct || pct > p.maxPct {
		return
	}
	p.leftPct = pct
}

// PointerUp ends the drag. It fires from anywhere in the document, not only
// over the divider, so a fast drag that leaves the element still terminates.
func (p *Pane) PointerUp() {
	p.mu.Lock()
	if p.state != Dragging {
		p.mu.Unlock()
		return
	}
	p.state = Idle
	l := p.listeners
	p.mu.Unlock()

	if l != nil {
		l.Detach()
	}
}

// State returns the current drag state.
func (p *Pane) State() DragState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// LeftPct returns the left panel width percentage.
func (p *Pane) LeftPct() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leftPct
}

// RightPct is always the remainder of the left width.
func (p *Pane) RightPct() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return 100 - p.leftPct
}
