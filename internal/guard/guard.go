// Package guard implements the interview integrity monitor as an explicit
// state machine.
//
// The guard observes discrete events from the hosting flow (visibility
// changes, navigation attempts, acknowledgements) while an interview is in
// progress and surfaces warnings when the candidate leaves the page. It is
// advisory, not preventive: the contract is detect and disclose.
package guard

import "sync"

// State is the guard's monitoring state.
type State int

const (
	// StateInactive means no interview is in progress; events are ignored.
	StateInactive State = iota
	// StateActiveUnwarned means monitoring is engaged with no pending warning.
	StateActiveUnwarned
	// StateActiveWarned means a violation was detected and the warning is
	// displayed until the candidate acknowledges it.
	StateActiveWarned
)

func (s State) String() string {
	switch s {
	case StateActiveUnwarned:
		return "active-unwarned"
	case StateActiveWarned:
		return "active-warned"
	default:
		return "inactive"
	}
}

// HistoryPusher nullifies a navigation attempt by pushing a neutral history
// state over it.
type HistoryPusher interface {
	PushNeutralState()
}

// Guard is the integrity monitor. All transitions are synchronized; the zero
// value is not usable, construct with New.
type Guard struct {
	mu          sync.Mutex
	state       State
	onViolation func()
	history     HistoryPusher
}

// New constructs an inactive Guard. onViolation is invoked once per detected
// visibility-hidden event while active; either argument may be nil.
func New(onViolation func(), history HistoryPusher) *Guard {
	return &Guard{state: StateInactive, onViolation: onViolation, history: history}
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Activate engages monitoring when the interview starts. Activating an
// already-active guard keeps its current sub-state.
func (g *Guard) Activate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateInactive {
		g.state = StateActiveUnwarned
	}
}

// Deactivate disengages monitoring; no further events are observed.
func (g *Guard) Deactivate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateInactive
}

// VisibilityHidden handles the page becoming hidden. While active it moves
// to the warned state and invokes the violation callback exactly once per
// event; while inactive it is a no-op.
func (g *Guard) VisibilityHidden() {
	g.mu.Lock()
	if g.state == StateInactive {
		g.mu.Unlock()
		return
	}
	g.state = StateActiveWarned
	cb := g.onViolation
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// NavigationAttempt handles a browser back/forward attempt. While active it
// pushes a neutral history state to nullify the navigation and moves to the
// warned state; the violation callback is not invoked.
func (g *Guard) NavigationAttempt() {
	g.mu.Lock()
	if g.state == StateInactive {
		g.mu.Unlock()
		return
	}
	g.state = StateActiveWarned
	h := g.history
	g.mu.Unlock()

	if h != nil {
		h.PushNeutralState()
	}
}

// Acknowledge dismisses the warning; monitoring continues.
func (g *Guard) Acknowledge() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateActiveWarned {
		g.state = StateActiveUnwarned
	}
}

// UnloadAttempt reports whether an unload confirmation prompt is required.
func (g *Guard) UnloadAttempt() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state != StateInactive
}
