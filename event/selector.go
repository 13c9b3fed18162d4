package event

import (
	"github.com/jetsml/jetimg/charge"
)

// Selector decides whether a particle should be selected.
type Selector interface {
	Select(p Particle) bool
}

// StatusSelector selects particles with a given status code.
type StatusSelector int

func (s StatusSelector) Select(p Particle) bool { return p.Status() == int(s) }

var (
	// Final selects stable, final-state particles.
	Final = StatusSelector(StatusFinal)
	// Incoming selects the incoming partons of the hard process.
	Incoming = StatusSelector(StatusIncoming)
	// HardOutgoing selects the outgoing partons of the hard process.
	HardOutgoing = StatusSelector(StatusHardOutgoing)
)

// ChargedSelector selects particles with a non-zero charge in Table. A nil
// Table uses charge.Default().
type ChargedSelector struct {
	Table *charge.Table
}

func (s ChargedSelector) Select(p Particle) bool {
	tab := s.Table
	if tab == nil {
		tab = defaultCharges
	}
	return tab.Charged(p.PID())
}

var defaultCharges = charge.Default()

// All selects particles which pass every one of its selectors. An empty
// All selects everything.
type All []Selector

func (all All) Select(p Particle) bool {
	for _, s := range all {
		if !s.Select(p) {
			return false
		}
	}
	return true
}
