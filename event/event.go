// Package event provides a read-only view of a generator event record
// and the algorithms which select particles from it.
package event

import (
	"go-hep.org/x/hep/fmom"
)

// Status codes used by the event generator.
const (
	StatusFinal        = 1
	StatusIncoming     = 21
	StatusHardOutgoing = 23
)

// Particle is a read-only particle in an event record. Implementations
// must be comparable and two Particles must compare equal only if they
// refer to the same particle.
type Particle interface {
	Status() int
	PID() int
	Momentum() fmom.PxPyPzE
	// EndVertex returns the decay vertex of the particle or nil for
	// particles which do not decay.
	EndVertex() Vertex
}

// Vertex is a decay point. Like Particle, it must be comparable by
// identity.
type Vertex interface {
	ParticlesOut() []Particle
}

// Event is a single event record. Particles must always be returned in
// the same order.
type Event interface {
	Particles() []Particle
}

// Kinematics returns the transverse momentum, pseudorapidity and azimuthal
// angle of p.
func Kinematics(p Particle) (pt, eta, phi float64) {
	p4 := p.Momentum()
	return p4.Pt(), p4.Eta(), p4.Phi()
}
