package event

import (
	"go-hep.org/x/hep/fmom"
)

// GenEvent is an in-memory event record. It is used for events which are
// built by hand and as the target of the HepMC adapter.
type GenEvent struct {
	parts []Particle
}

// GenParticle is a particle inside a GenEvent.
type GenParticle struct {
	Barcode int
	Code    int
	Stat    int
	P4      fmom.PxPyPzE

	end *GenVertex
}

// GenVertex is a decay vertex inside a GenEvent.
type GenVertex struct {
	in, out []Particle
}

// NewGenEvent returns an empty event.
func NewGenEvent() *GenEvent { return &GenEvent{} }

// AddParticle appends a new particle to the event.
func (evt *GenEvent) AddParticle(
	pid, status int, p4 fmom.PxPyPzE,
) *GenParticle {
	p := &GenParticle{
		Barcode: len(evt.parts) + 1, Code: pid, Stat: status, P4: p4,
	}
	evt.parts = append(evt.parts, p)
	return p
}

// Decay creates a vertex which ends every particle in in and produces
// out. Particles in out must already belong to the event.
func (evt *GenEvent) Decay(in []*GenParticle, out ...*GenParticle) *GenVertex {
	v := &GenVertex{}
	for _, p := range in {
		p.end = v
		v.in = append(v.in, p)
	}
	for _, p := range out {
		v.out = append(v.out, p)
	}
	return v
}

// Particles returns every particle in the event in insertion order.
func (evt *GenEvent) Particles() []Particle { return evt.parts }

func (p *GenParticle) Status() int            { return p.Stat }
func (p *GenParticle) PID() int               { return p.Code }
func (p *GenParticle) Momentum() fmom.PxPyPzE { return p.P4 }

func (p *GenParticle) EndVertex() Vertex {
	// Returning a nil *GenVertex would give a non-nil interface.
	if p.end == nil {
		return nil
	}
	return p.end
}

func (v *GenVertex) ParticlesOut() []Particle { return v.out }

// ParticlesIn returns the particles which end at v.
func (v *GenVertex) ParticlesIn() []Particle { return v.in }
