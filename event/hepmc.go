package event

import (
	"io"
	"sort"

	"go-hep.org/x/hep/hepmc"
)

// Reader reads events from a HepMC2 IO_GenEvent ASCII stream. HepMC3
// files are not supported.
type Reader struct {
	dec *hepmc.Decoder
}

// NewReader returns a Reader which decodes events from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: hepmc.NewDecoder(r)}
}

// Next returns the next event in the stream. It returns io.EOF once the
// stream is exhausted.
func (r *Reader) Next() (*GenEvent, error) {
	var evt hepmc.Event
	if err := r.dec.Decode(&evt); err != nil {
		return nil, err
	}
	return FromHepMC(&evt), nil
}

// FromHepMC copies the particle/vertex graph of a decoded HepMC event into
// a GenEvent. Particles are ordered by barcode.
func FromHepMC(evt *hepmc.Event) *GenEvent {
	barcodes := make([]int, 0, len(evt.Particles))
	for bc := range evt.Particles {
		barcodes = append(barcodes, bc)
	}
	sort.Ints(barcodes)

	out := NewGenEvent()
	parts := make(map[*hepmc.Particle]*GenParticle, len(barcodes))
	for _, bc := range barcodes {
		hp := evt.Particles[bc]
		p := out.AddParticle(int(hp.PdgID), hp.Status, hp.Momentum)
		p.Barcode = hp.Barcode
		parts[hp] = p
	}

	// Group decaying particles by their end vertex, keeping the order in
	// which vertices are first seen.
	var order []*hepmc.Vertex
	ins := make(map[*hepmc.Vertex][]*GenParticle)
	for _, bc := range barcodes {
		hp := evt.Particles[bc]
		v := hp.EndVertex
		if v == nil {
			continue
		}
		if _, ok := ins[v]; !ok {
			order = append(order, v)
		}
		ins[v] = append(ins[v], parts[hp])
	}

	for _, v := range order {
		outs := make([]*GenParticle, 0, len(v.ParticlesOut))
		for _, hp := range v.ParticlesOut {
			if p, ok := parts[hp]; ok {
				outs = append(outs, p)
			}
		}
		out.Decay(ins[v], outs...)
	}

	return out
}
