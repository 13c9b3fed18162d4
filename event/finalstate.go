package event

import (
	"fmt"
)

// MalformedGraphError is returned when a particle which is not in its
// final state has no decay vertex.
type MalformedGraphError struct {
	PID, Status int
}

func (err *MalformedGraphError) Error() string {
	return fmt.Sprintf(
		"particle with pid %d and status %d is not final but has no "+
			"end vertex", err.PID, err.Status,
	)
}

// Resolver finds the final-state particles which descend from the seed
// particles of an event.
type Resolver struct {
	// SeedStatus is the status code of the particles the search starts
	// from. Zero means StatusHardOutgoing.
	SeedStatus int
	// Accept, if non-nil, filters the final-state particles which are
	// returned. It does not change which vertices are visited.
	Accept Selector
}

// NewResolver returns a Resolver which starts from the outgoing particles
// of the hard process.
func NewResolver() *Resolver {
	return &Resolver{SeedStatus: StatusHardOutgoing}
}

// Seeds returns the particles in evt with the seed status.
func (r *Resolver) Seeds(evt Event) []Particle {
	status := r.SeedStatus
	if status == 0 {
		status = StatusHardOutgoing
	}

	var seeds []Particle
	for _, p := range evt.Particles() {
		if p.Status() == status {
			seeds = append(seeds, p)
		}
	}
	return seeds
}

// Resolve returns every final-state particle reachable from the seeds of
// evt. Each particle appears once and each vertex is expanded once, no
// matter how many particles decay into it.
func (r *Resolver) Resolve(evt Event) ([]Particle, error) {
	var (
		final   []Particle
		found   = make(map[Particle]struct{})
		visited = make(map[Vertex]struct{})
		stack   []Particle
	)

	seeds := r.Seeds(evt)
	for i := len(seeds) - 1; i >= 0; i-- {
		stack = append(stack, seeds[i])
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.Status() == StatusFinal {
			if _, ok := found[p]; ok {
				continue
			}
			found[p] = struct{}{}
			if r.Accept == nil || r.Accept.Select(p) {
				final = append(final, p)
			}
			continue
		}

		v := p.EndVertex()
		if v == nil {
			return nil, &MalformedGraphError{PID: p.PID(), Status: p.Status()}
		}
		if _, ok := visited[v]; ok {
			continue
		}
		visited[v] = struct{}{}

		// Push in reverse so children are expanded in vertex order.
		out := v.ParticlesOut()
		for i := len(out) - 1; i >= 0; i-- {
			stack = append(stack, out[i])
		}
	}

	return final, nil
}
