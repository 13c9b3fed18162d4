// Package charge maps particle type identifiers (PDG codes) to electric
// charges.
package charge

// Table stores the charge of a particle type. Only one sign of each
// type is ever stored: the charge of the antiparticle is derived by
// negation.
type Table struct {
	charges map[int]float64
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{charges: make(map[int]float64)}
}

// Default returns a new Table populated with the charged particles which
// survive to the final state in typical hadronic events.
func Default() *Table {
	t := NewTable()
	t.Set(211, 1)  // pi+
	t.Set(11, -1)  // e-
	t.Set(13, -1)  // mu-
	t.Set(321, 1)  // K+
	t.Set(2212, 1) // p
	return t
}

// Set registers the charge of pid. If pid or -pid has already been
// registered the call is ignored.
func (t *Table) Set(pid int, q float64) {
	if _, ok := t.charges[pid]; ok {
		return
	}
	if _, ok := t.charges[-pid]; ok {
		return
	}
	t.charges[pid] = q
}

// Get returns the charge of pid. Unregistered types are neutral.
func (t *Table) Get(pid int) float64 {
	if q, ok := t.charges[pid]; ok {
		return q
	}
	if q, ok := t.charges[-pid]; ok {
		return -q
	}
	return 0
}

// Charged returns true if pid has a non-zero charge.
func (t *Table) Charged(pid int) bool { return t.Get(pid) != 0 }

// Len returns the number of registered types.
func (t *Table) Len() int { return len(t.charges) }
