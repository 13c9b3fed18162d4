package raster

import (
	"errors"
	"fmt"

	"github.com/jetsml/jetimg/charge"
	"github.com/jetsml/jetimg/geom"
)

// Channels is the number of channels the single-event strategies write:
// a momentum channel and a charge channel.
const Channels = 2

// Strategy accumulates a batch of events into a grid. Implementations do
// not reset the grid.
type Strategy interface {
	Build(events [][]Tuple, g *geom.Grid) error
}

// ErrEmptyBatch is returned when an average is taken over zero events.
var ErrEmptyBatch = errors.New("cannot average over an empty batch of events")

// BatchSizeError is returned when a single-event strategy is given a
// batch with a size other than one.
type BatchSizeError struct {
	Size int
}

func (err *BatchSizeError) Error() string {
	return fmt.Sprintf(
		"single-event strategy given a batch of %d events", err.Size,
	)
}

// ChannelError is returned when a strategy is given a grid with the wrong
// number of channels.
type ChannelError struct {
	Want, Got int
}

func (err *ChannelError) Error() string {
	return fmt.Sprintf(
		"strategy writes %d channels, but grid has %d", err.Want, err.Got,
	)
}

// UnsortedError is returned when an event's tuples are not sorted by
// descending pt.
type UnsortedError struct {
	Index    int
	Pt, Prev float64
}

func (err *UnsortedError) Error() string {
	return fmt.Sprintf(
		"particle %d has pt %g, larger than the previous particle's %g",
		err.Index, err.Pt, err.Prev,
	)
}

// ReferenceError is returned when the leading particle cannot be used to
// normalize an event.
type ReferenceError struct {
	Pt float64
}

func (err *ReferenceError) Error() string {
	return fmt.Sprintf("leading particle has non-positive pt %g", err.Pt)
}

func single(events [][]Tuple, g *geom.Grid) ([]Tuple, error) {
	if len(events) != 1 {
		return nil, &BatchSizeError{len(events)}
	}
	if g.Channels != Channels {
		return nil, &ChannelError{Channels, g.Channels}
	}
	return events[0], nil
}

func chargesOf(tab *charge.Table) *charge.Table {
	if tab == nil {
		return defaultCharges
	}
	return tab
}

var defaultCharges = charge.Default()

// Raw writes every particle of a single event at its own (eta, phi) with
// channels [pt, charge].
type Raw struct {
	Charges *charge.Table
}

func (s *Raw) Build(events [][]Tuple, g *geom.Grid) error {
	ts, err := single(events, g)
	if err != nil {
		return err
	}
	tab := chargesOf(s.Charges)

	vals := make([]float64, Channels)
	for _, t := range ts {
		vals[0], vals[1] = t.Pt, tab.Get(t.PID)
		g.Accumulate(t.Eta, t.Phi, vals)
	}
	return nil
}

// Leading writes every particle of a single event relative to the event's
// leading particle: at (eta - etaLead, DeltaPhi(phi, phiLead)) with
// channels [pt / ptLead, charge]. Tuples must be sorted by descending pt.
type Leading struct {
	Charges *charge.Table
}

func (s *Leading) Build(events [][]Tuple, g *geom.Grid) error {
	ts, err := single(events, g)
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		return nil
	}
	if err := checkSorted(ts); err != nil {
		return err
	}

	ref := ts[0]
	if !(ref.Pt > 0) {
		return &ReferenceError{ref.Pt}
	}
	tab := chargesOf(s.Charges)

	vals := make([]float64, Channels)
	for _, t := range ts {
		vals[0], vals[1] = t.Pt/ref.Pt, tab.Get(t.PID)
		g.Accumulate(t.Eta-ref.Eta, DeltaPhi(t.Phi, ref.Phi), vals)
	}
	return nil
}

func checkSorted(ts []Tuple) error {
	for i := 1; i < len(ts); i++ {
		if ts[i].Pt > ts[i-1].Pt {
			return &UnsortedError{i, ts[i].Pt, ts[i-1].Pt}
		}
	}
	return nil
}
