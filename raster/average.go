package raster

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/jetsml/jetimg/charge"
	"github.com/jetsml/jetimg/geom"
)

// Average builds every event of a batch with Inner into the same grid and
// then divides by the number of events, giving the per-bin mean. If any
// event fails, g is left as it was.
type Average struct {
	Inner Strategy
}

func (s *Average) Build(events [][]Tuple, g *geom.Grid) error {
	if len(events) == 0 {
		return ErrEmptyBatch
	}
	sum := g.Blank()
	for i := range events {
		if err := s.Inner.Build(events[i:i+1], sum); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	if err := g.Merge(sum); err != nil {
		return err
	}
	g.Rescale(1 / float64(len(events)))
	return nil
}

// ParallelAverage computes the same image as Average, but splits the batch
// between Workers goroutines which each accumulate into a private grid.
// The private grids are summed into the target grid before the single
// rescale. Inner must be safe for concurrent use. Workers <= 0 uses one
// worker per logical core.
type ParallelAverage struct {
	Inner   Strategy
	Workers int
}

func (s *ParallelAverage) Build(events [][]Tuple, g *geom.Grid) error {
	if len(events) == 0 {
		return ErrEmptyBatch
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(events) {
		workers = len(events)
	}

	grids := make([]*geom.Grid, workers)
	errs := make([]error, workers)
	out := make(chan int, workers)
	for id := 0; id < workers; id++ {
		grids[id] = g.Blank()
		go s.chanBuild(id, workers, events, grids[id], errs, out)
	}
	for i := 0; i < workers; i++ {
		<-out
	}

	for id := range errs {
		if errs[id] != nil {
			return errs[id]
		}
	}

	// Merge in worker order so the result does not depend on scheduling.
	for id := range grids {
		if err := g.Merge(grids[id]); err != nil {
			return err
		}
	}
	g.Rescale(1 / float64(len(events)))
	return nil
}

// chanBuild builds the id-th contiguous chunk of events into g and sends id
// to out when done.
func (s *ParallelAverage) chanBuild(
	id, workers int, events [][]Tuple, g *geom.Grid, errs []error,
	out chan<- int,
) {
	lo, hi := id*len(events)/workers, (id+1)*len(events)/workers
	for i := lo; i < hi; i++ {
		if err := s.Inner.Build(events[i:i+1], g); err != nil {
			errs[id] = fmt.Errorf("event %d: %w", i, err)
			break
		}
	}
	out <- id
}

// Image pairs a grid with the strategy which fills it.
type Image struct {
	Grid     *geom.Grid
	Strategy Strategy
}

// NewImage allocates the grid for an image.
func NewImage(b geom.Bounds, s Strategy) (*Image, error) {
	g, err := geom.NewGrid(b)
	if err != nil {
		return nil, err
	}
	return &Image{Grid: g, Strategy: s}, nil
}

// Create resets the grid, builds events into it and returns a snapshot of
// the result.
func (img *Image) Create(events [][]Tuple) (*geom.Grid, error) {
	img.Grid.Reset()
	if err := img.Strategy.Build(events, img.Grid); err != nil {
		return nil, err
	}
	return img.Grid.Snapshot(), nil
}

// CreateEvent is Create for a single event.
func (img *Image) CreateEvent(ts []Tuple) (*geom.Grid, error) {
	return img.Create([][]Tuple{ts})
}

// Strategy names accepted by NewStrategy.
const (
	RawName     = "raw"
	LeadingName = "leading"
)

// NewStrategy returns the single-event strategy with the given
// (case-insensitive) name. If average is true it is wrapped in an Average,
// or in a ParallelAverage when workers != 1.
func NewStrategy(
	name string, average bool, workers int, tab *charge.Table,
) (Strategy, error) {
	var s Strategy
	switch strings.ToLower(strings.TrimSpace(name)) {
	case RawName:
		s = &Raw{Charges: tab}
	case LeadingName:
		s = &Leading{Charges: tab}
	default:
		return nil, fmt.Errorf(
			"strategy '%s' not recognized, must be one of [%s | %s]",
			name, RawName, LeadingName,
		)
	}

	switch {
	case !average:
		return s, nil
	case workers == 1:
		return &Average{Inner: s}, nil
	default:
		return &ParallelAverage{Inner: s, Workers: workers}, nil
	}
}
