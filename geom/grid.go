// Package geom contains the fixed (eta, phi) grids which particle images
// are accumulated into.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Bounds specifies the extent, binning and channel count of a Grid.
type Bounds struct {
	EtaMin, EtaMax             float64
	PhiMin, PhiMax             float64
	EtaBins, PhiBins, Channels int
}

// Check returns an error if the bounds cannot describe a grid.
func (b *Bounds) Check() error {
	switch {
	case !(b.EtaMax > b.EtaMin):
		return fmt.Errorf(
			"EtaMax (%g) must be larger than EtaMin (%g)", b.EtaMax, b.EtaMin,
		)
	case !(b.PhiMax > b.PhiMin):
		return fmt.Errorf(
			"PhiMax (%g) must be larger than PhiMin (%g)", b.PhiMax, b.PhiMin,
		)
	case b.EtaBins <= 0:
		return fmt.Errorf("EtaBins must be positive, but is %d", b.EtaBins)
	case b.PhiBins <= 0:
		return fmt.Errorf("PhiBins must be positive, but is %d", b.PhiBins)
	case b.Channels <= 0:
		return fmt.Errorf("Channels must be positive, but is %d", b.Channels)
	}
	return nil
}

// Grid provides an interface for reasoning over a 1D slice as if it were
// an [eta][phi][channel] grid. Eta bins run from EtaMax down to EtaMin,
// phi bins run from PhiMin up to PhiMax.
//
// A Grid is not safe for concurrent writes.
type Grid struct {
	Bounds
	// Length is the stride between neighboring phi bins and Area the stride
	// between neighboring eta bins.
	Length, Area, Volume int
	Vals                 []float64

	etaWidth, phiWidth float64
}

// NewGrid returns a zeroed Grid with the given bounds.
func NewGrid(b Bounds) (*Grid, error) {
	if err := b.Check(); err != nil {
		return nil, err
	}
	g := &Grid{}
	g.Init(b)
	return g, nil
}

// Init initializes a Grid instance. b must already be checked.
func (g *Grid) Init(b Bounds) {
	g.Bounds = b

	g.Length = b.Channels
	g.Area = b.PhiBins * b.Channels
	g.Volume = b.EtaBins * b.PhiBins * b.Channels

	g.etaWidth = (b.EtaMax - b.EtaMin) / float64(b.EtaBins)
	g.phiWidth = (b.PhiMax - b.PhiMin) / float64(b.PhiBins)

	if cap(g.Vals) >= g.Volume {
		g.Vals = g.Vals[:g.Volume]
		g.Reset()
	} else {
		g.Vals = make([]float64, g.Volume)
	}
}

// BinWidths returns the width of the eta and phi bins.
func (g *Grid) BinWidths() (eta, phi float64) { return g.etaWidth, g.phiWidth }

// Idx returns the index in Vals of the first channel of a bin.
func (g *Grid) Idx(etaBin, phiBin int) int {
	return etaBin*g.Area + phiBin*g.Length
}

// Bin returns the bin containing (eta, phi) and true, or false if the point
// is outside the grid.
func (g *Grid) Bin(eta, phi float64) (etaBin, phiBin int, ok bool) {
	fe := math.Floor((eta - g.EtaMin) / g.etaWidth)
	fp := math.Floor((phi - g.PhiMin) / g.phiWidth)

	// Written so that NaNs fail.
	if !(fe >= 0 && fe < float64(g.EtaBins)) ||
		!(fp >= 0 && fp < float64(g.PhiBins)) {
		return -1, -1, false
	}

	return g.EtaBins - int(fe) - 1, int(fp), true
}

// Accumulate adds vals to the bin containing (eta, phi). Points outside
// the grid are ignored. len(vals) must equal Channels.
func (g *Grid) Accumulate(eta, phi float64, vals []float64) {
	if len(vals) != g.Channels {
		panic(fmt.Sprintf(
			"geom: %d values given to a grid with %d channels",
			len(vals), g.Channels,
		))
	}

	etaBin, phiBin, ok := g.Bin(eta, phi)
	if !ok {
		return
	}
	i := g.Idx(etaBin, phiBin)
	floats.Add(g.Vals[i:i+g.Length], vals)
}

// At returns the value of a single channel of a bin.
func (g *Grid) At(etaBin, phiBin, ch int) float64 {
	return g.Vals[g.Idx(etaBin, phiBin)+ch]
}

// Reset zeroes every bin.
func (g *Grid) Reset() {
	for i := range g.Vals {
		g.Vals[i] = 0
	}
}

// Rescale multiplies every bin by f.
func (g *Grid) Rescale(f float64) { floats.Scale(f, g.Vals) }

// Blank returns a zeroed grid with the same bounds as g.
func (g *Grid) Blank() *Grid {
	out := &Grid{}
	out.Init(g.Bounds)
	return out
}

// Snapshot returns a copy of g which does not share memory with it.
func (g *Grid) Snapshot() *Grid {
	out := g.Blank()
	copy(out.Vals, g.Vals)
	return out
}

// SameShape returns true if g and o have identical bounds.
func (g *Grid) SameShape(o *Grid) bool { return g.Bounds == o.Bounds }

// Merge adds every bin of o into g.
func (g *Grid) Merge(o *Grid) error {
	if !g.SameShape(o) {
		return fmt.Errorf(
			"cannot merge grid with bounds %+v into grid with bounds %+v",
			o.Bounds, g.Bounds,
		)
	}
	floats.Add(g.Vals, o.Vals)
	return nil
}

// Tensor returns a copy of the grid as a nested [eta][phi][channel] slice.
func (g *Grid) Tensor() [][][]float64 {
	out := make([][][]float64, g.EtaBins)
	for i := range out {
		out[i] = make([][]float64, g.PhiBins)
		for j := range out[i] {
			start := g.Idx(i, j)
			out[i][j] = append([]float64(nil), g.Vals[start:start+g.Length]...)
		}
	}
	return out
}
