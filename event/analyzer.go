package event

import (
	"sort"

	"go-hep.org/x/hep/fmom"
)

// Category labels a group of selected particles.
type Category int

const (
	FinalParticles Category = iota
	IncomingParticles
	HardOutgoingParticles
)

// Analyzer sorts the particles of an event into categories. Each particle
// is placed in the first category whose selector accepts it. Categories are
// tried in the order their selectors were added, not in Category order.
type Analyzer struct {
	order     []Category
	selectors map[Category]Selector
	selected  map[Category][]Particle
}

// NewAnalyzer returns an Analyzer with no categories.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		selectors: make(map[Category]Selector),
		selected:  make(map[Category][]Particle),
	}
}

// AddSelector sets the selector of a category. Replacing the selector of
// an existing category keeps its original priority.
func (a *Analyzer) AddSelector(cat Category, s Selector) {
	if _, ok := a.selectors[cat]; !ok {
		a.order = append(a.order, cat)
	}
	a.selectors[cat] = s
	a.selected[cat] = nil
}

// Analyze categorizes the particles of evt. Each category is sorted by
// descending transverse momentum. Results of the previous call are
// discarded.
func (a *Analyzer) Analyze(evt Event) {
	for cat := range a.selected {
		a.selected[cat] = a.selected[cat][:0]
	}

	for _, p := range evt.Particles() {
		for _, cat := range a.order {
			if a.selectors[cat].Select(p) {
				a.selected[cat] = append(a.selected[cat], p)
				break
			}
		}
	}

	for _, ps := range a.selected {
		SortByPt(ps)
	}
}

// Particles returns the particles in a category. The slice is reused by
// the next call to Analyze.
func (a *Analyzer) Particles(cat Category) []Particle {
	return a.selected[cat]
}

// SortByPt sorts ps by descending transverse momentum.
func SortByPt(ps []Particle) {
	pts := make(map[Particle]float64, len(ps))
	for _, p := range ps {
		pts[p], _, _ = Kinematics(p)
	}
	sort.SliceStable(ps, func(i, j int) bool { return pts[ps[i]] > pts[ps[j]] })
}

// InvariantMass returns the invariant mass of the summed four-momenta
// of ps.
func InvariantMass(ps []Particle) float64 {
	var sum fmom.PxPyPzE
	for _, p := range ps {
		p4 := p.Momentum()
		sum.Set(fmom.Add(&sum, &p4))
	}
	return sum.M()
}
