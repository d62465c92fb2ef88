// Package components defines creature state, observations and actions.
package components

import (
	"fmt"
	"math"
)

// Layout fixes the shape of an observation. It is the single place the brain
// input width is derived from, so encoder and brain cannot disagree.
type Layout struct {
	Sites       int     // angular vision bins
	GrassRadius int     // grass window is (2r+1)x(2r+1)
	MaxDist     float64 // vision distance; unseen bins report this
}

// GrassCells returns the number of cells in the grass window.
func (l Layout) GrassCells() int {
	side := 2*l.GrassRadius + 1
	return side * side
}

// InputWidth returns the length of a flattened observation:
// colours, distances, grass window, own energy.
func (l Layout) InputWidth() int {
	return 2*l.Sites + l.GrassCells() + 1
}

// Observation is what one creature perceives at one tick.
type Observation struct {
	Colors []float64 // per site, colour of the closest creature seen (0 if none)
	Dists  []float64 // per site, distance to that creature (MaxDist if none)
	Grass  []float64 // grass window, row-major from (-r,-r), normalized to [0,1]
	Energy float64   // own energy, normalized to [0,1]
}

// NewObservation returns an observation with every site unseen.
// Dists start at +Inf so any real sighting replaces them; Finish caps them.
func NewObservation(l Layout) *Observation {
	o := &Observation{
		Colors: make([]float64, l.Sites),
		Dists:  make([]float64, l.Sites),
		Grass:  make([]float64, l.GrassCells()),
	}
	for i := range o.Dists {
		o.Dists[i] = math.Inf(1)
	}
	return o
}

// See records a creature at distance d in site bin. A strictly closer
// sighting replaces the current one; ties keep the first found.
func (o *Observation) See(bin int, d, color float64) {
	if d < o.Dists[bin] {
		o.Dists[bin] = d
		o.Colors[bin] = color
	}
}

// Finish fills unseen sites with max distance and neutral colour.
func (o *Observation) Finish(l Layout) {
	for i, d := range o.Dists {
		if d >= l.MaxDist {
			o.Dists[i] = l.MaxDist
			o.Colors[i] = 0
		}
	}
}

// Flatten encodes the observation as brain input. Distances are scaled by
// the vision distance. Panics if the observation does not match the layout.
func (o *Observation) Flatten(l Layout) []float64 {
	if len(o.Colors) != l.Sites || len(o.Dists) != l.Sites || len(o.Grass) != l.GrassCells() {
		panic(fmt.Sprintf("components: observation shape %d/%d/%d does not match layout %+v",
			len(o.Colors), len(o.Dists), len(o.Grass), l))
	}

	out := make([]float64, 0, l.InputWidth())
	out = append(out, o.Colors...)
	for _, d := range o.Dists {
		out = append(out, d/l.MaxDist)
	}
	out = append(out, o.Grass...)
	out = append(out, o.Energy)
	return out
}
