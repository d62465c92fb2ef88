package game

import (
	"math"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/neural"
)

// spawnRandom creates a creature at a random position and heading with a
// random vegetarian efficiency and a fresh brain. It founds its own lineage.
func (w *World) spawnRandom() *components.Creature {
	cc := &w.cfg.Creature
	id := w.NewID()
	x := w.rng.Uniform(0, w.width)
	y := w.rng.Uniform(0, w.height)
	theta := w.rng.Uniform(0, 2*math.Pi)
	vegEff := w.rng.Uniform(cc.VegEffMin, cc.VegEffMax)
	brain := neural.NewRandom(w.layout.InputWidth(), w.cfg.Neural.HiddenLayers, components.ActionWidth, w.rng)

	return components.NewCreature(id, id, x, y, theta, vegEff, cc.StartEnergy, brain)
}

// enforcePopulationFloor tops the population up to world.min_population.
func (w *World) enforcePopulationFloor() {
	for len(w.creatures) < w.cfg.World.MinPopulation {
		w.creatures = append(w.creatures, w.spawnRandom())
		w.stats.RecordBackfill()
	}
}

// enforceLineageFloor adds founders until world.min_families lineages are alive.
func (w *World) enforceLineageFloor() {
	if w.cfg.World.MinFamilies == 0 {
		return
	}

	fams := make(map[uint64]struct{}, len(w.creatures))
	for _, c := range w.creatures {
		fams[c.Fam()] = struct{}{}
	}
	for len(fams) < w.cfg.World.MinFamilies {
		c := w.spawnRandom()
		fams[c.Fam()] = struct{}{}
		w.creatures = append(w.creatures, c)
		w.stats.RecordFounder()
	}
}
