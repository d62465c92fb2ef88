package game

import (
	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/telemetry"
)

// Update advances the world by one tick. The steps run in a fixed order:
//
//  1. grass recharge            (parallel over cells)
//  2. attrition: cost, age, cull (parallel map, sequential filter)
//  3. spatial index rebuild
//  4. observation               (parallel, reads the index)
//  5. inference                 (parallel)
//  6. turning and movement      (parallel)
//  7. eat, bite, replicate      (sequential in list order)
//  8. population floor
//  9. lineage floor
//  10. index clear
//
// The index built in step 3 maps to list positions, which stay valid
// through step 7 because newborns are only appended after it.
func (w *World) Update() {
	w.startTick()

	w.startPhase(telemetry.PhaseGrass)
	w.rechargeGrass()

	w.startPhase(telemetry.PhaseAttrition)
	w.attrition()

	w.startPhase(telemetry.PhaseIndex)
	w.rebuildIndex()

	w.startPhase(telemetry.PhaseObserve)
	w.observeAll()

	w.startPhase(telemetry.PhaseInfer)
	w.inferAll()

	w.startPhase(telemetry.PhaseMove)
	w.moveAll()

	w.startPhase(telemetry.PhaseActions)
	w.applyDiscreteActions()

	w.startPhase(telemetry.PhaseFloors)
	w.enforcePopulationFloor()
	w.enforceLineageFloor()

	w.startPhase(telemetry.PhaseIndex)
	w.grid.Clear()

	w.tick++
	w.endTick()
}

func (w *World) startTick() {
	if w.perf != nil {
		w.perf.StartTick()
	}
}

func (w *World) startPhase(name string) {
	if w.perf != nil {
		w.perf.StartPhase(name)
	}
}

func (w *World) endTick() {
	if w.perf != nil {
		w.perf.EndTick()
	}
}

// rechargeGrass adds the recharge rate to every cell, saturating at max.
func (w *World) rechargeGrass() {
	recharge := w.cfg.Grass.Recharge
	grassMax := w.cfg.Grass.Max
	w.pool.run(len(w.grass), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			g := w.grass[i]
			if grassMax-min(g, grassMax) < recharge {
				w.grass[i] = grassMax
			} else {
				w.grass[i] = g + recharge
			}
		}
	})
}

// attrition charges the per-tick cost, ages every creature and removes the
// ones that starved or reached max age. Survivors keep their relative order.
func (w *World) attrition() {
	n := len(w.creatures)
	w.alive = resize(w.alive, n)

	tickCost := w.cfg.Creature.TickCost
	maxAge := w.cfg.Creature.MaxAge
	w.pool.run(n, func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			c := w.creatures[i]
			c.RemoveEnergy(tickCost)
			c.TickAge()
			w.alive[i] = !c.Dead() && c.Age() < maxAge
		}
	})

	kept := w.creatures[:0]
	for i, c := range w.creatures {
		if w.alive[i] {
			kept = append(kept, c)
			continue
		}
		if c.Dead() {
			w.stats.RecordDeath(telemetry.DeathStarved)
		} else {
			w.stats.RecordDeath(telemetry.DeathOldAge)
		}
	}
	// Drop references in the tail so removed creatures can be collected
	clear(w.creatures[len(kept):])
	w.creatures = kept
}

// rebuildIndex inserts every creature's position keyed by list index.
func (w *World) rebuildIndex() {
	w.grid.Clear()
	for i, c := range w.creatures {
		x, y := c.Pos()
		w.grid.Put(x, y, i)
	}
}

func (w *World) observeAll() {
	n := len(w.creatures)
	w.observations = resize(w.observations, n)
	// Drop observations of creatures that have since died
	clear(w.observations[n:cap(w.observations)])
	w.pool.run(n, func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			w.observations[i] = w.observe(i)
		}
	})
}

func (w *World) inferAll() {
	n := len(w.creatures)
	w.actions = resize(w.actions, n)
	w.pool.run(n, func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			w.actions[i] = w.creatures[i].PreferredActions(w.observations[i], w.layout)
		}
	})
}

func (w *World) moveAll() {
	w.pool.run(len(w.creatures), func(i0, i1 int) {
		for i := i0; i < i1; i++ {
			w.move(w.creatures[i], w.actions[i])
		}
	})
}

// applyDiscreteActions runs eat, bite and replicate in list order. Newborns
// are buffered and joined after the pass so they neither act nor get bitten
// this tick.
func (w *World) applyDiscreteActions() {
	w.newborns = w.newborns[:0]
	for i := range w.creatures {
		switch a := w.actions[i].Discrete; a {
		case components.DiscreteWait:
		case components.DiscreteEat:
			w.eat(i)
		case components.DiscreteBite:
			w.bite(i)
		case components.DiscreteReplicate:
			w.replicate(i)
		default:
			panic("game: discrete action " + a.String() + " has no effect defined")
		}
	}

	w.creatures = append(w.creatures, w.newborns...)
	clear(w.newborns)
}

// resize returns s with length n, reusing capacity.
func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
