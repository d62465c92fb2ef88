package game

import (
	"math"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/systems"
)

// move applies turning and forward movement. Movement uses the heading from
// before this tick's turn. Touches only c, so it is safe to run in parallel.
func (w *World) move(c *components.Creature, a components.Actions) {
	theta := c.Theta()

	switch a.Move {
	case components.MoveWait:
	case components.MoveForward:
		step := w.cfg.Creature.WalkStep
		x, y := c.Pos()
		c.SetPos(
			systems.Wrap(x+step*math.Cos(theta), w.width),
			systems.Wrap(y+step*math.Sin(theta), w.height),
		)
		c.RemoveEnergy(w.cfg.Creature.WalkCost)
	default:
		panic("game: move action " + a.Move.String() + " has no effect defined")
	}

	switch a.Turn {
	case components.TurnWait:
	case components.TurnLeft:
		c.Turn(w.cfg.Creature.TurnStep)
	case components.TurnRight:
		c.Turn(-w.cfg.Creature.TurnStep)
	default:
		panic("game: turn action " + a.Turn.String() + " has no effect defined")
	}
}

// eat removes a fixed fraction of the grass under creature i and credits it
// scaled by the creature's vegetarian efficiency.
func (w *World) eat(i int) {
	c := w.creatures[i]
	idx := w.cellIndex(c.Pos())

	g := w.grass[idx]
	removed := uint32(float64(g) * w.cfg.Grass.EatFraction)
	w.grass[idx] = g - removed

	gained := int(math.Round(float64(removed) * c.VegEff()))
	c.AddEnergy(gained)
	w.stats.RecordEat(int(removed), gained)
}

// biteTargets returns the indices of creatures creature i can bite: within
// bite range and inside its vision cone, measured at current positions.
// Candidates come from the index built this tick, which is complete because
// config validation keeps bite range plus two walk steps within the grid step.
func (w *World) biteTargets(i int, dst []int) []int {
	actor := w.creatures[i]
	ax, ay := actor.Pos()
	rangeSq := w.cfg.Bite.Range * w.cfg.Bite.Range

	w.grid.Query(ax, ay, func(e systems.Entry[int]) {
		if e.Payload == i {
			return
		}
		tx, ty := w.creatures[e.Payload].Pos()
		dx, dy := systems.ToroidalDelta(ax, ay, tx, ty, w.width, w.height)
		if dx*dx+dy*dy >= rangeSq {
			return
		}
		if _, ok := w.inView(actor, dx, dy); !ok {
			return
		}
		dst = append(dst, e.Payload)
	})
	return dst
}

// bite damages every eligible target in turn. Damage and the share of it
// the actor keeps both scale with the actor's carnivore efficiency.
func (w *World) bite(i int) {
	actor := w.creatures[i]
	carnEff := 1 - actor.VegEff()
	damage := int(math.Round(carnEff * w.cfg.Bite.Damage))

	targets := w.biteTargets(i, nil)
	w.stats.RecordBiteAttempt(len(targets))
	for _, j := range targets {
		removed := w.creatures[j].RemoveEnergy(damage)
		gained := int(math.Round(float64(removed) * carnEff))
		actor.AddEnergy(gained)
		w.stats.RecordBiteHit(removed, gained)
	}
}

// replicate spawns a mutated child behind a creature that has enough energy.
// The child is buffered until the discrete pass ends.
func (w *World) replicate(i int) {
	parent := w.creatures[i]
	if parent.Energy() <= w.cfg.Derived.ReplicateEnergy {
		return
	}
	parent.RemoveEnergy(w.cfg.Derived.ReplicateCharge)

	child := parent.CloneMutate(w.NewID(), w.mutation, w.rng)

	theta := parent.Theta()
	offset := w.cfg.Creature.SpawnOffset * w.cfg.Creature.WalkStep
	x, y := parent.Pos()
	child.SetPos(
		systems.Wrap(x-offset*math.Cos(theta), w.width),
		systems.Wrap(y-offset*math.Sin(theta), w.height),
	)
	child.SetTheta(theta + math.Pi)

	w.newborns = append(w.newborns, child)
	w.stats.RecordBirth()
}
