package game

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/neural"
	"github.com/pthm-cable/grazers/rng"
)

// Score offsets of each action group in the brain output.
const (
	moveOffset     = 3
	discreteOffset = 5
)

// testConfig returns the defaults with an empty world and no floors.
func testConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.World.InitialPopulation = 0
	cfg.World.MinPopulation = 0
	cfg.World.MinFamilies = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return cfg
}

func newTestWorld(t testing.TB, cfg *config.Config) *World {
	t.Helper()
	w := NewWorld(cfg, rng.New(1))
	t.Cleanup(w.Close)
	return w
}

// fixedBrain returns a brain whose only non-zero weights connect the energy
// input to the given output scores, so any creature with energy picks them.
func fixedBrain(l components.Layout, scores ...int) *neural.Brain {
	m := mat.NewDense(components.ActionWidth, l.InputWidth(), nil)
	for _, s := range scores {
		m.Set(s, l.InputWidth()-1, 1)
	}
	return neural.FromWeights(m)
}

// idleBrain picks wait in every group.
func idleBrain(l components.Layout) *neural.Brain {
	return fixedBrain(l)
}

// place adds a hand-built creature to w and returns it.
func place(w *World, fam uint64, x, y, theta, vegEff float64, energy int, brain *neural.Brain) *components.Creature {
	if brain == nil {
		brain = idleBrain(w.Layout())
	}
	c := components.NewCreature(w.NewID(), fam, x, y, theta, vegEff, energy, brain)
	w.AddCreature(c)
	return c
}
