package game

import (
	"math"
	"testing"

	"github.com/pthm-cable/grazers/components"
	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/rng"
)

func TestNewWorldInitialState(t *testing.T) {
	cfg := config.Default()
	w := NewWorld(cfg, rng.New(7))
	defer w.Close()

	if got := w.NumCreatures(); got != cfg.World.InitialPopulation {
		t.Errorf("NumCreatures() = %d, want %d", got, cfg.World.InitialPopulation)
	}
	if got := w.NumFamilies(); got != cfg.World.InitialPopulation {
		t.Errorf("NumFamilies() = %d, want %d", got, cfg.World.InitialPopulation)
	}
	if got, want := w.TotalGrass(), cfg.Derived.MaxGrassTotal; got != want {
		t.Errorf("TotalGrass() = %d, want %d", got, want)
	}

	for i, c := range w.Creatures() {
		if c.ID() != uint64(i) || c.Fam() != c.ID() {
			t.Errorf("creature %d: id=%d fam=%d", i, c.ID(), c.Fam())
		}
		x, y := c.Pos()
		if x < 0 || x >= w.Width() || y < 0 || y >= w.Height() {
			t.Errorf("creature %d outside world: (%v, %v)", i, x, y)
		}
		if c.Energy() != cfg.Creature.StartEnergy {
			t.Errorf("creature %d energy = %d, want %d", i, c.Energy(), cfg.Creature.StartEnergy)
		}
		if v := c.VegEff(); v < cfg.Creature.VegEffMin || v > cfg.Creature.VegEffMax {
			t.Errorf("creature %d veg_eff = %v outside [%v, %v]", i, v, cfg.Creature.VegEffMin, cfg.Creature.VegEffMax)
		}
		if c.Brain().Inputs() != w.Layout().InputWidth() || c.Brain().Outputs() != components.ActionWidth {
			t.Errorf("creature %d brain shape %v", i, c.Brain().Shape())
		}
	}
}

func TestNewWorldPanicsOnInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.World.Width = 0

	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid config")
		}
	}()
	NewWorld(cfg, rng.New(1))
}

func TestNewIDStrictlyIncreasing(t *testing.T) {
	w := newTestWorld(t, testConfig(t))

	prev := w.NewID()
	for i := 0; i < 100; i++ {
		id := w.NewID()
		if id <= prev {
			t.Fatalf("id %d after %d", id, prev)
		}
		prev = id
	}

	// Hand-built creatures push the counter past their id
	w.AddCreature(components.NewCreature(500, 500, 1, 1, 0, 0.5, 10, idleBrain(w.Layout())))
	if id := w.NewID(); id != 501 {
		t.Errorf("NewID() after AddCreature(500) = %d, want 501", id)
	}
}

func TestNewIDPanicsWhenExhausted(t *testing.T) {
	w := newTestWorld(t, testConfig(t))
	w.nextID = math.MaxUint64

	defer func() {
		if recover() == nil {
			t.Error("expected panic when id space is exhausted")
		}
	}()
	w.NewID()
}

func TestGrassLocRowMajor(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.Width = 7
	cfg.World.Height = 5
	cfg.Vision.MaxDist = 3
	cfg.Bite.Range = 1
	w := newTestWorld(t, cfg)

	tests := []struct {
		i      int
		wantX  int
		wantY  int
		worldX float64
		worldY float64
	}{
		{0, 0, 0, 0.5, 0.5},
		{6, 6, 0, 6.9, 0.1},
		{7, 0, 1, 0.0, 1.0},
		{8, 1, 1, 1.5, 1.5},
		{34, 6, 4, 6.99, 4.99},
	}
	for _, tt := range tests {
		x, y := w.GrassLoc(tt.i)
		if x != tt.wantX || y != tt.wantY {
			t.Errorf("GrassLoc(%d) = (%d, %d), want (%d, %d)", tt.i, x, y, tt.wantX, tt.wantY)
		}
		if got := w.cellIndex(tt.worldX, tt.worldY); got != tt.i {
			t.Errorf("cellIndex(%v, %v) = %d, want %d", tt.worldX, tt.worldY, got, tt.i)
		}
	}
}

func TestRechargeGrass(t *testing.T) {
	cfg := testConfig(t)
	cfg.Grass.Max = 10
	cfg.Grass.Recharge = 3
	w := newTestWorld(t, cfg)

	w.grass[0] = 0
	w.grass[1] = 7
	w.grass[2] = 8
	w.grass[3] = 10

	w.rechargeGrass()

	want := []uint32{3, 10, 10, 10}
	for i, g := range want {
		if w.grass[i] != g {
			t.Errorf("grass[%d] = %d, want %d", i, w.grass[i], g)
		}
	}
	for i, g := range w.grass {
		if g > cfg.Grass.Max {
			t.Fatalf("grass[%d] = %d above max", i, g)
		}
	}
}

func TestPopulation(t *testing.T) {
	w := newTestWorld(t, testConfig(t))
	place(w, 1, 1, 1, 0, 0.25, 50, nil)
	place(w, 1, 2, 2, 0, 0.75, 150, nil)
	place(w, 2, 3, 3, 0, 0.5, 100, nil)

	p := w.Population()
	if p.Creatures != 3 || p.Families != 2 {
		t.Errorf("Population() counts = (%d, %d), want (3, 2)", p.Creatures, p.Families)
	}
	if p.Energies[1] != 150 || p.VegEffs[0] != 0.25 {
		t.Errorf("Population() samples = %v %v", p.Energies, p.VegEffs)
	}
	if p.TotalGrass != w.TotalGrass() || p.MaxGrass != w.Config().Derived.MaxGrassTotal {
		t.Errorf("Population() grass = %d/%d", p.TotalGrass, p.MaxGrass)
	}
}
