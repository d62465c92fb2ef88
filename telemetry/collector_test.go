package telemetry

import "testing"

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10, "run-1")

	c.RecordBirth()
	c.RecordBirth()
	c.RecordBackfill()
	c.RecordFounder()
	c.RecordDeath(DeathStarved)
	c.RecordDeath(DeathOldAge)
	c.RecordDeath(DeathStarved)
	c.RecordEat(60, 30)
	c.RecordEat(20, 10)
	c.RecordBiteAttempt(2)
	c.RecordBiteAttempt(0)
	c.RecordBiteHit(40, 20)
	c.RecordBiteHit(10, 5)

	pop := Population{
		Creatures:  4,
		Families:   2,
		Energies:   []float64{100, 200, 300, 400},
		VegEffs:    []float64{0.25, 0.75, 0.25, 0.75},
		Ages:       []float64{1, 2, 3, 4},
		TotalGrass: 50,
		MaxGrass:   200,
	}
	s := c.Flush(10, pop)

	checks := []struct {
		name      string
		got, want int
	}{
		{"births", s.Births, 2},
		{"backfills", s.Backfills, 1},
		{"founders", s.Founders, 1},
		{"deaths starved", s.DeathsStarved, 2},
		{"deaths old age", s.DeathsOldAge, 1},
		{"eats", s.Eats, 2},
		{"grass eaten", s.GrassEaten, 80},
		{"grass energy", s.GrassEnergy, 40},
		{"bites attempted", s.BitesAttempted, 2},
		{"bites hit", s.BitesHit, 2},
		{"bite damage", s.BiteDamage, 50},
		{"bite energy", s.BiteEnergy, 25},
		{"creatures", s.Creatures, 4},
		{"families", s.Families, 2},
	}
	for _, ch := range checks {
		if ch.got != ch.want {
			t.Errorf("%s = %d, want %d", ch.name, ch.got, ch.want)
		}
	}

	if s.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", s.RunID)
	}
	if s.WindowStartTick != 0 || s.WindowEndTick != 10 {
		t.Errorf("window = [%d, %d], want [0, 10]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.HitRate != 1 {
		t.Errorf("HitRate = %v, want 1", s.HitRate)
	}
	if s.EnergyMean != 250 {
		t.Errorf("EnergyMean = %v, want 250", s.EnergyMean)
	}
	if s.VegEffMean != 0.5 || s.VegEffStd != 0.25 {
		t.Errorf("veg eff = (%v, %v), want (0.5, 0.25)", s.VegEffMean, s.VegEffStd)
	}
	if s.GrassFill != 0.25 {
		t.Errorf("GrassFill = %v, want 0.25", s.GrassFill)
	}
}

func TestCollectorFlushResets(t *testing.T) {
	c := NewCollector(5, "run")
	c.RecordBirth()
	c.RecordEat(10, 5)
	c.Flush(5, Population{})

	s := c.Flush(10, Population{})
	if s.Births != 0 || s.Eats != 0 || s.GrassEaten != 0 {
		t.Errorf("counters not reset: %+v", s)
	}
	if s.WindowStartTick != 5 {
		t.Errorf("WindowStartTick = %d, want 5", s.WindowStartTick)
	}
	if s.RunID != "run" {
		t.Errorf("RunID = %q, want run", s.RunID)
	}
	if c.WindowTicks() != 5 {
		t.Errorf("WindowTicks() = %d, want 5", c.WindowTicks())
	}
}

func TestCollectorShouldFlush(t *testing.T) {
	c := NewCollector(3, "")

	tests := []struct {
		tick int64
		want bool
	}{
		{0, false},
		{2, false},
		{3, true},
		{4, true},
	}
	for _, tt := range tests {
		if got := c.ShouldFlush(tt.tick); got != tt.want {
			t.Errorf("ShouldFlush(%d) = %v, want %v", tt.tick, got, tt.want)
		}
	}

	c.Flush(3, Population{})
	if c.ShouldFlush(5) {
		t.Error("ShouldFlush(5) after flush at 3 = true, want false")
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector

	c.RecordBirth()
	c.RecordBackfill()
	c.RecordFounder()
	c.RecordDeath(DeathOldAge)
	c.RecordEat(1, 1)
	c.RecordBiteAttempt(1)
	c.RecordBiteHit(1, 1)
	if c.ShouldFlush(1000) {
		t.Error("nil collector should never flush")
	}
}

func TestNewCollectorClampsWindow(t *testing.T) {
	c := NewCollector(0, "")
	if c.WindowTicks() != 1 {
		t.Errorf("WindowTicks() = %d, want 1", c.WindowTicks())
	}
}
