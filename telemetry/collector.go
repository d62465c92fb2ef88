// Package telemetry provides population statistics, phase timings and CSV output.
package telemetry

// DeathCause says why a creature was removed.
type DeathCause uint8

const (
	DeathStarved DeathCause = iota
	DeathOldAge
)

func (d DeathCause) String() string {
	switch d {
	case DeathStarved:
		return "starved"
	case DeathOldAge:
		return "old_age"
	default:
		return "unknown"
	}
}

// Population is a snapshot of the world taken when a window is flushed.
type Population struct {
	Creatures  int
	Families   int
	Energies   []float64
	VegEffs    []float64
	Ages       []float64
	TotalGrass uint64
	MaxGrass   uint64
}

// Collector accumulates events within tick windows and produces WindowStats.
// A nil *Collector ignores every record call.
type Collector struct {
	runID       string
	windowTicks int64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	births         int
	backfills      int
	founders       int
	deathsStarved  int
	deathsOldAge   int
	eats           int
	grassEaten     int
	grassEnergy    int
	bitesAttempted int
	bitesHit       int
	biteDamage     int
	biteEnergy     int
}

// NewCollector creates a new stats collector that flushes every windowTicks ticks.
// runID is copied into every row so runs can be concatenated.
func NewCollector(windowTicks int, runID string) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		runID:       runID,
		windowTicks: int64(windowTicks),
	}
}

// RecordBirth records a replication.
func (c *Collector) RecordBirth() {
	if c == nil {
		return
	}
	c.births++
}

// RecordBackfill records a creature added by the population floor.
func (c *Collector) RecordBackfill() {
	if c == nil {
		return
	}
	c.backfills++
}

// RecordFounder records a creature added by the lineage floor.
func (c *Collector) RecordFounder() {
	if c == nil {
		return
	}
	c.founders++
}

// RecordDeath records a removal.
func (c *Collector) RecordDeath(cause DeathCause) {
	if c == nil {
		return
	}
	switch cause {
	case DeathStarved:
		c.deathsStarved++
	case DeathOldAge:
		c.deathsOldAge++
	}
}

// RecordEat records grass removed from a cell and the energy it yielded.
func (c *Collector) RecordEat(grass, energy int) {
	if c == nil {
		return
	}
	c.eats++
	c.grassEaten += grass
	c.grassEnergy += energy
}

// RecordBiteAttempt records a bite action and how many targets it found.
func (c *Collector) RecordBiteAttempt(targets int) {
	if c == nil {
		return
	}
	c.bitesAttempted++
	c.bitesHit += targets
}

// RecordBiteHit records energy removed from one target and the share the
// biter kept.
func (c *Collector) RecordBiteHit(damage, energy int) {
	if c == nil {
		return
	}
	c.biteDamage += damage
	c.biteEnergy += energy
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	if c == nil {
		return false
	}
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int64, pop Population) WindowStats {
	var hitRate float64
	if c.bitesAttempted > 0 {
		hitRate = float64(c.bitesHit) / float64(c.bitesAttempted)
	}
	var grassFill float64
	if pop.MaxGrass > 0 {
		grassFill = float64(pop.TotalGrass) / float64(pop.MaxGrass)
	}

	energyMean, p10, p50, p90 := ComputeEnergyStats(pop.Energies)
	vegMean, vegStd := ComputeMeanStd(pop.VegEffs)
	ageMean, _ := ComputeMeanStd(pop.Ages)

	stats := WindowStats{
		RunID:           c.runID,
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Creatures: pop.Creatures,
		Families:  pop.Families,

		Births:        c.births,
		Backfills:     c.backfills,
		Founders:      c.founders,
		DeathsStarved: c.deathsStarved,
		DeathsOldAge:  c.deathsOldAge,

		Eats:        c.eats,
		GrassEaten:  c.grassEaten,
		GrassEnergy: c.grassEnergy,

		BitesAttempted: c.bitesAttempted,
		BitesHit:       c.bitesHit,
		HitRate:        hitRate,
		BiteDamage:     c.biteDamage,
		BiteEnergy:     c.biteEnergy,

		EnergyMean: energyMean,
		EnergyP10:  p10,
		EnergyP50:  p50,
		EnergyP90:  p90,

		VegEffMean: vegMean,
		VegEffStd:  vegStd,
		AgeMean:    ageMean,

		TotalGrass: pop.TotalGrass,
		GrassFill:  grassFill,
	}

	// Reset for next window
	*c = Collector{
		runID:           c.runID,
		windowTicks:     c.windowTicks,
		windowStartTick: currentTick,
	}

	return stats
}

// WindowStartTick returns the tick the current window opened at.
func (c *Collector) WindowStartTick() int64 {
	return c.windowStartTick
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int64 {
	return c.windowTicks
}
