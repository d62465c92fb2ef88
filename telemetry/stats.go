package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	RunID           string `csv:"run_id"`
	WindowStartTick int64  `csv:"-"`
	WindowEndTick   int64  `csv:"window_end"`

	// Population at window end
	Creatures int `csv:"creatures"`
	Families  int `csv:"families"`

	// Events during window
	Births        int `csv:"births"`
	Backfills     int `csv:"backfills"`
	Founders      int `csv:"founders"`
	DeathsStarved int `csv:"deaths_starved"`
	DeathsOldAge  int `csv:"deaths_old_age"`

	// Grazing
	Eats        int `csv:"eats"`
	GrassEaten  int `csv:"grass_eaten"`
	GrassEnergy int `csv:"grass_energy"`

	// Biting
	BitesAttempted int     `csv:"bites_attempted"`
	BitesHit       int     `csv:"bites_hit"`
	HitRate        float64 `csv:"hit_rate"` // targets per bite action
	BiteDamage     int     `csv:"bite_damage"`
	BiteEnergy     int     `csv:"bite_energy"`

	// Energy distribution (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Diet distribution
	VegEffMean float64 `csv:"veg_eff_mean"`
	VegEffStd  float64 `csv:"veg_eff_std"`

	AgeMean float64 `csv:"age_mean"`

	// Grass field
	TotalGrass uint64  `csv:"total_grass"`
	GrassFill  float64 `csv:"grass_fill"`
}

// Natural returns births minus creatures injected by the floors. Positive
// values mean the population sustains itself.
func (s WindowStats) Natural() int {
	return s.Births - s.Backfills - s.Founders
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// ComputeMeanStd returns the mean and population standard deviation.
func ComputeMeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", s.RunID),
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("creatures", s.Creatures),
		slog.Int("families", s.Families),
		slog.Int("births", s.Births),
		slog.Int("backfills", s.Backfills),
		slog.Int("founders", s.Founders),
		slog.Int("deaths_starved", s.DeathsStarved),
		slog.Int("deaths_old_age", s.DeathsOldAge),
		slog.Int("eats", s.Eats),
		slog.Int("grass_eaten", s.GrassEaten),
		slog.Int("grass_energy", s.GrassEnergy),
		slog.Int("bites_attempted", s.BitesAttempted),
		slog.Int("bites_hit", s.BitesHit),
		slog.Float64("hit_rate", s.HitRate),
		slog.Int("bite_damage", s.BiteDamage),
		slog.Int("bite_energy", s.BiteEnergy),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("veg_eff_mean", s.VegEffMean),
		slog.Float64("veg_eff_std", s.VegEffStd),
		slog.Float64("age_mean", s.AgeMean),
		slog.Uint64("total_grass", s.TotalGrass),
		slog.Float64("grass_fill", s.GrassFill),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"creatures", s.Creatures,
		"families", s.Families,
		"births", s.Births,
		"backfills", s.Backfills,
		"founders", s.Founders,
		"deaths_starved", s.DeathsStarved,
		"deaths_old_age", s.DeathsOldAge,
		"eats", s.Eats,
		"bites_hit", s.BitesHit,
		"energy_mean", s.EnergyMean,
		"energy_p50", s.EnergyP50,
		"veg_eff_mean", s.VegEffMean,
		"veg_eff_std", s.VegEffStd,
		"grass_fill", s.GrassFill,
	)
}
