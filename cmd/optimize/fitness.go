package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/game"
	"github.com/pthm-cable/grazers/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []uint64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Seeds run concurrently; fitness is the negated mean quality.
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) (float64, error) {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return 0, err
	}

	qualities := make([]float64, len(fe.seeds))
	g, ctx := errgroup.WithContext(ctx)
	for i, seed := range fe.seeds {
		g.Go(func() error {
			windows, err := fe.runSimulation(ctx, cfg.Clone(), seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			qualities[i] = computeQuality(windows, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total float64
	for _, q := range qualities {
		total += q
	}
	quality := total / float64(len(qualities))

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality, nil
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(ctx context.Context, cfg *config.Config, seed uint64) ([]telemetry.WindowStats, error) {
	var windows []telemetry.WindowStats
	r, err := game.NewRunner(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return nil, err
	}

	for r.Tick() < fe.maxTicks {
		if err := ctx.Err(); err != nil {
			r.Close()
			return nil, err
		}
		r.Step()
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	return windows, nil
}

// Quality component weights.
const (
	qualityWeightNatural   = 0.5
	qualityWeightDiversity = 0.3
	qualityWeightGrazing   = 0.2

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1]. It rewards populations that
// sustain themselves through replication rather than floor backfills,
// lineage diversity beyond the floor, and a grass field that is grazed
// but not exhausted.
func computeQuality(windows []telemetry.WindowStats, cfg *config.Config) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var naturalSum, diversitySum, grazingSum float64
	for _, w := range valid {
		// Share of additions that came from replication
		added := w.Births + w.Backfills + w.Founders
		if added > 0 {
			naturalSum += float64(w.Births) / float64(added)
		}

		// Families above the lineage floor, saturating at twice the floor
		floor := math.Max(1, float64(cfg.World.MinFamilies))
		diversitySum += clamp01(float64(w.Families)/floor - 1)

		// Peak score at half-full grass
		d := (w.GrassFill - 0.5) / 0.25
		grazingSum += math.Exp(-d * d)
	}

	n := float64(len(valid))
	quality := qualityWeightNatural*naturalSum/n +
		qualityWeightDiversity*diversitySum/n +
		qualityWeightGrazing*grazingSum/n

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
