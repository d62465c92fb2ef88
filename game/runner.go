package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/rng"
	"github.com/pthm-cable/grazers/telemetry"
)

// Options configures a headless run.
type Options struct {
	Seed      uint64
	RunID     string
	LogStats  bool
	LogPerf   bool
	OutputDir string

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Runner drives a World and routes its telemetry to logs and CSV.
type Runner struct {
	world     *World
	opts      Options
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
}

// NewRunner builds a world from cfg and wires telemetry per opts.
func NewRunner(cfg *config.Config, opts Options) (*Runner, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	r := &Runner{
		world:     NewWorld(cfg, rng.New(opts.Seed)),
		opts:      opts,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, opts.RunID),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		output:    output,
	}
	r.world.SetCollector(r.collector)
	r.world.SetPerf(r.perf)

	return r, nil
}

// World returns the simulated world.
func (r *Runner) World() *World { return r.world }

// Tick returns the number of completed ticks.
func (r *Runner) Tick() int64 { return r.world.Tick() }

// Step advances one tick and flushes telemetry when a window closes.
func (r *Runner) Step() {
	r.world.Update()
	r.flushTelemetry()
}

// Close flushes a partial window and releases the world and output files.
func (r *Runner) Close() error {
	if r.world.Tick() > r.collector.WindowStartTick() {
		r.flush()
	}
	r.world.Close()
	return r.output.Close()
}

// flushTelemetry checks if the stats window should be flushed.
func (r *Runner) flushTelemetry() {
	if !r.collector.ShouldFlush(r.world.Tick()) {
		return
	}
	start := time.Now()
	r.flush()
	r.perf.AddToLastTick(telemetry.PhaseTelemetry, time.Since(start))
}

func (r *Runner) flush() {
	stats := r.collector.Flush(r.world.Tick(), r.world.Population())
	perfStats := r.perf.Stats()

	if r.opts.StatsCallback != nil {
		r.opts.StatsCallback(stats)
	}

	if r.opts.LogStats {
		stats.LogStats()
	}
	if r.opts.LogPerf {
		perfStats.LogStats()
	}

	if err := r.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := r.output.WritePerf(perfStats, r.opts.RunID, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
