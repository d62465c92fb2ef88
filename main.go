package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logPerf := flag.Bool("log-perf", false, "Output phase timings via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	runID := uuid.NewString()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("run_id", runID)
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	r, err := game.NewRunner(cfg, game.Options{
		Seed:      rngSeed,
		RunID:     runID,
		LogStats:  *logStats,
		LogPerf:   *logPerf,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to start simulation", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"max_ticks", *maxTicks,
		"world_width", cfg.World.Width,
		"world_height", cfg.World.Height,
		"creatures", r.World().NumCreatures(),
		"output_dir", *outputDir,
	)

	for *maxTicks <= 0 || r.Tick() < *maxTicks {
		r.Step()
	}

	slog.Info("max ticks reached",
		"tick", r.Tick(),
		"creatures", r.World().NumCreatures(),
		"families", r.World().NumFamilies(),
	)
	if err := r.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
