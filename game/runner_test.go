package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/grazers/config"
	"github.com/pthm-cable/grazers/telemetry"
)

func TestRunnerFlushesWindows(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 100
	dir := t.TempDir()

	var windows []telemetry.WindowStats
	r, err := NewRunner(cfg, Options{
		Seed:      3,
		RunID:     "test-run",
		OutputDir: dir,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatalf("NewRunner error = %v", err)
	}

	for r.Tick() < 250 {
		r.Step()
	}
	if len(windows) != 2 {
		t.Fatalf("windows before close = %d, want 2", len(windows))
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	if len(windows) != 3 {
		t.Fatalf("windows after close = %d, want 3 (partial window flushed)", len(windows))
	}
	wantEnds := []int64{100, 200, 250}
	for i, w := range windows {
		if w.WindowEndTick != wantEnds[i] {
			t.Errorf("window %d ends at %d, want %d", i, w.WindowEndTick, wantEnds[i])
		}
		if w.RunID != "test-run" {
			t.Errorf("window %d run id = %q", i, w.RunID)
		}
		if w.Creatures < cfg.World.MinPopulation {
			t.Errorf("window %d creatures = %d below floor", i, w.Creatures)
		}
	}
	if windows[0].Backfills == 0 {
		t.Error("first window should record the initial backfill")
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRunnerWithoutOutput(t *testing.T) {
	r, err := NewRunner(config.Default(), Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewRunner error = %v", err)
	}
	r.Step()
	if r.World().Tick() != 1 {
		t.Errorf("Tick() = %d, want 1", r.World().Tick())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close error = %v", err)
	}
}
