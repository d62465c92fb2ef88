package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/grazers/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("NewOutputManager(\"\") error = %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// All methods are no-ops on nil
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil = %v", err)
	}
	if err := om.WritePerf(PerfStats{}, "", 0); err != nil {
		t.Errorf("WritePerf on nil = %v", err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Errorf("WriteConfig on nil = %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil = %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir() on nil = %q", om.Dir())
	}
}

func TestOutputManagerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error = %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig error = %v", err)
	}
	for _, end := range []int64{100, 200} {
		if err := om.WriteTelemetry(WindowStats{RunID: "abc", WindowEndTick: end, Creatures: 20}); err != nil {
			t.Fatalf("WriteTelemetry error = %v", err)
		}
		if err := om.WritePerf(PerfStats{}, "abc", end); err != nil {
			t.Fatalf("WritePerf error = %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error = %v", err)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Errorf("%s has %d lines, want header + 2 rows", name, len(lines))
			continue
		}
		if !strings.HasPrefix(lines[0], "run_id,window_end") {
			t.Errorf("%s header = %q", name, lines[0])
		}
		if !strings.HasPrefix(lines[2], "abc,200") {
			t.Errorf("%s last row = %q", name, lines[2])
		}
	}

	cfg, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading config.yaml: %v", err)
	}
	if cfg.World.Width != config.Default().World.Width {
		t.Errorf("reloaded width = %d", cfg.World.Width)
	}
}
