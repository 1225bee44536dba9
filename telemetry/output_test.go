package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/stablefluids/config"
)

func init() {
	config.MustInit("")
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// All methods are nil-safe
	if err := om.WriteSteps(StepStats{}); err != nil {
		t.Error(err)
	}
	if om.Snapshots(1, false) != nil {
		t.Error("expected nil snapshot writer")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteSteps(StepStats{Tick: i * 10, Energy: float64(i), Forces: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, 30); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkSettled, Tick: 30, Description: "quiet"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteSummary(RunSummary{Ticks: 30}); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "steps.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var rows []StepStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading steps.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows with one header, got %d", len(rows))
	}
	if rows[2].Tick != 30 || rows[2].Forces != 3 {
		t.Errorf("last row = %+v", rows[2])
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "window_end,") {
		t.Errorf("perf.csv header missing: %q", data)
	}

	for _, name := range []string{"bookmarks.csv", "config.yaml", "summary.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}
