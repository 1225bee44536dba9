package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/stablefluids/fluid"
)

func testSnapshot(t *testing.T) fluid.Snapshot {
	t.Helper()
	l, err := fluid.NewLayout(16, 0)
	if err != nil {
		t.Fatal(err)
	}
	v := fluid.NewVelocityField(l)
	fluid.AddForce(v, 8, 8, 0.3, 0.1, 3)
	return fluid.Snapshot{
		Tick:      120,
		Field:     v,
		Particles: fluid.NewParticleGrid(4, 0, 1),
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot(t)
	stats := Measure(snap.Tick, snap.Field)

	w := &SnapshotWriter{Dir: dir, Gain: 2, Particles: true}
	path, err := w.Save(snap, stats, nil)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_120.png" {
		t.Errorf("unexpected image name %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("image missing: %v", err)
	}

	meta, err := LoadSnapshotMeta(strings.TrimSuffix(path, ".png") + ".json")
	if err != nil {
		t.Fatalf("LoadSnapshotMeta failed: %v", err)
	}
	if meta.Tick != 120 || meta.Dim != 16 || meta.Particles != 16 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Stats.Energy != stats.Energy {
		t.Errorf("stats energy %v, want %v", meta.Stats.Energy, stats.Energy)
	}
	if meta.Bookmark != nil {
		t.Error("expected no bookmark")
	}
}

func TestSnapshotWithBookmark(t *testing.T) {
	dir := t.TempDir()
	bm := &Bookmark{Type: BookmarkEnergySurge, Tick: 120, Description: "test"}

	w := &SnapshotWriter{Dir: dir, Gain: 1}
	path, err := w.Save(testSnapshot(t), StepStats{Tick: 120}, bm)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_120_energy_surge.png" {
		t.Errorf("unexpected image name %s", path)
	}

	meta, err := LoadSnapshotMeta(filepath.Join(dir, "snapshot_120_energy_surge.json"))
	if err != nil {
		t.Fatal(err)
	}
	if meta.Bookmark == nil || meta.Bookmark.Type != BookmarkEnergySurge {
		t.Errorf("bookmark not preserved: %+v", meta.Bookmark)
	}
}

func TestLoadSnapshotMetaRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshotMeta(path); err == nil {
		t.Error("expected version mismatch error")
	}
}
