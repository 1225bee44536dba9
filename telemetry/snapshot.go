package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/stablefluids/colormap"
	"github.com/pthm-cable/stablefluids/fluid"
)

// SnapshotVersion is incremented when the metadata format changes.
const SnapshotVersion = 1

// SnapshotMeta describes a saved snapshot image.
type SnapshotMeta struct {
	Version   int       `json:"version"`
	Tick      int       `json:"tick"`
	Dim       int       `json:"dim"`
	Particles int       `json:"particles"`
	Gain      float32   `json:"gain"`
	Image     string    `json:"image"`
	Stats     StepStats `json:"stats"`
	Bookmark  *Bookmark `json:"bookmark,omitempty"`
}

// SnapshotWriter renders solver snapshots to PNG with a JSON sidecar.
type SnapshotWriter struct {
	Dir       string
	LUT       *colormap.LUT
	Gain      float32
	Particles bool
}

// Save writes snapshot_<tick>[_<bookmark>].png and its .json metadata.
// Returns the path of the PNG.
func (w *SnapshotWriter) Save(snap fluid.Snapshot, stats StepStats, bm *Bookmark) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snap.Tick)
	if bm != nil {
		sanitized := strings.ReplaceAll(string(bm.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snap.Tick, sanitized)
	}

	lut := w.LUT
	if lut == nil {
		lut = colormap.Viridis()
	}
	pngPath := filepath.Join(w.Dir, name+".png")
	if err := colormap.WritePNG(pngPath, colormap.Render(snap, lut, w.Gain, w.Particles)); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	meta := SnapshotMeta{
		Version:   SnapshotVersion,
		Tick:      snap.Tick,
		Dim:       snap.Field.Dim,
		Particles: len(snap.Particles),
		Gain:      w.Gain,
		Image:     name + ".png",
		Stats:     stats,
		Bookmark:  bm,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(w.Dir, name+".json"), data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return pngPath, nil
}

// LoadSnapshotMeta reads a snapshot's metadata from disk.
func LoadSnapshotMeta(path string) (*SnapshotMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var meta SnapshotMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if meta.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", meta.Version, SnapshotVersion)
	}

	return &meta, nil
}
