package game

import (
	"log/slog"

	"github.com/pthm-cable/stablefluids/telemetry"
)

// flushTelemetry writes periodic snapshots and, at window boundaries, the
// stats record and any bookmarks it triggers.
func (g *Game) flushTelemetry() {
	tick := g.solver.Tick()

	if every := g.cfg.Telemetry.SnapshotEvery; every > 0 && tick%every == 0 {
		g.saveSnapshot(nil)
	}

	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.solver.Field(), g.solver.Rejected())
	g.lastStats = stats
	perfStats := g.perf.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteSteps(stats); err != nil {
			slog.Error("failed to write steps", "error", err)
		}
		if err := g.output.WritePerf(perfStats, tick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats || bm.Type == telemetry.BookmarkNonFinite {
			bm.LogBookmark()
		}
		if g.output != nil {
			if err := g.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot renders the current state into the output directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	gain := float32(g.cfg.Render.FieldGain)
	if g.field != nil {
		gain = g.field.Gain
	}
	w := g.output.Snapshots(gain, g.showParticles)
	if w == nil {
		return
	}

	g.solver.SnapshotInto(&g.snap)
	stats := g.lastStats
	if stats.Tick != g.snap.Tick {
		stats = telemetry.Measure(g.snap.Tick, g.snap.Field)
	}

	path, err := w.Save(g.snap, stats, bookmark)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.snap.Tick)
}
