package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/stablefluids/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerfStats prints the per-phase timing table for the current window.
func (g *Game) logPerfStats() {
	stats := g.perf.Stats()
	l := g.solver.Layout()
	Logf("=== Perf @ Tick %d (%dx%d, %d steps/update) | FPS: %.0f ===",
		g.solver.Tick(), l.Dim, l.Dim, g.stepsPerUpdate, stats.FPS)
	Logf("Avg step time: %s (min %s, max %s)",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MinTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond))

	for _, name := range telemetry.Phases {
		avg, ok := stats.PhaseAvg[name]
		if !ok {
			continue
		}
		Logf("  %-18s %10s  %5.1f%%", name, avg.Round(time.Microsecond), stats.PhasePct[name])
	}
	Logf("")
}
