package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEnergySurge     BookmarkType = "energy_surge"
	BookmarkDivergenceSpike BookmarkType = "divergence_spike"
	BookmarkSettled         BookmarkType = "settled"
	BookmarkSteady          BookmarkType = "steady"
	BookmarkNonFinite       BookmarkType = "non_finite"
)

// Bookmark marks a window worth looking at, usually with a snapshot.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int          `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches the stream of window records for surges, spikes
// and quiet periods.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []StepStats
	historySize int
	historyIdx  int
	historyFull bool

	peakEnergy    float64
	settledArmed  bool
	steadyWindows int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady-state detection
	}
	return &BookmarkDetector{
		history:     make([]StepStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest record and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(s StepStats) []Bookmark {
	if math.IsNaN(s.Energy) || math.IsInf(s.Energy, 0) {
		return []Bookmark{{
			Type:        BookmarkNonFinite,
			Tick:        s.Tick,
			Description: "field energy is not finite",
		}}
	}

	var bookmarks []Bookmark
	if b := bd.checkEnergySurge(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDivergenceSpike(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(s)

	if b := bd.checkSteady(s); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(s StepStats) {
	bd.history[bd.historyIdx] = s
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []StepStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) column(f func(StepStats) float64) []float64 {
	h := bd.getHistory()
	out := make([]float64, len(h))
	for i, s := range h {
		out[i] = f(s)
	}
	return out
}

func (bd *BookmarkDetector) checkEnergySurge(s StepStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := stat.Mean(bd.column(func(h StepStats) float64 { return h.Energy }), nil)
	if avg <= 0 || s.Energy <= 2*avg {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkEnergySurge,
		Tick:        s.Tick,
		Description: fmt.Sprintf("Energy %.3g is %.1fx average (%.3g)", s.Energy, s.Energy/avg, avg),
	}
}

func (bd *BookmarkDetector) checkDivergenceSpike(s StepStats) *Bookmark {
	if len(bd.getHistory()) < 3 {
		return nil
	}
	avg := stat.Mean(bd.column(func(h StepStats) float64 { return h.DivRMS }), nil)
	if avg <= 0 || s.DivRMS <= 3*avg {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkDivergenceSpike,
		Tick:        s.Tick,
		Description: fmt.Sprintf("Divergence RMS %.3g is %.1fx average (%.3g)", s.DivRMS, s.DivRMS/avg, avg),
	}
}

// checkSettled fires once when energy falls below 1% of its peak, and
// re-arms when it climbs back above 10%.
func (bd *BookmarkDetector) checkSettled(s StepStats) *Bookmark {
	if s.Energy > bd.peakEnergy {
		bd.peakEnergy = s.Energy
	}
	if bd.peakEnergy == 0 {
		return nil
	}
	if s.Energy > 0.1*bd.peakEnergy {
		bd.settledArmed = true
		return nil
	}
	if !bd.settledArmed || s.Energy >= 0.01*bd.peakEnergy {
		return nil
	}
	bd.settledArmed = false
	peak := bd.peakEnergy
	bd.peakEnergy = s.Energy
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        s.Tick,
		Description: fmt.Sprintf("Energy decayed from peak %.3g to %.3g", peak, s.Energy),
	}
}

// checkSteady fires once after five consecutive windows whose energy varies
// by less than 2% over the last four.
func (bd *BookmarkDetector) checkSteady(s StepStats) *Bookmark {
	h := bd.getHistory()
	if s.Energy <= 0 || len(h) < 4 {
		bd.steadyWindows = 0
		return nil
	}

	mean, std := stat.MeanStdDev(lastN(bd.history, bd.historyIdx, 4), nil)
	if mean > 0 && std/mean < 0.02 {
		bd.steadyWindows++
	} else {
		bd.steadyWindows = 0
	}

	if bd.steadyWindows == 5 {
		return &Bookmark{
			Type:        BookmarkSteady,
			Tick:        s.Tick,
			Description: fmt.Sprintf("Energy steady near %.3g over 5+ windows", mean),
		}
	}
	return nil
}

// lastN returns the energies of the n most recent entries of a ring whose
// next write position is idx, newest first.
func lastN(ring []StepStats, idx, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		j := (idx - 1 - i + len(ring)) % len(ring)
		out[i] = ring[j].Energy
	}
	return out
}
