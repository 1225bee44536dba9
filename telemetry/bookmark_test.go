package telemetry

import (
	"math"
	"testing"
)

func countType(bms []Bookmark, typ BookmarkType) int {
	n := 0
	for _, b := range bms {
		if b.Type == typ {
			n++
		}
	}
	return n
}

func TestBookmarkDetector_EnergySurge(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		if bms := bd.Check(StepStats{Tick: i * 100, Energy: 1, DivRMS: 0.1}); countType(bms, BookmarkEnergySurge) != 0 {
			t.Fatalf("unexpected surge at window %d", i)
		}
	}

	bms := bd.Check(StepStats{Tick: 500, Energy: 3, DivRMS: 0.1})
	if countType(bms, BookmarkEnergySurge) != 1 {
		t.Errorf("expected energy surge bookmark, got %+v", bms)
	}
	if len(bms) > 0 && bms[0].Tick != 500 {
		t.Errorf("expected tick 500, got %d", bms[0].Tick)
	}
}

func TestBookmarkDetector_DivergenceSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 4; i++ {
		bd.Check(StepStats{Tick: i, Energy: 1, DivRMS: 0.1})
	}
	if bms := bd.Check(StepStats{Tick: 4, Energy: 1, DivRMS: 0.5}); countType(bms, BookmarkDivergenceSpike) != 1 {
		t.Errorf("expected divergence spike, got %+v", bms)
	}
}

func TestBookmarkDetector_SettledFiresOncePerDecay(t *testing.T) {
	bd := NewBookmarkDetector(5)

	energies := []float64{1, 0.5, 0.005, 0.001, 0.5, 0.001}
	want := []int{0, 0, 1, 0, 0, 1}
	for i, e := range energies {
		got := countType(bd.Check(StepStats{Tick: i, Energy: e}), BookmarkSettled)
		if got != want[i] {
			t.Errorf("window %d (energy %g): got %d settled bookmarks, want %d", i, e, got, want[i])
		}
	}
}

func TestBookmarkDetector_SteadyFiresOnce(t *testing.T) {
	bd := NewBookmarkDetector(6)

	fired := -1
	for i := 0; i < 12; i++ {
		if countType(bd.Check(StepStats{Tick: i, Energy: 1}), BookmarkSteady) > 0 {
			if fired >= 0 {
				t.Fatalf("steady fired twice, at %d and %d", fired, i)
			}
			fired = i
		}
	}
	if fired != 7 {
		t.Errorf("expected steady bookmark at window 7, got %d", fired)
	}
}

func TestBookmarkDetector_NonFinite(t *testing.T) {
	bd := NewBookmarkDetector(5)
	bms := bd.Check(StepStats{Tick: 9, Energy: math.NaN()})
	if len(bms) != 1 || bms[0].Type != BookmarkNonFinite {
		t.Errorf("expected a single non_finite bookmark, got %+v", bms)
	}
}

func TestBookmarkDetector_MinimumHistory(t *testing.T) {
	if bd := NewBookmarkDetector(1); bd.historySize != 5 {
		t.Errorf("expected history size clamped to 5, got %d", bd.historySize)
	}
}
