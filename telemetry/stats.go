package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/stablefluids/fluid"
)

// StepStats is one telemetry record, taken at the end of a window.
type StepStats struct {
	Tick     int     `csv:"tick" json:"tick"`
	Energy   float64 `csv:"energy" json:"energy"`
	MaxSpeed float64 `csv:"max_speed" json:"max_speed"`
	DivRMS   float64 `csv:"div_rms" json:"div_rms"`
	DivMax   float64 `csv:"div_max" json:"div_max"`
	StepUS   float64 `csv:"step_us" json:"step_us"` // Mean step time over the window
	Forces   int     `csv:"forces" json:"forces"`   // Force events applied in the window
	Rejected int     `csv:"rejected" json:"rejected"`
}

// Measure fills the field diagnostics of a record.
func Measure(tick int, v *fluid.VelocityField) StepStats {
	div := fluid.MeasureDivergence(v)
	return StepStats{
		Tick:     tick,
		Energy:   fluid.Energy(v),
		MaxSpeed: float64(fluid.MaxSpeed(v)),
		DivRMS:   div.RMS,
		DivMax:   div.MaxAbs,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("tick", s.Tick),
		slog.Float64("energy", s.Energy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("div_rms", s.DivRMS),
		slog.Float64("div_max", s.DivMax),
		slog.Float64("step_us", s.StepUS),
		slog.Int("forces", s.Forces),
		slog.Int("rejected", s.Rejected),
	)
}

// LogStats logs the record using slog.
func (s StepStats) LogStats() {
	slog.Info("stats",
		"tick", s.Tick,
		"energy", s.Energy,
		"max_speed", s.MaxSpeed,
		"div_rms", s.DivRMS,
		"div_max", s.DivMax,
		"step_us", s.StepUS,
		"forces", s.Forces,
		"rejected", s.Rejected,
	)
}

// RunSummary aggregates step timing over a whole run.
type RunSummary struct {
	Ticks      int       `json:"ticks"`
	Forces     int       `json:"forces"`
	MeanStepUS float64   `json:"mean_step_us"`
	StdStepUS  float64   `json:"std_step_us"`
	P50StepUS  float64   `json:"p50_step_us"`
	P90StepUS  float64   `json:"p90_step_us"`
	MaxStepUS  float64   `json:"max_step_us"`
	Final      StepStats `json:"final"`
}

// Summarize computes timing statistics over step durations in microseconds.
func Summarize(stepUS []float64) RunSummary {
	n := len(stepUS)
	if n == 0 {
		return RunSummary{}
	}
	sorted := make([]float64, n)
	copy(sorted, stepUS)
	sort.Float64s(sorted)

	var std float64
	mean := stat.Mean(sorted, nil)
	if n > 1 {
		std = stat.StdDev(sorted, nil)
	}
	return RunSummary{
		Ticks:      n,
		MeanStepUS: mean,
		StdStepUS:  std,
		P50StepUS:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90StepUS:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		MaxStepUS:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", s.Ticks),
		slog.Int("forces", s.Forces),
		slog.Float64("mean_step_us", s.MeanStepUS),
		slog.Float64("std_step_us", s.StdStepUS),
		slog.Float64("p50_step_us", s.P50StepUS),
		slog.Float64("p90_step_us", s.P90StepUS),
		slog.Float64("max_step_us", s.MaxStepUS),
		slog.Any("final", s.Final),
	)
}
