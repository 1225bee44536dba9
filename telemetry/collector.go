package telemetry

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/stablefluids/fluid"
)

// Collector accumulates per-step counters within fixed windows of ticks and
// produces StepStats at each window boundary.
type Collector struct {
	window      int
	windowStart int

	// Current window
	forces  int
	stepUS  []float64
	rejects int

	// Whole run
	totalForces int
	allStepUS   []float64
}

// NewCollector creates a collector emitting one record per window steps.
func NewCollector(window int) *Collector {
	if window < 1 {
		window = 1
	}
	return &Collector{window: window}
}

// RecordStep records one completed step.
func (c *Collector) RecordStep(forces int, d time.Duration) {
	us := float64(d) / float64(time.Microsecond)
	c.forces += forces
	c.totalForces += forces
	c.stepUS = append(c.stepUS, us)
	c.allStepUS = append(c.allStepUS, us)
}

// ShouldFlush reports whether tick closes the current window.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStart >= c.window
}

// Flush measures the field, closes the window and starts a new one.
// rejected is the solver's running total of dropped force events.
func (c *Collector) Flush(tick int, v *fluid.VelocityField, rejected int) StepStats {
	s := Measure(tick, v)
	s.Forces = c.forces
	s.Rejected = rejected - c.rejects
	if len(c.stepUS) > 0 {
		s.StepUS = stat.Mean(c.stepUS, nil)
	}

	c.windowStart = tick
	c.forces = 0
	c.rejects = rejected
	c.stepUS = c.stepUS[:0]
	return s
}

// Summary returns timing statistics over every recorded step.
func (c *Collector) Summary() RunSummary {
	s := Summarize(c.allStepUS)
	s.Forces = c.totalForces
	return s
}
