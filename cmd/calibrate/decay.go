package main

import (
	"fmt"
	"math"

	"github.com/pthm-cable/stablefluids/config"
	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/parallel"
	"github.com/pthm-cable/stablefluids/spectral"
)

// DecayEvaluator measures how much of a single shear mode survives a fixed
// number of solver steps at a given viscosity.
type DecayEvaluator struct {
	params fluid.Params
	k      int
	steps  int
	pool   *parallel.Pool
	tr     fluid.Transform
}

// NewDecayEvaluator builds the transform once for cfg's grid. The shear
// wavenumber k must fit the grid.
func NewDecayEvaluator(cfg *config.Config, k, steps int) (*DecayEvaluator, error) {
	params, err := fluid.ParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if k < 1 || k >= params.Dim/2 {
		return nil, fmt.Errorf("wavenumber %d out of range for dim %d", k, params.Dim)
	}
	if steps < 1 {
		return nil, fmt.Errorf("steps must be >= 1, got %d", steps)
	}
	// Tracers do not affect the velocity
	params.ParticlesPerSide = 1

	pool := parallel.NewPool(cfg.Solver.Workers)
	tr, err := spectral.New(params.Dim, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &DecayEvaluator{params: params, k: k, steps: steps, pool: pool, tr: tr}, nil
}

// Close stops the worker pool.
func (de *DecayEvaluator) Close() {
	de.pool.Close()
}

// Ratio returns the amplitude left after the configured steps, relative to
// the start, for the given viscosity.
func (de *DecayEvaluator) Ratio(visc float64) (float64, error) {
	p := de.params
	p.Viscosity = float32(visc)
	s, err := fluid.NewSolver(p, de.tr, de.pool)
	if err != nil {
		return 0, err
	}

	// u = sin(2πky/N) is divergence free and invariant under its own
	// advection, so only diffusion changes it.
	v := s.Field()
	n := p.Dim
	for y := 0; y < n; y++ {
		u := float32(math.Sin(2 * math.Pi * float64(de.k*y) / float64(n)))
		for x := 0; x < n; x++ {
			v.Set(x, y, fluid.Vec2{X: u})
		}
	}

	e0 := fluid.Energy(v)
	for i := 0; i < de.steps; i++ {
		s.Step(nil)
	}
	return math.Sqrt(fluid.Energy(s.Field()) / e0), nil
}

// Predicted is the closed form of Ratio for integer wavenumbers.
func (de *DecayEvaluator) Predicted(visc float64) float64 {
	kk := float64(de.k * de.k)
	return math.Pow(1+visc*float64(de.params.DT)*kk, -float64(de.steps))
}
