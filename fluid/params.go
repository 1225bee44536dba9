package fluid

import (
	"fmt"

	"github.com/pthm-cable/stablefluids/config"
	"github.com/pthm-cable/stablefluids/parallel"
)

// Params are the domain constants of a run. They do not change once the
// solver is built.
type Params struct {
	Dim         int
	PitchAlign  int
	DT          float32
	Viscosity   float32
	ForceScale  float32 // Absolute, applied to normalized drag deltas
	ForceRadius int
	MaxForce    float32 // Bound on |ForceScale·drag| before dt is applied
	Boundary    Boundary
	Tiling      parallel.Tiling

	ParticlesPerSide int
	ParticleJitter   float32
	ParticleSeed     int64
}

// DefaultParams returns the reference constants for a dim x dim grid:
// dt 0.09, viscosity 0.0025, force 5.8·dim, radius 4.
func DefaultParams(dim int) Params {
	force := 5.8 * float32(dim)
	return Params{
		Dim:              dim,
		DT:               0.09,
		Viscosity:        0.0025,
		ForceScale:       force,
		ForceRadius:      4,
		MaxForce:         10 * force,
		Boundary:         BoundaryClamp,
		Tiling:           parallel.DefaultTiling(),
		ParticlesPerSide: dim,
		ParticleJitter:   1,
		ParticleSeed:     1,
	}
}

// ParamsFromConfig maps the loaded configuration onto solver parameters.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	b, err := ParseBoundary(cfg.Solver.Boundary)
	if err != nil {
		return Params{}, err
	}
	return Params{
		Dim:              cfg.Solver.Dim,
		PitchAlign:       cfg.Solver.PitchAlign,
		DT:               cfg.Derived.DT32,
		Viscosity:        float32(cfg.Solver.Viscosity),
		ForceScale:       cfg.Derived.ForceScale,
		ForceRadius:      cfg.Solver.ForceRadius,
		MaxForce:         cfg.Derived.MaxForce,
		Boundary:         b,
		Tiling:           cfg.Tiling,
		ParticlesPerSide: cfg.Particles.PerSide,
		ParticleJitter:   float32(cfg.Particles.Jitter),
		ParticleSeed:     cfg.Particles.Seed,
	}, nil
}

// validate checks the parameters that the layout does not.
func (p Params) validate() error {
	if p.DT <= 0 || !isFinite(p.DT) {
		return fmt.Errorf("fluid: dt must be positive and finite, got %g", p.DT)
	}
	if p.Viscosity < 0 || !isFinite(p.Viscosity) {
		return fmt.Errorf("fluid: viscosity must be >= 0, got %g", p.Viscosity)
	}
	if p.ForceRadius < 0 {
		return fmt.Errorf("fluid: force radius must be >= 0, got %d", p.ForceRadius)
	}
	if !(p.MaxForce > 0) {
		return fmt.Errorf("fluid: max force must be positive, got %g", p.MaxForce)
	}
	if err := p.Tiling.Validate(); err != nil {
		return fmt.Errorf("fluid: %w", err)
	}
	return nil
}
