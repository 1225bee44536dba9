package fluid

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/stablefluids/parallel"
)

// Phase names for the solver step, in pipeline order.
const (
	PhaseForce          = "force"
	PhaseAdvect         = "advect"
	PhaseFFTForward     = "fft_forward"
	PhaseDiffuseProject = "diffuse_project"
	PhaseFFTInverse     = "fft_inverse"
	PhaseUpdate         = "update"
	PhaseParticles      = "particles"
)

// PhaseTimer receives a call as each stage begins.
type PhaseTimer interface {
	StartPhase(name string)
}

// Solver owns the velocity field, the two spectral buffers and the tracer
// particles, and runs the step pipeline over them. It is not safe for
// concurrent use; only the worker pool fans out inside a stage.
type Solver struct {
	params    Params
	layout    Layout
	field     *VelocityField
	vx, vy    *Spectrum
	particles []Particle

	transform Transform
	pool      *parallel.Pool
	timer     PhaseTimer

	gridTiles []parallel.Tile // Dim x Dim
	binTiles  []parallel.Tile // CPadW x Dim

	tick     int
	rejected int
}

// NewSolver validates the parameters against the transform and allocates
// all buffers. pool may be nil to run every stage serially.
func NewSolver(p Params, transform Transform, pool *parallel.Pool) (*Solver, error) {
	layout, err := NewLayout(p.Dim, p.PitchAlign)
	if err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	if transform == nil {
		return nil, fmt.Errorf("fluid: nil transform")
	}
	if transform.Dim() != p.Dim {
		return nil, fmt.Errorf("%w: transform is %d, grid is %d", ErrDimension, transform.Dim(), p.Dim)
	}

	s := &Solver{
		params:    p,
		layout:    layout,
		field:     NewVelocityField(layout),
		vx:        NewSpectrum(layout),
		vy:        NewSpectrum(layout),
		particles: NewParticleGrid(p.ParticlesPerSide, p.ParticleJitter, p.ParticleSeed),
		transform: transform,
		pool:      pool,
		gridTiles: p.Tiling.Partition(layout.Dim, layout.Dim),
		binTiles:  p.Tiling.Partition(layout.CPadW, layout.Dim),
	}

	slog.Info("solver initialized",
		"dim", layout.Dim,
		"pitch", layout.Pitch,
		"boundary", p.Boundary.String(),
		"workers", pool.Workers(),
		"grid_bands", len(s.gridTiles),
		"bin_bands", len(s.binTiles),
		"particles", len(s.particles),
	)
	return s, nil
}

// SetPhaseTimer installs an optional per-stage timer.
func (s *Solver) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

func (s *Solver) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// Step injects forces and advances the field and particles by one dt.
// Each stage returns only after all of its bands finish, so no stage reads a
// buffer the previous one is still writing.
func (s *Solver) Step(forces []Force) {
	p := &s.params

	s.phase(PhaseForce)
	for _, f := range forces {
		s.Inject(f)
	}

	s.phase(PhaseAdvect)
	AdvectVelocity(s.pool, s.gridTiles, s.vx, s.vy, s.field, p.DT, p.Boundary)

	s.phase(PhaseFFTForward)
	s.transform.Forward(s.vx)
	s.transform.Forward(s.vy)

	s.phase(PhaseDiffuseProject)
	DiffuseProject(s.pool, s.binTiles, s.vx, s.vy, p.DT, p.Viscosity)

	s.phase(PhaseFFTInverse)
	s.transform.Inverse(s.vx)
	s.transform.Inverse(s.vy)

	s.phase(PhaseUpdate)
	UpdateVelocity(s.pool, s.gridTiles, s.field, s.vx, s.vy)

	s.phase(PhaseParticles)
	AdvectParticles(s.pool, s.particles, s.field, p.DT, p.Boundary)

	s.tick++
}

// Inject applies one drag event to the field immediately. The force is
// ForceScale·(DX, DY), clamped to MaxForce, applied as the impulse dt·f
// around the cell under (X, Y). Non-finite events are dropped and reported
// as false.
func (s *Solver) Inject(f Force) bool {
	p := &s.params
	if !isFinite(f.X) || !isFinite(f.Y) || !isFinite(f.DX) || !isFinite(f.DY) {
		s.rejected++
		slog.Debug("dropping non-finite force", "x", f.X, "y", f.Y, "dx", f.DX, "dy", f.DY)
		return false
	}

	fx := p.ForceScale * f.DX
	fy := p.ForceScale * f.DY
	mag := float32(math.Hypot(float64(fx), float64(fy)))
	if !isFinite(mag) {
		s.rejected++
		slog.Debug("dropping overflowing force", "dx", f.DX, "dy", f.DY)
		return false
	}
	if mag > p.MaxForce {
		k := p.MaxForce / mag
		fx *= k
		fy *= k
		slog.Debug("clamping force", "magnitude", mag, "max", p.MaxForce)
	}

	dim := float64(s.layout.Dim)
	cx := int(math.Floor(float64(f.X) * dim))
	cy := int(math.Floor(float64(f.Y) * dim))
	AddForce(s.field, cx, cy, p.DT*fx, p.DT*fy, p.ForceRadius)
	return true
}

// SeedNoise replaces the field with a divergence-free noise field.
func (s *Solver) SeedNoise(amplitude, scale float64, seed int64) {
	SeedNoise(s.field, amplitude, scale, seed)
}

// Reset zeroes the field and re-seeds the particles.
func (s *Solver) Reset() {
	s.field.Zero()
	s.particles = NewParticleGrid(s.params.ParticlesPerSide, s.params.ParticleJitter, s.params.ParticleSeed)
	s.tick = 0
}

// Close stops the worker pool. The solver can still step afterwards; the
// pool restarts on demand.
func (s *Solver) Close() {
	s.pool.Close()
}

// Field returns the live velocity field. Callers must not retain it across
// Step or write to it.
func (s *Solver) Field() *VelocityField { return s.field }

// Particles returns the live particle slice, with the same caveats as Field.
func (s *Solver) Particles() []Particle { return s.particles }

// Params returns the solver's constants.
func (s *Solver) Params() Params { return s.params }

// Layout returns the solver's buffer layout.
func (s *Solver) Layout() Layout { return s.layout }

// Tick returns the number of completed steps.
func (s *Solver) Tick() int { return s.tick }

// Rejected returns the number of force events dropped as non-finite.
func (s *Solver) Rejected() int { return s.rejected }

// Snapshot is a read-only copy of the solver state after a step.
type Snapshot struct {
	Tick      int
	Field     *VelocityField
	Particles []Particle
}

// Snapshot returns a deep copy of the field and particles.
func (s *Solver) Snapshot() Snapshot {
	var snap Snapshot
	s.SnapshotInto(&snap)
	return snap
}

// SnapshotInto copies the current state into dst, reusing its buffers.
func (s *Solver) SnapshotInto(dst *Snapshot) {
	dst.Tick = s.tick
	if dst.Field == nil || dst.Field.Layout != s.layout {
		dst.Field = NewVelocityField(s.layout)
	}
	copy(dst.Field.Data, s.field.Data)
	dst.Particles = append(dst.Particles[:0], s.particles...)
}
