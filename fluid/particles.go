package fluid

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/stablefluids/parallel"
)

// Particle is a massless tracer in normalized domain coordinates [0,1).
// Color is an RGBA tag for display and is never read by the solver.
type Particle struct {
	X, Y  float32
	Color uint32
}

// maxCoord is the largest float32 below 1.
var maxCoord = math.Nextafter32(1, 0)

// NewParticleGrid places perSide² particles, one per cell of a perSide grid,
// each offset from its cell center by up to ±jitter/2 of a cell. The color
// tag encodes the starting position.
func NewParticleGrid(perSide int, jitter float32, seed int64) []Particle {
	if perSide <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	inv := 1 / float32(perSide)

	ps := make([]Particle, perSide*perSide)
	for i := 0; i < perSide; i++ {
		for j := 0; j < perSide; j++ {
			x := (float32(j) + 0.5 + (rng.Float32()-0.5)*jitter) * inv
			y := (float32(i) + 0.5 + (rng.Float32()-0.5)*jitter) * inv
			ps[i*perSide+j] = Particle{
				X:     clampUnit(x),
				Y:     clampUnit(y),
				Color: positionColor(float32(j)*inv, float32(i)*inv),
			}
		}
	}
	return ps
}

// positionColor packs an RGBA color that varies across the domain.
func positionColor(x, y float32) uint32 {
	r := uint32(64 + 191*x)
	g := uint32(64 + 191*y)
	b := uint32(160)
	return r<<24 | g<<16 | b<<8 | 0xff
}

// AdvectParticles moves each particle along v: p = p + dt·v(p). The velocity
// is sampled bilinearly with the same boundary policy as velocity advection.
// With BoundaryClamp positions stay in [0,1); with BoundaryWrap they wrap.
func AdvectParticles(pool *parallel.Pool, ps []Particle, v *VelocityField, dt float32, b Boundary) {
	dim := float32(v.Dim)

	pool.Run(len(ps), func(_, i0, i1 int) {
		for i := i0; i < i1; i++ {
			p := &ps[i]
			u := Sample(v, p.X*dim-0.5, p.Y*dim-0.5, b)

			x := p.X + dt*u.X
			y := p.Y + dt*u.Y
			if b == BoundaryWrap {
				x = wrapUnit(x)
				y = wrapUnit(y)
			} else {
				x = clampUnit(x)
				y = clampUnit(y)
			}
			p.X, p.Y = x, y
		}
	})
}

func clampUnit(f float32) float32 {
	if !(f > 0) {
		// Also catches NaN
		return 0
	}
	if f > maxCoord {
		return maxCoord
	}
	return f
}

func wrapUnit(f float32) float32 {
	if !isFinite(f) {
		return 0
	}
	f -= float32(math.Floor(float64(f)))
	if f >= 1 || f < 0 {
		return 0
	}
	return f
}
