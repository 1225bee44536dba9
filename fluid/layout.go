// Package fluid implements the stable-fluids solver: force injection,
// semi-Lagrangian advection, spectral diffusion and projection, and tracer
// particle advection over a periodic square grid.
package fluid

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrDimension is returned when a grid size is unusable or two components
	// disagree about it.
	ErrDimension = errors.New("fluid: dimension mismatch")
	// ErrLayout is returned for an invalid row pitch or alignment.
	ErrLayout = errors.New("fluid: invalid layout")
)

// Vec2 is one velocity sample.
type Vec2 struct {
	X, Y float32
}

// Layout is the addressing scheme shared by the spatial field and the
// padded frequency-domain buffers.
type Layout struct {
	Dim   int // Cells per side
	Pitch int // Spatial row stride, in Vec2 elements
	CPadW int // Complex bins per spectral row (Dim/2+1)
	RPadW int // Floats per spectral row (2*CPadW)
}

// NewLayout builds the layout for a dim x dim grid. The spatial pitch is dim
// rounded up to a multiple of pitchAlign; 0 or 1 means no padding.
func NewLayout(dim, pitchAlign int) (Layout, error) {
	if dim < 2 || bits.OnesCount(uint(dim)) != 1 {
		return Layout{}, fmt.Errorf("%w: dim %d is not a power of two >= 2", ErrDimension, dim)
	}
	if pitchAlign < 0 {
		return Layout{}, fmt.Errorf("%w: pitch alignment %d", ErrLayout, pitchAlign)
	}
	pitch := dim
	if pitchAlign > 1 {
		pitch = (dim + pitchAlign - 1) / pitchAlign * pitchAlign
	}
	cpadw := dim/2 + 1
	return Layout{Dim: dim, Pitch: pitch, CPadW: cpadw, RPadW: 2 * cpadw}, nil
}

// Offset returns the float offset of the X component of cell (x, y) in an
// interleaved, pitched field buffer. The Y component follows it.
func (l Layout) Offset(x, y int) int {
	return 2 * (y*l.Pitch + x)
}

// SpectralOffset returns the offset of real sample (x, y) in a padded
// spectral buffer before the forward transform.
func (l Layout) SpectralOffset(x, y int) int {
	return y*l.RPadW + x
}

// BinOffset returns the offset of the real part of frequency bin (kx, row)
// in a padded spectral buffer after the forward transform. The imaginary
// part follows it.
func (l Layout) BinOffset(kx, row int) int {
	return row*l.RPadW + 2*kx
}

// Boundary is the edge policy shared by every sampling call site.
type Boundary uint8

const (
	// BoundaryClamp clamps samples to the edge cells.
	BoundaryClamp Boundary = iota
	// BoundaryWrap treats the domain as periodic.
	BoundaryWrap
)

// ParseBoundary maps a config name to a policy.
func ParseBoundary(name string) (Boundary, error) {
	switch name {
	case "", "clamp":
		return BoundaryClamp, nil
	case "wrap":
		return BoundaryWrap, nil
	}
	return BoundaryClamp, fmt.Errorf("fluid: unknown boundary %q", name)
}

func (b Boundary) String() string {
	if b == BoundaryWrap {
		return "wrap"
	}
	return "clamp"
}

// Index resolves a possibly out-of-range cell index into [0, n).
func (b Boundary) Index(i, n int) int {
	if b == BoundaryWrap {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
