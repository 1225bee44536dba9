// Package spectral implements the solver's frequency-domain transform on top
// of gonum's dsp/fourier: a real FFT along each row followed by a complex
// FFT down each of the Dim/2+1 retained columns.
package spectral

import (
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/parallel"
)

// plan holds one worker's FFT state; gonum plans keep internal work space
// and must not be shared between goroutines.
type plan struct {
	rows *fourier.FFT
	cols *fourier.CmplxFFT

	seq    []float64    // row samples (Dim)
	coeffs []complex128 // row coefficients (CPadW)
	col    []complex128 // column scratch (Dim)
}

// FFT2D is an unnormalized, in-place 2-D real-to-complex transform over the
// padded layout. Rows and columns are spread over the pool.
type FFT2D struct {
	dim   int
	cpadw int
	pool  *parallel.Pool
	plans []plan
}

// New builds a transform for a dim x dim grid with one plan per worker.
func New(dim int, pool *parallel.Pool) (*FFT2D, error) {
	if dim < 2 || bits.OnesCount(uint(dim)) != 1 {
		return nil, fmt.Errorf("%w: fft size %d is not a power of two >= 2", fluid.ErrDimension, dim)
	}
	t := &FFT2D{
		dim:   dim,
		cpadw: dim/2 + 1,
		pool:  pool,
		plans: make([]plan, pool.Workers()),
	}
	for i := range t.plans {
		t.plans[i] = plan{
			rows:   fourier.NewFFT(dim),
			cols:   fourier.NewCmplxFFT(dim),
			seq:    make([]float64, dim),
			coeffs: make([]complex128, t.cpadw),
			col:    make([]complex128, dim),
		}
	}
	return t, nil
}

// Dim returns the grid size the transform was built for.
func (t *FFT2D) Dim() int { return t.dim }

// Forward replaces the real samples of s with their 2-D DFT coefficients.
func (t *FFT2D) Forward(s *fluid.Spectrum) {
	t.check(s)

	// First axis: real FFT on each row
	t.pool.RunEach(t.dim, func(worker, y int) {
		pl := &t.plans[worker]
		row := s.Data[y*s.RPadW : (y+1)*s.RPadW]
		for x := 0; x < t.dim; x++ {
			pl.seq[x] = float64(row[x])
		}
		pl.rows.Coefficients(pl.coeffs, pl.seq)
		for k, c := range pl.coeffs {
			row[2*k] = float32(real(c))
			row[2*k+1] = float32(imag(c))
		}
	})

	// Second axis: complex FFT on each column
	t.pool.RunEach(t.cpadw, func(worker, kx int) {
		pl := &t.plans[worker]
		t.gather(pl.col, s, kx)
		pl.cols.Coefficients(pl.col, pl.col)
		t.scatter(s, kx, pl.col)
	})
}

// Inverse replaces the coefficients of s with real samples, scaled by
// Dim·Dim. Padding floats past Dim in each row are zeroed.
func (t *FFT2D) Inverse(s *fluid.Spectrum) {
	t.check(s)

	// Second axis inverse: complex IFFT on each column
	t.pool.RunEach(t.cpadw, func(worker, kx int) {
		pl := &t.plans[worker]
		t.gather(pl.col, s, kx)
		pl.cols.Sequence(pl.col, pl.col)
		t.scatter(s, kx, pl.col)
	})

	// First axis inverse: real IFFT on each row
	t.pool.RunEach(t.dim, func(worker, y int) {
		pl := &t.plans[worker]
		row := s.Data[y*s.RPadW : (y+1)*s.RPadW]
		for k := range pl.coeffs {
			pl.coeffs[k] = complex(float64(row[2*k]), float64(row[2*k+1]))
		}
		pl.rows.Sequence(pl.seq, pl.coeffs)
		for x := 0; x < t.dim; x++ {
			row[x] = float32(pl.seq[x])
		}
		clear(row[t.dim:])
	})
}

func (t *FFT2D) gather(dst []complex128, s *fluid.Spectrum, kx int) {
	for y := range dst {
		o := s.BinOffset(kx, y)
		dst[y] = complex(float64(s.Data[o]), float64(s.Data[o+1]))
	}
}

func (t *FFT2D) scatter(s *fluid.Spectrum, kx int, src []complex128) {
	for y, c := range src {
		o := s.BinOffset(kx, y)
		s.Data[o] = float32(real(c))
		s.Data[o+1] = float32(imag(c))
	}
}

func (t *FFT2D) check(s *fluid.Spectrum) {
	if s.Dim != t.dim {
		panic(fmt.Sprintf("spectral: buffer is %d, transform is %d", s.Dim, t.dim))
	}
}
