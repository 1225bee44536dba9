package spectral

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/parallel"
)

func newSpectrum(t *testing.T, dim int) *fluid.Spectrum {
	t.Helper()
	l, err := fluid.NewLayout(dim, 0)
	if err != nil {
		t.Fatal(err)
	}
	return fluid.NewSpectrum(l)
}

func TestNewRejectsBadSize(t *testing.T) {
	for _, dim := range []int{0, 1, 3, 100} {
		if _, err := New(dim, nil); !errors.Is(err, fluid.ErrDimension) {
			t.Errorf("dim %d: expected ErrDimension, got %v", dim, err)
		}
	}
}

func TestZeroRoundTrip(t *testing.T) {
	const dim = 32
	tr, err := New(dim, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := newSpectrum(t, dim)

	tr.Forward(s)
	for i, v := range s.Data {
		if v != 0 {
			t.Fatalf("forward of zero field has Data[%d]=%g", i, v)
		}
	}
	tr.Inverse(s)
	for i, v := range s.Data {
		if v != 0 {
			t.Fatalf("inverse of zero spectrum has Data[%d]=%g", i, v)
		}
	}
}

func TestRoundTripIdentity(t *testing.T) {
	const dim = 64
	pool := parallel.NewPool(4)
	defer pool.Close()

	tr, err := New(dim, pool)
	if err != nil {
		t.Fatal(err)
	}
	s := newSpectrum(t, dim)

	rng := rand.New(rand.NewSource(3))
	orig := make([]float32, dim*dim)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			v := rng.Float32()*2 - 1
			orig[y*dim+x] = v
			s.SetReal(x, y, v)
		}
	}

	tr.Forward(s)
	tr.Inverse(s)

	scale := 1 / float32(dim*dim)
	var maxErr float64
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			got := s.Real(x, y) * scale
			if d := math.Abs(float64(got - orig[y*dim+x])); d > maxErr {
				maxErr = d
			}
		}
	}
	if maxErr > 1e-4 {
		t.Errorf("round trip error %g exceeds 1e-4", maxErr)
	}
}

func TestForwardSingleMode(t *testing.T) {
	const dim = 16
	const kx = 3
	tr, err := New(dim, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := newSpectrum(t, dim)

	// 2 + cos(2π·kx·x/N): DC and one real cosine bin
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			s.SetReal(x, y, float32(2+math.Cos(2*math.Pi*kx*float64(x)/dim)))
		}
	}
	tr.Forward(s)

	n2 := float64(dim * dim)
	for row := 0; row < dim; row++ {
		for col := 0; col <= dim/2; col++ {
			c := s.Bin(col, row)
			want := 0.0
			switch {
			case row == 0 && col == 0:
				want = 2 * n2
			case row == 0 && col == kx:
				want = n2 / 2
			}
			if math.Abs(float64(real(c))-want) > 1e-3 || math.Abs(float64(imag(c))) > 1e-3 {
				t.Errorf("bin (%d,%d) = %v, want %g", col, row, c, want)
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	const dim = 128
	pool := parallel.NewPool(8)
	defer pool.Close()

	serial, _ := New(dim, nil)
	par, _ := New(dim, pool)

	a := newSpectrum(t, dim)
	b := newSpectrum(t, dim)
	rng := rand.New(rand.NewSource(11))
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			v := rng.Float32()
			a.SetReal(x, y, v)
			b.SetReal(x, y, v)
		}
	}

	serial.Forward(a)
	par.Forward(b)
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("parallel forward differs at %d: %g vs %g", i, a.Data[i], b.Data[i])
		}
	}
}

func BenchmarkForwardInverse512(b *testing.B) {
	pool := parallel.NewPool(0)
	defer pool.Close()
	tr, _ := New(512, pool)
	l, _ := fluid.NewLayout(512, 0)
	s := fluid.NewSpectrum(l)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tr.Forward(s)
		tr.Inverse(s)
	}
}
