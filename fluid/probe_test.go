package fluid

import (
	"math"
	"testing"
)

func TestProbeRigidRotation(t *testing.T) {
	const n = 32
	const omega = 0.4
	v := NewVelocityField(testLayout(t, n, 0))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			v.Set(x, y, Vec2{
				X: -omega * (float32(y)/n - 0.5),
				Y: omega * (float32(x)/n - 0.5),
			})
		}
	}

	p := ProbeCell(v, 10, 20)
	if p.X != 10 || p.Y != 20 {
		t.Fatalf("probe at (%d,%d), want (10,20)", p.X, p.Y)
	}
	if math.Abs(float64(p.Vorticity)-2*omega) > 1e-4 {
		t.Errorf("vorticity %g, want %g", p.Vorticity, 2*omega)
	}
	if math.Abs(float64(p.Divergence)) > 1e-5 {
		t.Errorf("divergence %g, want 0", p.Divergence)
	}
	want := float32(math.Hypot(float64(p.VX), float64(p.VY)))
	if p.Speed != want {
		t.Errorf("speed %g, want %g", p.Speed, want)
	}
}

func TestProbeMatchesMeasureDivergence(t *testing.T) {
	const n = 16
	v := NewVelocityField(testLayout(t, n, 0))
	randomField(v, 1, 3)

	var sumSq float64
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			d := float64(ProbeCell(v, x, y).Divergence)
			sumSq += d * d
		}
	}
	rms := math.Sqrt(sumSq / n / n)
	if want := MeasureDivergence(v).RMS; math.Abs(rms-want) > 1e-4*want {
		t.Errorf("probe divergence RMS %g, want %g", rms, want)
	}
}

func TestProbeClampsCell(t *testing.T) {
	v := NewVelocityField(testLayout(t, 8, 0))
	p := ProbeCell(v, -3, 99)
	if p.X != 0 || p.Y != 7 {
		t.Errorf("probe at (%d,%d), want (0,7)", p.X, p.Y)
	}
}
