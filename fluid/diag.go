package fluid

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// Energy returns the mean kinetic energy 0.5·mean(|v|²).
func Energy(v *VelocityField) float64 {
	var sum float64
	for y := 0; y < v.Dim; y++ {
		row := blas32.Vector{N: 2 * v.Dim, Inc: 1, Data: v.Row(y)}
		sum += float64(blas32.Dot(row, row))
	}
	return 0.5 * sum / float64(v.Dim*v.Dim)
}

// MaxSpeed returns the largest |v| over the grid.
func MaxSpeed(v *VelocityField) float32 {
	var m float32
	for y := 0; y < v.Dim; y++ {
		row := v.Row(y)
		for i := 0; i < len(row); i += 2 {
			s := row[i]*row[i] + row[i+1]*row[i+1]
			if s > m {
				m = s
			}
		}
	}
	return float32(math.Sqrt(float64(m)))
}

// Divergence holds central-difference divergence statistics.
type Divergence struct {
	RMS    float64
	MaxAbs float64
}

// MeasureDivergence computes ∂vx/∂x + ∂vy/∂y with central differences on the
// periodic domain the spectral projection works on, in domain units.
func MeasureDivergence(v *VelocityField) Divergence {
	n := v.Dim
	h := float64(n) / 2

	var sumSq, maxAbs float64
	for y := 0; y < n; y++ {
		ym := BoundaryWrap.Index(y-1, n)
		yp := BoundaryWrap.Index(y+1, n)
		for x := 0; x < n; x++ {
			xm := BoundaryWrap.Index(x-1, n)
			xp := BoundaryWrap.Index(x+1, n)

			dvx := float64(v.Data[v.Offset(xp, y)] - v.Data[v.Offset(xm, y)])
			dvy := float64(v.Data[v.Offset(x, yp)+1] - v.Data[v.Offset(x, ym)+1])
			d := (dvx + dvy) * h

			sumSq += d * d
			if a := math.Abs(d); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return Divergence{
		RMS:    math.Sqrt(sumSq / float64(n*n)),
		MaxAbs: maxAbs,
	}
}
