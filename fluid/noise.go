package fluid

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// SeedNoise fills v with a swirling, divergence-free field: the discrete
// curl of an opensimplex stream function ψ, vx = ∂ψ/∂y and vy = -∂ψ/∂x.
// scale is the number of noise features across the domain; amplitude is
// the peak of ψ in domain units.
func SeedNoise(v *VelocityField, amplitude, scale float64, seed int64) {
	n := v.Dim
	noise := opensimplex.New(seed)
	freq := scale / float64(n)

	psi := make([]float64, n*n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			psi[y*n+x] = amplitude * noise.Eval2(float64(x)*freq, float64(y)*freq)
		}
	}

	h := float64(n) / 2
	for y := 0; y < n; y++ {
		ym := BoundaryWrap.Index(y-1, n)
		yp := BoundaryWrap.Index(y+1, n)
		for x := 0; x < n; x++ {
			xm := BoundaryWrap.Index(x-1, n)
			xp := BoundaryWrap.Index(x+1, n)
			v.Set(x, y, Vec2{
				X: float32((psi[yp*n+x] - psi[ym*n+x]) * h),
				Y: float32(-(psi[y*n+xp] - psi[y*n+xm]) * h),
			})
		}
	}
}
