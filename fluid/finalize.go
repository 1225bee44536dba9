package fluid

import (
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/stablefluids/parallel"
)

// UpdateVelocity writes the inverse-transformed real planes of vx and vy
// back into v, scaling by 1/(Dim·Dim) for the unnormalized transform.
// Row y of the spectral buffers starts at y*RPadW; row y of v starts at
// y*Pitch pairs and is interleaved, so X and Y land with stride 2.
//
// tiles must partition the Dim x Dim grid.
func UpdateVelocity(pool *parallel.Pool, tiles []parallel.Tile, v *VelocityField, vx, vy *Spectrum) {
	scale := 1 / float32(v.Dim*v.Dim)

	pool.RunTiles(tiles, func(_ int, t parallel.Tile) {
		n := t.Width()
		for y := t.Y0; y < t.Y1; y++ {
			src := vx.SpectralOffset(t.X0, y)
			dst := v.Offset(t.X0, y)
			out := v.Data[dst : dst+2*n]

			blas32.Copy(
				blas32.Vector{N: n, Inc: 1, Data: vx.Data[src : src+n]},
				blas32.Vector{N: n, Inc: 2, Data: out},
			)
			blas32.Copy(
				blas32.Vector{N: n, Inc: 1, Data: vy.Data[src : src+n]},
				blas32.Vector{N: n, Inc: 2, Data: out[1:]},
			)
			blas32.Scal(scale, blas32.Vector{N: 2 * n, Inc: 1, Data: out})
		}
	})
}
