package fluid

import "github.com/pthm-cable/stablefluids/parallel"

// AdvectVelocity traces every cell of v back along its own velocity,
// v(x, t+dt) = v(x - dt·v(x), t), and writes the bilinearly sampled result
// into the real planes of vx and vy. Velocity is in domain units per unit
// time, so the trace distance in cells is dt·v·Dim.
//
// tiles must partition the Dim x Dim grid.
func AdvectVelocity(pool *parallel.Pool, tiles []parallel.Tile, vx, vy *Spectrum, v *VelocityField, dt float32, b Boundary) {
	scale := dt * float32(v.Dim)

	pool.RunTiles(tiles, func(_ int, t parallel.Tile) {
		for y := t.Y0; y < t.Y1; y++ {
			for x := t.X0; x < t.X1; x++ {
				o := v.Offset(x, y)
				px := float32(x) - scale*v.Data[o]
				py := float32(y) - scale*v.Data[o+1]

				u := Sample(v, px, py, b)
				fj := vx.SpectralOffset(x, y)
				vx.Data[fj] = u.X
				vy.Data[fj] = u.Y
			}
		}
	})
}
