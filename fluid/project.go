package fluid

import "github.com/pthm-cable/stablefluids/parallel"

// DiffuseProject applies viscosity and removes the divergent part of the
// velocity in frequency space. For every bin k:
//
//	v(k) = v(k) / (1 + visc·dt·|k|²)
//	v(k) = v(k) - (k·v(k))·k / |k|²    (skipped at k = 0)
//
// Wavenumbers are integer: kx is the column, ky is the row folded to
// negative frequencies above Dim/2. Real and imaginary parts are projected
// independently since k is real.
//
// tiles must partition the CPadW x Dim bin space.
func DiffuseProject(pool *parallel.Pool, tiles []parallel.Tile, vx, vy *Spectrum, dt, visc float32) {
	spectralPass(pool, tiles, vx, vy, visc*dt, true)
}

// Diffuse applies only the viscous decay.
func Diffuse(pool *parallel.Pool, tiles []parallel.Tile, vx, vy *Spectrum, dt, visc float32) {
	spectralPass(pool, tiles, vx, vy, visc*dt, false)
}

// Project removes only the divergent part.
func Project(pool *parallel.Pool, tiles []parallel.Tile, vx, vy *Spectrum) {
	spectralPass(pool, tiles, vx, vy, 0, true)
}

func spectralPass(pool *parallel.Pool, tiles []parallel.Tile, vx, vy *Spectrum, viscDT float32, project bool) {
	dim := vx.Dim
	half := dim / 2

	pool.RunTiles(tiles, func(_ int, t parallel.Tile) {
		for row := t.Y0; row < t.Y1; row++ {
			iiy := row
			if row > half {
				iiy = row - dim
			}
			ky := float32(iiy)

			for col := t.X0; col < t.X1; col++ {
				kx := float32(col)
				o := vx.BinOffset(col, row)
				xr, xi := vx.Data[o], vx.Data[o+1]
				yr, yi := vy.Data[o], vy.Data[o+1]

				kk := kx*kx + ky*ky

				if viscDT != 0 {
					diff := 1 / (1 + viscDT*kk)
					xr *= diff
					xi *= diff
					yr *= diff
					yi *= diff
				}

				if project && kk > 0 {
					rkk := 1 / kk
					rkp := kx*xr + ky*yr
					ikp := kx*xi + ky*yi
					xr -= rkk * rkp * kx
					xi -= rkk * ikp * kx
					yr -= rkk * rkp * ky
					yi -= rkk * ikp * ky
				}

				vx.Data[o], vx.Data[o+1] = xr, xi
				vy.Data[o], vy.Data[o+1] = yr, yi
			}
		}
	})
}
