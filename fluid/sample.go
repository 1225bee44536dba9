package fluid

import "math"

// Sample bilinearly interpolates v at grid coordinate (gx, gy), where cell
// (i, j) sits at integer coordinate (i, j). The result is a convex
// combination of the four neighbouring cells, so it never exceeds their
// largest magnitude.
func Sample(v *VelocityField, gx, gy float32, b Boundary) Vec2 {
	n := v.Dim
	gx = resolveCoord(gx, n, b)
	gy = resolveCoord(gy, n, b)

	fx0 := float32(math.Floor(float64(gx)))
	fy0 := float32(math.Floor(float64(gy)))
	tx := gx - fx0
	ty := gy - fy0

	x0 := b.Index(int(fx0), n)
	y0 := b.Index(int(fy0), n)
	x1 := b.Index(int(fx0)+1, n)
	y1 := b.Index(int(fy0)+1, n)

	d := v.Data
	o00 := v.Offset(x0, y0)
	o10 := v.Offset(x1, y0)
	o01 := v.Offset(x0, y1)
	o11 := v.Offset(x1, y1)

	w00 := (1 - tx) * (1 - ty)
	w10 := tx * (1 - ty)
	w01 := (1 - tx) * ty
	w11 := tx * ty

	return Vec2{
		X: d[o00]*w00 + d[o10]*w10 + d[o01]*w01 + d[o11]*w11,
		Y: d[o00+1]*w00 + d[o10+1]*w10 + d[o01+1]*w01 + d[o11+1]*w11,
	}
}

// resolveCoord maps a sample coordinate onto the grid per the boundary
// policy. Non-finite coordinates collapse to 0 so they cannot produce an
// out-of-range index.
func resolveCoord(g float32, n int, b Boundary) float32 {
	if !isFinite(g) {
		return 0
	}
	if b == BoundaryWrap {
		fn := float32(n)
		g -= fn * float32(math.Floor(float64(g/fn)))
		if g >= fn {
			g = 0
		}
		return g
	}
	if g < 0 {
		return 0
	}
	if hi := float32(n - 1); g > hi {
		return hi
	}
	return g
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}
