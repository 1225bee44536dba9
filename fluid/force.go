package fluid

// Force is one input event: a drag at normalized position (X, Y) moving by
// (DX, DY), also in normalized domain units.
type Force struct {
	X, Y   float32
	DX, DY float32
}

// AddForce adds the impulse (fx, fy) to every cell within radius of grid
// cell (cx, cy), weighted by w(d) = (1 - d²/r²)². Only the bounding box of
// the radius is visited, clipped to the grid; cells at distance >= radius
// are left untouched. A radius of 0 touches only the center cell.
func AddForce(v *VelocityField, cx, cy int, fx, fy float32, radius int) {
	if radius < 0 {
		return
	}
	x0 := max(cx-radius, 0)
	x1 := min(cx+radius, v.Dim-1)
	y0 := max(cy-radius, 0)
	y1 := min(cy+radius, v.Dim-1)

	if radius == 0 {
		if x0 == cx && y0 == cy && x1 == cx && y1 == cy {
			o := v.Offset(cx, cy)
			v.Data[o] += fx
			v.Data[o+1] += fy
		}
		return
	}

	invR2 := 1 / float32(radius*radius)
	for y := y0; y <= y1; y++ {
		dy := y - cy
		for x := x0; x <= x1; x++ {
			dx := x - cx
			d2 := dx*dx + dy*dy
			if d2 >= radius*radius {
				continue
			}
			s := 1 - float32(d2)*invR2
			w := s * s
			o := v.Offset(x, y)
			v.Data[o] += w * fx
			v.Data[o+1] += w * fy
		}
	}
}
