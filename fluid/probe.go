package fluid

import "math"

// Probe is the local state of one cell. The inspect tags drive the
// inspector panel.
type Probe struct {
	X          int     `inspect:"label"`
	Y          int     `inspect:"label"`
	VX         float32 `inspect:"label,fmt:%.4f"`
	VY         float32 `inspect:"label,fmt:%.4f"`
	Speed      float32 `inspect:"bar,max:0.3"`
	Heading    float32 `inspect:"angle"`
	Divergence float32 `inspect:"label,fmt:%.3g"`
	Vorticity  float32 `inspect:"label,fmt:%.3g"`
}

// ProbeCell measures cell (x, y). Derivatives are central differences on
// the periodic domain, in domain units, as in MeasureDivergence.
func ProbeCell(v *VelocityField, x, y int) Probe {
	n := v.Dim
	x = BoundaryClamp.Index(x, n)
	y = BoundaryClamp.Index(y, n)
	h := float32(n) / 2

	xm := BoundaryWrap.Index(x-1, n)
	xp := BoundaryWrap.Index(x+1, n)
	ym := BoundaryWrap.Index(y-1, n)
	yp := BoundaryWrap.Index(y+1, n)

	c := v.At(x, y)
	l, r := v.At(xm, y), v.At(xp, y)
	d, u := v.At(x, ym), v.At(x, yp)

	return Probe{
		X:          x,
		Y:          y,
		VX:         c.X,
		VY:         c.Y,
		Speed:      float32(math.Hypot(float64(c.X), float64(c.Y))),
		Heading:    float32(math.Atan2(float64(c.Y), float64(c.X))),
		Divergence: ((r.X - l.X) + (u.Y - d.Y)) * h,
		Vorticity:  ((r.Y - l.Y) - (u.X - d.X)) * h,
	}
}
