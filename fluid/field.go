package fluid

import "fmt"

// VelocityField is a dim x dim grid of (vx, vy) pairs stored interleaved,
// one row every Pitch pairs. Padding pairs stay zero.
type VelocityField struct {
	Layout
	Data []float32
}

// NewVelocityField allocates a zero field for the layout.
func NewVelocityField(l Layout) *VelocityField {
	return &VelocityField{
		Layout: l,
		Data:   make([]float32, 2*l.Dim*l.Pitch),
	}
}

// At returns the velocity of cell (x, y). Indices must be in range.
func (v *VelocityField) At(x, y int) Vec2 {
	o := v.Offset(x, y)
	return Vec2{X: v.Data[o], Y: v.Data[o+1]}
}

// Set stores the velocity of cell (x, y). Indices must be in range.
func (v *VelocityField) Set(x, y int, u Vec2) {
	o := v.Offset(x, y)
	v.Data[o] = u.X
	v.Data[o+1] = u.Y
}

// Row returns the interleaved pairs of row y, without pitch padding.
func (v *VelocityField) Row(y int) []float32 {
	o := v.Offset(0, y)
	return v.Data[o : o+2*v.Dim]
}

// Zero clears the field.
func (v *VelocityField) Zero() {
	clear(v.Data)
}

// CopyFrom overwrites v with src. Both must share a layout.
func (v *VelocityField) CopyFrom(src *VelocityField) error {
	if v.Layout != src.Layout {
		return fmt.Errorf("%w: copying %dx%d (pitch %d) into %dx%d (pitch %d)",
			ErrDimension, src.Dim, src.Dim, src.Pitch, v.Dim, v.Dim, v.Pitch)
	}
	copy(v.Data, src.Data)
	return nil
}

// Clone returns a deep copy of the field.
func (v *VelocityField) Clone() *VelocityField {
	c := NewVelocityField(v.Layout)
	copy(c.Data, v.Data)
	return c
}
