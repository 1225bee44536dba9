// Package camera provides zoom and pan over the unit fluid domain.
package camera

// Camera controls which part of the domain fills the viewport. Positions
// are normalized domain coordinates in [0,1]; the view never leaves the
// domain.
type Camera struct {
	// Position is the view center in domain coordinates
	X, Y float32

	// Zoom level (1.0 = whole domain, 2.0 = 2x magnification)
	Zoom float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole domain.
func New() *Camera {
	return &Camera{
		X:       0.5,
		Y:       0.5,
		Zoom:    1.0,
		MinZoom: 1.0,
		MaxZoom: 8.0,
	}
}

// halfExtent is half the visible side in domain units.
func (c *Camera) halfExtent() float32 {
	return 0.5 / c.Zoom
}

// ViewToDomain converts a viewport fraction (u, v in [0,1]) to domain
// coordinates.
func (c *Camera) ViewToDomain(u, v float32) (x, y float32) {
	return c.X + (u-0.5)/c.Zoom, c.Y + (v-0.5)/c.Zoom
}

// DomainToView converts domain coordinates to a viewport fraction.
// Visible points land in [0,1].
func (c *Camera) DomainToView(x, y float32) (u, v float32) {
	return 0.5 + (x-c.X)*c.Zoom, 0.5 + (y-c.Y)*c.Zoom
}

// IsVisible returns true if the domain point is inside the view.
func (c *Camera) IsVisible(x, y float32) bool {
	h := c.halfExtent()
	return absf(x-c.X) <= h && absf(y-c.Y) <= h
}

// Pan moves the view by a viewport fraction. Dragging content right by
// du moves the center left.
func (c *Camera) Pan(du, dv float32) {
	c.X -= du / c.Zoom
	c.Y -= dv / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor keeping the domain point under viewport fraction
// (u, v) fixed, as long as the view stays inside the domain.
func (c *Camera) ZoomAt(factor, u, v float32) {
	x, y := c.ViewToDomain(u, v)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = x - (u-0.5)/c.Zoom
	c.Y = y - (v-0.5)/c.Zoom
	c.clampCenter()
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = 0.5
	c.Y = 0.5
	c.Zoom = 1.0
}

// VisibleBounds returns the domain bounds of the visible area.
func (c *Camera) VisibleBounds() (minX, minY, maxX, maxY float32) {
	h := c.halfExtent()
	return c.X - h, c.Y - h, c.X + h, c.Y + h
}

func (c *Camera) clampCenter() {
	h := c.halfExtent()
	c.X = clamp(c.X, h, 1-h)
	c.Y = clamp(c.Y, h, 1-h)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
