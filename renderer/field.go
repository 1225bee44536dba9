// Package renderer draws solver state with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stablefluids/camera"
	"github.com/pthm-cable/stablefluids/colormap"
	"github.com/pthm-cable/stablefluids/fluid"
)

// FieldRenderer uploads the speed of the velocity field to a texture and
// draws it scaled into a square viewport.
type FieldRenderer struct {
	tex    rl.Texture2D
	pixels []color.RGBA
	dim    int

	LUT  *colormap.LUT
	Gain float32

	initialized bool
}

// NewFieldRenderer creates a field renderer. No GPU work happens until the
// first Update, so it is safe to build before the window exists.
func NewFieldRenderer(lut *colormap.LUT, gain float32) *FieldRenderer {
	if lut == nil {
		lut = colormap.Viridis()
	}
	return &FieldRenderer{LUT: lut, Gain: gain}
}

// Init creates the texture (must be called after raylib window is created).
func (r *FieldRenderer) Init(dim int) {
	if r.initialized && r.dim == dim {
		return
	}
	r.Unload()

	r.dim = dim
	img := rl.GenImageColor(dim, dim, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update colorizes v and uploads it.
func (r *FieldRenderer) Update(v *fluid.VelocityField) {
	r.Init(v.Dim)
	r.pixels = colormap.ColorizePixels(r.pixels, v, r.LUT, r.Gain)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the part of the field texture cam sees into dst.
func (r *FieldRenderer) Draw(dst rl.Rectangle, cam *camera.Camera) {
	if !r.initialized {
		return
	}
	n := float32(r.dim)
	minX, minY, maxX, maxY := cam.VisibleBounds()
	src := rl.Rectangle{X: minX * n, Y: minY * n, Width: (maxX - minX) * n, Height: (maxY - minY) * n}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// Viewport returns the largest square at the top-left of a w x h screen,
// leaving panelW pixels on the right for the HUD when there is room.
func Viewport(w, h, panelW float32) rl.Rectangle {
	side := h
	if w-panelW < side {
		side = w - panelW
	}
	if side < 1 {
		side = min(w, h)
	}
	return rl.Rectangle{X: 0, Y: 0, Width: side, Height: side}
}

// ToView maps a screen point to a fraction of vp. ok is false outside the
// viewport.
func ToView(vp rl.Rectangle, p rl.Vector2) (u, v float32, ok bool) {
	u = (p.X - vp.X) / vp.Width
	v = (p.Y - vp.Y) / vp.Height
	return u, v, u >= 0 && u < 1 && v >= 0 && v < 1
}
