package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stablefluids/camera"
	"github.com/pthm-cable/stablefluids/colormap"
	"github.com/pthm-cable/stablefluids/fluid"
)

// ParticleRenderer draws tracer particles as pixels in their tag color.
type ParticleRenderer struct {
	// Stride draws every Stride-th particle; values below 1 draw all.
	Stride int
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(stride int) *ParticleRenderer {
	return &ParticleRenderer{Stride: stride}
}

// Draw renders the particles cam sees into the viewport.
func (r *ParticleRenderer) Draw(ps []fluid.Particle, vp rl.Rectangle, cam *camera.Camera) {
	stride := max(r.Stride, 1)
	for i := 0; i < len(ps); i += stride {
		p := &ps[i]
		if !cam.IsVisible(p.X, p.Y) {
			continue
		}
		u, v := cam.DomainToView(p.X, p.Y)
		c := colormap.Unpack(p.Color)
		rl.DrawPixel(
			int32(vp.X+u*vp.Width),
			int32(vp.Y+v*vp.Height),
			rl.Color{R: c.R, G: c.G, B: c.B, A: c.A},
		)
	}
}
