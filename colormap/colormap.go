// Package colormap turns velocity snapshots into images.
package colormap

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/mazznoer/colorgrad"

	"github.com/pthm-cable/stablefluids/fluid"
)

const lutSize = 256

// LUT maps a normalized speed in [0, 1] to a color.
type LUT struct {
	colors [lutSize]color.RGBA
}

// Viridis builds the default speed palette.
func Viridis() *LUT {
	return FromGradient(colorgrad.Viridis())
}

// FromGradient samples a colorgrad gradient into a lookup table.
func FromGradient(g colorgrad.Gradient) *LUT {
	l := &LUT{}
	for i, c := range g.Colors(lutSize) {
		r, gr, b, _ := c.RGBA()
		l.colors[i] = color.RGBA{R: uint8(r >> 8), G: uint8(gr >> 8), B: uint8(b >> 8), A: 255}
	}
	return l
}

// At returns the color for t, clamped to [0, 1]. NaN maps to the low end.
func (l *LUT) At(t float32) color.RGBA {
	if !(t > 0) {
		return l.colors[0]
	}
	if t >= 1 {
		return l.colors[lutSize-1]
	}
	return l.colors[int(t*(lutSize-1)+0.5)]
}

// Speed returns the color for |(vx, vy)|·gain.
func (l *LUT) Speed(vx, vy, gain float32) color.RGBA {
	return l.At(float32(math.Sqrt(float64(vx*vx+vy*vy))) * gain)
}

// Colorize writes |v|·gain through the LUT into dst, allocating it when nil
// or sized wrong. One pixel per cell, row 0 at the top.
func Colorize(dst *image.RGBA, v *fluid.VelocityField, lut *LUT, gain float32) *image.RGBA {
	n := v.Dim
	if dst == nil || dst.Rect.Dx() != n || dst.Rect.Dy() != n {
		dst = image.NewRGBA(image.Rect(0, 0, n, n))
	}
	for y := 0; y < n; y++ {
		row := v.Row(y)
		pix := dst.Pix[y*dst.Stride:]
		for x := 0; x < n; x++ {
			c := lut.Speed(row[2*x], row[2*x+1], gain)
			o := 4 * x
			pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
	return dst
}

// ColorizePixels is Colorize into a flat row-major pixel slice, the form
// texture uploads take.
func ColorizePixels(dst []color.RGBA, v *fluid.VelocityField, lut *LUT, gain float32) []color.RGBA {
	n := v.Dim
	if len(dst) != n*n {
		dst = make([]color.RGBA, n*n)
	}
	for y := 0; y < n; y++ {
		row := v.Row(y)
		out := dst[y*n : (y+1)*n]
		for x := range out {
			out[x] = lut.Speed(row[2*x], row[2*x+1], gain)
		}
	}
	return dst
}

// SplatParticles draws each particle as one pixel in its tag color.
func SplatParticles(dst *image.RGBA, ps []fluid.Particle) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for _, p := range ps {
		x := int(p.X * float32(w))
		y := int(p.Y * float32(h))
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		dst.SetRGBA(dst.Rect.Min.X+x, dst.Rect.Min.Y+y, Unpack(p.Color))
	}
}

// Unpack splits a packed 0xRRGGBBAA particle color.
func Unpack(c uint32) color.RGBA {
	return color.RGBA{R: uint8(c >> 24), G: uint8(c >> 16), B: uint8(c >> 8), A: uint8(c)}
}

// Render is Colorize followed by SplatParticles.
func Render(snap fluid.Snapshot, lut *LUT, gain float32, particles bool) *image.RGBA {
	img := Colorize(nil, snap.Field, lut, gain)
	if particles {
		SplatParticles(img, snap.Particles)
	}
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
