package colormap

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/stablefluids/fluid"
)

func testField(t *testing.T, dim int) *fluid.VelocityField {
	t.Helper()
	l, err := fluid.NewLayout(dim, 0)
	if err != nil {
		t.Fatal(err)
	}
	return fluid.NewVelocityField(l)
}

func TestLUTClamps(t *testing.T) {
	lut := Viridis()
	if lut.At(-1) != lut.At(0) {
		t.Error("negative input should clamp to the low end")
	}
	if lut.At(2) != lut.At(1) {
		t.Error("input above 1 should clamp to the high end")
	}
	var nan float32
	nan = nan / nan
	if lut.At(nan) != lut.At(0) {
		t.Error("NaN should map to the low end")
	}
	if lut.At(0) == lut.At(1) {
		t.Error("palette ends should differ")
	}
	if lut.At(0.5).A != 255 {
		t.Error("palette colors should be opaque")
	}
}

func TestColorizeMapsSpeed(t *testing.T) {
	v := testField(t, 8)
	v.Set(3, 2, fluid.Vec2{X: 0.3, Y: 0.4}) // |v| = 0.5

	lut := Viridis()
	img := Colorize(nil, v, lut, 2)

	if img.Rect.Dx() != 8 || img.Rect.Dy() != 8 {
		t.Fatalf("expected 8x8 image, got %v", img.Rect)
	}
	if got := img.RGBAAt(3, 2); got != lut.At(1) {
		t.Errorf("pixel (3,2) = %v, want %v", got, lut.At(1))
	}
	if got := img.RGBAAt(0, 0); got != lut.At(0) {
		t.Errorf("pixel (0,0) = %v, want %v", got, lut.At(0))
	}

	// Matching destination is reused
	if again := Colorize(img, v, lut, 2); again != img {
		t.Error("Colorize reallocated a matching destination")
	}
}

func TestSplatParticles(t *testing.T) {
	v := testField(t, 4)
	img := Colorize(nil, v, Viridis(), 1)
	SplatParticles(img, []fluid.Particle{
		{X: 0.6, Y: 0.1, Color: 0xff000080},
		{X: 1.5, Y: 0.5, Color: 0x00ff00ff}, // off-image, skipped
	})

	got := img.RGBAAt(2, 0)
	if got.R != 0xff || got.G != 0 || got.B != 0 || got.A != 0x80 {
		t.Errorf("particle pixel = %v", got)
	}
}

func TestWritePNG(t *testing.T) {
	v := testField(t, 16)
	v.Set(8, 8, fluid.Vec2{X: 1})
	snap := fluid.Snapshot{Field: v, Particles: []fluid.Particle{{X: 0.1, Y: 0.1, Color: 0xffffffff}}}

	path := filepath.Join(t.TempDir(), "snap.png")
	if err := WritePNG(path, Render(snap, Viridis(), 1, true)); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written PNG: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("expected width 16, got %d", img.Bounds().Dx())
	}
}

func TestColorizePixelsMatchesImage(t *testing.T) {
	v := testField(t, 8)
	fluid.SeedNoise(v, 0.2, 2, 3)
	lut := Viridis()

	img := Colorize(nil, v, lut, 3)
	px := ColorizePixels(nil, v, lut, 3)
	if len(px) != 64 {
		t.Fatalf("expected 64 pixels, got %d", len(px))
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if px[y*8+x] != img.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
}
