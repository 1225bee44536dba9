package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNew(t *testing.T) {
	cam := New()

	// Should show the whole domain
	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected camera at (0.5, 0.5), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
	minX, minY, maxX, maxY := cam.VisibleBounds()
	if minX != 0 || minY != 0 || maxX != 1 || maxY != 1 {
		t.Errorf("expected unit bounds, got (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestIdentityAtZoomOne(t *testing.T) {
	cam := New()
	for _, u := range []float32{0, 0.25, 0.9} {
		x, y := cam.ViewToDomain(u, 1-u)
		if !near(x, u) || !near(y, 1-u) {
			t.Errorf("ViewToDomain(%f) = (%f, %f)", u, x, y)
		}
	}
}

func TestViewToDomainRoundtrip(t *testing.T) {
	cam := New()
	cam.SetZoom(3)
	cam.Pan(0.2, -0.1)

	testCases := []struct{ u, v float32 }{
		{0.5, 0.5}, // center
		{0.1, 0.1}, // top-left
		{0.9, 0.7}, // near bottom-right
	}

	for _, tc := range testCases {
		x, y := cam.ViewToDomain(tc.u, tc.v)
		u, v := cam.DomainToView(x, y)
		if !near(u, tc.u) || !near(v, tc.v) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)", tc.u, tc.v, x, y, u, v)
		}
	}
}

func TestZoom(t *testing.T) {
	cam := New()

	cam.SetZoom(2.0)
	if cam.Zoom != 2.0 {
		t.Errorf("expected zoom 2.0, got %f", cam.Zoom)
	}

	// Test zoom clamping
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New()
	cam.ZoomAt(2, 0.5, 0.5)
	x0, y0 := cam.ViewToDomain(0.6, 0.4)

	cam.ZoomAt(1.5, 0.6, 0.4)
	x1, y1 := cam.ViewToDomain(0.6, 0.4)
	if !near(x0, x1) || !near(y0, y1) {
		t.Errorf("point under cursor moved: (%f,%f) -> (%f,%f)", x0, y0, x1, y1)
	}
}

func TestPanStaysInsideDomain(t *testing.T) {
	cam := New()

	// At zoom 1 there is nowhere to pan
	cam.Pan(0.3, 0.3)
	if cam.X != 0.5 || cam.Y != 0.5 {
		t.Errorf("expected no pan at zoom 1, got (%f, %f)", cam.X, cam.Y)
	}

	cam.SetZoom(4)
	cam.Pan(10, -10)
	minX, minY, maxX, maxY := cam.VisibleBounds()
	if minX < 0 || minY < 0 || maxX > 1 || maxY > 1 {
		t.Errorf("view left the domain: (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
	if !near(maxX, 0.25) || !near(minY, 0.75) {
		t.Errorf("expected view pinned to the bottom-left corner, got (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New()
	cam.SetZoom(4)

	if !cam.IsVisible(0.5, 0.5) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(0.9, 0.5) {
		t.Error("point outside the zoomed view should not be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New()
	cam.SetZoom(2)
	cam.Pan(0.4, 0.4)

	cam.Reset()
	if cam.X != 0.5 || cam.Y != 0.5 || cam.Zoom != 1 {
		t.Errorf("expected reset camera, got (%f, %f) zoom %f", cam.X, cam.Y, cam.Zoom)
	}
}
