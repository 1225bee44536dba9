package fluid

import (
	"errors"
	"testing"
)

func TestNewLayout(t *testing.T) {
	l, err := NewLayout(512, 0)
	if err != nil {
		t.Fatal(err)
	}
	if l.Pitch != 512 || l.CPadW != 257 || l.RPadW != 514 {
		t.Errorf("unexpected layout %+v", l)
	}

	l, err = NewLayout(16, 24)
	if err != nil {
		t.Fatal(err)
	}
	if l.Pitch != 24 {
		t.Errorf("expected pitch 24 for dim 16 aligned to 24, got %d", l.Pitch)
	}

	for _, dim := range []int{0, 1, 6, 513} {
		if _, err := NewLayout(dim, 0); !errors.Is(err, ErrDimension) {
			t.Errorf("dim %d: expected ErrDimension, got %v", dim, err)
		}
	}
	if _, err := NewLayout(16, -1); !errors.Is(err, ErrLayout) {
		t.Errorf("expected ErrLayout for negative alignment, got %v", err)
	}
}

func TestLayoutOffsets(t *testing.T) {
	l, _ := NewLayout(8, 12)

	if got := l.Offset(3, 2); got != 2*(2*12+3) {
		t.Errorf("Offset(3,2) = %d, want %d", got, 2*(2*12+3))
	}
	if got := l.SpectralOffset(3, 2); got != 2*10+3 {
		t.Errorf("SpectralOffset(3,2) = %d, want %d", got, 2*10+3)
	}
	if got := l.BinOffset(4, 7); got != 7*10+8 {
		t.Errorf("BinOffset(4,7) = %d, want %d", got, 7*10+8)
	}

	// The last cell of the last row must fit in the field buffer
	v := NewVelocityField(l)
	if last := l.Offset(l.Dim-1, l.Dim-1) + 1; last >= len(v.Data) {
		t.Errorf("last offset %d out of range %d", last, len(v.Data))
	}
	s := NewSpectrum(l)
	if last := l.BinOffset(l.CPadW-1, l.Dim-1) + 1; last >= len(s.Data) {
		t.Errorf("last bin offset %d out of range %d", last, len(s.Data))
	}
}

func TestBoundaryIndex(t *testing.T) {
	cases := []struct {
		b    Boundary
		i, n int
		want int
	}{
		{BoundaryClamp, -3, 8, 0},
		{BoundaryClamp, 0, 8, 0},
		{BoundaryClamp, 7, 8, 7},
		{BoundaryClamp, 8, 8, 7},
		{BoundaryClamp, 100, 8, 7},
		{BoundaryWrap, -1, 8, 7},
		{BoundaryWrap, -9, 8, 7},
		{BoundaryWrap, 8, 8, 0},
		{BoundaryWrap, 17, 8, 1},
	}
	for _, tc := range cases {
		if got := tc.b.Index(tc.i, tc.n); got != tc.want {
			t.Errorf("%s.Index(%d, %d) = %d, want %d", tc.b, tc.i, tc.n, got, tc.want)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	if b, err := ParseBoundary("wrap"); err != nil || b != BoundaryWrap {
		t.Errorf("expected wrap, got %v %v", b, err)
	}
	if b, err := ParseBoundary("clamp"); err != nil || b != BoundaryClamp {
		t.Errorf("expected clamp, got %v %v", b, err)
	}
	if _, err := ParseBoundary("mirror"); err == nil {
		t.Error("expected error for unknown boundary")
	}
}

func TestFieldCopyFromMismatch(t *testing.T) {
	a, _ := NewLayout(8, 0)
	b, _ := NewLayout(16, 0)
	if err := NewVelocityField(a).CopyFrom(NewVelocityField(b)); !errors.Is(err, ErrDimension) {
		t.Errorf("expected ErrDimension, got %v", err)
	}
}
