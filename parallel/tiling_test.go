package parallel

import "testing"

func TestPartitionDisjointAndComplete(t *testing.T) {
	cases := []struct {
		name          string
		tiling        Tiling
		width, height int
	}{
		{"even", DefaultTiling(), 512, 512},
		{"spectral", DefaultTiling(), 257, 512},
		{"small", DefaultTiling(), 16, 16},
		{"odd bands", Tiling{TileX: 8, TileY: 10, ThreadsX: 8, ThreadsY: 3}, 21, 33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cover := make([]int, tc.width*tc.height)
			for _, b := range tc.tiling.Partition(tc.width, tc.height) {
				if b.Width() <= 0 || b.Height() <= 0 {
					t.Fatalf("empty band %+v", b)
				}
				if b.Height() > tc.tiling.RowsPerThread() {
					t.Fatalf("band %+v taller than %d rows", b, tc.tiling.RowsPerThread())
				}
				for y := b.Y0; y < b.Y1; y++ {
					for x := b.X0; x < b.X1; x++ {
						cover[y*tc.width+x]++
					}
				}
			}
			for i, c := range cover {
				if c != 1 {
					t.Fatalf("cell (%d,%d) covered %d times", i%tc.width, i/tc.width, c)
				}
			}
		})
	}
}

func TestRowsPerThread(t *testing.T) {
	if lb := DefaultTiling().RowsPerThread(); lb != 16 {
		t.Errorf("expected 16 rows per thread, got %d", lb)
	}
	if lb := (Tiling{TileX: 4, TileY: 10, ThreadsX: 4, ThreadsY: 3}).RowsPerThread(); lb != 4 {
		t.Errorf("expected 4 rows per thread, got %d", lb)
	}
}

func TestTilingValidate(t *testing.T) {
	if err := DefaultTiling().Validate(); err != nil {
		t.Errorf("default tiling should validate: %v", err)
	}
	bad := []Tiling{
		{TileX: 0, TileY: 64, ThreadsX: 1, ThreadsY: 1},
		{TileX: 64, TileY: 64, ThreadsX: 0, ThreadsY: 4},
		{TileX: 64, TileY: 4, ThreadsX: 64, ThreadsY: 8},
		{TileX: 32, TileY: 64, ThreadsX: 64, ThreadsY: 4},
	}
	for _, tl := range bad {
		if err := tl.Validate(); err == nil {
			t.Errorf("expected error for %+v", tl)
		}
	}
}
