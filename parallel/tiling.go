package parallel

import "fmt"

// Tile is a half-open rectangle [X0,X1) x [Y0,Y1) of an iteration space.
type Tile struct {
	X0, Y0 int
	X1, Y1 int
}

// Width returns the number of columns in the tile.
func (t Tile) Width() int { return t.X1 - t.X0 }

// Height returns the number of rows in the tile.
func (t Tile) Height() int { return t.Y1 - t.Y0 }

// Tiling describes how a 2-D iteration space is cut into work units.
// TileX x TileY is the logical tile; ThreadsX x ThreadsY is the number of
// threads per tile dimension. Each thread row of a tile owns a band of
// RowsPerThread consecutive rows, and one band is the unit of dispatch.
type Tiling struct {
	TileX    int `yaml:"tile_x"`
	TileY    int `yaml:"tile_y"`
	ThreadsX int `yaml:"threads_x"`
	ThreadsY int `yaml:"threads_y"`
}

// DefaultTiling returns the 64x64 tile with 64x4 threads.
func DefaultTiling() Tiling {
	return Tiling{TileX: 64, TileY: 64, ThreadsX: 64, ThreadsY: 4}
}

// Validate reports whether the descriptor can partition a space.
func (tl Tiling) Validate() error {
	if tl.TileX <= 0 || tl.TileY <= 0 {
		return fmt.Errorf("tile size must be positive, got %dx%d", tl.TileX, tl.TileY)
	}
	if tl.ThreadsX <= 0 || tl.ThreadsY <= 0 {
		return fmt.Errorf("threads per tile must be positive, got %dx%d", tl.ThreadsX, tl.ThreadsY)
	}
	if tl.ThreadsX > tl.TileX {
		return fmt.Errorf("threads_x %d exceeds tile_x %d", tl.ThreadsX, tl.TileX)
	}
	if tl.ThreadsY > tl.TileY {
		return fmt.Errorf("threads_y %d exceeds tile_y %d", tl.ThreadsY, tl.TileY)
	}
	return nil
}

// RowsPerThread is the band height each thread row walks.
func (tl Tiling) RowsPerThread() int {
	return (tl.TileY + tl.ThreadsY - 1) / tl.ThreadsY
}

// Partition covers [0,width) x [0,height) with bands. Tiles on the right and
// bottom edges, and the last band of a tile, are clipped to the space, so
// bands never overlap and every cell belongs to exactly one band.
func (tl Tiling) Partition(width, height int) []Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	lb := tl.RowsPerThread()
	tilesX := (width + tl.TileX - 1) / tl.TileX
	tilesY := (height + tl.TileY - 1) / tl.TileY

	bands := make([]Tile, 0, tilesX*tilesY*tl.ThreadsY)
	for ty := 0; ty < tilesY; ty++ {
		y0 := ty * tl.TileY
		y1 := min(y0+tl.TileY, height)
		for tx := 0; tx < tilesX; tx++ {
			x0 := tx * tl.TileX
			x1 := min(x0+tl.TileX, width)
			for by := y0; by < y1; by += lb {
				bands = append(bands, Tile{X0: x0, Y0: by, X1: x1, Y1: min(by+lb, y1)})
			}
		}
	}
	return bands
}
