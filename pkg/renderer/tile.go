package renderer

import (
	"image"
	"math/rand"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// Sampler returns the tile's random source for one pass. The sequence depends
// only on the render seed, the tile ID and the pass number, so a render is
// reproducible regardless of how tiles are scheduled.
func (t *Tile) Sampler(seed int64, pass int) core.Sampler {
	return core.NewRandomSampler(rand.New(rand.NewSource(tileSeed(seed, t.ID, pass))))
}

// tileSeed mixes the inputs with splitmix64 finalization
func tileSeed(seed int64, id, pass int) int64 {
	z := uint64(seed) + uint64(id)*0x9e3779b97f4a7c15 + uint64(pass)*0xbf58476d1ce4e5b9 + 42
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	return int64(z >> 1)
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
