package render

// defaultTileSize is the edge length, in pixels, of a square screen tile.
// Tiles are the unit of work handed to the thread pool: each tile's pixels
// are touched by exactly one goroutine, so no tile needs a lock.
const defaultTileSize = 64

// tile is a rectangular region of the framebuffer plus the indices into the
// renderer's per-frame triangle buffer that overlap it.
type tile struct {
	startX, startY int
	endX, endY     int
	triangleIndices []int
}

// tileGrid partitions a width x height framebuffer into a grid of tiles.
type tileGrid struct {
	width, height int
	tileSize      int
	tilesX        int
	tilesY        int
	tiles         []tile
}

func newTileGrid(width, height, tileSize int) *tileGrid {
	g := &tileGrid{width: width, height: height}
	g.resize(tileSize)
	return g
}

// resize rebuilds the tile grid for a new tile size, discarding any binned
// triangles.
func (g *tileGrid) resize(tileSize int) {
	g.tileSize = tileSize
	g.tilesX = (g.width + tileSize - 1) / tileSize
	g.tilesY = (g.height + tileSize - 1) / tileSize

	g.tiles = make([]tile, g.tilesX*g.tilesY)
	for ty := range g.tilesY {
		for tx := range g.tilesX {
			t := &g.tiles[ty*g.tilesX+tx]
			t.startX = tx * tileSize
			t.startY = ty * tileSize
			t.endX = min(t.startX+tileSize, g.width)
			t.endY = min(t.startY+tileSize, g.height)
		}
	}
}

// clear empties every tile's triangle-index list, ready for the next frame.
func (g *tileGrid) clear() {
	for i := range g.tiles {
		g.tiles[i].triangleIndices = g.tiles[i].triangleIndices[:0]
	}
}

// bin records that the triangle at triIndex, whose screen-space AABB is
// (minX,minY)-(maxX,maxY), overlaps every tile it touches.
func (g *tileGrid) bin(triIndex, minX, minY, maxX, maxY int) {
	startTileX := max(0, minX/g.tileSize)
	startTileY := max(0, minY/g.tileSize)
	endTileX := min(g.tilesX-1, maxX/g.tileSize)
	endTileY := min(g.tilesY-1, maxY/g.tileSize)

	for ty := startTileY; ty <= endTileY; ty++ {
		for tx := startTileX; tx <= endTileX; tx++ {
			idx := ty*g.tilesX + tx
			g.tiles[idx].triangleIndices = append(g.tiles[idx].triangleIndices, triIndex)
		}
	}
}
