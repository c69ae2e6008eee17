package common

const (
	// UnitSize is the edge length in world units of one sprite quad.
	UnitSize = 64

	// TileSize is the world-space edge length of one tile cell.
	TileSize = UnitSize

	// TilemapWidth and TilemapHeight are the grid dimensions in cells.
	TilemapWidth  = 32
	TilemapHeight = 32

	// TileStride is the number of floats stored per cell in the dense
	// tile buffer: worldX, worldY, atlasU, atlasV.
	TileStride = 4

	// TileMapStorageKey is the key the tile buffer is persisted under.
	TileMapStorageKey = "tilemap"
)
