package tilemap

import (
	"math"

	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

type TileType int

const (
	TileGround TileType = iota
	TileWall
	TileDecoration
)

// TileFlags is a bitset of per-descriptor properties.
type TileFlags uint8

const (
	Collidable TileFlags = 1 << iota
	Animated
	FlippedHorizontally
	FlippedVertically
)

func (f TileFlags) Has(flag TileFlags) bool {
	return f&flag != 0
}

// TileDescriptor is a reusable tile definition. ID doubles as the cell index
// in the tile atlas, so descriptor order must not change once tiles use it.
type TileDescriptor struct {
	Name   string
	ID     int
	Type   TileType
	Sprite *render.Sprite
	Flags  TileFlags
}

// Tile is one placed cell in interchange form.
type Tile struct {
	X            int `json:"x"`
	Y            int `json:"y"`
	DescriptorID int `json:"descriptorId"`
}

// Sink receives tile writes. *render.Renderer implements it.
type Sink interface {
	SetTile(pos geom.Vector2, uv geom.Vector2)
	TileMapValues() []float32
}

// TileMap is the descriptor table plus the dense buffer it writes through.
type TileMap struct {
	Descriptors []TileDescriptor
	sink        Sink
}

func New(sink Sink, descriptors ...TileDescriptor) *TileMap {
	return &TileMap{Descriptors: descriptors, sink: sink}
}

// SetTile paints cell (x, y) with d. The atlas offset is id/len(Descriptors).
func (m *TileMap) SetTile(pos geom.Vector2, d TileDescriptor) {
	if m == nil || m.sink == nil || len(m.Descriptors) == 0 {
		return
	}
	u := float64(d.ID) / float64(len(m.Descriptors))
	m.sink.SetTile(pos, geom.Vec2(u, 0))
}

// Descriptor looks up a descriptor by id.
func (m *TileMap) Descriptor(id int) (TileDescriptor, bool) {
	if m == nil {
		return TileDescriptor{}, false
	}
	for _, d := range m.Descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return TileDescriptor{}, false
}

// DescriptorAt decodes the atlas offset stored for (x, y) back to its
// descriptor.
func (m *TileMap) DescriptorAt(x, y int) (TileDescriptor, bool) {
	if m == nil || m.sink == nil || len(m.Descriptors) == 0 {
		return TileDescriptor{}, false
	}
	if x < 0 || y < 0 || x >= common.TilemapWidth || y >= common.TilemapHeight {
		return TileDescriptor{}, false
	}
	values := m.sink.TileMapValues()
	i := (y*common.TilemapWidth+x)*common.TileStride + 2
	if i >= len(values) {
		return TileDescriptor{}, false
	}
	id := int(math.Round(float64(values[i]) * float64(len(m.Descriptors))))
	return m.Descriptor(id)
}

// Tiles exports every cell as interchange tiles, row by row.
func (m *TileMap) Tiles() []Tile {
	if m == nil || m.sink == nil {
		return nil
	}
	out := make([]Tile, 0, common.TilemapWidth*common.TilemapHeight)
	for y := 0; y < common.TilemapHeight; y++ {
		for x := 0; x < common.TilemapWidth; x++ {
			if d, ok := m.DescriptorAt(x, y); ok {
				out = append(out, Tile{X: x, Y: y, DescriptorID: d.ID})
			}
		}
	}
	return out
}

// Apply paints every tile in tiles. Unknown descriptor ids are skipped.
func (m *TileMap) Apply(tiles []Tile) {
	for _, t := range tiles {
		if d, ok := m.Descriptor(t.DescriptorID); ok {
			m.SetTile(geom.Vec2(float64(t.X), float64(t.Y)), d)
		}
	}
}

// ScreenToTile converts a canvas pixel position to tile coordinates for a
// camera at camPos. Screen Y grows downward while world Y grows upward,
// hence the inverted j.
func ScreenToTile(mouse geom.Vector2, canvasW, canvasH float64, camPos geom.Vector2) (int, int) {
	ts := float64(common.TileSize)
	halfW := float64(common.TilemapWidth) / 2 * ts
	halfH := float64(common.TilemapHeight) / 2 * ts

	i := math.Floor((mouse.X-canvasW/2-camPos.X+halfW)/ts + 0.5)
	j := math.Floor(-((mouse.Y-canvasH/2+camPos.Y-halfH)/ts - 0.5))
	return int(i), int(j)
}

// TileToScreen is the inverse of ScreenToTile: the canvas pixel at the
// center of tile (i, j).
func TileToScreen(i, j int, canvasW, canvasH float64, camPos geom.Vector2) geom.Vector2 {
	ts := float64(common.TileSize)
	halfW := float64(common.TilemapWidth) / 2 * ts
	halfH := float64(common.TilemapHeight) / 2 * ts
	return geom.Vec2(
		float64(i)*ts-halfW+canvasW/2+camPos.X,
		canvasH/2-(float64(j)*ts-halfH)-camPos.Y,
	)
}

// InBounds reports whether (i, j) is a cell of the grid.
func InBounds(i, j int) bool {
	return i >= 0 && j >= 0 && i < common.TilemapWidth && j < common.TilemapHeight
}
