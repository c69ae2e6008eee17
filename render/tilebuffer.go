package render

import (
	"fmt"

	"github.com/milk9111/tileforge/common"
)

// TileBuffer is the dense per-cell instance data of the tile grid: for cell
// (x, y) the floats at (y*width+x)*common.TileStride hold the world-space
// position and the atlas offset.
type TileBuffer struct {
	width, height int
	cell          float64
	values        []float32
}

func NewTileBuffer(width, height int, cell float64) *TileBuffer {
	b := &TileBuffer{
		width:  width,
		height: height,
		cell:   cell,
		values: make([]float32, width*height*common.TileStride),
	}
	b.Reset()
	return b
}

func (b *TileBuffer) Width() int  { return b.width }
func (b *TileBuffer) Height() int { return b.height }
func (b *TileBuffer) Cells() int  { return b.width * b.height }

func (b *TileBuffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// Set writes cell (x, y). Cells outside the grid are ignored.
func (b *TileBuffer) Set(x, y int, u, v float32) {
	if !b.inBounds(x, y) {
		return
	}
	i := (y*b.width + x) * common.TileStride
	b.values[i] = float32(float64(x) * b.cell)
	b.values[i+1] = float32(float64(y) * b.cell)
	b.values[i+2] = u
	b.values[i+3] = v
}

// Atlas returns the atlas offset stored for (x, y).
func (b *TileBuffer) Atlas(x, y int) (u, v float32, ok bool) {
	if !b.inBounds(x, y) {
		return 0, 0, false
	}
	i := (y*b.width + x) * common.TileStride
	return b.values[i+2], b.values[i+3], true
}

// Reset puts every cell back at its grid position with a zero atlas offset.
func (b *TileBuffer) Reset() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.Set(x, y, 0, 0)
		}
	}
}

// Values exposes the live buffer. Callers must not keep it across frames.
func (b *TileBuffer) Values() []float32 {
	return b.values
}

// Load copies a flat layout of stride floats per cell into the buffer. Only
// the first common.TileStride floats of each cell are used.
func (b *TileBuffer) Load(values []float32, stride int) error {
	if stride < common.TileStride {
		return fmt.Errorf("render: tile stride %d smaller than %d", stride, common.TileStride)
	}
	if len(values) != b.Cells()*stride {
		return fmt.Errorf("render: tile buffer expects %d values, got %d", b.Cells()*stride, len(values))
	}
	for c := 0; c < b.Cells(); c++ {
		copy(b.values[c*common.TileStride:(c+1)*common.TileStride], values[c*stride:c*stride+common.TileStride])
	}
	return nil
}
