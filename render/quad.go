package render

import (
	"image"
	"math"

	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/geom"
)

// QuadTransform maps pixel coordinates of a srcW x srcH source image onto
// the screen for one quad of call: the image is stretched over the unit quad,
// moved by offset (the instance position for tile draws), projected by the
// call's MVP and finally mapped from clip space to a screenW x screenH
// surface with Y down. 2D backends feed the result to their draw matrix.
func QuadTransform(call DrawCall, offset geom.Vector2, srcW, srcH, screenW, screenH float64) geom.Affine {
	const q = common.UnitSize

	local := geom.Matrix4{
		q / srcW, 0, 0, 0,
		0, -q / srcH, 0, 0,
		0, 0, 1, 0,
		-q / 2, q / 2, 0, 1,
	}
	toScreen := geom.Matrix4{
		screenW / 2, 0, 0, 0,
		0, -screenH / 2, 0, 0,
		0, 0, 1, 0,
		screenW / 2, screenH / 2, 0, 1,
	}

	m := local
	m.Translate(offset.X, offset.Y, 0).Multiply(&call.MVP).Multiply(&toScreen)
	return m.Affine()
}

// SourceRect returns the pixel rectangle of a w x h texture selected by a UV
// size and offset.
func SourceRect(w, h int, uvSize, uvOffset geom.Vector2) image.Rectangle {
	x0 := int(math.Round(uvOffset.X * float64(w)))
	y0 := int(math.Round(uvOffset.Y * float64(h)))
	x1 := int(math.Round((uvOffset.X + uvSize.X) * float64(w)))
	y1 := int(math.Round((uvOffset.Y + uvSize.Y) * float64(h)))
	return image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, w, h))
}

// TileInstance reads the instance offset and atlas UV offset of cell i from
// a frame's tile buffer.
func (f *Frame) TileInstance(i int) (offset, uv geom.Vector2) {
	base := i * f.Stride
	if f.Stride < common.TileStride || base+3 >= len(f.Tiles) {
		return geom.Vector2{}, geom.Vector2{}
	}
	t := f.Tiles[base : base+4]
	return geom.Vec2(float64(t[0]), float64(t[1])), geom.Vec2(float64(t[2]), float64(t[3]))
}
