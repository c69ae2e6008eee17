package render

import (
	"image"

	"golang.org/x/image/draw"
)

// BuildAtlas packs images left to right into a strip of cell x cell squares,
// so image i sits at horizontal UV offset i/len(images). Nil entries leave
// their cell transparent.
func BuildAtlas(images []image.Image, cell int) *image.RGBA {
	if cell < 1 {
		cell = 1
	}
	n := len(images)
	if n == 0 {
		n = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, cell*n, cell))
	for i, img := range images {
		if img == nil {
			continue
		}
		r := image.Rect(i*cell, 0, (i+1)*cell, cell)
		draw.NearestNeighbor.Scale(dst, r, img, img.Bounds(), draw.Over, nil)
	}
	return dst
}

// FirstFrame crops the first of frames equally wide frames from a sprite
// strip.
func FirstFrame(img image.Image, frames int) image.Image {
	if img == nil || frames <= 1 {
		return img
	}
	b := img.Bounds()
	w := b.Dx() / frames
	out := image.NewRGBA(image.Rect(0, 0, w, b.Dy()))
	draw.Copy(out, image.Point{}, img, image.Rect(b.Min.X, b.Min.Y, b.Min.X+w, b.Max.Y), draw.Src, nil)
	return out
}
