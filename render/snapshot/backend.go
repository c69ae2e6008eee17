// Package snapshot rasterizes renderer frames off-screen with gg, for
// previews and tests that must run without a window.
package snapshot

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

type texture struct {
	buf  *gg.ImageBuf
	w, h int
}

func (t *texture) Size() (int, int) { return t.w, t.h }

// Backend draws every submitted frame into a gg context.
type Backend struct {
	width, height int
	background    gg.RGBA
	dc            *gg.Context
	frames        int
}

func New(width, height int) *Backend {
	return &Backend{width: width, height: height, background: gg.Hex("#87ceeb")}
}

// SetBackground sets the clear color as a hex string.
func (b *Backend) SetBackground(hex string) {
	b.background = gg.Hex(hex)
}

func (b *Backend) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.width <= 0 || b.height <= 0 {
		return fmt.Errorf("snapshot: invalid surface %dx%d: %w", b.width, b.height, render.ErrBackendUnavailable)
	}
	b.dc = gg.NewContext(b.width, b.height)
	return nil
}

func (b *Backend) Size() (float64, float64) {
	return float64(b.width), float64(b.height)
}

func (b *Backend) LoadTexture(ctx context.Context, path string) (render.TextureHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := render.LoadImageFile(path)
	if err != nil {
		return nil, err
	}
	return b.NewTexture(img)
}

func (b *Backend) NewTexture(img image.Image) (render.TextureHandle, error) {
	if img == nil {
		return nil, fmt.Errorf("snapshot: nil image")
	}
	bounds := img.Bounds()
	return &texture{buf: gg.ImageBufFromImage(img), w: bounds.Dx(), h: bounds.Dy()}, nil
}

// Submit rasterizes f immediately. Rotation is not supported: each quad is
// drawn as the axis-aligned box of its transformed corners.
func (b *Backend) Submit(f *render.Frame) error {
	if b.dc == nil {
		return render.ErrNotInitialized
	}
	b.dc.SetTransform(gg.Identity())
	b.dc.ClearWithColor(b.background)

	for _, call := range f.Calls {
		tex, ok := handle(call.Texture)
		if !ok {
			continue
		}
		switch call.Kind {
		case render.DrawTiles:
			for i := 0; i < call.Instances; i++ {
				offset, uv := f.TileInstance(i)
				b.drawQuad(tex, call, offset, uv, f.Width, f.Height)
			}
		case render.DrawSprite:
			b.drawQuad(tex, call, geom.Vector2{}, call.UVOffset, f.Width, f.Height)
		}
	}
	b.frames++
	return nil
}

// Frames is the number of frames rasterized so far.
func (b *Backend) Frames() int { return b.frames }

func handle(t *render.Texture) (*texture, bool) {
	if t == nil {
		return nil, false
	}
	h, ok := t.Handle.(*texture)
	return h, ok && h != nil
}

func (b *Backend) drawQuad(tex *texture, call render.DrawCall, offset, uvOffset geom.Vector2, w, h float64) {
	src := render.SourceRect(tex.w, tex.h, call.UVSize, uvOffset)
	if src.Empty() {
		return
	}
	aff := render.QuadTransform(call, offset, float64(src.Dx()), float64(src.Dy()), w, h)
	p0 := aff.Apply(geom.Vec2(0, 0))
	p1 := aff.Apply(geom.Vec2(float64(src.Dx()), float64(src.Dy())))

	x0, x1 := math.Min(p0.X, p1.X), math.Max(p0.X, p1.X)
	y0, y1 := math.Min(p0.Y, p1.Y), math.Max(p0.Y, p1.Y)
	if x1 < 0 || y1 < 0 || x0 > w || y0 > h {
		return
	}

	b.dc.DrawImageEx(tex.buf, gg.DrawImageOptions{
		X:             x0,
		Y:             y0,
		DstWidth:      x1 - x0,
		DstHeight:     y1 - y0,
		SrcRect:       &src,
		Interpolation: gg.InterpNearest,
	})
}

// Image returns the last rasterized frame.
func (b *Backend) Image() image.Image {
	if b.dc == nil {
		return nil
	}
	return b.dc.Image()
}

func (b *Backend) SavePNG(path string) error {
	if b.dc == nil {
		return render.ErrNotInitialized
	}
	if err := b.dc.SavePNG(path); err != nil {
		return fmt.Errorf("snapshot: save %s: %w", path, err)
	}
	return nil
}

func (b *Backend) EncodePNG(w io.Writer) error {
	if b.dc == nil {
		return render.ErrNotInitialized
	}
	return b.dc.EncodePNG(w)
}
