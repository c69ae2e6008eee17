package ebitenrender

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
	"golang.org/x/image/colornames"
)

type texture struct {
	img *ebiten.Image
}

func (t texture) Size() (int, int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Backend records submitted frames and replays the latest one onto the
// ebiten screen in Draw.
type Backend struct {
	mu     sync.Mutex
	width  float64
	height float64
	frame  render.Frame

	Background color.Color
}

func New(width, height int) *Backend {
	return &Backend{
		width:      float64(width),
		height:     float64(height),
		Background: colornames.Skyblue,
	}
}

func (b *Backend) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.width <= 0 || b.height <= 0 {
		return fmt.Errorf("ebitenrender: invalid surface %vx%v: %w", b.width, b.height, render.ErrBackendUnavailable)
	}
	return nil
}

func (b *Backend) Size() (float64, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetSize follows the ebiten layout size.
func (b *Backend) SetSize(w, h float64) {
	b.mu.Lock()
	b.width, b.height = w, h
	b.mu.Unlock()
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
		return nil, fmt.Errorf("ebitenrender: nil image")
	}
	return texture{img: ebiten.NewImageFromImage(img)}, nil
}

func (b *Backend) Submit(f *render.Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame.Width, b.frame.Height = f.Width, f.Height
	b.frame.Stride = f.Stride
	b.frame.Tiles = append(b.frame.Tiles[:0], f.Tiles...)
	b.frame.Calls = append(b.frame.Calls[:0], f.Calls...)
	return nil
}

// Draw replays the last submitted frame.
func (b *Backend) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.Background != nil {
		screen.Fill(b.Background)
	}

	f := &b.frame
	for _, call := range f.Calls {
		tex, ok := handle(call.Texture)
		if !ok {
			continue
		}
		switch call.Kind {
		case render.DrawTiles:
			for i := 0; i < call.Instances; i++ {
				offset, uv := f.TileInstance(i)
				drawQuad(screen, tex, call, offset, uv, f.Width, f.Height)
			}
		case render.DrawSprite:
			drawQuad(screen, tex, call, geom.Vector2{}, call.UVOffset, f.Width, f.Height)
		}
	}
}

func handle(t *render.Texture) (texture, bool) {
	if t == nil {
		return texture{}, false
	}
	h, ok := t.Handle.(texture)
	return h, ok && h.img != nil
}

func drawQuad(screen *ebiten.Image, tex texture, call render.DrawCall, offset, uvOffset geom.Vector2, w, h float64) {
	tw, th := tex.Size()
	src := render.SourceRect(tw, th, call.UVSize, uvOffset)
	if src.Empty() {
		return
	}
	aff := render.QuadTransform(call, offset, float64(src.Dx()), float64(src.Dy()), w, h)

	center := aff.Apply(geom.Vec2(float64(src.Dx())/2, float64(src.Dy())/2))
	margin := float64(common.UnitSize) * 2
	if center.X < -margin || center.Y < -margin || center.X > w+margin || center.Y > h+margin {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.SetElement(0, 0, aff.A)
	op.GeoM.SetElement(0, 1, aff.C)
	op.GeoM.SetElement(0, 2, aff.TX)
	op.GeoM.SetElement(1, 0, aff.B)
	op.GeoM.SetElement(1, 1, aff.D)
	op.GeoM.SetElement(1, 2, aff.TY)
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(tex.img.SubImage(src).(*ebiten.Image), op)
}
