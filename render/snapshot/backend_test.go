package snapshot

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/milk9111/tileforge/render"
)

func solid(c color.Color, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestSubmitBeforeInit(t *testing.T) {
	b := New(32, 32)
	if err := b.Submit(&render.Frame{}); !errors.Is(err, render.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestRendersBackgroundWithoutAtlas(t *testing.T) {
	b := New(64, 64)
	r := render.NewRenderer(b, nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := r.Render(nil); err != nil {
		t.Fatalf("render: %v", err)
	}

	got := rgbaAt(b.Image(), 10, 10)
	if got.R != 0x87 || got.G != 0xce || got.B != 0xeb {
		t.Fatalf("expected sky blue background, got %v", got)
	}
}

func TestRendersTileAtlas(t *testing.T) {
	b := New(256, 256)
	r := render.NewRenderer(b, nil)
	if err := r.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}

	atlasImg := render.BuildAtlas([]image.Image{
		solid(color.RGBA{255, 0, 0, 255}, 8, 8),
		solid(color.RGBA{0, 255, 0, 255}, 8, 8),
	}, 8)
	atlas, err := r.NewTexture(atlasImg, "atlas")
	if err != nil {
		t.Fatalf("atlas: %v", err)
	}
	r.SetTileAtlas(atlas, 2)

	// the cell drawn at the canvas center
	r.Tiles().Set(16, 16, 0.5, 0)

	if err := r.Render(nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	img := b.Image()

	if got := rgbaAt(img, 128, 128); got.G < 200 || got.R > 50 {
		t.Fatalf("expected green center tile, got %v", got)
	}
	if got := rgbaAt(img, 20, 20); got.R < 200 || got.G > 50 {
		t.Fatalf("expected red neighbour tile, got %v", got)
	}

	var buf bytes.Buffer
	if err := b.EncodePNG(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected png bytes")
	}
	if b.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", b.Frames())
	}
}
