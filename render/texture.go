package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/milk9111/tileforge/assets"
)

// TextureHandle is the backend's opaque GPU-side texture.
type TextureHandle interface {
	Size() (w, h int)
}

// Texture pairs a backend handle with where it came from. Changed is set
// when the handle is replaced and cleared once the renderer binds it.
type Texture struct {
	Handle  TextureHandle
	Path    string
	Changed bool
}

// Size returns the pixel size of the texture, or 0,0 when it has no handle.
func (t *Texture) Size() (int, int) {
	if t == nil || t.Handle == nil {
		return 0, 0
	}
	return t.Handle.Size()
}

// Sprite is a horizontal strip of FrameCount equally sized frames.
type Sprite struct {
	Texture         *Texture
	FrameCount      int
	Animated        bool
	FramesPerSecond float64
}

// NewSprite returns a single-frame sprite over tex.
func NewSprite(tex *Texture) *Sprite {
	return &Sprite{Texture: tex, FrameCount: 1}
}

// Frames returns FrameCount clamped to at least one.
func (s *Sprite) Frames() int {
	if s == nil || s.FrameCount < 1 {
		return 1
	}
	return s.FrameCount
}

// LoadImageFile decodes an image from the embedded assets, falling back to
// path on disk, the assets directory and the bare file name.
func LoadImageFile(path string) (image.Image, error) {
	if path == "" {
		return nil, fmt.Errorf("render: empty image path")
	}
	if img, err := assets.LoadImage(path); err == nil {
		return img, nil
	}
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	var lastErr error
	for _, p := range tried {
		b, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("render: decode %s: %w", p, err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("render: load image %s: %w", path, lastErr)
}
