package engine

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/milk9111/tileforge/ecs/system"
	"github.com/milk9111/tileforge/prefabs"
	"github.com/milk9111/tileforge/render"
	"github.com/milk9111/tileforge/tilemap"
	"golang.org/x/image/draw"
)

// LoadPalette turns a palette spec into tile descriptors and uploads the
// atlas the tile grid samples from. Descriptors come back ordered by ID.
func LoadPalette(r *render.Renderer, spec *prefabs.PaletteSpec) ([]tilemap.TileDescriptor, error) {
	if spec == nil {
		return nil, fmt.Errorf("engine: nil palette")
	}
	cell := spec.Cell
	if cell <= 0 {
		cell = 16
	}

	specs := append([]prefabs.DescriptorSpec(nil), spec.Descriptors...)
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })

	descs := make([]tilemap.TileDescriptor, 0, len(specs))
	cells := make([]image.Image, 0, len(specs))
	for _, ds := range specs {
		typ, err := parseTileType(ds.Type)
		if err != nil {
			return nil, fmt.Errorf("engine: descriptor %s: %w", ds.Name, err)
		}
		flags, err := parseTileFlags(ds.Flags)
		if err != nil {
			return nil, fmt.Errorf("engine: descriptor %s: %w", ds.Name, err)
		}

		frames := max(ds.Frames, 1)
		img, err := imageOrColor(ds.Image, ds.Color, cell*frames, cell)
		if err != nil {
			return nil, fmt.Errorf("engine: descriptor %s: %w", ds.Name, err)
		}
		tex, err := r.NewTexture(img, ds.Image)
		if err != nil {
			return nil, err
		}
		sprite := &render.Sprite{
			Texture:         tex,
			FrameCount:      frames,
			Animated:        frames > 1 || flags.Has(tilemap.Animated),
			FramesPerSecond: ds.FPS,
		}

		descs = append(descs, tilemap.TileDescriptor{
			Name:   ds.Name,
			ID:     ds.ID,
			Type:   typ,
			Sprite: sprite,
			Flags:  flags,
		})
		cells = append(cells, render.FirstFrame(img, frames))
	}

	atlas, err := r.NewTexture(render.BuildAtlas(cells, cell), spec.Name+" atlas")
	if err != nil {
		return nil, err
	}
	r.SetTileAtlas(atlas, len(cells))
	return descs, nil
}

// LoadSprite builds a sprite from spec through the sprite system's texture
// loader, falling back to a solid strip of spec.Color when the image is
// missing.
func LoadSprite(ctx context.Context, sprites *system.SpriteSystem, r *render.Renderer, spec prefabs.SpriteSpec) (*render.Sprite, error) {
	frames := max(spec.Frames, 1)
	sp := &render.Sprite{
		FrameCount:      frames,
		Animated:        spec.Animated,
		FramesPerSecond: spec.FPS,
	}
	err := sprites.LoadTextureIntoSprite(ctx, sp, spec.Image)
	if err == nil {
		return sp, nil
	}
	if spec.Color == nil {
		return nil, err
	}
	tex, uerr := r.NewTexture(solid(spec.Color, 16*frames, 16), spec.Image)
	if uerr != nil {
		return nil, uerr
	}
	sp.Texture = tex
	return sp, nil
}

func imageOrColor(path string, c *prefabs.YAMLColor, w, h int) (image.Image, error) {
	if path != "" {
		img, err := render.LoadImageFile(path)
		if err == nil {
			return img, nil
		}
		if c == nil {
			return nil, err
		}
	}
	if c == nil {
		return nil, fmt.Errorf("no image or color")
	}
	return solid(c, w, h), nil
}

func solid(c color.Color, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func parseTileType(s string) (tilemap.TileType, error) {
	switch strings.ToLower(s) {
	case "", "ground":
		return tilemap.TileGround, nil
	case "wall":
		return tilemap.TileWall, nil
	case "decoration":
		return tilemap.TileDecoration, nil
	default:
		return 0, fmt.Errorf("unknown tile type %q", s)
	}
}

func parseTileFlags(names []string) (tilemap.TileFlags, error) {
	var f tilemap.TileFlags
	for _, n := range names {
		switch strings.ToLower(n) {
		case "collidable":
			f |= tilemap.Collidable
		case "animated":
			f |= tilemap.Animated
		case "flip_h":
			f |= tilemap.FlippedHorizontally
		case "flip_v":
			f |= tilemap.FlippedVertically
		default:
			return 0, fmt.Errorf("unknown tile flag %q", n)
		}
	}
	return f, nil
}
