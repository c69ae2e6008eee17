package render

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/geom"
)

var (
	ErrBackendUnavailable = errors.New("render: backend unavailable")
	ErrNotInitialized     = errors.New("render: renderer not initialized")
)

// Near and far planes of the projection. Tiles sit at z=0 and sprites at
// z=-1, so sprites always draw over the grid.
const (
	nearPlane = 400
	farPlane  = -400
	spriteZ   = -1
)

// Backend is the GPU-facing side of the renderer. Submit receives a frame
// that is reused afterwards; backends copy whatever they keep.
type Backend interface {
	Init(ctx context.Context) error
	Size() (w, h float64)
	LoadTexture(ctx context.Context, path string) (TextureHandle, error)
	NewTexture(img image.Image) (TextureHandle, error)
	Submit(f *Frame) error
}

type DrawKind int

const (
	DrawTiles DrawKind = iota
	DrawSprite
)

// DrawCall is one recorded draw: a unit quad of common.UnitSize pixels
// centered on the origin, transformed by MVP into clip space. Tile draws
// are instanced, offsetting each instance by its buffer position.
type DrawCall struct {
	Kind      DrawKind
	MVP       geom.Matrix4
	Texture   *Texture
	UVSize    geom.Vector2
	UVOffset  geom.Vector2
	Instances int
}

type Frame struct {
	Width, Height float64
	Tiles         []float32
	Stride        int
	Calls         []DrawCall
}

// DrawFunc issues one draw with the given model matrix.
type DrawFunc func(model geom.Matrix4)

// Drawer is implemented by systems that contribute draws to a frame.
type Drawer interface {
	Render(r *Renderer, draw DrawFunc)
}

// Renderer owns the tile buffer and the per-draw texture/UV state and turns
// drawer output into frames for its Backend.
type Renderer struct {
	backend Backend
	camera  *Camera
	tiles   *TileBuffer

	texture  *Texture
	uvSize   geom.Vector2
	uvOffset geom.Vector2

	atlas      *Texture
	atlasCells int

	frame       Frame
	initialized bool
}

func NewRenderer(backend Backend, camera *Camera) *Renderer {
	if camera == nil {
		camera = NewCamera()
	}
	return &Renderer{
		backend:    backend,
		camera:     camera,
		tiles:      NewTileBuffer(common.TilemapWidth, common.TilemapHeight, common.TileSize),
		uvSize:     geom.Vec2(1, 1),
		atlasCells: 1,
	}
}

// Init brings the backend up. Any error here is fatal for the runtime.
func (r *Renderer) Init(ctx context.Context) error {
	if r.backend == nil {
		return ErrBackendUnavailable
	}
	if err := r.backend.Init(ctx); err != nil {
		return fmt.Errorf("render: init backend: %w", err)
	}
	w, h := r.backend.Size()
	r.camera.SetResolution(w, h)
	r.initialized = true
	return nil
}

func (r *Renderer) Initialized() bool { return r.initialized }

func (r *Renderer) Camera() *Camera { return r.camera }

func (r *Renderer) Backend() Backend { return r.backend }

// Tiles exposes the dense tile buffer.
func (r *Renderer) Tiles() *TileBuffer { return r.tiles }

func (r *Renderer) SetTile(pos geom.Vector2, uv geom.Vector2) {
	r.tiles.Set(int(pos.X), int(pos.Y), float32(uv.X), float32(uv.Y))
}

// UpdateTileMap replaces the whole tile buffer from a flat layout.
func (r *Renderer) UpdateTileMap(values []float32, stride int) error {
	return r.tiles.Load(values, stride)
}

func (r *Renderer) ResetTileMap() {
	r.tiles.Reset()
}

func (r *Renderer) TileMapValues() []float32 {
	return r.tiles.Values()
}

// SetTexture binds tex for the following draws.
func (r *Renderer) SetTexture(tex *Texture) {
	r.texture = tex
	if tex != nil {
		tex.Changed = false
	}
}

// SetSpriteUV selects the sub-rectangle of the bound texture, in 0..1 units.
func (r *Renderer) SetSpriteUV(size, offset geom.Vector2) {
	r.uvSize = size
	r.uvOffset = offset
}

// SetTileAtlas sets the texture sampled by the tile grid, a horizontal strip
// of cells equally wide cells.
func (r *Renderer) SetTileAtlas(tex *Texture, cells int) {
	if cells < 1 {
		cells = 1
	}
	r.atlas = tex
	r.atlasCells = cells
}

// LoadTexture loads path through the backend into a new texture.
func (r *Renderer) LoadTexture(ctx context.Context, path string) (*Texture, error) {
	if r.backend == nil {
		return nil, ErrBackendUnavailable
	}
	h, err := r.backend.LoadTexture(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("render: load texture %s: %w", path, err)
	}
	return &Texture{Handle: h, Path: path, Changed: true}, nil
}

// NewTexture uploads img through the backend.
func (r *Renderer) NewTexture(img image.Image, name string) (*Texture, error) {
	if r.backend == nil {
		return nil, ErrBackendUnavailable
	}
	h, err := r.backend.NewTexture(img)
	if err != nil {
		return nil, fmt.Errorf("render: upload texture %s: %w", name, err)
	}
	return &Texture{Handle: h, Path: name, Changed: true}, nil
}

// ViewProjection returns view·projection for the current backend size.
func (r *Renderer) ViewProjection() geom.Matrix4 {
	w, h := r.backend.Size()
	view := r.camera.Matrix()
	view.Translate(w/2, -h/2, 0)
	return geom.Multiply4(view, geom.Ortho(0, w, -h, 0, nearPlane, farPlane))
}

// Render records the tile grid and every drawer's draws into one frame and
// submits it.
func (r *Renderer) Render(drawers []Drawer) error {
	if !r.initialized {
		return ErrNotInitialized
	}

	w, h := r.backend.Size()
	r.camera.SetResolution(w, h)
	vp := r.ViewProjection()

	f := &r.frame
	f.Width, f.Height = w, h
	f.Stride = common.TileStride
	f.Tiles = r.tiles.Values()
	f.Calls = f.Calls[:0]

	tileModel := geom.Translation4(
		-float64(common.TilemapWidth)/2*common.TileSize,
		-float64(common.TilemapHeight)/2*common.TileSize,
		0,
	)
	f.Calls = append(f.Calls, DrawCall{
		Kind:      DrawTiles,
		MVP:       geom.Multiply4(tileModel, vp),
		Texture:   r.atlas,
		UVSize:    geom.Vec2(1/float64(r.atlasCells), 1),
		Instances: r.tiles.Cells(),
	})

	draw := func(model geom.Matrix4) {
		f.Calls = append(f.Calls, DrawCall{
			Kind:      DrawSprite,
			MVP:       geom.Multiply4(model, vp),
			Texture:   r.texture,
			UVSize:    r.uvSize,
			UVOffset:  r.uvOffset,
			Instances: 1,
		})
	}
	for _, d := range drawers {
		if d != nil {
			d.Render(r, draw)
		}
	}

	return r.backend.Submit(f)
}

// SpriteModel is the model matrix for a sprite at pos, mirrored on X when
// flipped.
func SpriteModel(pos geom.Vector2, flipped bool) geom.Matrix4 {
	sx := 1.0
	if flipped {
		sx = -1
	}
	m := geom.Scaling4(sx, 1, 1)
	m.Translate(pos.X, pos.Y, spriteZ)
	return m
}
