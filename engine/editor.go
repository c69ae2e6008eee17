package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/milk9111/tileforge/ecs/system"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/prefabs"
	"github.com/milk9111/tileforge/render"
	"github.com/milk9111/tileforge/tilemap"
	"github.com/tanema/gween/ease"
)

// homeScrollSeconds is how long Home takes to bring the camera back.
const homeScrollSeconds = 0.4

type EditorOptions struct {
	Store   tilemap.Store
	Palette *prefabs.PaletteSpec
}

// EditorRuntime paints the tile map. Middle mouse pans, left mouse paints
// the selected descriptor, right mouse erases to descriptor 0, number keys
// select, Ctrl+S saves and Home scrolls back to the origin. Clipboard
// copy and paste go through CopyTiles and PasteTiles.
type EditorRuntime struct {
	*Runtime

	Selected int
	// Blocked reports screen positions owned by UI; painting skips them.
	Blocked func(p geom.Vector2) bool

	store   tilemap.Store
	palette *prefabs.PaletteSpec
	sprites *system.SpriteSystem

	panning   bool
	panMouse  geom.Vector2
	panCamera geom.Vector2
	unsaved   bool
}

func NewEditorRuntime(backend render.Backend, scheduler Scheduler, opts EditorOptions) *EditorRuntime {
	e := &EditorRuntime{
		Runtime: NewRuntime(backend, scheduler),
		store:   opts.Store,
		palette: opts.Palette,
	}
	if e.store == nil {
		e.store = tilemap.NewMemoryStore()
	}
	e.mode = e
	e.sprites = system.NewSpriteSystem(e.Renderer)
	e.World.RegisterSystem(e.sprites)
	return e
}

func (e *EditorRuntime) init(ctx context.Context) error {
	if e.palette == nil {
		spec, err := prefabs.LoadPaletteSpec()
		if err != nil {
			return err
		}
		e.palette = spec
	}
	descs, err := LoadPalette(e.Renderer, e.palette)
	if err != nil {
		return err
	}
	e.TileMap.Descriptors = descs

	ok, err := tilemap.Load(e.store, e.Renderer)
	if err != nil {
		return err
	}
	if ok {
		log.Printf("editor: loaded tile map from store")
	}
	return nil
}

func (e *EditorRuntime) preUpdate() {
	in := e.Input
	cam := e.Camera()

	for n := range e.TileMap.Descriptors {
		if n < 10 && in.GetKeyDown(input.DigitKey(n)) {
			e.Selected = n
		}
	}

	if in.GetKey(input.KeyControl) && in.GetKeyDown(input.KeyS) {
		if err := e.Save(); err != nil {
			log.Printf("editor: save: %v", err)
		}
	}

	if in.GetKeyDown(input.KeyHome) {
		cam.ScrollTo(0, 0, homeScrollSeconds, ease.OutQuad)
	}

	mouse := in.MousePos()
	if in.GetMouseButtonDown(input.MouseMiddle) {
		e.panning = true
		e.panMouse = mouse
		e.panCamera = cam.Position()
		cam.CancelScroll()
	}
	// a tap can press and release within one frame
	if !in.GetMouseButton(input.MouseMiddle) {
		e.panning = false
	}
	if e.panning {
		// screen Y points down, world Y points up
		d := mouse.Sub(e.panMouse)
		cam.SetPosition(geom.Vec2(e.panCamera.X+d.X, e.panCamera.Y-d.Y))
		return
	}

	if e.Blocked != nil && e.Blocked(mouse) {
		return
	}
	switch {
	case in.GetMouseButton(input.MouseLeft):
		e.paint(mouse, e.Selected)
	case in.GetMouseButton(input.MouseRight):
		e.paint(mouse, 0)
	}
}

func (e *EditorRuntime) paint(mouse geom.Vector2, id int) {
	d, ok := e.TileMap.Descriptor(id)
	if !ok {
		return
	}
	w, h := e.Renderer.Backend().Size()
	i, j := tilemap.ScreenToTile(mouse, w, h, e.Camera().Position())
	if !tilemap.InBounds(i, j) {
		return
	}
	if cur, ok := e.TileMap.DescriptorAt(i, j); ok && cur.ID == d.ID {
		return
	}
	e.TileMap.SetTile(geom.Vec2(float64(i), float64(j)), d)
	e.unsaved = true
}

// Save writes the tile buffer to the store.
func (e *EditorRuntime) Save() error {
	if err := tilemap.Save(e.store, e.Renderer.TileMapValues()); err != nil {
		return err
	}
	e.unsaved = false
	log.Printf("editor: saved tile map")
	return nil
}

// Unsaved reports whether tiles changed since the last save or load.
func (e *EditorRuntime) Unsaved() bool { return e.unsaved }

// CopyTiles returns the painted cells, everything but descriptor 0, as
// interchange JSON.
func (e *EditorRuntime) CopyTiles() (string, error) {
	var painted []tilemap.Tile
	for _, t := range e.TileMap.Tiles() {
		if t.DescriptorID != 0 {
			painted = append(painted, t)
		}
	}
	data, err := json.Marshal(painted)
	if err != nil {
		return "", fmt.Errorf("editor: copy: %w", err)
	}
	return string(data), nil
}

// PasteTiles paints interchange JSON produced by CopyTiles over the map.
// Cells outside the grid and unknown descriptors are skipped.
func (e *EditorRuntime) PasteTiles(data string) (int, error) {
	var tiles []tilemap.Tile
	if err := json.Unmarshal([]byte(data), &tiles); err != nil {
		return 0, fmt.Errorf("editor: paste: %w", err)
	}
	kept := tiles[:0]
	for _, t := range tiles {
		if tilemap.InBounds(t.X, t.Y) {
			if _, ok := e.TileMap.Descriptor(t.DescriptorID); ok {
				kept = append(kept, t)
			}
		}
	}
	e.TileMap.Apply(kept)
	if len(kept) > 0 {
		e.unsaved = true
	}
	return len(kept), nil
}

// Select picks the descriptor painted with the left mouse button.
func (e *EditorRuntime) Select(id int) error {
	if _, ok := e.TileMap.Descriptor(id); !ok {
		return fmt.Errorf("editor: no descriptor %d", id)
	}
	e.Selected = id
	return nil
}
