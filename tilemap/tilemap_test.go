package tilemap

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

func grassAndDirt() []TileDescriptor {
	return []TileDescriptor{
		{Name: "Grass", ID: 0, Type: TileGround},
		{Name: "Dirt", ID: 1, Type: TileGround, Flags: Collidable},
	}
}

func TestSetTileWritesAtlasOffset(t *testing.T) {
	r := render.NewRenderer(nil, nil)
	m := New(r, grassAndDirt()...)

	m.SetTile(geom.Vec2(3, 4), m.Descriptors[1])

	values := r.TileMapValues()
	base := (4*common.TilemapWidth + 3) * common.TileStride
	if got := values[base+2]; got != 0.5 {
		t.Fatalf("expected atlas offset 0.5 at %d, got %v", base+2, got)
	}
	if values[base] != 3*common.TileSize || values[base+1] != 4*common.TileSize {
		t.Fatalf("expected world position (%d, %d), got (%v, %v)",
			3*common.TileSize, 4*common.TileSize, values[base], values[base+1])
	}
	if values[base+3] != 0 {
		t.Fatalf("expected v=0, got %v", values[base+3])
	}
}

func TestSetTileOutOfRangeIsIgnored(t *testing.T) {
	r := render.NewRenderer(nil, nil)
	m := New(r, grassAndDirt()...)
	before := append([]float32(nil), r.TileMapValues()...)

	m.SetTile(geom.Vec2(-1, 0), m.Descriptors[1])
	m.SetTile(geom.Vec2(common.TilemapWidth, 0), m.Descriptors[1])
	m.SetTile(geom.Vec2(0, common.TilemapHeight), m.Descriptors[1])

	for i, v := range r.TileMapValues() {
		if before[i] != v {
			t.Fatalf("out of range write changed index %d", i)
		}
	}
}

func TestDescriptorAtAndTiles(t *testing.T) {
	r := render.NewRenderer(nil, nil)
	m := New(r, grassAndDirt()...)
	m.SetTile(geom.Vec2(5, 6), m.Descriptors[1])

	d, ok := m.DescriptorAt(5, 6)
	if !ok || d.Name != "Dirt" || !d.Flags.Has(Collidable) {
		t.Fatalf("expected Dirt, got %+v (ok=%v)", d, ok)
	}
	if d, _ := m.DescriptorAt(0, 0); d.Name != "Grass" {
		t.Fatalf("expected default Grass, got %+v", d)
	}
	if _, ok := m.DescriptorAt(-1, 0); ok {
		t.Fatalf("expected miss for out of range cell")
	}

	tiles := m.Tiles()
	if len(tiles) != common.TilemapWidth*common.TilemapHeight {
		t.Fatalf("expected a tile per cell, got %d", len(tiles))
	}
	found := false
	for _, tl := range tiles {
		if tl == (Tile{X: 5, Y: 6, DescriptorID: 1}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("painted tile missing from export")
	}

	other := New(render.NewRenderer(nil, nil), grassAndDirt()...)
	other.Apply(tiles)
	if d, _ := other.DescriptorAt(5, 6); d.ID != 1 {
		t.Fatalf("apply did not reproduce tile, got %+v", d)
	}
}

func TestScreenToTileInversion(t *testing.T) {
	canvases := []struct {
		name string
		w, h float64
	}{
		{"hd", 1280, 720},
		{"square", 800, 800},
		{"odd", 1023, 611},
	}
	cameras := []geom.Vector2{
		{},
		geom.Vec2(100, -37),
		geom.Vec2(-640, 256),
	}

	for _, c := range canvases {
		t.Run(c.name, func(t *testing.T) {
			for _, cam := range cameras {
				for _, cell := range [][2]int{{0, 0}, {3, 4}, {16, 16}, {31, 31}, {-2, 40}} {
					p := TileToScreen(cell[0], cell[1], c.w, c.h, cam)
					i, j := ScreenToTile(p, c.w, c.h, cam)
					if i != cell[0] || j != cell[1] {
						t.Fatalf("cam %v: pixel %v resolved to (%d, %d), want %v", cam, p, i, j, cell)
					}
				}
			}
		})
	}
}

func TestScreenToTileKnownPixels(t *testing.T) {
	const w, h = 1280.0, 720.0
	ts := float64(common.TileSize)

	cases := []struct {
		name  string
		mouse geom.Vector2
		i, j  int
	}{
		// canvas center is the center of tile (16, 16)
		{"center", geom.Vec2(w/2, h/2), 16, 16},
		{"half_cell_right_rounds_up", geom.Vec2(w/2+ts/2, h/2), 17, 16},
		{"just_left_of_boundary", geom.Vec2(w/2+ts/2-0.01, h/2), 16, 16},
		{"one_cell_up", geom.Vec2(w/2, h/2-ts), 16, 17},
		{"one_cell_down", geom.Vec2(w/2, h/2+ts), 16, 15},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			i, j := ScreenToTile(c.mouse, w, h, geom.Vector2{})
			if i != c.i || j != c.j {
				t.Fatalf("expected (%d, %d), got (%d, %d)", c.i, c.j, i, j)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	stores := []struct {
		name  string
		store Store
	}{
		{"memory", NewMemoryStore()},
		{"file", NewFileStore(t.TempDir())},
	}

	for _, s := range stores {
		t.Run(s.name, func(t *testing.T) {
			src := render.NewRenderer(nil, nil)
			m := New(src, grassAndDirt()...)
			m.SetTile(geom.Vec2(3, 4), m.Descriptors[1])
			m.SetTile(geom.Vec2(31, 0), m.Descriptors[1])

			if err := Save(s.store, src.TileMapValues()); err != nil {
				t.Fatalf("save: %v", err)
			}

			dst := render.NewRenderer(nil, nil)
			ok, err := Load(s.store, dst)
			if err != nil || !ok {
				t.Fatalf("load: ok=%v err=%v", ok, err)
			}

			want, got := src.TileMapValues(), dst.TileMapValues()
			if len(want) != len(got) {
				t.Fatalf("length mismatch %d != %d", len(want), len(got))
			}
			for i := range want {
				if want[i] != got[i] {
					t.Fatalf("value %d: want %v, got %v", i, want[i], got[i])
				}
			}
		})
	}
}

func TestLoadMissingKeyIsNoop(t *testing.T) {
	dst := render.NewRenderer(nil, nil)
	dst.Tiles().Set(1, 1, 0.5, 0)

	ok, err := Load(NewMemoryStore(), dst)
	if err != nil || ok {
		t.Fatalf("expected no-op, got ok=%v err=%v", ok, err)
	}
	if u, _, _ := dst.Tiles().Atlas(1, 1); u != 0.5 {
		t.Fatalf("missing key must not touch the buffer")
	}
}

func TestLoadRejectsWrongLength(t *testing.T) {
	store := NewMemoryStore()
	_ = store.Set(common.TileMapStorageKey, "[0,0,0.5,0]")

	_, err := Load(store, render.NewRenderer(nil, nil))
	if !errors.Is(err, ErrBufferLength) {
		t.Fatalf("expected ErrBufferLength, got %v", err)
	}

	_ = store.Set(common.TileMapStorageKey, "not json")
	if _, err := Load(store, render.NewRenderer(nil, nil)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestEncodeIsFlatArray(t *testing.T) {
	s, err := Encode([]float32{0, 64, 0.5, 0})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if s != "[0,64,0.5,0]" {
		t.Fatalf("unexpected encoding %s", s)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir())
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := s.Set(key, "x"); err == nil || !strings.Contains(err.Error(), "invalid key") {
			t.Fatalf("expected invalid key error for %q, got %v", key, err)
		}
	}
	if _, err := s.Get("absent"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
