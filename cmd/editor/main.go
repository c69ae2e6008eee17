package main

import (
	"context"
	"flag"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/config"
	"github.com/milk9111/tileforge/engine"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/prefabs"
	"github.com/milk9111/tileforge/render/ebitenrender"
	"github.com/milk9111/tileforge/tilemap"
	"golang.design/x/clipboard"
)

// overlay runs the ebitenui toolbar and the editor shortcuts that live
// outside the runtime: clipboard copy/paste and quit.
type overlay struct {
	ui        *ebitenui.UI
	palette   *Palette
	editor    *engine.EditorRuntime
	clipboard bool
}

func (o *overlay) Update() {
	in := o.editor.Input
	if in.GetKeyDown(input.KeyEscape) {
		if o.editor.Unsaved() {
			log.Printf("editor: quitting with unsaved changes")
		}
		o.editor.Stop()
		return
	}
	if o.clipboard && in.GetKey(input.KeyControl) {
		switch {
		case in.GetKeyDown(input.KeyC):
			data, err := o.editor.CopyTiles()
			if err != nil {
				log.Printf("%v", err)
				break
			}
			clipboard.Write(clipboard.FmtText, []byte(data))
			log.Printf("editor: copied tiles to clipboard")
		case in.GetKeyDown(input.KeyV):
			n, err := o.editor.PasteTiles(string(clipboard.Read(clipboard.FmtText)))
			if err != nil {
				log.Printf("%v", err)
				break
			}
			log.Printf("editor: pasted %d tiles", n)
		}
	}
	o.palette.SetActive(o.editor.Selected)
	o.ui.Update()
}

func (o *overlay) Draw(screen *ebiten.Image) {
	o.ui.Draw(screen)
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	storeDir := flag.String("store", "", "directory the tile map is saved in (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *storeDir != "" {
		cfg.Store.Dir = *storeDir
	}

	var store tilemap.Store = tilemap.NewMemoryStore()
	if cfg.Store.Dir != "" {
		store = tilemap.NewFileStore(cfg.Store.Dir)
	}

	palette, err := prefabs.LoadPaletteSpec()
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " editor")
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	backend := ebitenrender.New(cfg.Window.Width, cfg.Window.Height)
	host := engine.NewHost(backend)
	editor := engine.NewEditorRuntime(backend, host, engine.EditorOptions{Store: store, Palette: palette})
	editor.Debug = cfg.Debug
	host.Runtime = editor.Runtime

	save := func() {
		if err := editor.Save(); err != nil {
			log.Printf("editor: save: %v", err)
		}
	}
	onSelect := func(id int) {
		if err := editor.Select(id); err != nil {
			log.Printf("%v", err)
		}
	}
	ui, bar := buildEditorUI(palette, onSelect, save, editor.Selected)
	editor.Blocked = bar.Contains

	ov := &overlay{ui: ui, palette: bar, editor: editor}
	if err := clipboard.Init(); err != nil {
		log.Printf("editor: clipboard unavailable: %v", err)
	} else {
		ov.clipboard = true
	}
	host.Overlay = ov

	if err := editor.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
