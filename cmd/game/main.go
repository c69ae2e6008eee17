package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileforge/config"
	"github.com/milk9111/tileforge/engine"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/prefabs"
	"github.com/milk9111/tileforge/render"
	"github.com/milk9111/tileforge/render/ebitenrender"
	"github.com/milk9111/tileforge/tilemap"
)

// quit stops the runtime on Escape.
type quit struct {
	rt *engine.Runtime
}

func (q quit) Update() {
	if q.rt.Input.GetKeyDown(input.KeyEscape) {
		q.rt.Stop()
	}
}

func (q quit) Draw(screen *ebiten.Image) {}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	sceneName := flag.String("scene", "", "scene spec in prefabs/ (overrides config)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
	}
	cfg.Debug = cfg.Debug || *debug

	scene, err := prefabs.LoadSpec[prefabs.SceneSpec](cfg.Scene)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.Level != "" {
		scene.Level = cfg.Level
	}

	var store tilemap.Store = tilemap.NewMemoryStore()
	if cfg.Store.Dir != "" {
		store = tilemap.NewFileStore(cfg.Store.Dir)
	}

	var watcher *prefabs.ScriptWatcher
	if cfg.Scripts.Watch {
		if _, err := os.Stat(cfg.Scripts.Dir); err == nil {
			watcher, err = prefabs.WatchScripts(cfg.Scripts.Dir)
			if err != nil {
				log.Printf("game: script watcher disabled: %v", err)
			} else {
				defer watcher.Close()
			}
		}
	}

	scaling := render.ScalingFixed
	if cfg.Scaling == config.ScalingScreenSize {
		scaling = render.ScalingScreenSize
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	backend := ebitenrender.New(cfg.Window.Width, cfg.Window.Height)
	host := engine.NewHost(backend)
	game := engine.NewGameRuntime(backend, host, engine.GameOptions{
		Store:   store,
		Scene:   &scene,
		Watcher: watcher,
		Scaling: scaling,
	})
	game.Debug = cfg.Debug
	host.Runtime = game.Runtime
	host.Overlay = quit{rt: game.Runtime}

	if err := game.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	if err := ebiten.RunGame(host); err != nil {
		log.Fatal(err)
	}
}
