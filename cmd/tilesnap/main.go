// Command tilesnap renders the saved tile map headlessly to a PNG.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/milk9111/tileforge/engine"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render/snapshot"
	"github.com/milk9111/tileforge/tilemap"
)

func main() {
	storeDir := flag.String("store", "saves", "directory the tile map is saved in")
	out := flag.String("out", "tilemap.png", "output PNG path")
	width := flag.Int("width", 1280, "image width in pixels")
	height := flag.Int("height", 720, "image height in pixels")
	camX := flag.Float64("x", 0, "camera x offset")
	camY := flag.Float64("y", 0, "camera y offset")
	background := flag.String("bg", "#87ceeb", "background color")
	flag.Parse()

	gg.SetLogger(slog.Default())

	backend := snapshot.New(*width, *height)
	backend.SetBackground(*background)

	sched := &engine.ManualScheduler{}
	rt := engine.NewEditorRuntime(backend, sched, engine.EditorOptions{
		Store: tilemap.NewFileStore(*storeDir),
	})
	if err := rt.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	rt.Camera().SetPosition(geom.Vec2(*camX, *camY))
	if !sched.Step(0) {
		log.Fatal("tilesnap: no frame scheduled")
	}
	rt.Stop()

	if err := backend.SavePNG(*out); err != nil {
		log.Fatal(err)
	}
	log.Printf("tilesnap: wrote %s (%d frame)", *out, backend.Frames())
}
