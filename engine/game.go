package engine

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/ecs/component"
	"github.com/milk9111/tileforge/ecs/system"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/levels"
	"github.com/milk9111/tileforge/prefabs"
	"github.com/milk9111/tileforge/render"
	"github.com/milk9111/tileforge/tilemap"
)

type GameOptions struct {
	Store   tilemap.Store
	Scene   *prefabs.SceneSpec
	Palette *prefabs.PaletteSpec
	// Watcher, when set, reports edited scripts to reload.
	Watcher *prefabs.ScriptWatcher
	Scripts system.ScriptLoader
	Scaling render.ScalingMode
}

// GameRuntime plays a scene: a WASD player, scripted objects and a camera
// that follows the player.
type GameRuntime struct {
	*Runtime

	Player *ecs.GameObject

	opts     GameOptions
	players  *system.PlayerSystem
	scripts  *system.ScriptSystem
	sprites  *system.SpriteSystem
	movement *system.MovementSystem

	follow     *ecs.GameObject
	smoothness float64
}

func NewGameRuntime(backend render.Backend, scheduler Scheduler, opts GameOptions) *GameRuntime {
	g := &GameRuntime{
		Runtime: NewRuntime(backend, scheduler),
		opts:    opts,
	}
	if g.opts.Store == nil {
		g.opts.Store = tilemap.NewMemoryStore()
	}
	g.mode = g
	g.Camera().ScalingMode = opts.Scaling

	g.players = system.NewPlayerSystem()
	g.scripts = system.NewScriptSystem(opts.Scripts)
	g.sprites = system.NewSpriteSystem(g.Renderer)
	g.movement = system.NewMovementSystem()
	g.World.RegisterSystem(g.players)
	g.World.RegisterSystem(g.scripts)
	g.World.RegisterSystem(g.sprites)
	g.World.RegisterSystem(g.movement)
	return g
}

func (g *GameRuntime) Scripts() *system.ScriptSystem { return g.scripts }

func (g *GameRuntime) Movement() *system.MovementSystem { return g.movement }

func (g *GameRuntime) init(ctx context.Context) error {
	if g.opts.Palette == nil {
		spec, err := prefabs.LoadPaletteSpec()
		if err != nil {
			return err
		}
		g.opts.Palette = spec
	}
	if g.opts.Scene == nil {
		spec, err := prefabs.LoadSceneSpec()
		if err != nil {
			return err
		}
		g.opts.Scene = spec
	}
	scene := g.opts.Scene
	if scene.ID != "" {
		g.Scene.ID = scene.ID
	}

	descs, err := LoadPalette(g.Renderer, g.opts.Palette)
	if err != nil {
		return err
	}
	g.TileMap.Descriptors = descs

	if err := g.loadTiles(scene.Level); err != nil {
		return err
	}
	g.movement.MarkTilesDirty()

	if err := g.spawnPlayer(ctx, scene.Player); err != nil {
		return err
	}
	for _, o := range scene.Objects {
		if err := g.spawnObject(ctx, o); err != nil {
			return err
		}
	}

	g.setupCamera(scene.Camera)
	g.scripts.StartAll(g.World)
	return nil
}

// loadTiles prefers the store and falls back to the embedded level.
func (g *GameRuntime) loadTiles(level string) error {
	ok, err := tilemap.Load(g.opts.Store, g.Renderer)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	data, err := levels.Load(level)
	if err != nil {
		return err
	}
	values, err := tilemap.Decode(data)
	if err != nil {
		return fmt.Errorf("engine: level %s: %w", level, err)
	}
	return g.Renderer.UpdateTileMap(values, common.TileStride)
}

func (g *GameRuntime) spawnPlayer(ctx context.Context, spec prefabs.PlayerSpec) error {
	name := spec.Name
	if name == "" {
		name = "player"
	}
	obj := g.Scene.AddObject(name, geom.Vec2(spec.Transform.X, spec.Transform.Y))
	applyScale(obj, spec.Transform)

	idle, err := LoadSprite(ctx, g.sprites, g.Renderer, spec.Idle)
	if err != nil {
		return fmt.Errorf("engine: player idle sprite: %w", err)
	}
	run, err := LoadSprite(ctx, g.sprites, g.Renderer, spec.Run)
	if err != nil {
		return fmt.Errorf("engine: player run sprite: %w", err)
	}

	b, _ := g.World.NewBehaviour(ecs.BehaviourPlayer, obj)
	pl := b.(*component.Player)
	if spec.MoveSpeed > 0 {
		pl.MoveSpeed = spec.MoveSpeed
	}
	pl.IdleSprite, pl.RunSprite = idle, run

	b, _ = g.World.NewBehaviour(ecs.BehaviourMovement, obj)
	mv := b.(*component.Movement)
	if spec.Collider.Width > 0 && spec.Collider.Height > 0 {
		mv.Width, mv.Height = spec.Collider.Width, spec.Collider.Height
	}

	b, _ = g.World.NewBehaviour(ecs.BehaviourSprite, obj)
	b.(*component.Sprite).SetSprite(idle)

	g.Player = obj
	return nil
}

func (g *GameRuntime) spawnObject(ctx context.Context, spec prefabs.ObjectSpec) error {
	obj := g.Scene.AddObject(spec.Name, geom.Vec2(spec.Transform.X, spec.Transform.Y))
	applyScale(obj, spec.Transform)

	if spec.Sprite.Image != "" || spec.Sprite.Color != nil {
		sp, err := LoadSprite(ctx, g.sprites, g.Renderer, spec.Sprite)
		if err != nil {
			return fmt.Errorf("engine: %s sprite: %w", spec.Name, err)
		}
		b, _ := g.World.NewBehaviour(ecs.BehaviourSprite, obj)
		b.(*component.Sprite).SetSprite(sp)
	}

	if spec.Script != "" {
		b, _ := g.World.NewBehaviour(ecs.BehaviourScript, obj)
		sc := b.(*component.Script)
		sc.Path = spec.Script
		sc.Vars = spec.Vars
	}
	return nil
}

func applyScale(obj *ecs.GameObject, t prefabs.TransformSpec) {
	if t.ScaleX != 0 {
		obj.Transform.Scale[0] = t.ScaleX
	}
	if t.ScaleY != 0 {
		obj.Transform.Scale[1] = t.ScaleY
	}
	obj.Transform.Rotation = t.Rotation
}

func (g *GameRuntime) setupCamera(spec prefabs.CameraSpec) {
	cam := g.Camera()
	switch strings.ToLower(spec.Scaling) {
	case "screen_size":
		cam.ScalingMode = render.ScalingScreenSize
	case "fixed":
		cam.ScalingMode = render.ScalingFixed
	}
	if spec.Reference.Width > 0 && spec.Reference.Height > 0 {
		cam.ReferenceResolution = geom.Vec2(spec.Reference.Width, spec.Reference.Height)
	}

	g.smoothness = common.Clamp01(spec.Smoothness)
	g.follow = g.Player
	if spec.Follow != "" {
		g.follow = g.Scene.Find(spec.Follow)
	}
	if g.follow != nil {
		cam.SetPosition(followTarget(g.follow))
	}
}

// followTarget is the camera offset that centers obj on screen.
func followTarget(obj *ecs.GameObject) geom.Vector2 {
	p := obj.Transform.Position
	return geom.Vec2(-p.X, -p.Y)
}

func (g *GameRuntime) preUpdate() {
	g.reloadScripts()

	if g.follow == nil {
		return
	}
	cam := g.Camera()
	target := followTarget(g.follow)
	if g.smoothness <= 0 {
		cam.SetPosition(target)
		return
	}
	p := cam.Position()
	cam.SetPosition(geom.Vec2(
		common.Lerp(p.X, target.X, g.smoothness),
		common.Lerp(p.Y, target.Y, g.smoothness),
	))
}

func (g *GameRuntime) reloadScripts() {
	for _, name := range g.opts.Watcher.Changed() {
		n := g.scripts.Reload(name)
		log.Printf("game: reloaded %s (%d scripts)", name, n)
	}
}
