// Package engine drives the frame loop: it owns the world, the renderer and
// the input state, and hands each frame to the editor or game mode.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/input"
	"github.com/milk9111/tileforge/render"
	"github.com/milk9111/tileforge/tilemap"
)

type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// FrameFunc receives a monotonic timestamp for the frame.
type FrameFunc func(now time.Duration)

// Scheduler calls back once per display frame. Only one request is pending
// at a time; a new request replaces the old one.
type Scheduler interface {
	RequestFrame(fn FrameFunc)
	CancelFrame()
}

// mode is the editor or game behaviour layered on a Runtime.
type mode interface {
	init(ctx context.Context) error
	preUpdate()
}

// Runtime owns the per-process engine state. Frame is the only entry point
// once running, and it must not be called concurrently.
type Runtime struct {
	World    *ecs.World
	Renderer *render.Renderer
	Input    *input.State
	Scene    *ecs.Scene
	TileMap  *tilemap.TileMap
	Debug    bool

	scheduler Scheduler
	mode      mode
	state     State
	last      time.Duration
	started   bool
}

// NewRuntime builds a runtime over backend. Nothing touches the backend
// until Init.
func NewRuntime(backend render.Backend, scheduler Scheduler) *Runtime {
	r := render.NewRenderer(backend, render.NewCamera())
	in := input.NewState()
	tm := tilemap.New(r)
	scene := ecs.NewScene("main", tm)
	return &Runtime{
		World:     ecs.NewWorld(in, scene),
		Renderer:  r,
		Input:     in,
		Scene:     scene,
		TileMap:   tm,
		scheduler: scheduler,
	}
}

func (r *Runtime) State() State { return r.state }

func (r *Runtime) Camera() *render.Camera { return r.Renderer.Camera() }

// Init brings the renderer up, runs the mode's setup and requests the first
// frame. On failure the runtime stays Initializing and Init may be retried.
func (r *Runtime) Init(ctx context.Context) error {
	switch r.state {
	case StateUninitialized, StateInitializing:
	default:
		return fmt.Errorf("engine: init while %s", r.state)
	}
	r.state = StateInitializing

	if err := r.Renderer.Init(ctx); err != nil {
		log.Printf("engine: renderer init failed: %v", err)
		return fmt.Errorf("engine: %w", err)
	}
	if r.mode != nil {
		if err := r.mode.init(ctx); err != nil {
			log.Printf("engine: mode init failed: %v", err)
			return fmt.Errorf("engine: %w", err)
		}
	}

	r.state = StateRunning
	r.request()
	return nil
}

// Frame runs one tick: clock, input rotation, mode pre-update, systems,
// render, then the next request. The first frame has a zero delta.
func (r *Runtime) Frame(now time.Duration) {
	if r.state != StateRunning {
		return
	}

	dt := 0.0
	if r.started {
		dt = (now - r.last).Seconds()
	}
	r.last, r.started = now, true

	r.World.Tick(dt)
	r.Input.BeginFrame()
	if r.mode != nil {
		r.mode.preUpdate()
	}
	r.World.Update()

	for _, evt := range r.World.Events().Drain() {
		if !r.Debug {
			continue
		}
		if be, ok := evt.Data.(ecs.BehaviourEvent); ok {
			log.Printf("engine: %s %s on %s", evt.Type, be.Behaviour.Type(), be.Object.Name)
		}
	}

	r.Renderer.Camera().Update(dt)
	if err := r.Renderer.Render(r.World.Drawers()); err != nil {
		log.Printf("engine: render: %v", err)
	}

	r.request()
}

// Stop cancels the pending frame. A stopped runtime ignores Frame.
func (r *Runtime) Stop() {
	if r.state == StateStopped {
		return
	}
	r.state = StateStopped
	if r.scheduler != nil {
		r.scheduler.CancelFrame()
	}
}

func (r *Runtime) request() {
	if r.scheduler != nil {
		r.scheduler.RequestFrame(r.Frame)
	}
}

// ManualScheduler holds the pending frame until Step is called.
type ManualScheduler struct {
	mu       sync.Mutex
	pending  FrameFunc
	requests int
}

func (s *ManualScheduler) RequestFrame(fn FrameFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = fn
	s.requests++
}

func (s *ManualScheduler) CancelFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Pending reports whether a frame is waiting.
func (s *ManualScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Requests counts RequestFrame calls.
func (s *ManualScheduler) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Step runs the pending frame, if any, at now.
func (s *ManualScheduler) Step(now time.Duration) bool {
	s.mu.Lock()
	fn := s.pending
	s.pending = nil
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(now)
	return true
}
