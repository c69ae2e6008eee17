package ecs

import (
	"github.com/milk9111/tileforge/input"
)

// System owns every live behaviour of one type.
type System interface {
	Type() BehaviourType
	Update(w *World)
	// NewBehaviour constructs an unattached behaviour of the system's type.
	NewBehaviour() Behaviour
	// Track adds b to the live list. Already tracked behaviours and
	// behaviours of another type are rejected.
	Track(b Behaviour) bool
	Len() int
}

// Time is the frame clock systems read.
type Time struct {
	Delta   float64
	Elapsed float64
	Frame   int
}

// World owns the system registry, the frame clock, the input snapshot and
// the active scene. Systems run in registration order.
type World struct {
	systems []System
	index   [behaviourTypeCount]int
	events  EventQueue

	Time  Time
	Input *input.State
	Scene *Scene
}

func NewWorld(in *input.State, scene *Scene) *World {
	if in == nil {
		in = input.NewState()
	}
	return &World{Input: in, Scene: scene}
}

// RegisterSystem adds s to the update order. A second system of the same
// type replaces the first in its slot; the old system's behaviours are no
// longer updated.
func (w *World) RegisterSystem(s System) {
	if w == nil || s == nil || !s.Type().valid() {
		return
	}
	t := s.Type()
	if i := w.index[t]; i > 0 {
		w.systems[i-1] = s
		return
	}
	w.systems = append(w.systems, s)
	w.index[t] = len(w.systems)
}

// System returns the system registered for t.
func (w *World) System(t BehaviourType) (System, bool) {
	if w == nil || !t.valid() {
		return nil, false
	}
	i := w.index[t]
	if i == 0 {
		return nil, false
	}
	return w.systems[i-1], true
}

func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	out := make([]System, 0, len(w.systems))
	return append(out, w.systems...)
}

// NewBehaviour asks the system for t to construct a behaviour, tracks it and
// attaches it to o when o is non-nil. It fails when no system handles t.
func (w *World) NewBehaviour(t BehaviourType, o *GameObject) (Behaviour, bool) {
	sys, ok := w.System(t)
	if !ok {
		return nil, false
	}
	b := sys.NewBehaviour()
	if b == nil {
		return nil, false
	}
	sys.Track(b)
	if o != nil {
		w.AddBehaviour(o, b)
	}
	return b, true
}

// AddBehaviour attaches b to o and tracks it in its system. A behaviour o
// already had of the same type loses its back-reference but stays in its
// system's live list.
func (w *World) AddBehaviour(o *GameObject, b Behaviour) bool {
	if o == nil || b == nil {
		return false
	}
	t := b.Type()
	sys, ok := w.System(t)
	if !ok {
		return false
	}

	if prev := o.behaviours[t]; prev != nil && prev != b {
		prev.attach(nil)
		w.events.Push(Event{Type: EventBehaviourDetached, Data: BehaviourEvent{Object: o, Behaviour: prev}})
	}
	if owner := b.GameObject(); owner != nil && owner != o && owner.behaviours[t] == b {
		owner.behaviours[t] = nil
	}

	o.behaviours[t] = b
	b.attach(o)
	sys.Track(b)
	w.events.Push(Event{Type: EventBehaviourAttached, Data: BehaviourEvent{Object: o, Behaviour: b}})
	return true
}

// Tick advances the clock by dt seconds.
func (w *World) Tick(dt float64) {
	w.Time.Delta = dt
	w.Time.Elapsed += dt
	w.Time.Frame++
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
