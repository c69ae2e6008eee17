package ecs

import (
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/tilemap"
)

type Transform = geom.Transform

// GameObject holds at most one behaviour per type.
type GameObject struct {
	Name      string
	Transform Transform

	behaviours [behaviourTypeCount]Behaviour
}

func NewGameObject(name string, pos geom.Vector2) *GameObject {
	return &GameObject{Name: name, Transform: geom.NewTransform(pos)}
}

// Behaviour returns the attached behaviour of type t, or nil.
func (o *GameObject) Behaviour(t BehaviourType) Behaviour {
	if o == nil || !t.valid() {
		return nil
	}
	return o.behaviours[t]
}

// NewBehaviour constructs a behaviour of type t through w and attaches it.
func (o *GameObject) NewBehaviour(w *World, t BehaviourType) (Behaviour, bool) {
	return w.NewBehaviour(t, o)
}

// GetBehaviour returns o's behaviour of type t as B.
func GetBehaviour[B Behaviour](o *GameObject, t BehaviourType) (B, bool) {
	var zero B
	b := o.Behaviour(t)
	if b == nil {
		return zero, false
	}
	cast, ok := b.(B)
	if !ok {
		return zero, false
	}
	return cast, true
}

// Scene is the set of objects and the tile map a runtime simulates.
// Objects are only ever appended.
type Scene struct {
	ID      string
	Objects []*GameObject
	TileMap *tilemap.TileMap
}

func NewScene(id string, tm *tilemap.TileMap) *Scene {
	return &Scene{ID: id, TileMap: tm}
}

// AddObject creates an object at pos and appends it to the scene.
func (s *Scene) AddObject(name string, pos geom.Vector2) *GameObject {
	o := NewGameObject(name, pos)
	s.Objects = append(s.Objects, o)
	return o
}

// Find returns the first object named name.
func (s *Scene) Find(name string) *GameObject {
	if s == nil {
		return nil
	}
	for _, o := range s.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}
