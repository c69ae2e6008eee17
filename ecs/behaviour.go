package ecs

import "fmt"

// BehaviourType keys a behaviour to the system that owns it.
type BehaviourType int

const (
	BehaviourNone BehaviourType = iota
	BehaviourSprite
	BehaviourPlayer
	BehaviourScript
	BehaviourMovement

	behaviourTypeCount
)

var behaviourNames = [...]string{
	BehaviourNone:     "none",
	BehaviourSprite:   "sprite",
	BehaviourPlayer:   "player",
	BehaviourScript:   "script",
	BehaviourMovement: "movement",
}

func (t BehaviourType) String() string {
	if t < 0 || t >= behaviourTypeCount {
		return fmt.Sprintf("BehaviourType(%d)", int(t))
	}
	return behaviourNames[t]
}

func (t BehaviourType) valid() bool {
	return t > BehaviourNone && t < behaviourTypeCount
}

// ParseBehaviourType maps a name such as "sprite" back to its type.
func ParseBehaviourType(s string) (BehaviourType, error) {
	for i, name := range behaviourNames {
		if name == s && BehaviourType(i) != BehaviourNone {
			return BehaviourType(i), nil
		}
	}
	return BehaviourNone, fmt.Errorf("ecs: unknown behaviour type %q", s)
}

// Behaviour is per-object state owned by one system. Every implementation
// embeds BaseBehaviour.
type Behaviour interface {
	Type() BehaviourType
	// GameObject is the object the behaviour is attached to, nil once it
	// has been replaced.
	GameObject() *GameObject
	attach(o *GameObject)
}

// BaseBehaviour carries the back-reference to the owning object.
type BaseBehaviour struct {
	object *GameObject
}

func (b *BaseBehaviour) GameObject() *GameObject {
	return b.object
}

// Attached reports whether the behaviour still belongs to an object.
func (b *BaseBehaviour) Attached() bool {
	return b.object != nil
}

func (b *BaseBehaviour) attach(o *GameObject) {
	b.object = o
}
