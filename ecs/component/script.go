package component

import (
	"github.com/milk9111/tileforge/ecs"
)

// ScriptFunc is a Go-side script callback.
type ScriptFunc func(s *Script, w *ecs.World)

// Script runs per-object logic: Go callbacks, a tengo script, or both. Start
// runs once before the first Update.
type Script struct {
	ecs.BaseBehaviour

	OnStart  ScriptFunc
	OnUpdate ScriptFunc

	// Path names a tengo script in the prefab scripts directory.
	Path string
	// Vars are initial values for the script's state map.
	Vars map[string]any

	Started bool
}

func (*Script) Type() ecs.BehaviourType { return ecs.BehaviourScript }
