package component

import (
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

// Player turns WASD into movement and swaps between idle and run sprites.
type Player struct {
	ecs.BaseBehaviour

	MoveSpeed  float64
	IdleSprite *render.Sprite
	RunSprite  *render.Sprite

	Direction geom.Vector2
	Running   bool
}

func (*Player) Type() ecs.BehaviourType { return ecs.BehaviourPlayer }
