package system

import (
	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/ecs/component"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/input"
)

// DefaultPlayerSpeed is three units per second.
const DefaultPlayerSpeed = common.UnitSize * 3

type PlayerSystem struct {
	ecs.Tracker[*component.Player]
}

func NewPlayerSystem() *PlayerSystem {
	return &PlayerSystem{}
}

func (p *PlayerSystem) Type() ecs.BehaviourType { return ecs.BehaviourPlayer }

func (p *PlayerSystem) NewBehaviour() ecs.Behaviour {
	return &component.Player{MoveSpeed: DefaultPlayerSpeed}
}

func (p *PlayerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, pl := range p.Items() {
		obj := pl.GameObject()
		if obj == nil {
			continue
		}

		var dir geom.Vector2
		if w.Input.GetKey(input.KeyW) {
			dir.Y += 1
		}
		if w.Input.GetKey(input.KeyS) {
			dir.Y -= 1
		}
		if w.Input.GetKey(input.KeyA) {
			dir.X -= 1
		}
		if w.Input.GetKey(input.KeyD) {
			dir.X += 1
		}

		sprite, hasSprite := ecs.GetBehaviour[*component.Sprite](obj, ecs.BehaviourSprite)
		if hasSprite {
			if w.Input.GetKey(input.KeyA) {
				sprite.FlipH = true
			} else if w.Input.GetKey(input.KeyD) {
				sprite.FlipH = false
			}
		}

		running := dir.Length() > 0
		if running {
			speed := pl.MoveSpeed
			if speed == 0 {
				speed = DefaultPlayerSpeed
			}
			dir.Normalize().Multiply(speed)
		}

		if hasSprite && (running != pl.Running || sprite.Sprite == nil) {
			if running && pl.RunSprite != nil {
				sprite.SetSprite(pl.RunSprite)
			} else if !running && pl.IdleSprite != nil {
				sprite.SetSprite(pl.IdleSprite)
			}
		}
		pl.Running = running
		pl.Direction = dir

		if mv, ok := ecs.GetBehaviour[*component.Movement](obj, ecs.BehaviourMovement); ok {
			mv.Velocity = dir
			continue
		}
		step := dir.Clone()
		obj.Transform.Position.Add(*step.Multiply(w.Time.Delta))
	}
}
