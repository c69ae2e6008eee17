package component

import (
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/render"
)

// Sprite draws one frame of a sprite strip at its object's position.
type Sprite struct {
	ecs.BaseBehaviour

	Sprite      *render.Sprite
	FrameIndex  int
	ElapsedTime float64
	FlipH       bool
}

func (*Sprite) Type() ecs.BehaviourType { return ecs.BehaviourSprite }

// SetSprite swaps the displayed sprite and restarts its animation.
func (s *Sprite) SetSprite(sp *render.Sprite) {
	if s.Sprite == sp {
		return
	}
	s.Sprite = sp
	s.FrameIndex = 0
	s.ElapsedTime = 0
}
