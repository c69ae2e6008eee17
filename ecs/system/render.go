package system

import (
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/render"
)

// Render draws every attached sprite with its current frame.
func (s *SpriteSystem) Render(r *render.Renderer, draw render.DrawFunc) {
	for _, sp := range s.Items() {
		obj := sp.GameObject()
		if obj == nil || sp.Sprite == nil || sp.Sprite.Texture == nil {
			continue
		}

		frames := float64(sp.Sprite.Frames())
		r.SetTexture(sp.Sprite.Texture)
		r.SetSpriteUV(geom.Vec2(1/frames, 1), geom.Vec2(float64(sp.FrameIndex)/frames, 0))
		draw(render.SpriteModel(obj.Transform.Position, sp.FlipH))
	}
}
