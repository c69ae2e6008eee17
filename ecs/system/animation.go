package system

import (
	"context"
	"fmt"
	"math"

	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/ecs/component"
	"github.com/milk9111/tileforge/render"
)

// SpriteSystem animates and draws sprite behaviours.
type SpriteSystem struct {
	ecs.Tracker[*component.Sprite]

	renderer *render.Renderer
}

func NewSpriteSystem(r *render.Renderer) *SpriteSystem {
	return &SpriteSystem{renderer: r}
}

func (s *SpriteSystem) Type() ecs.BehaviourType { return ecs.BehaviourSprite }

func (s *SpriteSystem) NewBehaviour() ecs.Behaviour {
	return &component.Sprite{}
}

func (s *SpriteSystem) Update(w *ecs.World) {
	dt := w.Time.Delta
	for _, sp := range s.Items() {
		Animate(sp, dt)
	}
}

// Animate advances sp by dt seconds. The frame shown is
// floor(elapsed*fps); once that passes the last frame both the index and the
// elapsed time start over, so elapsed never grows past one loop.
func Animate(sp *component.Sprite, dt float64) {
	if sp == nil || sp.Sprite == nil || !sp.Sprite.Animated || sp.Sprite.FramesPerSecond <= 0 {
		return
	}
	idx := int(math.Floor(sp.ElapsedTime * sp.Sprite.FramesPerSecond))
	if idx >= sp.Sprite.Frames() {
		sp.ElapsedTime = 0
		idx = 0
	}
	sp.FrameIndex = idx
	sp.ElapsedTime += dt
}

// LoadTextureIntoSprite loads path and replaces the sprite's texture. On
// failure the sprite keeps its old texture.
func (s *SpriteSystem) LoadTextureIntoSprite(ctx context.Context, sp *render.Sprite, path string) error {
	if sp == nil {
		return fmt.Errorf("system: load texture %s: nil sprite", path)
	}
	if s.renderer == nil {
		return render.ErrNotInitialized
	}
	tex, err := s.renderer.LoadTexture(ctx, path)
	if err != nil {
		return err
	}
	sp.Texture = tex
	return nil
}
