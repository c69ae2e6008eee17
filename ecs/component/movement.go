package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/geom"
)

// Movement gives an object a physics body. Velocity is in world units per
// second and is applied every step until changed.
type Movement struct {
	ecs.BaseBehaviour

	Velocity geom.Vector2
	Width    float64
	Height   float64
	Solid    bool

	Body  *cp.Body
	Shape *cp.Shape
}

func (*Movement) Type() ecs.BehaviourType { return ecs.BehaviourMovement }
