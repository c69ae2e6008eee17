package system

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/tileforge/common"
	"github.com/milk9111/tileforge/ecs"
	"github.com/milk9111/tileforge/ecs/component"
	"github.com/milk9111/tileforge/geom"
	"github.com/milk9111/tileforge/tilemap"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeDynamic
)

// teleportEpsilon is how far a transform may drift from its body before the
// body is moved to match it.
const teleportEpsilon = 0.01

// maxSubstep bounds one space step so a body cannot move more than a few
// units into a wall before contacts push back.
const maxSubstep = 1.0 / 120

// MovementSystem moves movement behaviours through a gravity-free chipmunk
// space, blocked by the collidable cells of the scene's tile map.
type MovementSystem struct {
	ecs.Tracker[*component.Movement]

	space        *cp.Space
	staticShapes []*cp.Shape
	staticBuilt  bool
}

func NewMovementSystem() *MovementSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	return &MovementSystem{space: space}
}

func (m *MovementSystem) Type() ecs.BehaviourType { return ecs.BehaviourMovement }

func (m *MovementSystem) NewBehaviour() ecs.Behaviour {
	size := float64(common.UnitSize) * 0.8
	return &component.Movement{Width: size, Height: size, Solid: true}
}

func (m *MovementSystem) Space() *cp.Space {
	if m == nil {
		return nil
	}
	return m.space
}

// MarkTilesDirty rebuilds the static collision shapes on the next update.
func (m *MovementSystem) MarkTilesDirty() {
	m.staticBuilt = false
}

func (m *MovementSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}
	if !m.staticBuilt {
		var tm *tilemap.TileMap
		if w.Scene != nil {
			tm = w.Scene.TileMap
		}
		m.RebuildStatic(tm)
	}

	var active []*component.Movement
	for _, mv := range m.Items() {
		obj := mv.GameObject()
		if obj == nil {
			m.removeBody(mv)
			continue
		}
		m.ensureBody(mv, obj)

		bp := mv.Body.Position()
		p := obj.Transform.Position
		if math.Abs(bp.X-p.X) > teleportEpsilon || math.Abs(bp.Y-p.Y) > teleportEpsilon {
			mv.Body.SetPosition(cp.Vector{X: p.X, Y: p.Y})
		}
		active = append(active, mv)
	}

	if dt := w.Time.Delta; dt > 0 {
		n := max(2, int(math.Ceil(dt/maxSubstep)))
		step := dt / float64(n)
		for i := 0; i < n; i++ {
			m.space.Step(step)
		}
	}

	for _, mv := range active {
		pos := mv.Body.Position()
		mv.GameObject().Transform.Position = geom.Vec2(pos.X, pos.Y)
	}
}

func (m *MovementSystem) ensureBody(mv *component.Movement, obj *ecs.GameObject) {
	if mv.Body != nil {
		return
	}
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{X: obj.Transform.Position.X, Y: obj.Transform.Position.Y})
	// cp integrates positions before solving contacts, so the wanted velocity
	// goes in here where the solver can still cancel motion into walls.
	body.SetVelocityUpdateFunc(func(b *cp.Body, _ cp.Vector, _, _ float64) {
		b.SetVelocity(mv.Velocity.X, mv.Velocity.Y)
	})
	shape := cp.NewBox(body, mv.Width, mv.Height, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeDynamic)
	shape.SetSensor(!mv.Solid)

	m.space.AddBody(body)
	m.space.AddShape(shape)
	mv.Body, mv.Shape = body, shape
}

func (m *MovementSystem) removeBody(mv *component.Movement) {
	if mv.Shape != nil {
		m.space.RemoveShape(mv.Shape)
		mv.Shape = nil
	}
	if mv.Body != nil {
		m.space.RemoveBody(mv.Body)
		mv.Body = nil
	}
}

// RebuildStatic replaces the static shapes with boxes over the collidable
// cells of tm, merging runs of cells into rectangles, plus walls around the
// grid.
func (m *MovementSystem) RebuildStatic(tm *tilemap.TileMap) {
	for _, s := range m.staticShapes {
		m.space.RemoveShape(s)
	}
	m.staticShapes = m.staticShapes[:0]
	m.staticBuilt = true

	const (
		w = common.TilemapWidth
		h = common.TilemapHeight
	)
	ts := float64(common.TileSize)
	// cell (x, y) is centered on the grid position shifted by the tile model
	originX := -float64(w)/2*ts - ts/2
	originY := -float64(h)/2*ts - ts/2

	solid := make([]bool, w*h)
	if tm != nil {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if d, ok := tm.DescriptorAt(x, y); ok && d.Flags.Has(tilemap.Collidable) {
					solid[y*w+x] = true
				}
			}
		}
	}

	processed := make([]bool, w*h)
	boxes := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if processed[idx] || !solid[idx] {
				processed[idx] = true
				continue
			}

			rw := 1
			for x+rw < w {
				i := y*w + x + rw
				if processed[i] || !solid[i] {
					break
				}
				rw++
			}

			rh := 1
		heightLoop:
			for y+rh < h {
				for xi := x; xi < x+rw; xi++ {
					i := (y+rh)*w + xi
					if processed[i] || !solid[i] {
						break heightLoop
					}
				}
				rh++
			}

			x0 := originX + float64(x)*ts
			y0 := originY + float64(y)*ts
			bb := cp.BB{L: x0, B: y0, R: x0 + float64(rw)*ts, T: y0 + float64(rh)*ts}
			m.addStatic(cp.NewBox2(m.space.StaticBody, bb, 0))
			boxes++

			for yy := y; yy < y+rh; yy++ {
				for xx := x; xx < x+rw; xx++ {
					processed[yy*w+xx] = true
				}
			}
		}
	}

	right := originX + float64(w)*ts
	top := originY + float64(h)*ts
	for _, seg := range [][2]cp.Vector{
		{{X: originX, Y: originY}, {X: right, Y: originY}},
		{{X: originX, Y: top}, {X: right, Y: top}},
		{{X: originX, Y: originY}, {X: originX, Y: top}},
		{{X: right, Y: originY}, {X: right, Y: top}},
	} {
		m.addStatic(cp.NewSegment(m.space.StaticBody, seg[0], seg[1], 1))
	}

	log.Printf("movement: built %d static boxes from tile map", boxes)
}

func (m *MovementSystem) addStatic(shape *cp.Shape) {
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeSolid)
	m.space.AddShape(shape)
	m.staticShapes = append(m.staticShapes, shape)
}
