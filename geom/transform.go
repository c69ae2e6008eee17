package geom

// Transform places an object in the world. Rotation is in radians.
type Transform struct {
	Position Vector2
	Rotation float64
	Scale    [2]float64
}

// NewTransform returns a transform at p with unit scale.
func NewTransform(p Vector2) Transform {
	return Transform{Position: p, Scale: [2]float64{1, 1}}
}

// ModelMatrix scales, then rotates, then translates a local point into
// the world.
func (t Transform) ModelMatrix() Matrix3 {
	m := Identity3()
	m.Scale(t.Scale[0], t.Scale[1]).Rotate(t.Rotation).Translate(t.Position.X, t.Position.Y)
	return m
}

// Matrix4 is ModelMatrix lifted to 3D at depth z.
func (t Transform) Matrix4(z float64) Matrix4 {
	m := Identity4()
	m.Scale(t.Scale[0], t.Scale[1], 1).RotateZ(t.Rotation).Translate(t.Position.X, t.Position.Y, z)
	return m
}

// ViewMatrix offsets by the position first, then rotates and scales about
// the origin. Cameras use it: the position is a world offset, not a
// placement.
func (t Transform) ViewMatrix() Matrix4 {
	m := Identity4()
	m.Translate(t.Position.X, t.Position.Y, 0).RotateZ(t.Rotation).Scale(t.Scale[0], t.Scale[1], 1)
	return m
}
