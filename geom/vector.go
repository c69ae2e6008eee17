package geom

import (
	"fmt"
	"math"
)

// Vector2 is a 2D vector. Mutating methods change the receiver and return it
// so calls can be chained; Clone first when the original must survive.
type Vector2 struct {
	X, Y float64
}

// Vec2 is shorthand for Vector2{X: x, Y: y}.
func Vec2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Vector2FromSlice builds a vector from a two element slice.
func Vector2FromSlice(s []float64) (Vector2, error) {
	if len(s) != 2 {
		return Vector2{}, fmt.Errorf("geom: vector needs 2 elements, got %d", len(s))
	}
	return Vector2{X: s[0], Y: s[1]}, nil
}

func (v Vector2) Clone() Vector2 {
	return v
}

func (v *Vector2) Add(o Vector2) *Vector2 {
	v.X += o.X
	v.Y += o.Y
	return v
}

func (v *Vector2) Subtract(o Vector2) *Vector2 {
	v.X -= o.X
	v.Y -= o.Y
	return v
}

func (v *Vector2) Multiply(amount float64) *Vector2 {
	v.X *= amount
	v.Y *= amount
	return v
}

func (v Vector2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize scales v to unit length. A zero vector becomes NaN; callers that
// can see zero input must check Length first.
func (v *Vector2) Normalize() *Vector2 {
	l := v.Length()
	v.X /= l
	v.Y /= l
	return v
}

// Sub returns v-o without touching either operand.
func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Plus returns v+o without touching either operand.
func (v Vector2) Plus(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
