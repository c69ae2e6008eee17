package geom

import "math"

// Matrix3 is a 2D homogeneous transform stored row by row. Points are row
// vectors (p' = p·M), so the translation lives in the last row and
// m.Translate(...).Rotate(...) applies the translation first.
//
// The zero value is not the identity; use Identity3.
type Matrix3 [9]float64

func Identity3() Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

func Translation3(tx, ty float64) Matrix3 {
	return Matrix3{
		1, 0, 0,
		0, 1, 0,
		tx, ty, 1,
	}
}

func Rotation3(theta float64) Matrix3 {
	s, c := math.Sincos(theta)
	return Matrix3{
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	}
}

func Scaling3(sx, sy float64) Matrix3 {
	return Matrix3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Projection3 maps pixel coordinates of a width x height surface to clip
// space with Y pointing down (0 at the top edge).
func Projection3(width, height float64) Matrix3 {
	return Matrix3{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}

// Multiply3 returns a·b as a new matrix: a is applied first, then b.
func Multiply3(a, b Matrix3) Matrix3 {
	return mul3(a, b)
}

func mul3(a, b Matrix3) Matrix3 {
	var dst Matrix3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			dst[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return dst
}

// Reset turns m back into the identity.
func (m *Matrix3) Reset() *Matrix3 {
	*m = Identity3()
	return m
}

// Multiply sets m = m·o.
func (m *Matrix3) Multiply(o *Matrix3) *Matrix3 {
	*m = mul3(*m, *o)
	return m
}

func (m *Matrix3) Translate(tx, ty float64) *Matrix3 {
	t := Translation3(tx, ty)
	return m.Multiply(&t)
}

func (m *Matrix3) Rotate(theta float64) *Matrix3 {
	r := Rotation3(theta)
	return m.Multiply(&r)
}

func (m *Matrix3) Scale(sx, sy float64) *Matrix3 {
	s := Scaling3(sx, sy)
	return m.Multiply(&s)
}

func (m Matrix3) At(row, col int) float64 {
	return m[row*3+col]
}

// TransformPoint applies m to the point p.
func (m Matrix3) TransformPoint(p Vector2) Vector2 {
	return Vector2{
		X: p.X*m[0] + p.Y*m[3] + m[6],
		Y: p.X*m[1] + p.Y*m[4] + m[7],
	}
}

// Padded returns the 12 float layout a GPU mat3x3 uniform expects: each row
// padded to a vec4.
func (m Matrix3) Padded() [12]float32 {
	var out [12]float32
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*4+c] = float32(m[r*3+c])
		}
	}
	return out
}

// Equal reports whether every element of m and o differs by at most eps.
func (m Matrix3) Equal(o Matrix3, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
