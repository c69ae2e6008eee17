package geom

import "math"

// Matrix4 is a 4x4 homogeneous transform using the same row-vector
// convention as Matrix3: p' = p·M, translation in elements 12..14.
// Uploaded as-is, the memory layout is what a column-major shader expects.
//
// The zero value is not the identity; use Identity4.
type Matrix4 [16]float64

func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Translation4(tx, ty, tz float64) Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		tx, ty, tz, 1,
	}
}

// RotationZ4 rotates counter-clockwise around the Z axis.
func RotationZ4(theta float64) Matrix4 {
	s, c := math.Sincos(theta)
	return Matrix4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

func Scaling4(sx, sy, sz float64) Matrix4 {
	return Matrix4{
		sx, 0, 0, 0,
		0, sy, 0, 0,
		0, 0, sz, 0,
		0, 0, 0, 1,
	}
}

// Ortho builds an off-center orthographic projection onto clip space with
// a 0..1 depth range. Passing bottom < top keeps world Y pointing up.
func Ortho(left, right, bottom, top, near, far float64) Matrix4 {
	return Matrix4{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, 1 / (near - far), 0,
		(right + left) / (left - right), (top + bottom) / (bottom - top), near / (near - far), 1,
	}
}

// Multiply4 returns a·b as a new matrix: a is applied first, then b.
func Multiply4(a, b Matrix4) Matrix4 {
	return mul4(a, b)
}

func mul4(a, b Matrix4) Matrix4 {
	var dst Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			dst[r*4+c] = a[r*4+0]*b[0*4+c] +
				a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] +
				a[r*4+3]*b[3*4+c]
		}
	}
	return dst
}

func (m *Matrix4) Reset() *Matrix4 {
	*m = Identity4()
	return m
}

// Multiply sets m = m·o.
func (m *Matrix4) Multiply(o *Matrix4) *Matrix4 {
	*m = mul4(*m, *o)
	return m
}

func (m *Matrix4) Translate(tx, ty, tz float64) *Matrix4 {
	t := Translation4(tx, ty, tz)
	return m.Multiply(&t)
}

func (m *Matrix4) RotateZ(theta float64) *Matrix4 {
	r := RotationZ4(theta)
	return m.Multiply(&r)
}

func (m *Matrix4) Scale(sx, sy, sz float64) *Matrix4 {
	s := Scaling4(sx, sy, sz)
	return m.Multiply(&s)
}

func (m Matrix4) At(row, col int) float64 {
	return m[row*4+col]
}

func (m Matrix4) Determinant() float64 {
	b := m.cofactorPairs()
	return b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
}

func (m Matrix4) cofactorPairs() [12]float64 {
	return [12]float64{
		m[0]*m[5] - m[1]*m[4],
		m[0]*m[6] - m[2]*m[4],
		m[0]*m[7] - m[3]*m[4],
		m[1]*m[6] - m[2]*m[5],
		m[1]*m[7] - m[3]*m[5],
		m[2]*m[7] - m[3]*m[6],
		m[8]*m[13] - m[9]*m[12],
		m[8]*m[14] - m[10]*m[12],
		m[8]*m[15] - m[11]*m[12],
		m[9]*m[14] - m[10]*m[13],
		m[9]*m[15] - m[11]*m[13],
		m[10]*m[15] - m[11]*m[14],
	}
}

// Inverse returns the adjugate divided by the determinant. A singular
// matrix is not reported: its inverse is full of Inf and NaN.
func (m Matrix4) Inverse() Matrix4 {
	b := m.cofactorPairs()
	det := b[0]*b[11] - b[1]*b[10] + b[2]*b[9] + b[3]*b[8] - b[4]*b[7] + b[5]*b[6]
	inv := 1 / det

	return Matrix4{
		(m[5]*b[11] - m[6]*b[10] + m[7]*b[9]) * inv,
		(m[2]*b[10] - m[1]*b[11] - m[3]*b[9]) * inv,
		(m[13]*b[5] - m[14]*b[4] + m[15]*b[3]) * inv,
		(m[10]*b[4] - m[9]*b[5] - m[11]*b[3]) * inv,

		(m[6]*b[8] - m[4]*b[11] - m[7]*b[7]) * inv,
		(m[0]*b[11] - m[2]*b[8] + m[3]*b[7]) * inv,
		(m[14]*b[2] - m[12]*b[5] - m[15]*b[1]) * inv,
		(m[8]*b[5] - m[10]*b[2] + m[11]*b[1]) * inv,

		(m[4]*b[10] - m[5]*b[8] + m[7]*b[6]) * inv,
		(m[1]*b[8] - m[0]*b[10] - m[3]*b[6]) * inv,
		(m[12]*b[4] - m[13]*b[2] + m[15]*b[0]) * inv,
		(m[9]*b[2] - m[8]*b[4] - m[11]*b[0]) * inv,

		(m[5]*b[7] - m[4]*b[9] - m[6]*b[6]) * inv,
		(m[0]*b[9] - m[1]*b[7] + m[2]*b[6]) * inv,
		(m[13]*b[1] - m[12]*b[3] - m[14]*b[0]) * inv,
		(m[8]*b[3] - m[9]*b[1] + m[10]*b[0]) * inv,
	}
}

// TransformPoint applies m to (x, y, z, 1) and returns x and y after the
// perspective divide (w is 1 for every affine or orthographic matrix).
func (m Matrix4) TransformPoint(p Vector2, z float64) Vector2 {
	x := p.X*m[0] + p.Y*m[4] + z*m[8] + m[12]
	y := p.X*m[1] + p.Y*m[5] + z*m[9] + m[13]
	w := p.X*m[3] + p.Y*m[7] + z*m[11] + m[15]
	return Vector2{X: x / w, Y: y / w}
}

// Affine drops Z and W and returns the remaining 2D affine part.
func (m Matrix4) Affine() Affine {
	return Affine{A: m[0], B: m[1], C: m[4], D: m[5], TX: m[12], TY: m[13]}
}

// Float32 converts m for uniform upload.
func (m Matrix4) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func (m Matrix4) Equal(o Matrix4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Affine is a 2D affine map in column-vector form:
//
//	x' = A*x + C*y + TX
//	y' = B*x + D*y + TY
type Affine struct {
	A, B, C, D, TX, TY float64
}

func (a Affine) Apply(p Vector2) Vector2 {
	return Vector2{
		X: a.A*p.X + a.C*p.Y + a.TX,
		Y: a.B*p.X + a.D*p.Y + a.TY,
	}
}
