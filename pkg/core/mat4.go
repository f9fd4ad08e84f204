package core

import "math"

// Mat4 is a row-major 4x4 affine matrix. The bottom row is always 0 0 0 1.
type Mat4 [16]float64

// Identity returns the identity matrix
func Identity() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Translate returns a translation by offset
func Translate(offset Vec3) Mat4 {
	m := Identity()
	m[3], m[7], m[11] = offset.X, offset.Y, offset.Z
	return m
}

// Scale returns a (possibly non-uniform) scaling matrix
func Scale(s Vec3) Mat4 {
	return Mat4{s.X, 0, 0, 0, 0, s.Y, 0, 0, 0, 0, s.Z, 0, 0, 0, 0, 1}
}

// RotateX returns a rotation about the X axis by degrees
func RotateX(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return Mat4{1, 0, 0, 0, 0, c, -s, 0, 0, s, c, 0, 0, 0, 0, 1}
}

// RotateY returns a rotation about the Y axis by degrees
func RotateY(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return Mat4{c, 0, s, 0, 0, 1, 0, 0, -s, 0, c, 0, 0, 0, 0, 1}
}

// RotateZ returns a rotation about the Z axis by degrees
func RotateZ(degrees float64) Mat4 {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return Mat4{c, -s, 0, 0, s, c, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul returns m*other, which applies other first and then m
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[r*4+k] * other[k*4+c]
			}
			out[r*4+c] = sum
		}
	}
	return out
}

// Compose multiplies matrices so that the first argument is applied first
func Compose(transforms ...Mat4) Mat4 {
	out := Identity()
	for _, t := range transforms {
		out = t.Mul(out)
	}
	return out
}

// Transpose returns the transposed matrix
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c*4+r] = m[r*4+c]
		}
	}
	return out
}

// TransformPoint applies the full affine transform to a point
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		Y: m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		Z: m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// TransformVector applies only the linear part (no translation)
func (m Mat4) TransformVector(v Vec3) Vec3 {
	return Vec3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// TransformNormal maps a normal through the transpose of the linear part.
// Called on the inverse of a transform it yields the inverse-transpose,
// which keeps normals perpendicular to transformed surfaces.
func (m Mat4) TransformNormal(n Vec3) Vec3 {
	return Vec3{
		X: m[0]*n.X + m[4]*n.Y + m[8]*n.Z,
		Y: m[1]*n.X + m[5]*n.Y + m[9]*n.Z,
		Z: m[2]*n.X + m[6]*n.Y + m[10]*n.Z,
	}
}

// Determinant3 returns the determinant of the linear 3x3 part
func (m Mat4) Determinant3() float64 {
	return m[0]*(m[5]*m[10]-m[6]*m[9]) -
		m[1]*(m[4]*m[10]-m[6]*m[8]) +
		m[2]*(m[4]*m[9]-m[5]*m[8])
}

// Inverse returns the inverse matrix using Gauss-Jordan elimination with
// partial pivoting. The matrix must be invertible.
func (m Mat4) Inverse() Mat4 {
	a := Identity()
	rowEchelonInplace(&m, &a)
	backsubInplace(&m, &a)
	return a
}

func rowEchelonInplace(m, a *Mat4) {
	for k := 0; k < 4; k++ {
		// Select the row below row k with the best pivot.
		maxRow := k
		for i := k; i < 4; i++ {
			if math.Abs(m[i*4+k]) > math.Abs(m[maxRow*4+k]) {
				maxRow = i
			}
		}

		for i := 0; i < 4; i++ {
			m[k*4+i], m[maxRow*4+i] = m[maxRow*4+i], m[k*4+i]
			a[k*4+i], a[maxRow*4+i] = a[maxRow*4+i], a[k*4+i]
		}

		pivot := m[k*4+k]
		for r := k + 1; r < 4; r++ {
			scale := m[r*4+k] / pivot
			for c := k + 1; c < 4; c++ {
				m[r*4+c] -= m[k*4+c] * scale
			}
			for c := 0; c < 4; c++ {
				a[r*4+c] -= a[k*4+c] * scale
			}
			m[r*4+k] = 0.0
		}
	}
}

func backsubInplace(m, a *Mat4) {
	for k := 3; k > 0; k-- {
		// Nullify all entries above the pivot element, mirroring into a.
		for r := 0; r < k; r++ {
			scale := m[r*4+k] / m[k*4+k]
			m[r*4+k] = 0
			for c := k + 1; c < 4; c++ {
				m[r*4+c] -= m[k*4+c] * scale
			}
			for c := 0; c < 4; c++ {
				a[r*4+c] -= a[k*4+c] * scale
			}
		}
	}

	for k := 0; k < 4; k++ {
		for c := 0; c < 4; c++ {
			a[k*4+c] /= m[k*4+k]
		}
		m[k*4+k] = 1
	}
}
