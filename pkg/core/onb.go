package core

import "math"

// ONB is an orthonormal basis with W along a chosen direction
type ONB struct {
	U, V, W Vec3
}

// NewONB builds a basis whose W axis is the normalized n
func NewONB(n Vec3) ONB {
	w := n.Normalize()
	var a Vec3
	if math.Abs(w.X) > 0.9 {
		a = NewVec3(0, 1, 0)
	} else {
		a = NewVec3(1, 0, 0)
	}
	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return ONB{U: u, V: v, W: w}
}

// Local maps coordinates expressed in the basis into world space
func (b ONB) Local(a Vec3) Vec3 {
	return b.U.Multiply(a.X).Add(b.V.Multiply(a.Y)).Add(b.W.Multiply(a.Z))
}
