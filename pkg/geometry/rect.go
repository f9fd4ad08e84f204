package geometry

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// XYRect is an axis-aligned rectangle in the plane z = K. Its outward normal
// is +Z, or -Z when Flip is set.
type XYRect struct {
	X0, X1, Y0, Y1, K float64
	Material          material.Material
	Flip              bool
}

// XZRect is an axis-aligned rectangle in the plane y = K with normal +Y
type XZRect struct {
	X0, X1, Z0, Z1, K float64
	Material          material.Material
	Flip              bool
}

// YZRect is an axis-aligned rectangle in the plane x = K with normal +X
type YZRect struct {
	Y0, Y1, Z0, Z1, K float64
	Material          material.Material
	Flip              bool
}

// NewXYRect creates a rectangle spanning [x0,x1]×[y0,y1] at z = k
func NewXYRect(x0, x1, y0, y1, k float64, material material.Material) *XYRect {
	return &XYRect{X0: x0, X1: x1, Y0: y0, Y1: y1, K: k, Material: material}
}

// NewXZRect creates a rectangle spanning [x0,x1]×[z0,z1] at y = k
func NewXZRect(x0, x1, z0, z1, k float64, material material.Material) *XZRect {
	return &XZRect{X0: x0, X1: x1, Z0: z0, Z1: z1, K: k, Material: material}
}

// NewYZRect creates a rectangle spanning [y0,y1]×[z0,z1] at x = k
func NewYZRect(y0, y1, z0, z1, k float64, material material.Material) *YZRect {
	return &YZRect{Y0: y0, Y1: y1, Z0: z0, Z1: z1, K: k, Material: material}
}

func (r *XYRect) plane() axisRect {
	return axisRect{a0: r.X0, a1: r.X1, b0: r.Y0, b1: r.Y1, k: r.K, axisA: 0, axisB: 1, axisK: 2, material: r.Material, flip: r.Flip}
}

func (r *XZRect) plane() axisRect {
	return axisRect{a0: r.X0, a1: r.X1, b0: r.Z0, b1: r.Z1, k: r.K, axisA: 0, axisB: 2, axisK: 1, material: r.Material, flip: r.Flip}
}

func (r *YZRect) plane() axisRect {
	return axisRect{a0: r.Y0, a1: r.Y1, b0: r.Z0, b1: r.Z1, k: r.K, axisA: 1, axisB: 2, axisK: 0, material: r.Material, flip: r.Flip}
}

// Hit tests the ray against the rectangle
func (r *XYRect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return r.plane().hit(ray, tMin, tMax)
}

// BoundingBox returns the rectangle's box, padded along Z
func (r *XYRect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return r.plane().boundingBox(), true
}

// ProbabilityDensity returns the solid-angle density toward the rectangle
func (r *XYRect) ProbabilityDensity(ray core.Ray) float64 {
	return r.plane().density(ray)
}

// GenerateRayTowardArea samples a uniform point on the rectangle
func (r *XYRect) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return r.plane().sample(origin, time, sampler)
}

// Hit tests the ray against the rectangle
func (r *XZRect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return r.plane().hit(ray, tMin, tMax)
}

// BoundingBox returns the rectangle's box, padded along Y
func (r *XZRect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return r.plane().boundingBox(), true
}

// ProbabilityDensity returns the solid-angle density toward the rectangle
func (r *XZRect) ProbabilityDensity(ray core.Ray) float64 {
	return r.plane().density(ray)
}

// GenerateRayTowardArea samples a uniform point on the rectangle
func (r *XZRect) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return r.plane().sample(origin, time, sampler)
}

// Hit tests the ray against the rectangle
func (r *YZRect) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return r.plane().hit(ray, tMin, tMax)
}

// BoundingBox returns the rectangle's box, padded along X
func (r *YZRect) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return r.plane().boundingBox(), true
}

// ProbabilityDensity returns the solid-angle density toward the rectangle
func (r *YZRect) ProbabilityDensity(ray core.Ray) float64 {
	return r.plane().density(ray)
}

// GenerateRayTowardArea samples a uniform point on the rectangle
func (r *YZRect) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return r.plane().sample(origin, time, sampler)
}

// axisRect is the shared form of the three rectangle types: a rectangle
// spanning [a0,a1] on axisA and [b0,b1] on axisB, at k on axisK
type axisRect struct {
	a0, a1, b0, b1, k   float64
	axisA, axisB, axisK int
	material            material.Material
	flip                bool
}

func (r axisRect) point(a, b float64) core.Vec3 {
	var v [3]float64
	v[r.axisA], v[r.axisB], v[r.axisK] = a, b, r.k
	return core.NewVec3(v[0], v[1], v[2])
}

func (r axisRect) outwardNormal() core.Vec3 {
	var v [3]float64
	v[r.axisK] = 1
	if r.flip {
		v[r.axisK] = -1
	}
	return core.NewVec3(v[0], v[1], v[2])
}

func (r axisRect) area() float64 {
	return (r.a1 - r.a0) * (r.b1 - r.b0)
}

func (r axisRect) hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	dk := ray.Direction.Axis(r.axisK)
	if dk == 0 {
		return nil, false
	}

	t := (r.k - ray.Origin.Axis(r.axisK)) / dk
	if t < tMin || t > tMax {
		return nil, false
	}

	a := ray.Origin.Axis(r.axisA) + t*ray.Direction.Axis(r.axisA)
	b := ray.Origin.Axis(r.axisB) + t*ray.Direction.Axis(r.axisB)
	if a < r.a0 || a > r.a1 || b < r.b0 || b > r.b1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		T:        t,
		Point:    r.point(a, b),
		UV:       core.NewVec2((a-r.a0)/(r.a1-r.a0), (b-r.b0)/(r.b1-r.b0)),
		Material: r.material,
	}
	hitRecord.SetFaceNormal(ray, r.outwardNormal())
	return hitRecord, true
}

func (r axisRect) boundingBox() core.AABB {
	return core.NewAABB(r.point(r.a0, r.b0), r.point(r.a1, r.b1)).Pad(rectPad)
}

func (r axisRect) density(ray core.Ray) float64 {
	hit, ok := r.hit(ray, 0.001, inf)
	if !ok {
		return 0
	}
	distanceSquared := hit.T * hit.T * ray.Direction.LengthSquared()
	cosine := ray.Direction.Dot(r.outwardNormal()) / ray.Direction.Length()
	return lights.AreaToSolidAngle(distanceSquared, cosine, r.area())
}

func (r axisRect) sample(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	uv := sampler.Get2D()
	p := r.point(r.a0+uv.X*(r.a1-r.a0), r.b0+uv.Y*(r.b1-r.b0))
	direction := p.Subtract(origin)
	return lights.AreaSample{
		Ray:       core.NewRayAt(origin, direction, time),
		Area:      r.area(),
		Normal:    r.outwardNormal(),
		Direction: direction,
	}
}
