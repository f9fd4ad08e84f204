package geometry

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// Transform places an object in the world with an affine matrix.
// ObjectToWorld is the placement; WorldToObject is its cached inverse.
type Transform struct {
	Object        Hittable
	ObjectToWorld core.Mat4
	WorldToObject core.Mat4
}

// NewTransform wraps object with the placement matrix objectToWorld. Use
// core.Compose to build placements from translate, rotate and scale.
func NewTransform(object Hittable, objectToWorld core.Mat4) *Transform {
	return &Transform{
		Object:        object,
		ObjectToWorld: objectToWorld,
		WorldToObject: objectToWorld.Inverse(),
	}
}

// NewTranslate moves object by offset
func NewTranslate(object Hittable, offset core.Vec3) *Transform {
	return NewTransform(object, core.Translate(offset))
}

// NewRotateY rotates object about the Y axis by degrees
func NewRotateY(object Hittable, degrees float64) *Transform {
	return NewTransform(object, core.RotateY(degrees))
}

// toLocal maps a world ray into object space. The direction is left
// unnormalized so t means the same thing in both spaces.
func (t *Transform) toLocal(ray core.Ray) core.Ray {
	return core.NewRayAt(
		t.WorldToObject.TransformPoint(ray.Origin),
		t.WorldToObject.TransformVector(ray.Direction),
		ray.Time,
	)
}

// Hit intersects the ray with the object in its local space and maps the
// result back to world space
func (t *Transform) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	hit, ok := t.Object.Hit(t.toLocal(ray), tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	// Undo the local face correction before mapping the normal
	outward := hit.Normal
	if !hit.FrontFace {
		outward = outward.Negate()
	}

	world := *hit
	world.Point = t.ObjectToWorld.TransformPoint(hit.Point)
	world.SetFaceNormal(ray, t.WorldToObject.TransformNormal(outward).Normalize())
	if _, isMedium := t.Object.(*ConstantMedium); isMedium {
		world.FrontFace = true
	}
	return &world, true
}

// BoundingBox maps all eight corners of the local box into world space
func (t *Transform) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	box, ok := t.Object.BoundingBox(time0, time1)
	if !ok {
		return core.AABB{}, false
	}

	corners := box.Corners()
	for i := range corners {
		corners[i] = t.ObjectToWorld.TransformPoint(corners[i])
	}
	return core.NewAABBFromPoints(corners[:]...), true
}

// ProbabilityDensity evaluates the inner light's density in local space.
// Angles survive rigid and uniformly scaled placements, so the density is
// exact for those. Objects that are not lights have zero density.
func (t *Transform) ProbabilityDensity(ray core.Ray) float64 {
	light, ok := t.Object.(lights.Light)
	if !ok {
		return 0
	}
	return light.ProbabilityDensity(t.toLocal(ray))
}

// GenerateRayTowardArea samples the inner light in local space and maps the
// sample back to world space
func (t *Transform) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	light, ok := t.Object.(lights.Light)
	if !ok {
		panic("geometry: GenerateRayTowardArea on a transform of a non-light")
	}

	local := light.GenerateRayTowardArea(t.WorldToObject.TransformPoint(origin), time, sampler)
	direction := t.ObjectToWorld.TransformVector(local.Direction)
	areaScale := math.Pow(math.Abs(t.ObjectToWorld.Determinant3()), 2.0/3.0)
	return lights.AreaSample{
		Ray:       core.NewRayAt(origin, direction, time),
		Area:      local.Area * areaScale,
		Normal:    t.WorldToObject.TransformNormal(local.Normal).Normalize(),
		Direction: direction,
	}
}
