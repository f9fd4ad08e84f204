package geometry

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// ConstantMedium is a volume of uniform density bounded by a closed shape.
// Rays passing through scatter at an exponentially distributed depth.
type ConstantMedium struct {
	Boundary      Hittable
	PhaseFunction material.Material
	negInvDensity float64
}

// NewConstantMedium creates a medium filling boundary with the given
// density and a colored isotropic phase function
func NewConstantMedium(boundary Hittable, density float64, albedo core.Color) *ConstantMedium {
	return NewConstantMediumWithPhase(boundary, density, material.NewIsotropic(albedo))
}

// NewConstantMediumWithPhase creates a medium with an explicit phase material
func NewConstantMediumWithPhase(boundary Hittable, density float64, phase material.Material) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		PhaseFunction: phase,
		negInvDensity: -1 / density,
	}
}

// Density returns the medium's density
func (m *ConstantMedium) Density() float64 {
	return -1 / m.negInvDensity
}

// Hit finds where the ray enters and leaves the boundary and samples a
// free-flight distance between them. The sampler must not be nil.
func (m *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	entry, ok := m.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := m.Boundary.Hit(ray, entry.T+0.0001, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	t1 := max(entry.T, tMin)
	t2 := min(exit.T, tMax)
	if t1 >= t2 {
		return nil, false
	}
	t1 = max(t1, 0)

	rayLength := ray.Direction.Length()
	distanceInside := (t2 - t1) * rayLength
	hitDistance := m.negInvDensity * math.Log(sampler.Get1D())
	if hitDistance > distanceInside {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	return &material.HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0),
		FrontFace: true,
		Material:  m.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's box
func (m *ConstantMedium) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return m.Boundary.BoundingBox(time0, time1)
}
