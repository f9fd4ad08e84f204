// Package lights defines how emitters are sampled directly. Shapes that can
// act as lights implement Light; LightPDF turns a set of them into a
// direction distribution for next-event estimation.
package lights

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// Light interface for objects that can be sampled for direct lighting
type Light interface {
	// ProbabilityDensity returns the solid-angle density of hitting this
	// light with a ray fired from ray.Origin along ray.Direction
	ProbabilityDensity(ray core.Ray) float64

	// GenerateRayTowardArea samples a point on the light surface and returns
	// the ray from origin toward it
	GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) AreaSample
}

// AreaSample describes a sampled point on a light's surface
type AreaSample struct {
	Ray       core.Ray  // From the shading point toward the sample
	Area      float64   // Total area of the light surface
	Normal    core.Vec3 // Surface normal at the sample
	Direction core.Vec3 // Ray direction, origin to sample point (not normalized)
}

// AreaToSolidAngle converts a uniform area density into a solid-angle density:
// distance² / (|cos θ| * area). Edge-on or zero-area lights give zero.
func AreaToSolidAngle(distanceSquared, cosine, area float64) float64 {
	cosine = math.Abs(cosine)
	if cosine < 1e-8 || area <= 0 {
		return 0
	}
	return distanceSquared / (cosine * area)
}
