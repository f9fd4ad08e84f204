package geometry

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return hitSphere(s.Center, s.Radius, s.Material, ray, tMin, tMax)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return sphereBox(s.Center, s.Radius), true
}

// ProbabilityDensity returns the solid-angle density of GenerateRayTowardArea
// producing ray's direction
func (s *Sphere) ProbabilityDensity(ray core.Ray) float64 {
	return sphereDensity(s.Center, s.Radius, ray)
}

// GenerateRayTowardArea samples the sphere as seen from origin
func (s *Sphere) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return sampleSphere(s.Center, s.Radius, origin, time, sampler)
}

// hitSphere solves |O + tD - C|² = r² and fills a hit record for the
// nearest root inside [tMin, tMax]
func hitSphere(center core.Vec3, radius float64, mat material.Material, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - radius*radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		T:        root,
		Point:    ray.At(root),
		Material: mat,
	}

	outwardNormal := hitRecord.Point.Subtract(center).Multiply(1.0 / radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)

	return hitRecord, true
}

// sphereUV maps a point on the unit sphere to [0,1]²: u from the angle
// around Y starting at -X, v from -Y to +Y
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(max(-1, min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

func sphereBox(center core.Vec3, radius float64) core.AABB {
	r := math.Abs(radius)
	extent := core.NewVec3(r, r, r)
	return core.NewAABB(center.Subtract(extent), center.Add(extent))
}

// sphereDensity is the density of sampleSphere. From outside, directions are
// uniform over the cone the sphere subtends; from inside, points are uniform
// over the surface area.
func sphereDensity(center core.Vec3, radius float64, ray core.Ray) float64 {
	hit, ok := hitSphere(center, radius, nil, ray, 0.001, math.Inf(1))
	if !ok {
		return 0
	}

	distanceSquared := center.Subtract(ray.Origin).LengthSquared()
	if distanceSquared <= radius*radius {
		toHit := hit.Point.Subtract(ray.Origin)
		cosine := hit.Normal.Dot(toHit.Normalize())
		return lights.AreaToSolidAngle(toHit.LengthSquared(), cosine, 4*math.Pi*radius*radius)
	}

	cosThetaMax := math.Sqrt(1 - radius*radius/distanceSquared)
	return core.UniformConePDF(cosThetaMax)
}

func sampleSphere(center core.Vec3, radius float64, origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	area := 4 * math.Pi * radius * radius
	toCenter := center.Subtract(origin)
	distanceSquared := toCenter.LengthSquared()

	var point core.Vec3
	if distanceSquared <= radius*radius {
		point = center.Add(core.SampleOnUnitSphere(sampler.Get2D()).Multiply(radius))
	} else {
		cosThetaMax := math.Sqrt(1 - radius*radius/distanceSquared)
		dir := core.SampleCone(toCenter.Normalize(), cosThetaMax, sampler.Get2D())
		if hit, ok := hitSphere(center, radius, nil, core.NewRay(origin, dir), 0, math.Inf(1)); ok {
			point = hit.Point
		} else {
			// Grazing cone edge; project onto the silhouette
			point = center.Add(dir.Subtract(toCenter.Normalize().Multiply(dir.Dot(toCenter.Normalize()))).Normalize().Multiply(radius))
		}
	}

	direction := point.Subtract(origin)
	return lights.AreaSample{
		Ray:       core.NewRayAt(origin, direction, time),
		Area:      area,
		Normal:    point.Subtract(center).Multiply(1 / radius),
		Direction: direction,
	}
}
