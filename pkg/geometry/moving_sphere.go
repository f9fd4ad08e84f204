package geometry

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// MovingSphere is a sphere whose center moves linearly from Center0 at
// Time0 to Center1 at Time1, used for motion blur
type MovingSphere struct {
	Center0, Center1 core.Vec3
	Time0, Time1     float64
	Radius           float64
	Material         material.Material
}

// NewMovingSphere creates a new moving sphere
func NewMovingSphere(center0, center1 core.Vec3, time0, time1, radius float64, material material.Material) *MovingSphere {
	return &MovingSphere{
		Center0:  center0,
		Center1:  center1,
		Time0:    time0,
		Time1:    time1,
		Radius:   radius,
		Material: material,
	}
}

// CenterAt returns the center at the given time
func (s *MovingSphere) CenterAt(time float64) core.Vec3 {
	if s.Time1 == s.Time0 {
		return s.Center0
	}
	f := (time - s.Time0) / (s.Time1 - s.Time0)
	return s.Center0.Add(s.Center1.Subtract(s.Center0).Multiply(f))
}

// Hit tests the ray against the sphere at the ray's time
func (s *MovingSphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return hitSphere(s.CenterAt(ray.Time), s.Radius, s.Material, ray, tMin, tMax)
}

// BoundingBox covers the sphere at both ends of the interval
func (s *MovingSphere) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.SurroundingBox(
		sphereBox(s.CenterAt(time0), s.Radius),
		sphereBox(s.CenterAt(time1), s.Radius),
	), true
}

// ProbabilityDensity returns the density toward the sphere at the ray's time
func (s *MovingSphere) ProbabilityDensity(ray core.Ray) float64 {
	return sphereDensity(s.CenterAt(ray.Time), s.Radius, ray)
}

// GenerateRayTowardArea samples the sphere as positioned at time
func (s *MovingSphere) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return sampleSphere(s.CenterAt(time), s.Radius, origin, time, sampler)
}
