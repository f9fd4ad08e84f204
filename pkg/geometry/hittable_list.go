package geometry

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// HittableList is a linear collection of hittables. As a light it is a
// uniform mixture over the members that are lights.
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list from objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends an object to the list
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
}

// Hit tests every object and keeps the closest hit
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.Objects {
		if hit, ok := object.Hit(ray, tMin, closestSoFar, sampler); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	return closest, closest != nil
}

// BoundingBox returns the union of all member boxes. It reports false when
// the list is empty or any member is unbounded.
func (l *HittableList) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	if len(l.Objects) == 0 {
		return core.AABB{}, false
	}

	var result core.AABB
	for i, object := range l.Objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			return core.AABB{}, false
		}
		if i == 0 {
			result = box
		} else {
			result = core.SurroundingBox(result, box)
		}
	}
	return result, true
}

func (l *HittableList) lights() []lights.Light {
	var result []lights.Light
	for _, object := range l.Objects {
		if light, ok := object.(lights.Light); ok {
			result = append(result, light)
		}
	}
	return result
}

// ProbabilityDensity returns the mean density over the member lights
func (l *HittableList) ProbabilityDensity(ray core.Ray) float64 {
	members := l.lights()
	if len(members) == 0 {
		return 0
	}
	sum := 0.0
	for _, light := range members {
		sum += light.ProbabilityDensity(ray)
	}
	return sum / float64(len(members))
}

// GenerateRayTowardArea samples a uniformly chosen member light
func (l *HittableList) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	members := l.lights()
	if len(members) == 0 {
		panic("geometry: GenerateRayTowardArea on a list with no lights")
	}
	return members[core.RandomInt(sampler, len(members))].GenerateRayTowardArea(origin, time, sampler)
}
