package geometry

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// RenderBox is an axis-aligned box made of six rectangles. Rotated boxes
// are built by wrapping one in a Transform.
type RenderBox struct {
	Min, Max core.Vec3
	Material material.Material
	sides    HittableList
}

// NewRenderBox creates a box spanning the corners p0 and p1. Faces on the
// min side of each axis are flipped so every normal points outward.
func NewRenderBox(p0, p1 core.Vec3, material material.Material) *RenderBox {
	b := core.NewAABB(p0, p1)
	lo, hi := b.Min, b.Max

	box := &RenderBox{Min: lo, Max: hi, Material: material}
	box.sides = HittableList{Objects: []Hittable{
		&XYRect{X0: lo.X, X1: hi.X, Y0: lo.Y, Y1: hi.Y, K: hi.Z, Material: material},
		&XYRect{X0: lo.X, X1: hi.X, Y0: lo.Y, Y1: hi.Y, K: lo.Z, Material: material, Flip: true},
		&XZRect{X0: lo.X, X1: hi.X, Z0: lo.Z, Z1: hi.Z, K: hi.Y, Material: material},
		&XZRect{X0: lo.X, X1: hi.X, Z0: lo.Z, Z1: hi.Z, K: lo.Y, Material: material, Flip: true},
		&YZRect{Y0: lo.Y, Y1: hi.Y, Z0: lo.Z, Z1: hi.Z, K: hi.X, Material: material},
		&YZRect{Y0: lo.Y, Y1: hi.Y, Z0: lo.Z, Z1: hi.Z, K: lo.X, Material: material, Flip: true},
	}}
	return box
}

// Hit returns the nearest hit among the six sides
func (b *RenderBox) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return b.sides.Hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the box itself
func (b *RenderBox) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return core.NewAABB(b.Min, b.Max), true
}

// ProbabilityDensity returns the mixture density over the six sides
func (b *RenderBox) ProbabilityDensity(ray core.Ray) float64 {
	return b.sides.ProbabilityDensity(ray)
}

// GenerateRayTowardArea samples a uniformly chosen side
func (b *RenderBox) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	return b.sides.GenerateRayTowardArea(origin, time, sampler)
}
