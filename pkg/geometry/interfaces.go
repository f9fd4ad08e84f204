// Package geometry holds the ray-intersectable shapes, the transform
// wrapper, the bounding volume hierarchy and the camera.
//
// Every Hittable placed in a BVH must report a bounding box for the render's
// time interval; unbounded shapes such as infinite planes are not supported.
package geometry

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// Hittable interface for objects that can be hit by rays
type Hittable interface {
	// Hit returns the nearest intersection with t in [tMin, tMax]. The
	// sampler is the calling worker's random stream; most shapes ignore it.
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)

	// BoundingBox returns a box enclosing the object over [time0, time1]
	BoundingBox(time0, time1 float64) (core.AABB, bool)
}

// Light is a hittable that can also be sampled directly
type Light interface {
	Hittable
	lights.Light
}

// rectPad is the thickness given to flat shapes' bounding boxes
const rectPad = 1e-4

var inf = math.Inf(1)
