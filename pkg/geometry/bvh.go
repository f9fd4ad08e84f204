package geometry

import (
	"sort"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Objects     []Hittable // One or two objects for leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root *BVHNode
}

// bvhEntry caches an object's box for the duration of the build
type bvhEntry struct {
	object   Hittable
	box      core.AABB
	centroid core.Vec3
}

// NewBVH builds a hierarchy over objects using their boxes for
// [time0, time1]. It panics when objects is empty or when an object has no
// bounding box.
func NewBVH(objects []Hittable, time0, time1 float64) *BVH {
	if len(objects) == 0 {
		panic("geometry: NewBVH called with no objects")
	}

	entries := make([]bvhEntry, len(objects))
	for i, object := range objects {
		box, ok := object.BoundingBox(time0, time1)
		if !ok {
			panic("geometry: NewBVH object has no bounding box")
		}
		entries[i] = bvhEntry{object: object, box: box, centroid: box.Center()}
	}

	return &BVH{Root: buildBVH(entries)}
}

// buildBVH splits entries at the median of the axis with the widest
// centroid spread. One or two entries make a leaf.
func buildBVH(entries []bvhEntry) *BVHNode {
	if len(entries) <= 2 {
		node := &BVHNode{BoundingBox: entries[0].box}
		for _, e := range entries {
			node.Objects = append(node.Objects, e.object)
			node.BoundingBox = core.SurroundingBox(node.BoundingBox, e.box)
		}
		return node
	}

	centroidBounds := core.NewAABB(entries[0].centroid, entries[0].centroid)
	for _, e := range entries[1:] {
		centroidBounds = centroidBounds.Union(core.NewAABB(e.centroid, e.centroid))
	}
	axis := centroidBounds.LongestAxis()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].centroid.Axis(axis) < entries[j].centroid.Axis(axis)
	})

	mid := len(entries) / 2
	left := buildBVH(entries[:mid])
	right := buildBVH(entries[mid:])

	return &BVHNode{
		BoundingBox: core.SurroundingBox(left.BoundingBox, right.BoundingBox),
		Left:        left,
		Right:       right,
	}
}

// Hit returns the nearest intersection in the hierarchy
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return bvh.Root.hit(ray, tMin, tMax, sampler)
}

// BoundingBox returns the root box
func (bvh *BVH) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return bvh.Root.BoundingBox, true
}

func (node *BVHNode) hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Objects != nil {
		var closest *material.HitRecord
		closestSoFar := tMax
		for _, object := range node.Objects {
			if hit, ok := object.Hit(ray, tMin, closestSoFar, sampler); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	leftHit, hitLeft := node.Left.hit(ray, tMin, tMax, sampler)
	if hitLeft {
		tMax = leftHit.T
	}
	if rightHit, hitRight := node.Right.hit(ray, tMin, tMax, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BVHStats summarizes the shape of a hierarchy
type BVHStats struct {
	TotalNodes   int
	LeafNodes    int
	TotalObjects int
	MaxDepth     int
}

// Stats walks the hierarchy and collects node counts and depth
func (bvh *BVH) Stats() BVHStats {
	var stats BVHStats
	collectStats(bvh.Root, 1, &stats)
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	if node == nil {
		return
	}
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if node.Objects != nil {
		stats.LeafNodes++
		stats.TotalObjects += len(node.Objects)
		return
	}
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
