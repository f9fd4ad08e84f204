// Package scene assembles hittables, lights, a camera and a background into
// a render-ready World, and holds the registry of built-in scenarios.
package scene

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
	"golang.org/x/xerrors"
)

// SamplingConfig contains a scenario's preferred rendering settings
type SamplingConfig struct {
	SamplesPerPixel           int     // Number of rays per pixel
	MaxDepth                  int     // Maximum ray bounce depth
	RussianRouletteMinBounces int     // Bounces before Russian roulette may end a path; 0 disables it
	AdaptiveMinSamples        float64 // Minimum samples as a fraction of SamplesPerPixel (0.0-1.0)
	AdaptiveThreshold         float64 // Relative error at which a pixel counts as converged; 0 disables
}

// DefaultSamplingConfig is used when a scenario leaves fields unset
var DefaultSamplingConfig = SamplingConfig{
	SamplesPerPixel:    100,
	MaxDepth:           50,
	AdaptiveMinSamples: 0.15,
	AdaptiveThreshold:  0.01,
}

// WorldInfo is an unaccelerated scene description. Lights must also appear
// in Objects to be visible; AddLight does both.
type WorldInfo struct {
	Name           string
	Objects        []geometry.Hittable
	Lights         []geometry.Light
	Background     Background
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
}

// Add appends visible objects
func (w *WorldInfo) Add(objects ...geometry.Hittable) {
	w.Objects = append(w.Objects, objects...)
}

// AddLight appends an object that is both visible and sampled directly
func (w *WorldInfo) AddLight(light geometry.Light) {
	w.Objects = append(w.Objects, light)
	w.Lights = append(w.Lights, light)
}

// World is a render-ready scene. It is immutable once built and safe for
// concurrent reads.
type World struct {
	Name           string
	BVH            *geometry.BVH
	Lights         []geometry.Light
	Background     Background
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig

	lightList []lights.Light
}

// BuildWorld validates the description and builds the BVH
func (w *WorldInfo) BuildWorld() (*World, error) {
	if len(w.Objects) == 0 {
		return nil, xerrors.Errorf("while building world %q: no objects", w.Name)
	}
	if w.CameraConfig.AspectRatio <= 0 {
		return nil, xerrors.Errorf("while building world %q: aspect ratio %v must be positive", w.Name, w.CameraConfig.AspectRatio)
	}
	if w.CameraConfig.Center == w.CameraConfig.LookAt {
		return nil, xerrors.Errorf("while building world %q: camera center equals look-at point", w.Name)
	}

	time0, time1 := w.CameraConfig.Time0, w.CameraConfig.Time1
	for i, object := range w.Objects {
		if _, ok := object.BoundingBox(time0, time1); !ok {
			return nil, xerrors.Errorf("while building world %q: object %d (%T) has no bounding box", w.Name, i, object)
		}
	}

	background := w.Background
	if background == nil {
		background = NewConstantColor(core.Black)
	}

	world := &World{
		Name:           w.Name,
		BVH:            geometry.NewBVH(w.Objects, time0, time1),
		Lights:         w.Lights,
		Background:     background,
		Camera:         geometry.NewCamera(w.CameraConfig),
		CameraConfig:   w.CameraConfig,
		SamplingConfig: mergeSamplingConfig(w.SamplingConfig),
	}
	for _, light := range w.Lights {
		world.lightList = append(world.lightList, light)
	}
	return world, nil
}

func mergeSamplingConfig(c SamplingConfig) SamplingConfig {
	if c.SamplesPerPixel <= 0 {
		c.SamplesPerPixel = DefaultSamplingConfig.SamplesPerPixel
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultSamplingConfig.MaxDepth
	}
	return c
}

// NearestHit returns the closest intersection in [tMin, tMax]
func (w *World) NearestHit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return w.BVH.Hit(ray, tMin, tMax, sampler)
}

// NearestLightHit returns the closest intersection with a light, ignoring
// every other object
func (w *World) NearestLightHit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax
	for _, light := range w.Lights {
		if hit, ok := light.Hit(ray, tMin, closestSoFar, sampler); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

// LightList returns the lights in the form materials sample them
func (w *World) LightList() []lights.Light {
	return w.lightList
}

// BackgroundColor returns the radiance for an escaped ray
func (w *World) BackgroundColor(ray core.Ray) core.Color {
	return w.Background.Color(ray)
}

// Stats summarizes the world for logging
func (w *World) Stats() geometry.BVHStats {
	return w.BVH.Stats()
}
