// Package integrator estimates the radiance arriving along camera rays.
package integrator

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor returns one radiance sample for ray. The result may be
	// non-finite; callers filter such samples.
	RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Color
}
