package lights

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// LightPDF samples directions toward a set of lights, choosing a light
// uniformly. Its density is the mean of the per-light densities.
type LightPDF struct {
	lights []Light
	origin core.Vec3
	time   float64
}

// NewLightPDF creates a light-sampling PDF seen from origin at the given time
func NewLightPDF(lights []Light, origin core.Vec3, time float64) *LightPDF {
	return &LightPDF{lights: lights, origin: origin, time: time}
}

// Value returns the uniform mixture of the lights' densities along direction
func (p *LightPDF) Value(direction core.Vec3) float64 {
	if len(p.lights) == 0 {
		return 0
	}
	ray := core.NewRayAt(p.origin, direction, p.time)
	sum := 0.0
	for _, light := range p.lights {
		sum += light.ProbabilityDensity(ray)
	}
	return sum / float64(len(p.lights))
}

// Generate picks a light uniformly and returns a direction toward a point on it
func (p *LightPDF) Generate(sampler core.Sampler) core.Vec3 {
	light := p.lights[core.RandomInt(sampler, len(p.lights))]
	return light.GenerateRayTowardArea(p.origin, p.time, sampler).Direction
}
