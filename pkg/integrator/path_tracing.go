package integrator

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// ShadowAcneEpsilon is the minimum hit distance, keeping rays that leave a
// surface from hitting it again
const ShadowAcneEpsilon = 0.001

// RayColor traces ray through world for at most depth bounces. Each loop
// iteration is one bounce: throughput carries the product of attenuations
// and PDF weights so far, radiance the light gathered.
func RayColor(ray core.Ray, world *scene.World, depth int, sampler core.Sampler) core.Color {
	return trace(ray, world, depth, 0, sampler)
}

// trace is RayColor with optional Russian roulette after rrMinBounces
// bounces; 0 disables it
func trace(ray core.Ray, world *scene.World, depth, rrMinBounces int, sampler core.Sampler) core.Color {
	throughput := core.White
	radiance := core.Black
	lights := world.LightList()

	for bounce := 0; bounce < depth; bounce++ {
		hit, isHit := world.NearestHit(ray, ShadowAcneEpsilon, math.Inf(1), sampler)
		if !isHit {
			return radiance.Add(throughput.Mul(world.BackgroundColor(ray)))
		}

		if emitted, ok := hit.Material.Emit(ray, hit); ok {
			return radiance.Add(throughput.Mul(emitted))
		}

		scatter, ok := hit.Material.Scatter(ray, hit, lights, sampler)
		if !ok {
			return radiance
		}

		if scatter.IsSpecular() {
			throughput = throughput.Mul(scatter.Attenuation)
			ray = *scatter.SpecularRay
		} else {
			direction := scatter.PDF.Generate(sampler)
			next := core.NewRayAt(hit.Point, direction, ray.Time)
			pdfValue := scatter.PDF.Value(direction)
			scatteringPDF := hit.Material.ScatteringPDF(ray, hit, next)
			if scatteringPDF == 0 || pdfValue <= 0 {
				return radiance
			}
			throughput = throughput.Mul(scatter.Attenuation).Scale(scatteringPDF / pdfValue)
			ray = next
		}

		if rrMinBounces > 0 && bounce+1 >= rrMinBounces {
			survive, compensation := russianRoulette(throughput, sampler)
			if !survive {
				return radiance
			}
			throughput = throughput.Scale(compensation)
		}
	}

	return radiance
}

// russianRoulette randomly ends low-throughput paths and reports the
// compensation factor that keeps the estimate unbiased
func russianRoulette(throughput core.Color, sampler core.Sampler) (bool, float64) {
	// Conservative bounds: compensation stays between 1.05x and 2.0x
	survivalProb := math.Min(0.95, math.Max(0.5, throughput.Luminance()))
	if sampler.Get1D() > survivalProb {
		return false, 0
	}
	return true, 1.0 / survivalProb
}

// PathTracingIntegrator implements unidirectional path tracing with
// light-importance sampling through the materials' PDFs
type PathTracingIntegrator struct {
	config scene.SamplingConfig
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(config scene.SamplingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		config: config,
	}
}

// RayColor computes one radiance sample using the configured depth and
// Russian roulette settings
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Color {
	return trace(ray, world, pt.config.MaxDepth, pt.config.RussianRouletteMinBounces, sampler)
}
