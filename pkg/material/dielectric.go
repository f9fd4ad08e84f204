package material

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
)

// Dielectric represents a transparent material like glass that can both reflect and refract
type Dielectric struct {
	noEmission
	specularOnly
	RefractiveIndex float64    // Index of refraction (e.g., 1.5 for glass)
	Color           core.Color // Attenuation applied on every bounce
}

// NewDielectric creates a clear dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return NewTintedDielectric(refractiveIndex, core.White)
}

// NewTintedDielectric creates a dielectric that tints transmitted light
func NewTintedDielectric(refractiveIndex float64, color core.Color) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex, Color: color}
}

// Scatter reflects or refracts, choosing by Schlick reflectance. It always scatters.
func (d *Dielectric) Scatter(rayIn core.Ray, hit *HitRecord, sceneLights []lights.Light, sampler core.Sampler) (ScatterRecord, bool) {
	var refractionRatio float64
	if hit.FrontFace {
		refractionRatio = 1.0 / d.RefractiveIndex // Ray is entering the material
	} else {
		refractionRatio = d.RefractiveIndex // Ray is exiting the material
	}

	unitDirection := rayIn.Direction.Normalize()

	cosTheta := math.Min(-unitDirection.Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	// Total internal reflection
	cannotRefract := refractionRatio*sinTheta > 1.0

	var direction core.Vec3
	if cannotRefract || Reflectance(cosTheta, refractionRatio) > sampler.Get1D() {
		direction = reflectVector(unitDirection, hit.Normal)
	} else {
		direction = refractVector(unitDirection, hit.Normal, refractionRatio)
	}

	scattered := core.NewRayAt(hit.Point, direction, rayIn.Time)
	return ScatterRecord{
		SpecularRay: &scattered,
		Attenuation: d.Color,
	}, true
}

// refractVector calculates the refraction of a vector using Snell's law
func refractVector(uv, n core.Vec3, etaiOverEtat float64) core.Vec3 {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel)
}

// Reflectance calculates the Fresnel reflectance using Schlick's approximation
func Reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
