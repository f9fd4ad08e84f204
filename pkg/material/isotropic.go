package material

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/pdf"
)

// Isotropic is the phase function of a participating medium: it scatters
// uniformly in every direction.
type Isotropic struct {
	noEmission
	Albedo Texture

	// Sampled makes Scatter return a PDF mixed with light sampling
	// instead of a specular ray.
	Sampled bool
}

// NewIsotropic creates a phase function with a solid albedo
func NewIsotropic(albedo core.Color) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates a phase function with a textured albedo
func NewTexturedIsotropic(albedo Texture) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// NewSampledIsotropic creates a phase function that samples lights from inside the medium
func NewSampledIsotropic(albedo Texture) *Isotropic {
	return &Isotropic{Albedo: albedo, Sampled: true}
}

// Scatter sends the ray in a uniformly random direction
func (i *Isotropic) Scatter(rayIn core.Ray, hit *HitRecord, sceneLights []lights.Light, sampler core.Sampler) (ScatterRecord, bool) {
	attenuation := i.Albedo.Evaluate(hit.UV, hit.Point)

	if i.Sampled {
		var p pdf.PDF = pdf.IsotropicPDF{}
		if len(sceneLights) > 0 {
			p = pdf.NewMixturePDF(p, lights.NewLightPDF(sceneLights, hit.Point, rayIn.Time))
		}
		return ScatterRecord{Attenuation: attenuation, PDF: p}, true
	}

	scattered := core.NewRayAt(hit.Point, core.RandomUnitVector(sampler), rayIn.Time)
	return ScatterRecord{
		SpecularRay: &scattered,
		Attenuation: attenuation,
	}, true
}

// ScatteringPDF returns the uniform sphere density 1/4π
func (i *Isotropic) ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64 {
	return 1 / (4 * math.Pi)
}
