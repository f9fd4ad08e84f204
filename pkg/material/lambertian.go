package material

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/pdf"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	noEmission
	Albedo Texture // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Color) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture Texture) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter always succeeds. The returned PDF mixes cosine-weighted hemisphere
// sampling with sampling toward the lights when there are any.
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, sceneLights []lights.Light, sampler core.Sampler) (ScatterRecord, bool) {
	var p pdf.PDF = pdf.NewLambertianPDF(hit.Normal)
	if len(sceneLights) > 0 {
		p = pdf.NewMixturePDF(pdf.NewCosinePDF(hit.Normal), lights.NewLightPDF(sceneLights, hit.Point, rayIn.Time))
	}

	return ScatterRecord{
		Attenuation: l.Albedo.Evaluate(hit.UV, hit.Point),
		PDF:         p,
	}, true
}

// ScatteringPDF returns cos(θ)/π for directions above the surface, else 0
func (l *Lambertian) ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64 {
	cosTheta := hit.Normal.Dot(scattered.Direction.Normalize())
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}
