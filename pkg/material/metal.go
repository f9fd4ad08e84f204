package material

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	noEmission
	specularOnly
	Albedo Texture // Metal color
	Fuzz   float64 // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Color, fuzz float64) *Metal {
	return NewTexturedMetal(NewSolidColor(albedo), fuzz)
}

// NewTexturedMetal creates a metal whose tint comes from a texture
func NewTexturedMetal(albedo Texture, fuzz float64) *Metal {
	return &Metal{Albedo: albedo, Fuzz: max(0.0, min(1.0, fuzz))}
}

// Scatter reflects about the normal, perturbed by Fuzz. Rays perturbed
// below the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit *HitRecord, sceneLights []lights.Light, sampler core.Sampler) (ScatterRecord, bool) {
	reflected := reflectVector(rayIn.Direction.Normalize(), hit.Normal)
	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzz))
	}

	if reflected.Dot(hit.Normal) <= 0 {
		return ScatterRecord{}, false
	}

	scattered := core.NewRayAt(hit.Point, reflected, rayIn.Time)
	return ScatterRecord{
		SpecularRay: &scattered,
		Attenuation: m.Albedo.Evaluate(hit.UV, hit.Point),
	}, true
}

// reflectVector calculates the reflection of a vector v off a surface with normal n
func reflectVector(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
