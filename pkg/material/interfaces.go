package material

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/pdf"
)

// Material interface for objects that can scatter or emit light.
// Materials are immutable once built and may be shared between shapes.
type Material interface {
	// Scatter decides what happens to rayIn at hit. lights are the world's
	// directly sampled emitters, used by diffuse materials for importance
	// sampling. Returns false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit *HitRecord, lights []lights.Light, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF returns the material's own density for scattering
	// rayIn into scattered. Only valid for materials that return a PDF
	// from Scatter; specular materials panic.
	ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64

	// Emit returns emitted radiance toward rayIn, if any
	Emit(rayIn core.Ray, hit *HitRecord) (core.Color, bool)
}

// ScatterRecord contains the result of material scattering. Exactly one of
// SpecularRay and PDF is set.
type ScatterRecord struct {
	SpecularRay *core.Ray  // Continue along this ray with no PDF weighting
	Attenuation core.Color // Color attenuation
	PDF         pdf.PDF    // Distribution to sample the next direction from
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterRecord) IsSpecular() bool {
	return s.SpecularRay != nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	UV        core.Vec2 // Surface texture coordinates
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// noEmission is embedded by materials that never emit
type noEmission struct{}

// Emit returns no emission
func (noEmission) Emit(rayIn core.Ray, hit *HitRecord) (core.Color, bool) {
	return core.Color{}, false
}

// specularOnly is embedded by materials that never return a PDF
type specularOnly struct{}

// ScatteringPDF panics; specular materials are never weighted by a PDF
func (specularOnly) ScatteringPDF(rayIn core.Ray, hit *HitRecord, scattered core.Ray) float64 {
	panic("material: ScatteringPDF called on a specular material")
}
