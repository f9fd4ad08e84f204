package material

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
)

// DiffuseLight is an emitter. It emits from its front face only and never scatters.
type DiffuseLight struct {
	specularOnly
	Emission Texture
}

// NewDiffuseLight creates a light with uniform emission
func NewDiffuseLight(emission core.Color) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission varies over the surface
func NewTexturedDiffuseLight(emission Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter absorbs every ray
func (e *DiffuseLight) Scatter(rayIn core.Ray, hit *HitRecord, sceneLights []lights.Light, sampler core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

// Emit returns the emission when the front face was hit
func (e *DiffuseLight) Emit(rayIn core.Ray, hit *HitRecord) (core.Color, bool) {
	if !hit.FrontFace {
		return core.Color{}, false
	}
	return e.Emission.Evaluate(hit.UV, hit.Point), true
}
