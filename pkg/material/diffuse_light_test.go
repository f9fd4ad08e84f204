package material

import (
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

func TestDiffuseLight_EmitsFromFrontFaceOnly(t *testing.T) {
	emission := core.NewColor(4, 4, 4)
	light := NewDiffuseLight(emission)

	front := upHit(light)
	got, ok := light.Emit(core.Ray{}, front)
	if !ok || got != emission {
		t.Errorf("Expected front face emission %v, got %v (ok=%v)", emission, got, ok)
	}

	back := upHit(light)
	back.FrontFace = false
	if _, ok := light.Emit(core.Ray{}, back); ok {
		t.Error("Expected no emission from the back face")
	}
}

func TestDiffuseLight_NeverScatters(t *testing.T) {
	light := NewDiffuseLight(core.White)
	if _, ok := light.Scatter(core.Ray{}, upHit(light), nil, constantSampler{0.5}); ok {
		t.Error("Expected light to absorb")
	}
}

func TestNonEmitters_DoNotEmit(t *testing.T) {
	materials := map[string]Material{
		"lambertian": NewLambertian(core.White),
		"metal":      NewMetal(core.White, 0),
		"dielectric": NewDielectric(1.5),
		"isotropic":  NewIsotropic(core.White),
	}
	for name, m := range materials {
		if _, ok := m.Emit(core.Ray{}, upHit(m)); ok {
			t.Errorf("Expected %s not to emit", name)
		}
	}
}
