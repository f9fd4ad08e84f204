package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/lights"
	"github.com/scifi6546/ray-tracing-sub001/pkg/pdf"
)

type stubLight struct{}

func (stubLight) ProbabilityDensity(ray core.Ray) float64 { return 1 }
func (stubLight) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) lights.AreaSample {
	dir := core.NewVec3(0, 0, 1)
	return lights.AreaSample{Ray: core.NewRayAt(origin, dir, time), Area: 1, Normal: dir.Negate(), Direction: dir}
}

func TestLambertian_ScatterWithoutLightsIsCosine(t *testing.T) {
	albedo := core.NewColor(0.8, 0.6, 0.4)
	lambertian := NewLambertian(albedo)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, ok := lambertian.Scatter(ray, upHit(lambertian), nil, constantSampler{0.5})
	if !ok {
		t.Fatal("Lambertian should always scatter")
	}
	if scatter.IsSpecular() {
		t.Fatal("Expected a PDF, not a specular ray")
	}
	if _, isCosine := scatter.PDF.(*pdf.CosinePDF); !isCosine {
		t.Errorf("Expected *pdf.CosinePDF, got %T", scatter.PDF)
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
	}
}

func TestLambertian_ScatterWithLightsIsMixture(t *testing.T) {
	lambertian := NewLambertian(core.White)
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))

	scatter, _ := lambertian.Scatter(ray, upHit(lambertian), []lights.Light{stubLight{}}, constantSampler{0.5})
	if _, isMixture := scatter.PDF.(*pdf.MixturePDF); !isMixture {
		t.Fatalf("Expected *pdf.MixturePDF, got %T", scatter.PDF)
	}

	// Mixture of cos/π and the stub's density 1 along the normal
	expected := (1/math.Pi + 1) / 2
	if got := scatter.PDF.Value(core.NewVec3(0, 0, 1)); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestLambertian_ScatteringPDF(t *testing.T) {
	lambertian := NewLambertian(core.White)
	hit := upHit(lambertian)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 100; i++ {
		dir := core.RandomUnitVector(sampler)
		got := lambertian.ScatteringPDF(core.Ray{}, hit, core.NewRay(hit.Point, dir.Multiply(3)))
		expected := math.Max(0, dir.Z) / math.Pi
		if math.Abs(got-expected) > 1e-12 {
			t.Fatalf("Expected %f for %v, got %f", expected, dir, got)
		}
	}
}

func TestLambertian_TexturedAlbedo(t *testing.T) {
	checker := NewCheckerTexture(1, core.NewColor(1, 0, 0), core.NewColor(0, 0, 1))
	lambertian := NewTexturedLambertian(checker)
	hit := upHit(lambertian)
	hit.Point = core.NewVec3(1.5, 0.5, 0.5)

	scatter, _ := lambertian.Scatter(core.Ray{}, hit, nil, constantSampler{0.5})
	if scatter.Attenuation != core.NewColor(0, 0, 1) {
		t.Errorf("Expected odd checker color, got %v", scatter.Attenuation)
	}
}
