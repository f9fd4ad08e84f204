package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

func TestNewMetal_FuzzClamp(t *testing.T) {
	tests := []struct {
		name         string
		inputFuzz    float64
		expectedFuzz float64
	}{
		{"Valid fuzz 0.0", 0.0, 0.0},
		{"Valid fuzz 0.5", 0.5, 0.5},
		{"Valid fuzz 1.0", 1.0, 1.0},
		{"Clamp above 1.0", 1.5, 1.0},
		{"Clamp below 0.0", -0.5, 0.0},
	}

	albedo := core.NewColor(0.8, 0.8, 0.8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metal := NewMetal(albedo, tt.inputFuzz)
			if metal.Fuzz != tt.expectedFuzz {
				t.Errorf("Expected fuzz %f, got %f", tt.expectedFuzz, metal.Fuzz)
			}
		})
	}
}

func TestMetal_ReflectionLaw(t *testing.T) {
	albedo := core.NewColor(0.9, 0.8, 0.7)
	metal := NewMetal(albedo, 0.0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	normal := core.NewVec3(0, 0, 1)

	for i := 0; i < 100; i++ {
		incident := core.NewVec3(sampler.Get1D()*2-1, sampler.Get1D()*2-1, -0.1-sampler.Get1D()).Normalize()
		rayIn := core.NewRay(incident.Negate(), incident)

		scatter, ok := metal.Scatter(rayIn, upHit(metal), nil, sampler)
		if !ok {
			t.Fatal("Expected mirror metal to scatter")
		}
		if !scatter.IsSpecular() {
			t.Fatal("Expected a specular ray")
		}
		reflected := scatter.SpecularRay.Direction.Normalize()

		// Equal angles with the normal
		cosIn := -incident.Dot(normal)
		cosOut := reflected.Dot(normal)
		if math.Abs(cosIn-cosOut) > 1e-12 {
			t.Fatalf("Expected equal angles, got cos in %f, cos out %f", cosIn, cosOut)
		}

		// Coplanar with incident and normal
		if triple := incident.Cross(normal).Dot(reflected); math.Abs(triple) > 1e-12 {
			t.Fatalf("Expected reflected direction in plane of incidence, triple product %g", triple)
		}
	}
}

func TestMetal_AttenuationIsAlbedo(t *testing.T) {
	albedo := core.NewColor(0.9, 0.5, 0.1)
	metal := NewMetal(albedo, 0.0)
	rayIn := core.NewRay(core.NewVec3(0, 1, 1), core.NewVec3(0, -1, -1).Normalize())

	scatter, ok := metal.Scatter(rayIn, upHit(metal), nil, constantSampler{0.5})
	if !ok {
		t.Fatal("Expected metal to scatter")
	}
	if scatter.Attenuation != albedo {
		t.Errorf("Expected attenuation %v, got %v", albedo, scatter.Attenuation)
	}
	expected := core.NewVec3(0, -1, 1).Normalize()
	if scatter.SpecularRay.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", expected, scatter.SpecularRay.Direction)
	}
	if scatter.PDF != nil {
		t.Error("Expected no PDF on specular scatter")
	}
}

func TestMetal_FuzzyGrazingAbsorbs(t *testing.T) {
	metal := NewMetal(core.NewColor(1, 1, 1), 1.0)
	// Grazing incidence: reflection is nearly tangent, fuzz pushes many below the surface.
	rayIn := core.NewRay(core.NewVec3(-1, 0, 0.01), core.NewVec3(1, 0, -0.01).Normalize())
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	absorbed := 0
	for i := 0; i < 1000; i++ {
		scatter, ok := metal.Scatter(rayIn, upHit(metal), nil, sampler)
		if !ok {
			absorbed++
			continue
		}
		if scatter.SpecularRay.Direction.Dot(upHit(metal).Normal) <= 0 {
			t.Fatal("Expected scattered rays to leave the surface")
		}
	}
	if absorbed == 0 {
		t.Error("Expected some grazing rays to be absorbed with full fuzz")
	}
}

func TestSpecularMaterials_ScatteringPDFPanics(t *testing.T) {
	materials := map[string]Material{
		"metal":      NewMetal(core.White, 0),
		"dielectric": NewDielectric(1.5),
		"light":      NewDiffuseLight(core.White),
	}
	for name, m := range materials {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected %s.ScatteringPDF to panic", name)
				}
			}()
			m.ScatteringPDF(core.Ray{}, upHit(m), core.Ray{})
		})
	}
}

func TestReflectVector(t *testing.T) {
	got := reflectVector(core.NewVec3(1, -1, 0), core.NewVec3(0, 1, 0))
	if got != core.NewVec3(1, 1, 0) {
		t.Errorf("Expected (1,1,0), got %v", got)
	}
}
