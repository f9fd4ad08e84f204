package lights

import (
	"math"
	"math/rand"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/pdf"
)

// mockLight always samples toward a fixed point and reports a fixed density
type mockLight struct {
	target  core.Vec3
	density float64
}

func (m *mockLight) ProbabilityDensity(ray core.Ray) float64 {
	return m.density
}

func (m *mockLight) GenerateRayTowardArea(origin core.Vec3, time float64, sampler core.Sampler) AreaSample {
	dir := m.target.Subtract(origin)
	return AreaSample{
		Ray:       core.NewRayAt(origin, dir, time),
		Area:      1,
		Normal:    core.NewVec3(0, -1, 0),
		Direction: dir,
	}
}

var _ pdf.PDF = (*LightPDF)(nil)

func TestLightPDF_ValueIsMeanOfLights(t *testing.T) {
	lights := []Light{
		&mockLight{target: core.NewVec3(0, 1, 0), density: 2},
		&mockLight{target: core.NewVec3(1, 0, 0), density: 4},
		&mockLight{target: core.NewVec3(0, 0, 1), density: 0},
	}
	p := NewLightPDF(lights, core.Vec3{}, 0)

	if got := p.Value(core.NewVec3(0, 1, 0)); math.Abs(got-2) > 1e-12 {
		t.Errorf("Expected mean density 2, got %f", got)
	}
}

func TestLightPDF_EmptyHasZeroDensity(t *testing.T) {
	p := NewLightPDF(nil, core.Vec3{}, 0)
	if got := p.Value(core.NewVec3(0, 1, 0)); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
}

func TestLightPDF_GenerateChoosesLightsUniformly(t *testing.T) {
	origin := core.NewVec3(0, 0, 0)
	lights := []Light{
		&mockLight{target: core.NewVec3(0, 5, 0), density: 1},
		&mockLight{target: core.NewVec3(5, 0, 0), density: 1},
	}
	p := NewLightPDF(lights, origin, 0)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	counts := map[core.Vec3]int{}
	for i := 0; i < 4000; i++ {
		counts[p.Generate(sampler)]++
	}
	for _, l := range lights {
		dir := l.(*mockLight).target
		if counts[dir] < 1800 || counts[dir] > 2200 {
			t.Errorf("Expected about 2000 samples toward %v, got %d", dir, counts[dir])
		}
	}
}

func TestAreaToSolidAngle(t *testing.T) {
	tests := []struct {
		name     string
		dist2    float64
		cosine   float64
		area     float64
		expected float64
	}{
		{"Facing", 4, 1, 2, 2},
		{"Back facing uses |cos|", 4, -0.5, 2, 4},
		{"Edge on", 4, 1e-10, 2, 0},
		{"Zero area", 4, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AreaToSolidAngle(tt.dist2, tt.cosine, tt.area); math.Abs(got-tt.expected) > 1e-12 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
