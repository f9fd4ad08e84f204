package material

import (
	"math"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

var (
	white = core.NewColor(1, 1, 1)
	black = core.NewColor(0, 0, 0)
)

func TestImageTextureEvaluate(t *testing.T) {
	// Layout:
	//   white black
	//   black white
	pixels := []core.Color{
		white, black, // Row 0 (top in image coords)
		black, white, // Row 1 (bottom in image coords)
	}
	texture := NewImageTexture(2, 2, pixels)

	tests := []struct {
		uv       core.Vec2
		expected core.Color
	}{
		{core.NewVec2(0.1, 0.1), black}, // bottom-left
		{core.NewVec2(0.9, 0.1), white}, // bottom-right
		{core.NewVec2(0.1, 0.9), white}, // top-left
		{core.NewVec2(0.9, 0.9), black}, // top-right
		{core.NewVec2(1.1, 0.1), black}, // wraps around in U
		{core.NewVec2(-0.9, 0.1), black},
		{core.NewVec2(1.0, 1.0), black}, // exact edges wrap to u=0, v=0
	}

	for _, tt := range tests {
		if got := texture.Evaluate(tt.uv, core.Vec3{}); got != tt.expected {
			t.Errorf("UV%v: expected %v, got %v", tt.uv, tt.expected, got)
		}
	}
}

func TestNewImageTexture_PanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for mismatched pixel buffer")
		}
	}()
	NewImageTexture(2, 2, []core.Color{white})
}

func TestSolidColor(t *testing.T) {
	s := NewSolidColor(core.NewColor(0.2, 0.4, 0.6))
	if got := s.Evaluate(core.NewVec2(0.3, 0.7), core.NewVec3(5, 5, 5)); got != s.Color {
		t.Errorf("Expected %v, got %v", s.Color, got)
	}
}

func TestCheckerTexture(t *testing.T) {
	even := core.NewColor(1, 0, 0)
	odd := core.NewColor(0, 1, 0)
	checker := NewCheckerTexture(2, even, odd)

	tests := []struct {
		point    core.Vec3
		expected core.Color
	}{
		{core.NewVec3(0.5, 0.5, 0.5), even},
		{core.NewVec3(2.5, 0.5, 0.5), odd},
		{core.NewVec3(2.5, 2.5, 0.5), even},
		{core.NewVec3(-0.5, 0.5, 0.5), odd},
	}
	for _, tt := range tests {
		if got := checker.Evaluate(core.Vec2{}, tt.point); got != tt.expected {
			t.Errorf("Point %v: expected %v, got %v", tt.point, tt.expected, got)
		}
	}
}

func TestMultiplyTexture(t *testing.T) {
	m := NewMultiplyTexture(NewSolidColor(core.NewColor(0.5, 1, 2)), NewSolidColor(core.NewColor(2, 0.5, 0.5)))
	if got := m.Evaluate(core.Vec2{}, core.Vec3{}); got != core.NewColor(1, 0.5, 1) {
		t.Errorf("Expected (1,0.5,1), got %v", got)
	}
}

func TestNoiseTexture_Bounded(t *testing.T) {
	noise := NewNoiseTexture(4)
	for x := -3.0; x < 3; x += 0.37 {
		for z := -3.0; z < 3; z += 0.41 {
			c := noise.Evaluate(core.Vec2{}, core.NewVec3(x, 0.3, z))
			if c.R < 0 || c.R > 1 || c.R != c.G || c.G != c.B {
				t.Fatalf("Expected gray value in [0,1], got %v", c)
			}
		}
	}
}

func TestPerlinNoise_ZeroOnLatticeAndContinuous(t *testing.T) {
	if got := PerlinNoise(core.NewVec3(3, -2, 7)); got != 0 {
		t.Errorf("Expected zero on lattice points, got %f", got)
	}
	p := core.NewVec3(1.3, 2.7, -0.4)
	a := PerlinNoise(p)
	b := PerlinNoise(p.Add(core.NewVec3(1e-6, 0, 0)))
	if math.Abs(a-b) > 1e-4 {
		t.Errorf("Expected continuous noise, got %f and %f", a, b)
	}
}
