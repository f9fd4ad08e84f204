package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

func TestConstantMedium_DensityMonotonicity(t *testing.T) {
	const trials = 5000
	densities := []float64{0.05, 0.2, 0.8, 3}
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))

	previous := -1
	for _, density := range densities {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
		medium := NewConstantMedium(NewSphere(core.Vec3{}, 1, nil), density, core.NewColor(1, 1, 1))

		hits := 0
		for i := 0; i < trials; i++ {
			if _, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler); ok {
				hits++
			}
		}

		// Path length 2: P(hit) = 1 - exp(-2 * density)
		expected := 1 - math.Exp(-2*density)
		if got := float64(hits) / trials; math.Abs(got-expected) > 0.03 {
			t.Errorf("Density %f: expected hit rate %f, got %f", density, expected, got)
		}
		if hits <= previous {
			t.Errorf("Density %f: expected more than %d hits, got %d", density, previous, hits)
		}
		previous = hits
	}
}

func TestConstantMedium_HitInsideBoundary(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	medium := NewConstantMedium(NewRenderBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), nil), 5, core.NewColor(1, 1, 1))
	ray := core.NewRay(core.NewVec3(0.5, 0.5, -3), core.NewVec3(0, 0, 1))

	for i := 0; i < 500; i++ {
		hit, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler)
		if !ok {
			continue
		}
		if hit.Point.Z < -1e-9 || hit.Point.Z > 1+1e-9 {
			t.Fatalf("Expected hit inside the boundary, got %v", hit.Point)
		}
		if !hit.FrontFace || hit.Normal != core.NewVec3(1, 0, 0) {
			t.Fatalf("Expected fixed normal and front face, got %v front=%v", hit.Normal, hit.FrontFace)
		}
		if hit.Material != medium.PhaseFunction {
			t.Fatal("Expected the phase function as material")
		}
	}
}

func TestConstantMedium_OriginInside(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	medium := NewConstantMedium(NewSphere(core.Vec3{}, 10, nil), 100, core.NewColor(1, 1, 1))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	hit, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler)
	if !ok {
		t.Fatal("Expected dense medium around the origin to scatter")
	}
	if hit.T < 0 || hit.T > 1 {
		t.Errorf("Expected scatter close to the origin, got t=%f", hit.T)
	}
}

func TestConstantMedium_MissesBoundary(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	medium := NewConstantMedium(NewSphere(core.Vec3{}, 1, nil), 1000, core.NewColor(1, 1, 1))
	ray := core.NewRay(core.NewVec3(5, 5, 0), core.NewVec3(1, 0, 0))
	if _, ok := medium.Hit(ray, 0.001, math.Inf(1), sampler); ok {
		t.Error("Expected miss when the ray never enters the boundary")
	}
}

func TestConstantMedium_RespectsTMax(t *testing.T) {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	medium := NewConstantMedium(NewSphere(core.Vec3{}, 1, nil), 1000, core.NewColor(1, 1, 1))
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	if _, ok := medium.Hit(ray, 0.001, 3, sampler); ok {
		t.Error("Expected miss when tMax ends before the medium")
	}
}
