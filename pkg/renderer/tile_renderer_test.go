package renderer

import (
	"image"
	"math"
	"math/rand"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/integrator"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// MockIntegrator returns a fixed color and counts its calls
type MockIntegrator struct {
	returnColor core.Color
	callCount   int64
}

func (m *MockIntegrator) RayColor(ray core.Ray, world *scene.World, sampler core.Sampler) core.Color {
	atomic.AddInt64(&m.callCount, 1)
	return m.returnColor
}

// createTestWorld builds a small world: a gray sphere in front of the camera
// under a uniform sky
func createTestWorld(t *testing.T, width int, sampling scene.SamplingConfig) *scene.World {
	t.Helper()

	info := &scene.WorldInfo{
		Name:       "test",
		Background: scene.NewConstantColor(core.NewColor(0.8, 0.8, 0.8)),
		CameraConfig: geometry.CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			Width:       width,
			AspectRatio: 1.0,
			VFov:        45.0,
		},
		SamplingConfig: sampling,
	}
	info.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))))

	world, err := info.BuildWorld()
	if err != nil {
		t.Fatalf("Failed to build test world: %v", err)
	}
	return world
}

func TestTileRenderer_FixedSampleCount(t *testing.T) {
	world := createTestWorld(t, 4, scene.SamplingConfig{MaxDepth: 10})
	mockIntegrator := &MockIntegrator{returnColor: core.NewColor(0.7, 0.3, 0.1)}
	renderer := NewTileRenderer(world, mockIntegrator)

	pixelStats := NewPixelBuffer(4, 4)
	bounds := image.Rect(1, 1, 3, 3)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	stats := renderer.RenderTileBounds(bounds, pixelStats, sampler, 4)

	if mockIntegrator.callCount != 16 {
		t.Errorf("Expected 16 integrator calls, got %d", mockIntegrator.callCount)
	}
	if stats.TotalPixels != 4 || stats.TotalSamples != 16 {
		t.Errorf("Expected 4 pixels and 16 samples, got %d and %d", stats.TotalPixels, stats.TotalSamples)
	}
	if stats.AverageSamples != 4 || stats.MinSamples != 4 || stats.MaxSamplesUsed != 4 {
		t.Errorf("Expected 4 samples for every pixel, got %+v", stats)
	}

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			inside := image.Pt(x, y).In(bounds)
			ps := pixelStats[y][x]
			if !inside && ps.SampleCount != 0 {
				t.Errorf("Expected pixel (%d,%d) outside bounds untouched, got %d samples", x, y, ps.SampleCount)
			}
			if inside {
				if diff := cmp.Diff(ps.GetColor(), core.NewColor(0.7, 0.3, 0.1)); diff != "" {
					t.Errorf("Pixel (%d,%d) color mismatch (-got +want):\n%s", x, y, diff)
				}
			}
		}
	}
}

func TestTileRenderer_RejectsNaNSamples(t *testing.T) {
	world := createTestWorld(t, 2, scene.SamplingConfig{MaxDepth: 10, AdaptiveThreshold: 0.05})
	mockIntegrator := &MockIntegrator{returnColor: core.NewColor(math.NaN(), 0, 0)}
	renderer := NewTileRenderer(world, mockIntegrator)

	pixelStats := NewPixelBuffer(2, 2)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	stats := renderer.RenderTileBounds(image.Rect(0, 0, 2, 2), pixelStats, sampler, 8)

	if stats.TotalSamples != 0 {
		t.Errorf("Expected no accepted samples, got %d", stats.TotalSamples)
	}
	if stats.RejectedSamples != 32 {
		t.Errorf("Expected 32 rejected samples, got %d", stats.RejectedSamples)
	}
	for y := range pixelStats {
		for x := range pixelStats[y] {
			if got := pixelStats[y][x].GetColor(); got != core.Black {
				t.Errorf("Expected pixel (%d,%d) to stay black, got %v", x, y, got)
			}
		}
	}
}

func TestTileRenderer_AdaptiveStopsAtFloor(t *testing.T) {
	world := createTestWorld(t, 2, scene.SamplingConfig{
		MaxDepth:           10,
		AdaptiveMinSamples: 0.25,
		AdaptiveThreshold:  0.05,
	})
	mockIntegrator := &MockIntegrator{returnColor: core.NewColor(0.5, 0.5, 0.5)}
	renderer := NewTileRenderer(world, mockIntegrator)

	pixelStats := NewPixelBuffer(2, 2)
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	stats := renderer.RenderTileBounds(image.Rect(0, 0, 2, 2), pixelStats, sampler, 100)

	// A constant pixel converges as soon as it reaches the 25 sample floor
	if stats.MaxSamplesUsed != 25 || stats.MinSamples != 25 {
		t.Errorf("Expected every pixel to stop at 25 samples, got min %d max %d", stats.MinSamples, stats.MaxSamplesUsed)
	}
}

func TestTileRenderer_Deterministic(t *testing.T) {
	world := createTestWorld(t, 8, scene.SamplingConfig{MaxDepth: 5})
	bounds := image.Rect(0, 0, 8, 8)
	tile := NewTile(3, bounds)

	render := func() [][]PixelStats {
		pixelStats := NewPixelBuffer(8, 8)
		renderer := NewTileRenderer(world, integrator.NewPathTracingIntegrator(world.SamplingConfig))
		renderer.RenderTileBounds(bounds, pixelStats, tile.Sampler(7, 2), 4)
		return pixelStats
	}

	if diff := cmp.Diff(render(), render()); diff != "" {
		t.Errorf("Expected identical renders for the same tile seed (-first +second):\n%s", diff)
	}
}

func TestTileRenderer_ImageOrientation(t *testing.T) {
	// Sky above, black below: the top row of the image must be the bright one
	info := &scene.WorldInfo{
		Name:       "orientation",
		Background: scene.NewSkyGradient(core.White, core.Black),
		CameraConfig: geometry.CameraConfig{
			Center:      core.NewVec3(0, 0, 0),
			LookAt:      core.NewVec3(0, 0, -1),
			Up:          core.NewVec3(0, 1, 0),
			Width:       4,
			AspectRatio: 1.0,
			VFov:        90.0,
		},
	}
	info.Add(geometry.NewSphere(core.NewVec3(0, 0, -100), 0.01, material.NewLambertian(core.White)))
	world, err := info.BuildWorld()
	if err != nil {
		t.Fatalf("Failed to build world: %v", err)
	}

	pixelStats := NewPixelBuffer(4, 4)
	renderer := NewTileRenderer(world, integrator.NewPathTracingIntegrator(world.SamplingConfig))
	renderer.RenderTileBounds(image.Rect(0, 0, 4, 4), pixelStats, NewTile(0, image.Rect(0, 0, 4, 4)).Sampler(0, 1), 8)

	top := pixelStats[0][1].GetColor().Luminance()
	bottom := pixelStats[3][1].GetColor().Luminance()
	if top <= bottom {
		t.Errorf("Expected top row brighter than bottom row, got %f <= %f", top, bottom)
	}
}
