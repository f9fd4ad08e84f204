package renderer

import (
	"image"
	"time"

	"github.com/golang/glog"
	"golang.org/x/time/rate"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/integrator"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// rejectedWarnings throttles the NaN/Inf warning shared by all tiles
var rejectedWarnings = rate.NewLimiter(rate.Every(5*time.Second), 1)

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	world      *scene.World
	integrator integrator.Integrator
}

// NewTileRenderer creates a new tile renderer with the given world and integrator
func NewTileRenderer(world *scene.World, integratorInst integrator.Integrator) *TileRenderer {
	return &TileRenderer{
		world:      world,
		integrator: integratorInst,
	}
}

// RenderTileBounds renders pixels within bounds into pixelStats, which is
// indexed [y][x] in image coordinates with y growing downward. Each pixel is
// sampled until it has drawn targetSamples samples or has converged.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	height := len(pixelStats)
	width := 0
	if height > 0 {
		width = len(pixelStats[0])
	}

	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			rejectedBefore := ps.Rejected
			samplesUsed := tr.adaptiveSamplePixel(i, height-1-j, width, height, ps, sampler, targetSamples)
			stats.RejectedSamples += ps.Rejected - rejectedBefore
			tr.updateStats(&stats, samplesUsed)
		}
	}

	if stats.RejectedSamples > 0 && rejectedWarnings.Allow() {
		glog.Warningf("Dropped %d non-finite samples in tile %v of %q", stats.RejectedSamples, bounds, tr.world.Name)
	}

	tr.finalizeStats(&stats)
	return stats
}

// adaptiveSamplePixel draws samples for the pixel at column i and row j
// counted from the bottom of the image. It returns the number of accepted
// samples added.
func (tr *TileRenderer) adaptiveSamplePixel(i, j, width, height int, ps *PixelStats, sampler core.Sampler, maxSamples int) int {
	initialSampleCount := ps.SampleCount
	config := tr.world.SamplingConfig
	minSamples := int(float64(maxSamples) * config.AdaptiveMinSamples)

	for ps.Attempts() < maxSamples && !ps.Converged(minSamples, config.AdaptiveThreshold) {
		sample := sampler.Get2D()
		s := (float64(i) + sample.X) / float64(width)
		t := (float64(j) + sample.Y) / float64(height)

		ray := tr.world.Camera.GetRay(s, t, sampler)
		ps.AddSample(tr.integrator.RayColor(ray, tr.world, sampler))
	}

	return ps.SampleCount - initialSampleCount
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples, // Start with max, will be reduced
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}
