package renderer

import (
	"context"
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"
)

var (
	sceneKey = tag.MustNewKey("scene")

	samplesMeasure  = stats.Int64("raytracer/samples", "Accepted radiance samples", stats.UnitDimensionless)
	rejectedMeasure = stats.Int64("raytracer/rejected_samples", "Non-finite radiance samples dropped", stats.UnitDimensionless)
	passLatency     = stats.Float64("raytracer/pass_latency", "Wall time of one progressive pass", stats.UnitMilliseconds)

	// SamplesView counts accepted samples per scene
	SamplesView = &view.View{
		Name:        "raytracer/samples",
		Description: "Sum of accepted radiance samples",
		TagKeys:     []tag.Key{sceneKey},
		Measure:     samplesMeasure,
		Aggregation: view.Sum(),
	}

	// RejectedView counts dropped NaN/Inf samples per scene
	RejectedView = &view.View{
		Name:        "raytracer/rejected_samples",
		Description: "Sum of non-finite radiance samples",
		TagKeys:     []tag.Key{sceneKey},
		Measure:     rejectedMeasure,
		Aggregation: view.Sum(),
	}

	// PassLatencyView is the distribution of pass wall times
	PassLatencyView = &view.View{
		Name:        "raytracer/pass_latency",
		Description: "Distribution of progressive pass latency",
		TagKeys:     []tag.Key{sceneKey},
		Measure:     passLatency,
		Aggregation: view.Distribution(10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000),
	}
)

// RegisterViews registers the renderer's metric views with opencensus
func RegisterViews() error {
	if err := view.Register(SamplesView, RejectedView, PassLatencyView); err != nil {
		return xerrors.Errorf("while registering renderer views: %w", err)
	}
	return nil
}

// recordPass records the sample counts and latency of a finished pass
func recordPass(ctx context.Context, sceneName string, passStats RenderStats, elapsed time.Duration) {
	stats.RecordWithOptions(
		ctx,
		stats.WithTags(tag.Upsert(sceneKey, sceneName)),
		stats.WithMeasurements(
			samplesMeasure.M(int64(passStats.TotalSamples)),
			rejectedMeasure.M(int64(passStats.RejectedSamples)),
			passLatency.M(float64(elapsed)/float64(time.Millisecond)),
		))
}
