package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/golang/glog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/integrator"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

// ErrStalePass is returned by RenderPass when the world was swapped while the
// pass was running. The pass's samples are discarded.
var ErrStalePass = xerrors.New("pass belongs to a replaced world")

// ErrRenderFinished is returned by SwapWorld once RenderProgressive has
// published its last pass.
var ErrRenderFinished = xerrors.New("render already finished")

// glogLogger implements core.Logger on top of glog
type glogLogger struct{}

func (glogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}

// NewGlogLogger returns a core.Logger that writes to glog's INFO log
func NewGlogLogger() core.Logger {
	return glogLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed for the per-tile random sources
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, then 9, 17, ... up to 50
		NumWorkers:         0,
	}
}

// Accumulation is a copy of the per-pixel sample state after a pass. It is
// what a checkpoint stores and restores.
type Accumulation struct {
	Width, Height int
	Pass          int // Last completed pass
	Pixels        [][]PixelStats
}

// ProgressiveRaytracer manages progressive rendering with multiple passes.
// The world may be replaced while a render is running with SwapWorld.
type ProgressiveRaytracer struct {
	width, height int
	config        ProgressiveConfig
	workerPool    *WorkerPool
	logger        core.Logger

	// mu guards everything below. Tile callbacks run with mu read-locked, so
	// they must not call SwapWorld.
	mu          sync.RWMutex
	world       *scene.World
	integrator  integrator.Integrator
	tiles       []*Tile
	pixelStats  [][]PixelStats // Indexed [y][x]; each tile writes only its own range
	currentPass int
	generation  uint64
	finished    bool
}

// NewProgressiveRaytracer creates a new progressive raytracer
func NewProgressiveRaytracer(world *scene.World, width, height int, config ProgressiveConfig, logger core.Logger) *ProgressiveRaytracer {
	if config.TileSize <= 0 {
		config.TileSize = DefaultProgressiveConfig().TileSize
	}
	if logger == nil {
		logger = NewGlogLogger()
	}

	return &ProgressiveRaytracer{
		width:      width,
		height:     height,
		config:     config,
		workerPool: NewWorkerPool(config.NumWorkers),
		logger:     logger,
		world:      world,
		integrator: integrator.NewPathTracingIntegrator(world.SamplingConfig),
		tiles:      NewTileGrid(width, height, config.TileSize),
		pixelStats: NewPixelBuffer(width, height),
	}
}

// SwapWorld installs a new world with a fresh accumulation buffer. Any pass
// still running against the old world is discarded when it finishes and
// RenderProgressive starts over from the first pass.
func (pr *ProgressiveRaytracer) SwapWorld(world *scene.World) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.finished {
		return ErrRenderFinished
	}

	pr.world = world
	pr.integrator = integrator.NewPathTracingIntegrator(world.SamplingConfig)
	pr.tiles = NewTileGrid(pr.width, pr.height, pr.config.TileSize)
	pr.pixelStats = NewPixelBuffer(pr.width, pr.height)
	pr.currentPass = 0
	pr.generation++
	pr.logger.Printf("Switched to world %q (generation %d)\n", world.Name, pr.generation)
	return nil
}

// World returns the world currently being rendered
func (pr *ProgressiveRaytracer) World() *scene.World {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.world
}

// Generation returns the number of times the world has been swapped
func (pr *ProgressiveRaytracer) Generation() uint64 {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.generation
}

// CurrentPass returns the last completed pass for the current world
func (pr *ProgressiveRaytracer) CurrentPass() int {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.currentPass
}

// Snapshot copies the accumulation buffer of the current world
func (pr *ProgressiveRaytracer) Snapshot() Accumulation {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.snapshotLocked()
}

func (pr *ProgressiveRaytracer) snapshotLocked() Accumulation {
	pixels := NewPixelBuffer(pr.width, pr.height)
	for y := range pixels {
		copy(pixels[y], pr.pixelStats[y])
	}
	return Accumulation{Width: pr.width, Height: pr.height, Pass: pr.currentPass, Pixels: pixels}
}

// Restore replaces the accumulation buffer, so rendering resumes after
// acc.Pass
func (pr *ProgressiveRaytracer) Restore(acc Accumulation) error {
	if acc.Width != pr.width || acc.Height != pr.height || len(acc.Pixels) != acc.Height {
		return xerrors.Errorf("while restoring accumulation: got %dx%d, want %dx%d", acc.Width, acc.Height, pr.width, pr.height)
	}

	pixels := NewPixelBuffer(pr.width, pr.height)
	for y := range pixels {
		if len(acc.Pixels[y]) != pr.width {
			return xerrors.Errorf("while restoring accumulation: row %d has %d pixels, want %d", y, len(acc.Pixels[y]), pr.width)
		}
		copy(pixels[y], acc.Pixels[y])
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()
	pr.pixelStats = pixels
	pr.currentPass = acc.Pass
	for _, tile := range pr.tiles {
		tile.PassesCompleted = acc.Pass
	}
	return nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses <= 1 {
		return pr.config.MaxSamplesPerPixel
	}

	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	targetSamples := pr.config.InitialSamples + (passNumber-1)*samplesPerPass

	if passNumber >= pr.config.MaxPasses {
		targetSamples = pr.config.MaxSamplesPerPixel
	}

	return targetSamples
}

// RenderPass renders a single progressive pass using parallel processing.
// It returns ErrStalePass if SwapWorld was called while the pass ran.
func (pr *ProgressiveRaytracer) RenderPass(ctx context.Context, passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	return pr.renderPass(ctx, passNumber, pr.Generation(), tileCallback)
}

// renderPass renders passNumber of the world of the given generation. It
// returns ErrStalePass without rendering if that world is already gone.
func (pr *ProgressiveRaytracer) renderPass(ctx context.Context, passNumber int, generation uint64, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	tracer := otel.Tracer("ray-tracing/renderer")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "ProgressiveRaytracer.RenderPass")
	defer span.End()

	pr.mu.RLock()
	if pr.generation != generation {
		pr.mu.RUnlock()
		return nil, RenderStats{}, ErrStalePass
	}
	world := pr.world
	tileRenderer := NewTileRenderer(world, pr.integrator)
	pixelStats := pr.pixelStats
	tiles := pr.tiles
	pr.mu.RUnlock()

	targetSamples := pr.getSamplesForPass(passNumber)
	span.SetAttributes(
		attribute.String("scene", world.Name),
		attribute.Int("pass", passNumber),
		attribute.Int("target_samples", targetSamples),
	)

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(tiles))
	for i, tile := range tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
		}
	}

	render := func(ctx context.Context, task TileTask) (RenderStats, error) {
		sampler := task.Tile.Sampler(pr.config.Seed, task.PassNumber)
		return tileRenderer.RenderTileBounds(task.Tile.Bounds, pixelStats, sampler, task.TargetSamples), nil
	}

	completed := 0
	done := func(result TileResult) {
		completed++
		if tileCallback == nil {
			return
		}

		pr.mu.RLock()
		defer pr.mu.RUnlock()
		if pr.generation != generation {
			return
		}

		tile := tasks[result.TaskID].Tile
		tileCallback(TileCompletionResult{
			TileX:       tile.Bounds.Min.X / pr.config.TileSize,
			TileY:       tile.Bounds.Min.Y / pr.config.TileSize,
			TileImage:   pr.extractTileImage(pixelStats, tile),
			PassNumber:  passNumber,
			TileNumber:  completed,
			TotalTiles:  len(tiles),
			TotalPasses: pr.config.MaxPasses,
		})
	}

	start := time.Now()
	if err := pr.workerPool.Run(ctx, tasks, render, done); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, RenderStats{}, xerrors.Errorf("while rendering pass %d: %w", passNumber, err)
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()
	if pr.generation != generation {
		span.SetStatus(codes.Error, "stale pass")
		return nil, RenderStats{}, ErrStalePass
	}

	for _, tile := range tiles {
		tile.PassesCompleted++
	}
	pr.currentPass = passNumber

	img, stats := pr.assembleCurrentImage(targetSamples)
	recordPass(ctx, world.Name, stats, time.Since(start))
	span.SetAttributes(attribute.Float64("average_samples", stats.AverageSamples))

	return img, stats, nil
}

// extractTileImage extracts a tile image from the pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(pixelStats [][]PixelStats, tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, stats.GetColor().ToRGBA())
			}
		}
	}

	return tileImage
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber   int
	Image        *image.RGBA
	Stats        RenderStats
	IsLast       bool
	Generation   uint64
	Accumulation *Accumulation // Set when RenderOptions.Snapshots is true
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
	Snapshots   bool // Whether each PassResult carries a copy of the accumulation buffer
}

// RenderProgressive renders passes in a goroutine and reports them on the
// returned channels. Rendering resumes after CurrentPass and restarts from
// the first pass whenever the world is swapped, including between passes.
// Once the last pass is published SwapWorld fails with ErrRenderFinished.
// If options.TileUpdates is false the tile channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		var tileCallback func(TileCompletionResult)
		if options.TileUpdates {
			tileCallback = func(result TileCompletionResult) {
				select {
				case tileChan <- result:
				default:
					glog.V(1).Infof("Dropped tile event %d/%d of pass %d", result.TileNumber, result.TotalTiles, result.PassNumber)
				}
			}
		}

		pr.mu.Lock()
		pr.finished = false
		generation := pr.generation
		pass := pr.currentPass
		pr.mu.Unlock()

		for {
			pr.mu.Lock()
			if pr.generation != generation {
				// The world was swapped between passes
				generation = pr.generation
				pass = pr.currentPass
			}
			if pass >= pr.config.MaxPasses {
				pr.finished = true
				pr.mu.Unlock()
				return
			}
			pr.mu.Unlock()
			pass++

			if err := ctx.Err(); err != nil {
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- err
				return
			}

			startTime := time.Now()
			img, stats, err := pr.renderPass(ctx, pass, generation, tileCallback)
			if xerrors.Is(err, ErrStalePass) {
				pr.logger.Printf("Discarded pass %d of a replaced world\n", pass)
				continue
			}
			if err != nil {
				errChan <- err
				return
			}

			actualSamples := int(stats.AverageSamples)
			pr.logger.Printf("Pass %d completed in %v (actual: %d samples/pixel)\n",
				pass, time.Since(startTime), actualSamples)

			result := PassResult{
				PassNumber: pass,
				Image:      img,
				Stats:      stats,
				IsLast:     pass == pr.config.MaxPasses,
				Generation: generation,
			}

			pr.mu.RLock()
			stale := pr.generation != generation
			if !stale && options.Snapshots {
				acc := pr.snapshotLocked()
				result.Accumulation = &acc
			}
			pr.mu.RUnlock()
			if stale {
				pr.logger.Printf("Discarded pass %d of a replaced world\n", pass)
				continue
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current pixel stats and
// calculates render statistics in a single pass. pr.mu must be held for
// reading.
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  pr.config.MaxSamplesPerPixel,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, pixel.GetColor().ToRGBA())

			stats.TotalSamples += pixel.SampleCount
			stats.RejectedSamples += pixel.Rejected
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}

	return img, stats
}

// Image assembles the current estimate of the image and its statistics
func (pr *ProgressiveRaytracer) Image() (*image.RGBA, RenderStats) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.assembleCurrentImage(pr.getSamplesForPass(max(1, pr.currentPass)))
}
