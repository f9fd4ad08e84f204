// raytracer renders the built-in scenarios progressively to an image file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/spf13/cobra"
	"go.opencensus.io/stats/view"
	"golang.org/x/term"
	"golang.org/x/time/rate"
	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/checkpoint"
	"github.com/scifi6546/ray-tracing-sub001/pkg/config"
	"github.com/scifi6546/ray-tracing-sub001/pkg/loaders"
	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

var cmdRoot = &cobra.Command{
	Use:           "raytracer",
	Short:         "Progressive path tracer",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog reads its flags from the standard flag set, which cobra has
		// already filled in.
		flag.CommandLine.Parse([]string{})
	},
}

var (
	configPath  string
	seedFlag    int64
	renderFlags config.Flags
)

var cmdRender = &cobra.Command{
	Use:   "render",
	Short: "Render a scene to an image file",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		if configPath != "" {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("seed") {
			renderFlags.Seed = &seedFlag
		}
		cfg.Resolve(renderFlags)
		if err := cfg.Validate(); err != nil {
			return xerrors.Errorf("while validating config: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		return runRender(ctx, cfg, os.Stdout)
	},
}

func init() {
	f := cmdRender.Flags()
	f.StringVar(&configPath, "config", "", "JSON file with render settings")
	f.StringVar(&renderFlags.Scene, "scene", "", "Scene ID (see 'raytracer scenes')")
	f.StringVar(&renderFlags.TexturePath, "texture", "", "Image file for the textures scene")
	f.Int64Var(&seedFlag, "seed", 0, "Seed for scene generation and sampling")
	f.IntVar(&renderFlags.Width, "width", 0, "Image width in pixels (0 = scene default)")
	f.IntVar(&renderFlags.SamplesPerPixel, "max-samples", 0, "Samples per pixel (0 = scene default)")
	f.IntVar(&renderFlags.MaxPasses, "max-passes", 0, "Number of progressive passes")
	f.IntVar(&renderFlags.MaxDepth, "max-depth", 0, "Maximum bounces per path (0 = scene default)")
	f.IntVar(&renderFlags.TileSize, "tile-size", 0, "Tile edge in pixels")
	f.IntVar(&renderFlags.Workers, "workers", 0, "Parallel workers (0 = logical CPU count)")
	f.StringVar(&renderFlags.Output, "output", "", "Output file (.png or .webp)")
	f.StringVar(&renderFlags.Format, "format", "", "Output format: png or webp")
	f.IntVar(&renderFlags.Supersample, "supersample", 0, "Render at N times the width and downsample")
	f.StringVar(&renderFlags.CheckpointDir, "checkpoint-dir", "", "Directory for resumable checkpoints")
}

var cmdScenes = &cobra.Command{
	Use:   "scenes",
	Short: "List the available scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		printScenes(cmd.OutOrStdout())
		return nil
	},
}

func printScenes(w io.Writer) {
	for _, group := range scene.ListAllScenes().Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, s := range group.Scenes {
			fmt.Fprintf(w, "  %-14s %s\n", s.ID, s.Description)
		}
	}
}

// buildWorld constructs the configured scenario at its render resolution
func buildWorld(cfg config.Config) (*scene.World, error) {
	s, err := scene.Lookup(cfg.Scene)
	if err != nil {
		return nil, err
	}

	info, err := s.Build(scene.Options{TexturePath: cfg.TexturePath, Seed: cfg.Seed})
	if err != nil {
		return nil, xerrors.Errorf("while constructing scene %q: %w", cfg.Scene, err)
	}
	if info.Name == "" {
		info.Name = cfg.Scene
	}
	if cfg.Width > 0 {
		info.CameraConfig.Width = cfg.Width
	}
	info.CameraConfig.Width *= max(1, cfg.Supersample)
	if cfg.MaxDepth > 0 {
		info.SamplingConfig.MaxDepth = cfg.MaxDepth
	}

	return info.BuildWorld()
}

// checkpointIdentity names the world a checkpoint of this render belongs to
func checkpointIdentity(cfg config.Config, world *scene.World) checkpoint.Identity {
	return checkpoint.Identity{
		Scene:       world.Name,
		Width:       world.CameraConfig.Width,
		Height:      world.CameraConfig.Height(),
		Seed:        cfg.Seed,
		TexturePath: cfg.TexturePath,
		MaxDepth:    world.SamplingConfig.MaxDepth,
	}
}

// runRender renders cfg's scene, writing the image after every pass
func runRender(ctx context.Context, cfg config.Config, out io.Writer) error {
	logHostInfo()

	if err := renderer.RegisterViews(); err != nil {
		glog.Warningf("Metrics disabled: %v", err)
	}

	world, err := buildWorld(cfg)
	if err != nil {
		return err
	}
	width, height := world.CameraConfig.Width, world.CameraConfig.Height()
	stats := world.Stats()
	glog.Infof("Built %q: %dx%d, %d objects, %d BVH nodes (depth %d), %d lights",
		world.Name, width, height, stats.TotalObjects, stats.TotalNodes, stats.MaxDepth, len(world.Lights))

	progressiveConfig := cfg.ProgressiveConfig(world.SamplingConfig.SamplesPerPixel)
	pr := renderer.NewProgressiveRaytracer(world, width, height, progressiveConfig, renderer.NewGlogLogger())

	var store *checkpoint.Store
	id := checkpointIdentity(cfg, world)
	if cfg.CheckpointDir != "" {
		store, err = checkpoint.Open(cfg.CheckpointDir)
		if err != nil {
			return err
		}
		defer store.Close()

		acc, err := store.Load(ctx, id)
		switch {
		case xerrors.Is(err, checkpoint.ErrNotFound):
			glog.Infof("No checkpoint for %q, starting fresh", world.Name)
		case err != nil:
			return err
		default:
			if err := pr.Restore(acc); err != nil {
				return err
			}
			glog.Infof("Resuming %q after pass %d", world.Name, acc.Pass)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := newProgressReporter(out, progressiveConfig.MaxPasses)
	start := time.Now()

	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{Snapshots: store != nil})
	for result := range passChan {
		if err := saveOutput(cfg, result.Image); err != nil {
			return err
		}
		if store != nil {
			if err := store.Save(ctx, id, *result.Accumulation); err != nil {
				return err
			}
		}
		progress.report(result, time.Since(start))
	}
	progress.finish()
	if err := <-errChan; err != nil {
		return xerrors.Errorf("while rendering %q: %w", world.Name, err)
	}

	img, finalStats := pr.Image()
	if err := saveOutput(cfg, img); err != nil {
		return err
	}

	glog.Infof("Render of %q finished in %v: %.1f samples/pixel (range %d - %d), %d rejected, mean luminance %.3f",
		world.Name, time.Since(start), finalStats.AverageSamples, finalStats.MinSamples, finalStats.MaxSamplesUsed,
		finalStats.RejectedSamples, renderer.CalculateAverageLuminance(img))
	logMetrics()
	fmt.Fprintf(out, "Render saved as %s\n", cfg.Output)
	return nil
}

// saveOutput writes img, downsampled when supersampling
func saveOutput(cfg config.Config, img *image.RGBA) error {
	if cfg.Supersample > 1 {
		img = loaders.Downsample(img, cfg.Supersample)
	}
	return loaders.SaveImage(cfg.Output, img)
}

// progressReporter prints a status line on terminals and throttled log
// lines otherwise
type progressReporter struct {
	out         io.Writer
	interactive bool
	limiter     *rate.Limiter
	totalPasses int
}

func newProgressReporter(out io.Writer, totalPasses int) *progressReporter {
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return &progressReporter{
		out:         out,
		interactive: interactive,
		limiter:     rate.NewLimiter(rate.Every(10*time.Second), 1),
		totalPasses: totalPasses,
	}
}

func (p *progressReporter) report(result renderer.PassResult, elapsed time.Duration) {
	if p.interactive {
		fmt.Fprintf(p.out, "\rPass %d/%d  %.1f samples/pixel  %v elapsed   ",
			result.PassNumber, p.totalPasses, result.Stats.AverageSamples, elapsed.Round(time.Second))
		return
	}
	if result.IsLast || p.limiter.Allow() {
		glog.Infof("Pass %d/%d: %.1f samples/pixel after %v", result.PassNumber, p.totalPasses, result.Stats.AverageSamples, elapsed)
	}
}

func (p *progressReporter) finish() {
	if p.interactive {
		fmt.Fprintln(p.out)
	}
}

func logHostInfo() {
	physical, err := cpu.Counts(false)
	if err != nil {
		glog.V(1).Infof("Could not count physical cores: %v", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		glog.V(1).Infof("Could not read memory info: %v", err)
		return
	}
	glog.Infof("Host: %d physical cores, %d logical, %.1f GiB memory (%.1f GiB available)",
		physical, renderer.DefaultWorkerCount(), float64(vm.Total)/(1<<30), float64(vm.Available)/(1<<30))
}

func logMetrics() {
	for _, v := range []*view.View{renderer.SamplesView, renderer.RejectedView} {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue
		}
		for _, row := range rows {
			if sum, ok := row.Data.(*view.SumData); ok {
				glog.V(1).Infof("%s %v: %.0f", v.Name, row.Tags, sum.Value)
			}
		}
	}
}

func main() {
	glog.CopyStandardLogTo("INFO")
	defer glog.Flush()

	cmdRoot.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	cmdRoot.AddCommand(cmdRender, cmdScenes)

	if err := cmdRoot.Execute(); err != nil {
		glog.Exitf("Error: %v", err)
	}
}
