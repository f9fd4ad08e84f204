// Package config loads render settings from a JSON file and merges them with
// command-line flags.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"

	"github.com/scifi6546/ray-tracing-sub001/pkg/renderer"
)

// Config holds all render settings. Fields not set in the file keep their
// zero values until Resolve fills in defaults.
type Config struct {
	Scene       string `json:"scene,omitempty"`
	TexturePath string `json:"texture_path,omitempty"`
	Seed        int64  `json:"seed,omitempty"`

	// Render settings
	Width           int `json:"width,omitempty"`
	SamplesPerPixel int `json:"samples_per_pixel,omitempty"`
	MaxPasses       int `json:"max_passes,omitempty"`
	MaxDepth        int `json:"max_depth,omitempty"`
	TileSize        int `json:"tile_size,omitempty"`
	Workers         int `json:"workers,omitempty"`

	// Output
	Output        string `json:"output,omitempty"`
	Format        string `json:"format,omitempty"`
	Supersample   int    `json:"supersample,omitempty"`
	CheckpointDir string `json:"checkpoint_dir,omitempty"`
}

// Flags holds CLI flag values that override config file settings. Zero
// values leave the file's setting alone; Seed is nil unless the flag was
// given, since 0 is a valid seed.
type Flags struct {
	Scene           string
	TexturePath     string
	Seed            *int64
	Width           int
	SamplesPerPixel int
	MaxPasses       int
	MaxDepth        int
	TileSize        int
	Workers         int
	Output          string
	Format          string
	Supersample     int
	CheckpointDir   string
}

// Defaults used by Resolve
const (
	DefaultScene       = "cornell"
	DefaultFormat      = "png"
	DefaultSupersample = 1
)

// Load reads a JSON config file and returns Config
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("while reading config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, xerrors.Errorf("while parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies flag overrides and then fills empty fields with defaults.
// Width, SamplesPerPixel and MaxDepth stay zero when unset so the scenario's
// own preferences apply.
func (c *Config) Resolve(flags Flags) {
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.TexturePath != "" {
		c.TexturePath = flags.TexturePath
	}
	if flags.Seed != nil {
		c.Seed = *flags.Seed
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.SamplesPerPixel > 0 {
		c.SamplesPerPixel = flags.SamplesPerPixel
	}
	if flags.MaxPasses > 0 {
		c.MaxPasses = flags.MaxPasses
	}
	if flags.MaxDepth > 0 {
		c.MaxDepth = flags.MaxDepth
	}
	if flags.TileSize > 0 {
		c.TileSize = flags.TileSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.CheckpointDir != "" {
		c.CheckpointDir = flags.CheckpointDir
	}

	defaults := renderer.DefaultProgressiveConfig()
	if c.Scene == "" {
		c.Scene = DefaultScene
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = defaults.MaxPasses
	}
	if c.TileSize <= 0 {
		c.TileSize = defaults.TileSize
	}
	if c.Workers <= 0 {
		c.Workers = renderer.DefaultWorkerCount()
	}
	if c.Supersample <= 0 {
		c.Supersample = DefaultSupersample
	}
	if c.Format == "" {
		c.Format = formatFromOutput(c.Output)
	}
	c.Format = strings.ToLower(c.Format)
	if c.Output == "" {
		c.Output = filepath.Join("output", c.Scene, "render."+c.Format)
	}
}

func formatFromOutput(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".webp":
		return "webp"
	default:
		return DefaultFormat
	}
}

// Validate checks a resolved config
func (c *Config) Validate() error {
	if c.Width < 0 {
		return xerrors.Errorf("width %d must not be negative", c.Width)
	}
	if c.SamplesPerPixel < 0 {
		return xerrors.Errorf("samples per pixel %d must not be negative", c.SamplesPerPixel)
	}
	if c.MaxDepth < 0 {
		return xerrors.Errorf("max depth %d must not be negative", c.MaxDepth)
	}
	if c.MaxPasses < 1 {
		return xerrors.Errorf("max passes %d must be at least 1", c.MaxPasses)
	}
	if c.TileSize < 1 {
		return xerrors.Errorf("tile size %d must be at least 1", c.TileSize)
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		return xerrors.Errorf("supersample %d must be between 1 and 8", c.Supersample)
	}
	switch c.Format {
	case "png", "webp":
	default:
		return xerrors.Errorf("unsupported output format %q (want png or webp)", c.Format)
	}
	if ext := strings.ToLower(filepath.Ext(c.Output)); ext != "."+c.Format {
		return xerrors.Errorf("output %q does not match format %q", c.Output, c.Format)
	}
	return nil
}

// ProgressiveConfig converts the settings for the renderer. spp is the
// samples-per-pixel budget to use when SamplesPerPixel is unset.
func (c *Config) ProgressiveConfig(spp int) renderer.ProgressiveConfig {
	pc := renderer.DefaultProgressiveConfig()
	pc.TileSize = c.TileSize
	pc.MaxPasses = c.MaxPasses
	pc.NumWorkers = c.Workers
	pc.Seed = c.Seed
	pc.MaxSamplesPerPixel = spp
	if c.SamplesPerPixel > 0 {
		pc.MaxSamplesPerPixel = c.SamplesPerPixel
	}
	if pc.MaxPasses > pc.MaxSamplesPerPixel {
		pc.MaxPasses = max(1, pc.MaxSamplesPerPixel)
	}
	return pc
}
