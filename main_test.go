package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/scifi6546/ray-tracing-sub001/pkg/checkpoint"
	"github.com/scifi6546/ray-tracing-sub001/pkg/config"
	"github.com/scifi6546/ray-tracing-sub001/pkg/loaders"
	"github.com/scifi6546/ray-tracing-sub001/pkg/scene"
)

func TestBuildWorld(t *testing.T) {
	for _, id := range scene.ScenarioIDs() {
		t.Run(id, func(t *testing.T) {
			cfg := config.Config{Scene: id, Width: 40}
			cfg.Resolve(config.Flags{})

			world, err := buildWorld(cfg)
			if err != nil {
				t.Fatalf("Unexpected error for scene %q: %v", id, err)
			}
			if world.CameraConfig.Width != 40 {
				t.Errorf("Expected width 40, got %d", world.CameraConfig.Width)
			}
			if world.CameraConfig.Height() <= 0 {
				t.Errorf("Expected positive height, got %d", world.CameraConfig.Height())
			}
			if world.Name == "" {
				t.Error("Expected the world to be named")
			}
		})
	}
}

func TestBuildWorld_Overrides(t *testing.T) {
	cfg := config.Config{Scene: "red-light", Width: 30, Supersample: 2, MaxDepth: 3}
	world, err := buildWorld(cfg)
	if err != nil {
		t.Fatalf("buildWorld failed: %v", err)
	}
	if world.CameraConfig.Width != 60 {
		t.Errorf("Expected supersampled width 60, got %d", world.CameraConfig.Width)
	}
	if world.SamplingConfig.MaxDepth != 3 {
		t.Errorf("Expected max depth 3, got %d", world.SamplingConfig.MaxDepth)
	}
}

func TestBuildWorld_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{"Unknown scene", config.Config{Scene: "nonexistent"}},
		{"Empty scene name", config.Config{Scene: ""}},
		{"Missing texture", config.Config{Scene: "textures", TexturePath: filepath.Join(t.TempDir(), "missing.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if world, err := buildWorld(tt.cfg); err == nil {
				t.Errorf("Expected error, got world %q", world.Name)
			}
		})
	}
}

func TestPrintScenes(t *testing.T) {
	var out bytes.Buffer
	printScenes(&out)
	for _, id := range scene.ScenarioIDs() {
		if !strings.Contains(out.String(), id) {
			t.Errorf("Expected scene %q in listing:\n%s", id, out.String())
		}
	}
}

func TestRunRender_RedLightWithCheckpoint(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Scene:           "red-light",
		Width:           8,
		SamplesPerPixel: 2,
		MaxPasses:       2,
		TileSize:        4,
		Workers:         2,
		Output:          filepath.Join(dir, "out", "red.png"),
		CheckpointDir:   filepath.Join(dir, "ckpt"),
	}
	cfg.Resolve(config.Flags{})
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Invalid config: %v", err)
	}

	var out bytes.Buffer
	if err := runRender(context.Background(), cfg, &out); err != nil {
		t.Fatalf("runRender failed: %v", err)
	}
	if !strings.Contains(out.String(), cfg.Output) {
		t.Errorf("Expected output path in %q", out.String())
	}

	img, err := loaders.LoadImage(cfg.Output)
	if err != nil {
		t.Fatalf("Failed to load output: %v", err)
	}
	if img.Width != 8 || img.Height != 8 {
		t.Fatalf("Expected 8x8 output, got %dx%d", img.Width, img.Height)
	}
	center := img.Pixels[4*img.Width+4]
	if center.R < 0.9 || center.G > 0.05 || center.B > 0.05 {
		t.Errorf("Expected a saturated red center pixel, got %v", center)
	}
	corner := img.Pixels[0]
	if !corner.IsBlack() {
		t.Errorf("Expected a black corner, got %v", corner)
	}

	// A second run finds the completed checkpoint and renders no new passes
	if err := runRender(context.Background(), cfg, &out); err != nil {
		t.Fatalf("Resumed runRender failed: %v", err)
	}

	store, err := checkpoint.Open(cfg.CheckpointDir)
	if err != nil {
		t.Fatalf("Failed to open checkpoint store: %v", err)
	}
	defer store.Close()
	world, err := buildWorld(cfg)
	if err != nil {
		t.Fatalf("buildWorld failed: %v", err)
	}
	acc, err := store.Load(context.Background(), checkpointIdentity(cfg, world))
	if err != nil {
		t.Fatalf("Expected a saved checkpoint, got %v", err)
	}
	if acc.Pass != 2 {
		t.Errorf("Expected checkpoint after pass 2, got %d", acc.Pass)
	}
}

func TestRunRender_CheckpointPerSeed(t *testing.T) {
	dir := t.TempDir()
	render := func(seed int64, checkpointDir string) *loaders.ImageData {
		t.Helper()
		cfg := config.Config{
			Scene:           "spheres",
			Seed:            seed,
			Width:           32,
			SamplesPerPixel: 2,
			MaxPasses:       2,
			TileSize:        16,
			Workers:         2,
			Output:          filepath.Join(t.TempDir(), "spheres.png"),
			CheckpointDir:   checkpointDir,
		}
		cfg.Resolve(config.Flags{})
		if err := runRender(context.Background(), cfg, &bytes.Buffer{}); err != nil {
			t.Fatalf("runRender with seed %d failed: %v", seed, err)
		}
		img, err := loaders.LoadImage(cfg.Output)
		if err != nil {
			t.Fatalf("Failed to load output: %v", err)
		}
		return img
	}

	ckpt := filepath.Join(dir, "ckpt")
	seed1 := render(1, ckpt)
	seed2 := render(2, ckpt)
	fresh := render(2, "")

	if cmp.Equal(seed2.Pixels, seed1.Pixels) {
		t.Error("Expected seed 2 not to resume from the seed 1 checkpoint")
	}
	if diff := cmp.Diff(fresh.Pixels, seed2.Pixels); diff != "" {
		t.Errorf("Expected seed 2 with a shared checkpoint dir to match a fresh render (-fresh +got):\n%s", diff)
	}
}

func TestRunRender_Cancelled(t *testing.T) {
	cfg := config.Config{Scene: "red-light", Width: 8, Output: filepath.Join(t.TempDir(), "red.png")}
	cfg.Resolve(config.Flags{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := runRender(ctx, cfg, &bytes.Buffer{}); err == nil {
		t.Error("Expected an error for a cancelled render")
	}
}
