package scene

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/loaders"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
	"golang.org/x/xerrors"
)

// NewTextureScene lines up spheres showing each texture kind. The image
// sphere uses opts.TexturePath; a missing file fails the build.
func NewTextureScene(opts Options) (*WorldInfo, error) {
	camera := geometry.MergeCameraConfig(geometry.CameraConfig{
		Center:      core.NewVec3(0, 2, 10),
		LookAt:      core.NewVec3(0, 1, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       800,
		AspectRatio: 16.0 / 9.0,
		VFov:        40.0,
	}, opts.Camera)

	w := &WorldInfo{
		Name:         "textures",
		Background:   NewSunSky(*NewDefaultSky(), core.NewVec3(-1, 2, 1), core.NewColor(20, 18, 15), 3),
		CameraConfig: camera,
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           100,
			MaxDepth:                  10,
			RussianRouletteMinBounces: 5,
			AdaptiveMinSamples:        0.15,
			AdaptiveThreshold:         0.01,
		},
	}

	var image material.Texture
	if opts.TexturePath != "" {
		loaded, err := loaders.LoadImageTexture(opts.TexturePath)
		if err != nil {
			return nil, xerrors.Errorf("while building texture scene: %w", err)
		}
		image = loaded
	} else {
		image = material.NewUVDebugTexture(256, 256)
	}

	checker := material.NewCheckerTexture(1.0, core.NewColor(0.2, 0.3, 0.1), core.NewColor(0.9, 0.9, 0.9))
	checkerImage := material.NewCheckerboardImage(256, 256, 32, core.NewColor(0.9, 0.9, 0.9), core.NewColor(0.2, 0.2, 0.8))
	marble := material.NewNoiseTexture(4.0)
	tinted := material.NewMultiplyTexture(marble, material.NewSolidColor(core.NewColor(0.9, 0.5, 0.3)))

	w.Add(
		geometry.NewXZRect(-50, 50, -50, 50, 0, material.NewTexturedLambertian(checker)),
		geometry.NewSphere(core.NewVec3(-4.5, 1, 0), 1, material.NewTexturedLambertian(checkerImage)),
		geometry.NewSphere(core.NewVec3(-1.5, 1, 0), 1, material.NewTexturedLambertian(marble)),
		geometry.NewSphere(core.NewVec3(1.5, 1, 0), 1, material.NewTexturedLambertian(image)),
		geometry.NewSphere(core.NewVec3(4.5, 1, 0), 1, material.NewTexturedMetal(tinted, 0.1)),
	)

	w.AddLight(geometry.NewSphere(core.NewVec3(0, 7, 3), 1, material.NewDiffuseLight(core.NewColor(6, 6, 6))))

	return w, nil
}
