package scene

import (
	"math/rand"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// NewRandomSpheres creates a field of small random spheres around three
// large ones. Diffuse spheres bounce during the shutter interval.
func NewRandomSpheres(opts Options) (*WorldInfo, error) {
	camera := geometry.MergeCameraConfig(geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         600,
		AspectRatio:   16.0 / 9.0,
		VFov:          20.0,
		Aperture:      0.1,
		FocusDistance: 10.0,
		Time0:         0.0,
		Time1:         1.0,
	}, opts.Camera)

	w := &WorldInfo{
		Name:         "spheres",
		Background:   NewDefaultSky(),
		CameraConfig: camera,
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:    100,
			MaxDepth:           50,
			AdaptiveMinSamples: 0.1,
			AdaptiveThreshold:  0.01,
		},
	}

	checker := material.NewCheckerTexture(3.0, core.NewColor(0.2, 0.3, 0.1), core.NewColor(0.9, 0.9, 0.9))
	w.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	random := rand.New(rand.NewSource(opts.Seed))
	randomColor := func(lo, hi float64) core.Color {
		return core.NewColor(
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
			lo+(hi-lo)*random.Float64(),
		)
	}

	glass := material.NewDielectric(1.5)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMat < 0.8:
				albedo := randomColor(0, 1).Mul(randomColor(0, 1))
				bounce := core.NewVec3(0, 0.5*random.Float64(), 0)
				w.Add(geometry.NewMovingSphere(center, center.Add(bounce), 0, 1, 0.2, material.NewLambertian(albedo)))
			case chooseMat < 0.95:
				fuzz := 0.5 * random.Float64()
				w.Add(geometry.NewSphere(center, 0.2, material.NewMetal(randomColor(0.5, 1), fuzz)))
			default:
				w.Add(geometry.NewSphere(center, 0.2, glass))
			}
		}
	}

	w.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewColor(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewColor(0.7, 0.6, 0.5), 0.0)),
	)

	return w, nil
}
