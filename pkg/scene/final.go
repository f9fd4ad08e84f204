package scene

import (
	"math/rand"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// NewFinalScene exercises every feature at once: a floor of random-height
// boxes, an area light, a moving sphere, glass, a subsurface-like glass
// sphere filled with fog, global mist, noise and a rotated cluster of
// spheres. The cluster is grouped in its own BVH.
func NewFinalScene(opts Options) (*WorldInfo, error) {
	camera := geometry.MergeCameraConfig(geometry.CameraConfig{
		Center:      core.NewVec3(478, 278, -600),
		LookAt:      core.NewVec3(278, 278, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       600,
		AspectRatio: 1.0,
		VFov:        40.0,
		Time0:       0.0,
		Time1:       1.0,
	}, opts.Camera)

	w := &WorldInfo{
		Name:         "final",
		Background:   NewConstantColor(core.Black),
		CameraConfig: camera,
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           500,
			MaxDepth:                  50,
			RussianRouletteMinBounces: 6,
			AdaptiveMinSamples:        0.1,
			AdaptiveThreshold:         0.01,
		},
	}

	random := rand.New(rand.NewSource(opts.Seed))

	ground := material.NewLambertian(core.NewColor(0.48, 0.83, 0.53))
	var floor []geometry.Hittable
	const boxesPerSide = 20
	for i := 0; i < boxesPerSide; i++ {
		for j := 0; j < boxesPerSide; j++ {
			const width = 100.0
			x0 := -1000.0 + float64(i)*width
			z0 := -1000.0 + float64(j)*width
			y1 := 1 + 100*random.Float64()
			floor = append(floor, geometry.NewRenderBox(core.NewVec3(x0, 0, z0), core.NewVec3(x0+width, y1, z0+width), ground))
		}
	}
	w.Add(geometry.NewBVH(floor, camera.Time0, camera.Time1))

	w.AddLight(&geometry.XZRect{
		X0: 123, X1: 423, Z0: 147, Z1: 412, K: 554,
		Material: material.NewDiffuseLight(core.NewColor(7, 7, 7)),
		Flip:     true,
	})

	center := core.NewVec3(400, 400, 200)
	w.Add(
		geometry.NewMovingSphere(center, center.Add(core.NewVec3(30, 0, 0)), 0, 1, 50, material.NewLambertian(core.NewColor(0.7, 0.3, 0.1))),
		geometry.NewSphere(core.NewVec3(260, 150, 45), 50, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(0, 150, 145), 50, material.NewMetal(core.NewColor(0.8, 0.8, 0.9), 1.0)),
	)

	boundary := geometry.NewSphere(core.NewVec3(360, 150, 145), 70, material.NewDielectric(1.5))
	w.Add(
		boundary,
		geometry.NewConstantMedium(boundary, 0.2, core.NewColor(0.2, 0.4, 0.9)),
		geometry.NewConstantMedium(geometry.NewSphere(core.Vec3{}, 5000, nil), 0.0001, core.NewColor(1, 1, 1)),
	)

	w.Add(geometry.NewSphere(core.NewVec3(220, 280, 300), 80, material.NewTexturedLambertian(material.NewNoiseTexture(0.1))))

	white := material.NewLambertian(core.NewColor(0.73, 0.73, 0.73))
	var cluster []geometry.Hittable
	for i := 0; i < 1000; i++ {
		p := core.NewVec3(165*random.Float64(), 165*random.Float64(), 165*random.Float64())
		cluster = append(cluster, geometry.NewSphere(p, 10, white))
	}
	w.Add(geometry.NewTransform(
		geometry.NewBVH(cluster, camera.Time0, camera.Time1),
		core.Compose(core.RotateY(15), core.Translate(core.NewVec3(-100, 270, 395))),
	))

	return w, nil
}
