package scene

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// Cornell box dimensions (standard 555x555x555 units)
const cornellSize = 555.0

func cornellCamera(overrides geometry.CameraConfig) geometry.CameraConfig {
	config := geometry.CameraConfig{
		Center:        core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt:        core.NewVec3(278, 278, 0),    // Look at the center of the box
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   1.0,
		VFov:          40.0,
		Aperture:      0.0, // No depth of field for Cornell box
		FocusDistance: 0.0, // Auto-calculate focus distance
	}
	return geometry.MergeCameraConfig(config, overrides)
}

// addCornellWalls adds the red, green and three white walls
func addCornellWalls(w *WorldInfo) material.Material {
	white := material.NewLambertian(core.NewColor(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewColor(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewColor(0.12, 0.45, 0.15))

	w.Add(
		geometry.NewYZRect(0, cornellSize, 0, cornellSize, cornellSize, green), // Right wall
		geometry.NewYZRect(0, cornellSize, 0, cornellSize, 0, red),             // Left wall
		geometry.NewXZRect(0, cornellSize, 0, cornellSize, 0, white),           // Floor
		geometry.NewXZRect(0, cornellSize, 0, cornellSize, cornellSize, white), // Ceiling
		geometry.NewXYRect(0, cornellSize, 0, cornellSize, cornellSize, white), // Back wall
	)
	return white
}

// ceilingLight creates a downward-facing light just below the ceiling
func ceilingLight(x0, x1, z0, z1 float64, emission core.Color) *geometry.XZRect {
	return &geometry.XZRect{
		X0: x0, X1: x1, Z0: z0, Z1: z1,
		K:        cornellSize - 1,
		Material: material.NewDiffuseLight(emission),
		Flip:     true,
	}
}

// placedBox creates a box at the origin, rotates it about Y and moves it
func placedBox(size core.Vec3, degrees float64, offset core.Vec3, mat material.Material) *geometry.Transform {
	box := geometry.NewRenderBox(core.Vec3{}, size, mat)
	return geometry.NewTransform(box, core.Compose(core.RotateY(degrees), core.Translate(offset)))
}

// NewCornellBox creates the classic Cornell box with a tall metal block
// and a short diffuse block
func NewCornellBox(opts Options) (*WorldInfo, error) {
	w := &WorldInfo{
		Name:         "cornell",
		Background:   NewConstantColor(core.Black),
		CameraConfig: cornellCamera(opts.Camera),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel:           150,
			MaxDepth:                  40,
			RussianRouletteMinBounces: 4,
			AdaptiveMinSamples:        0.15,
			AdaptiveThreshold:         0.01,
		},
	}

	white := addCornellWalls(w)
	w.AddLight(ceilingLight(213, 343, 227, 332, core.NewColor(15, 15, 15)))

	aluminum := material.NewMetal(core.NewColor(0.8, 0.85, 0.88), 0.0)
	w.Add(
		placedBox(core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), aluminum),
		placedBox(core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), white),
	)

	return w, nil
}

// NewCornellSmoke creates a Cornell box whose blocks are filled with dark
// smoke and white fog
func NewCornellSmoke(opts Options) (*WorldInfo, error) {
	w := &WorldInfo{
		Name:         "cornell-smoke",
		Background:   NewConstantColor(core.Black),
		CameraConfig: cornellCamera(opts.Camera),
		SamplingConfig: SamplingConfig{
			SamplesPerPixel: 200,
			MaxDepth:        50,
		},
	}

	addCornellWalls(w)
	w.AddLight(ceilingLight(113, 443, 127, 432, core.NewColor(7, 7, 7)))

	tall := placedBox(core.NewVec3(165, 330, 165), 15, core.NewVec3(265, 0, 295), nil)
	short := placedBox(core.NewVec3(165, 165, 165), -18, core.NewVec3(130, 0, 65), nil)
	// The phase functions sample the ceiling light from inside the volume
	smoke := material.NewSampledIsotropic(material.NewSolidColor(core.NewColor(0, 0, 0)))
	fog := material.NewSampledIsotropic(material.NewSolidColor(core.NewColor(1, 1, 1)))
	w.Add(
		geometry.NewConstantMediumWithPhase(tall, 0.01, smoke),
		geometry.NewConstantMediumWithPhase(short, 0.01, fog),
	)

	return w, nil
}
