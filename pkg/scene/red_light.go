package scene

import (
	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
	"github.com/scifi6546/ray-tracing-sub001/pkg/geometry"
	"github.com/scifi6546/ray-tracing-sub001/pkg/material"
)

// NewRedLightScene is a unit sphere at the origin emitting pure red,
// seen from (10,10,10) against black
func NewRedLightScene(opts Options) (*WorldInfo, error) {
	camera := geometry.MergeCameraConfig(geometry.CameraConfig{
		Center:        core.NewVec3(10, 10, 10),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         100,
		AspectRatio:   1.0,
		VFov:          20.0,
		Aperture:      0.00001,
		FocusDistance: 10.0,
	}, opts.Camera)

	w := &WorldInfo{
		Name:           "red-light",
		Background:     NewConstantColor(core.Black),
		CameraConfig:   camera,
		SamplingConfig: SamplingConfig{SamplesPerPixel: 16, MaxDepth: 10},
	}
	w.AddLight(geometry.NewSphere(core.Vec3{}, 1, material.NewDiffuseLight(core.NewColor(200, 0, 0))))
	return w, nil
}
