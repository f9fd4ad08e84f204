package scene

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// Background gives the radiance of rays that escape the scene
type Background interface {
	Color(ray core.Ray) core.Color
}

// ConstantColor is a uniform environment
type ConstantColor struct {
	Radiance core.Color
}

// NewConstantColor creates a uniform background
func NewConstantColor(radiance core.Color) *ConstantColor {
	return &ConstantColor{Radiance: radiance}
}

// Color returns the constant radiance
func (c *ConstantColor) Color(ray core.Ray) core.Color {
	return c.Radiance
}

// SkyGradient blends Bottom to Top by the ray's vertical direction
type SkyGradient struct {
	Top    core.Color
	Bottom core.Color
}

// NewSkyGradient creates a vertical gradient background
func NewSkyGradient(top, bottom core.Color) *SkyGradient {
	return &SkyGradient{Top: top, Bottom: bottom}
}

// NewDefaultSky returns the classic white-to-blue sky
func NewDefaultSky() *SkyGradient {
	return NewSkyGradient(core.NewColor(0.5, 0.7, 1.0), core.NewColor(1, 1, 1))
}

// Color returns the gradient color for the ray's direction
func (s *SkyGradient) Color(ray core.Ray) core.Color {
	// Map y from [-1,1] to [0,1]
	t := 0.5 * (ray.Direction.Normalize().Y + 1.0)
	return s.Bottom.Scale(1.0 - t).Add(s.Top.Scale(t))
}

// SunSky is a sky gradient with a bright disk around SunDirection
type SunSky struct {
	Sky          SkyGradient
	SunDirection core.Vec3
	SunColor     core.Color
	cosRadius    float64
}

// NewSunSky creates a sky with a sun of the given angular radius in degrees
func NewSunSky(sky SkyGradient, sunDirection core.Vec3, sunColor core.Color, radiusDegrees float64) *SunSky {
	return &SunSky{
		Sky:          sky,
		SunDirection: sunDirection.Normalize(),
		SunColor:     sunColor,
		cosRadius:    math.Cos(radiusDegrees * math.Pi / 180),
	}
}

// Color returns the sun color inside the disk and the sky elsewhere
func (s *SunSky) Color(ray core.Ray) core.Color {
	if ray.Direction.Normalize().Dot(s.SunDirection) >= s.cosRadius {
		return s.SunColor
	}
	return s.Sky.Color(ray)
}
