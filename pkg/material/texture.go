package material

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// Texture provides spatially-varying colors for materials
type Texture interface {
	// Evaluate returns color at given UV coordinates and 3D point
	// UV is used for image textures, point for procedural textures
	Evaluate(uv core.Vec2, point core.Vec3) core.Color
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV or position
func (s *SolidColor) Evaluate(uv core.Vec2, point core.Vec3) core.Color {
	return s.Color
}

// CheckerTexture alternates between two textures on a 3D grid of cubes
type CheckerTexture struct {
	Even  Texture
	Odd   Texture
	Scale float64 // Edge length of one cube
}

// NewCheckerTexture creates a checker pattern of two solid colors
func NewCheckerTexture(scale float64, even, odd core.Color) *CheckerTexture {
	return &CheckerTexture{Even: NewSolidColor(even), Odd: NewSolidColor(odd), Scale: scale}
}

// Evaluate picks Even or Odd from the parity of the cube containing point
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Color {
	inv := 1.0 / c.Scale
	x := int(math.Floor(point.X * inv))
	y := int(math.Floor(point.Y * inv))
	z := int(math.Floor(point.Z * inv))
	if (x+y+z)%2 == 0 {
		return c.Even.Evaluate(uv, point)
	}
	return c.Odd.Evaluate(uv, point)
}

// MultiplyTexture is the component-wise product of two textures
type MultiplyTexture struct {
	A, B Texture
}

// NewMultiplyTexture creates a product texture
func NewMultiplyTexture(a, b Texture) *MultiplyTexture {
	return &MultiplyTexture{A: a, B: b}
}

// Evaluate returns A*B at the given coordinates
func (m *MultiplyTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Color {
	return m.A.Evaluate(uv, point).Mul(m.B.Evaluate(uv, point))
}
