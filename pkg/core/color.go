package core

import (
	"image/color"
	"math"
)

// Color is a linear RGB radiance value. Components are unbounded.
type Color struct {
	R, G, B float64
}

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Add returns the sum of two colors
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// Sub returns the difference of two colors
func (c Color) Sub(other Color) Color {
	return Color{c.R - other.R, c.G - other.G, c.B - other.B}
}

// Mul returns the component-wise product of two colors (attenuation)
func (c Color) Mul(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Scale returns the color multiplied by a scalar
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Divide returns the color divided by a scalar
func (c Color) Divide(s float64) Color {
	return c.Scale(1.0 / s)
}

// Clamp returns a color with components clamped to [min, max]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
	}
}

// GammaCorrect applies gamma correction to color values
func (c Color) GammaCorrect(gamma float64) Color {
	invGamma := 1.0 / gamma
	return Color{
		R: math.Pow(max(0, c.R), invGamma),
		G: math.Pow(max(0, c.G), invGamma),
		B: math.Pow(max(0, c.B), invGamma),
	}
}

// Luminance returns the perceptual luminance of the color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// IsBlack reports whether all components are zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// IsFinite reports whether no component is NaN or infinite
func (c Color) IsFinite() bool {
	return isFinite(c.R) && isFinite(c.G) && isFinite(c.B)
}

// ToRGBA tone maps a linear color to 8-bit sRGB-ish output (gamma 2, clamped)
func (c Color) ToRGBA() color.RGBA {
	corrected := c.GammaCorrect(2.0).Clamp(0, 0.999)
	return color.RGBA{
		R: uint8(256 * corrected.R),
		G: uint8(256 * corrected.G),
		B: uint8(256 * corrected.B),
		A: 255,
	}
}

// ColorFromRGBA converts an 8-bit color into linear space (inverse of gamma 2)
func ColorFromRGBA(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	fr := float64(r) / 65535.0
	fg := float64(g) / 65535.0
	fb := float64(b) / 65535.0
	return Color{fr * fr, fg * fg, fb * fb}
}
