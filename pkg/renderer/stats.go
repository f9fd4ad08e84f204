package renderer

import (
	"image"
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	TotalSamples    int     // Total number of accepted samples
	AverageSamples  float64 // Average samples per pixel
	MaxSamples      int     // Maximum samples allowed per pixel
	MinSamples      int     // Minimum samples taken per pixel
	MaxSamplesUsed  int     // Maximum samples actually used by any pixel
	RejectedSamples int     // Non-finite samples dropped
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Color // RGB accumulator for final result
	LuminanceAccum   float64    // Luminance accumulator for convergence
	LuminanceSqAccum float64    // Luminance squared for variance
	SampleCount      int        // Number of accepted samples
	Rejected         int        // Number of non-finite samples dropped
}

// AddSample adds a new color sample to the pixel statistics. Samples with a
// NaN or infinite channel are counted in Rejected and otherwise ignored;
// AddSample reports whether the sample was accepted.
func (ps *PixelStats) AddSample(color core.Color) bool {
	if !color.IsFinite() {
		ps.Rejected++
		return false
	}
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
	return true
}

// Attempts returns the number of samples drawn, accepted or not
func (ps *PixelStats) Attempts() int {
	return ps.SampleCount + ps.Rejected
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Black
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// RelativeError returns the coefficient of variation of the pixel's
// luminance estimate. Black pixels report their raw variance.
func (ps *PixelStats) RelativeError() float64 {
	if ps.SampleCount == 0 {
		return math.Inf(1)
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance := math.Max(0, meanSq-mean*mean)

	if mean <= 1e-8 {
		return variance
	}
	return math.Sqrt(variance) / mean
}

// Converged reports whether adaptive sampling may stop for this pixel.
// minSamples is a floor below which a pixel never converges; a threshold of
// zero disables adaptive stopping.
func (ps *PixelStats) Converged(minSamples int, threshold float64) bool {
	if threshold <= 0 || ps.SampleCount < max(1, minSamples) {
		return false
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	if mean <= 1e-8 {
		return ps.RelativeError() < 1e-6
	}
	return ps.RelativeError() < threshold
}

// NewPixelBuffer allocates a height x width accumulation buffer
func NewPixelBuffer(width, height int) [][]PixelStats {
	pixels := make([][]PixelStats, height)
	for y := range pixels {
		pixels[y] = make([]PixelStats, width)
	}
	return pixels
}

// CalculateAverageLuminance returns the mean linear luminance of an 8-bit image
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}
	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewColor(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(bounds.Dx()*bounds.Dy())
}
