// Package pdf provides sampling distributions over directions. Each PDF can
// draw a direction and report the solid-angle density of any direction,
// which is what the integrator needs for importance sampling.
package pdf

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// PDF is a direction distribution used for importance sampling
type PDF interface {
	// Value returns the solid-angle density of direction
	Value(direction core.Vec3) float64

	// Generate draws a direction from the distribution
	Generate(sampler core.Sampler) core.Vec3
}

// CosinePDF samples the hemisphere around a normal proportionally to cos θ
type CosinePDF struct {
	uvw core.ONB
}

// NewCosinePDF creates a cosine-weighted PDF around normal
func NewCosinePDF(normal core.Vec3) *CosinePDF {
	return &CosinePDF{uvw: core.NewONB(normal)}
}

// NewLambertianPDF is the cosine distribution without any light term
func NewLambertianPDF(normal core.Vec3) *CosinePDF {
	return NewCosinePDF(normal)
}

// Value returns max(0, cos θ)/π
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.uvw.W)
	return math.Max(0, cosine/math.Pi)
}

// Generate draws a cosine-weighted direction
func (p *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.uvw.Local(core.RandomCosineDirection(sampler.Get2D()))
}

// IsotropicPDF is the uniform distribution over the sphere
type IsotropicPDF struct{}

// Value returns 1/4π for every direction
func (IsotropicPDF) Value(direction core.Vec3) float64 {
	return 1 / (4 * math.Pi)
}

// Generate draws a uniform direction
func (IsotropicPDF) Generate(sampler core.Sampler) core.Vec3 {
	return core.RandomUnitVector(sampler)
}

// MixturePDF combines child PDFs with equal weight
type MixturePDF struct {
	pdfs []PDF
}

// NewMixturePDF creates an equal-weight mixture. It panics when given no children.
func NewMixturePDF(pdfs ...PDF) *MixturePDF {
	if len(pdfs) == 0 {
		panic("pdf: mixture needs at least one child")
	}
	return &MixturePDF{pdfs: pdfs}
}

// Value averages the children's densities
func (m *MixturePDF) Value(direction core.Vec3) float64 {
	sum := 0.0
	for _, p := range m.pdfs {
		sum += p.Value(direction)
	}
	return sum / float64(len(m.pdfs))
}

// Generate samples a uniformly chosen child
func (m *MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	return m.pdfs[core.RandomInt(sampler, len(m.pdfs))].Generate(sampler)
}
