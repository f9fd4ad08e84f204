package material

import (
	"math"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

// hashmul is a multiplicative hash over the 24 low bits of a lattice cell
func hashmul(x uint32) uint32 {
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = ((x >> 16) ^ x) * 0x45d9f3b
	x = ((x >> 16) ^ x)
	return x
}

// perlinDotGrad dots the offset (d0, d1, d2) with one of twelve edge
// gradients picked by hashing the cell.
func perlinDotGrad(c0, c1, c2 uint32, d0, d1, d2 float64) float64 {
	hash := hashmul(((c0 & 0xff) << 16) | ((c1 & 0xff) << 8) | (c2 & 0xff))

	switch hash & 0x0f {
	case 0x0, 0xc:
		return d0 + d1
	case 0x1:
		return d0 - d1
	case 0x2, 0xd:
		return -d0 + d1
	case 0x3:
		return -d0 - d1
	case 0x4:
		return d1 + d2
	case 0x5:
		return d1 - d2
	case 0x6, 0xe:
		return -d1 + d2
	case 0x7, 0xf:
		return -d1 - d2
	case 0x8:
		return d2 + d0
	case 0x9:
		return d2 - d0
	case 0xa:
		return -d2 + d0
	default:
		return -d2 - d0
	}
}

func fade(x float64) float64 {
	return x * x * x * (x*(x*6.0-15.0) + 10.0)
}

func lerp(t, a, b float64) float64 {
	return (1-t)*a + t*b
}

// PerlinNoise returns gradient noise in roughly [-1, 1] at p. It is
// stateless and safe for concurrent use.
func PerlinNoise(p core.Vec3) float64 {
	fx, fy, fz := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	cx := uint32(int32(fx))
	cy := uint32(int32(fy))
	cz := uint32(int32(fz))
	x, y, z := p.X-fx, p.Y-fy, p.Z-fz

	u, v, w := fade(x), fade(y), fade(z)
	return lerp(w,
		lerp(v,
			lerp(u, perlinDotGrad(cx, cy, cz, x, y, z), perlinDotGrad(cx+1, cy, cz, x-1, y, z)),
			lerp(u, perlinDotGrad(cx, cy+1, cz, x, y-1, z), perlinDotGrad(cx+1, cy+1, cz, x-1, y-1, z)),
		),
		lerp(v,
			lerp(u, perlinDotGrad(cx, cy, cz+1, x, y, z-1), perlinDotGrad(cx+1, cy, cz+1, x-1, y, z-1)),
			lerp(u, perlinDotGrad(cx, cy+1, cz+1, x, y-1, z-1), perlinDotGrad(cx+1, cy+1, cz+1, x-1, y-1, z-1)),
		),
	)
}

// Turbulence sums depth octaves of |noise|
func Turbulence(p core.Vec3, depth int) float64 {
	accum := 0.0
	weight := 1.0
	for i := 0; i < depth; i++ {
		accum += weight * math.Abs(PerlinNoise(p))
		weight *= 0.5
		p = p.Multiply(2)
	}
	return accum
}

// NoiseTexture is a marble-like procedural texture driven by Perlin turbulence
type NoiseTexture struct {
	Scale float64
	Color core.Color
}

// NewNoiseTexture creates a white marble texture at the given frequency
func NewNoiseTexture(scale float64) *NoiseTexture {
	return &NoiseTexture{Scale: scale, Color: core.White}
}

// Evaluate returns Color modulated by sin(scale*z + 10*turbulence)
func (n *NoiseTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Color {
	s := 0.5 * (1 + math.Sin(n.Scale*point.Z+10*Turbulence(point, 7)))
	return n.Color.Scale(s)
}
