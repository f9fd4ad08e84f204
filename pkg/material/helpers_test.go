package material

import "github.com/scifi6546/ray-tracing-sub001/pkg/core"

// constantSampler returns the same value for every dimension
type constantSampler struct {
	value float64
}

func (s constantSampler) Get1D() float64 { return s.value }
func (s constantSampler) Get2D() core.Vec2 {
	return core.NewVec2(s.value, s.value)
}
func (s constantSampler) Get3D() core.Vec3 {
	return core.NewVec3(s.value, s.value, s.value)
}

func upHit(m Material) *HitRecord {
	return &HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
		Material:  m,
	}
}
