package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/scifi6546/ray-tracing-sub001/pkg/core"
)

func randomSpheres(random *rand.Rand, n int) []Hittable {
	objects := make([]Hittable, n)
	for i := range objects {
		center := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		objects[i] = NewSphere(center, 0.2+random.Float64(), nil)
	}
	return objects
}

func TestBVH_MatchesLinearScan(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, n := range []int{1, 2, 3, 7, 64, 300} {
		objects := randomSpheres(random, n)
		objects = append(objects, NewRenderBox(core.NewVec3(-3, -3, -3), core.NewVec3(-2, 0, 1), nil))
		bvh := NewBVH(objects, 0, 1)
		list := NewHittableList(objects...)

		hits := 0
		for i := 0; i < 2000; i++ {
			origin := core.NewVec3(random.Float64()*40-20, random.Float64()*40-20, random.Float64()*40-20)
			dir := core.SampleOnUnitSphere(core.NewVec2(random.Float64(), random.Float64()))
			ray := core.NewRay(origin, dir)

			want, wantOK := list.Hit(ray, 0.001, math.Inf(1), nil)
			got, gotOK := bvh.Hit(ray, 0.001, math.Inf(1), nil)
			if wantOK != gotOK {
				t.Fatalf("n=%d: Expected hit=%v, got %v for ray %v", n, wantOK, gotOK, ray)
			}
			if !wantOK {
				continue
			}
			hits++
			if math.Abs(want.T-got.T) > 1e-9 {
				t.Fatalf("n=%d: Expected t=%f, got %f", n, want.T, got.T)
			}
		}
		if hits == 0 {
			t.Errorf("n=%d: Expected some rays to hit", n)
		}
	}
}

func TestBVH_PanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for empty object list")
		}
	}()
	NewBVH(nil, 0, 1)
}

func TestBVH_LeafRules(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	tests := []struct {
		n            int
		expectedLeaf bool
	}{
		{1, true},
		{2, true},
		{3, false},
	}
	for _, tt := range tests {
		bvh := NewBVH(randomSpheres(random, tt.n), 0, 1)
		isLeaf := bvh.Root.Objects != nil
		if isLeaf != tt.expectedLeaf {
			t.Errorf("n=%d: Expected leaf root=%v, got %v", tt.n, tt.expectedLeaf, isLeaf)
		}
	}
}

func TestBVH_Stats(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	objects := randomSpheres(random, 100)
	stats := NewBVH(objects, 0, 1).Stats()

	if stats.TotalObjects != 100 {
		t.Errorf("Expected 100 objects in leaves, got %d", stats.TotalObjects)
	}
	if stats.TotalNodes != 2*stats.LeafNodes-1 {
		t.Errorf("Expected full binary tree, got %d nodes and %d leaves", stats.TotalNodes, stats.LeafNodes)
	}
	// Median splits keep the tree balanced
	if stats.MaxDepth > 8 {
		t.Errorf("Expected depth at most 8, got %d", stats.MaxDepth)
	}
}

func TestBVH_SplitsOnWidestCentroidAxis(t *testing.T) {
	// Spread along Z only; the root's children must separate by Z
	var objects []Hittable
	for i := 0; i < 8; i++ {
		objects = append(objects, NewSphere(core.NewVec3(0, 0, float64(i)*3), 1, nil))
	}
	bvh := NewBVH(objects, 0, 1)
	if bvh.Root.Left.BoundingBox.Max.Z > bvh.Root.Right.BoundingBox.Min.Z {
		t.Errorf("Expected left child below right child on Z, got %v and %v",
			bvh.Root.Left.BoundingBox, bvh.Root.Right.BoundingBox)
	}
}

func TestBVH_RootBoxContainsAll(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	objects := randomSpheres(random, 50)
	bvh := NewBVH(objects, 0, 1)
	root, _ := bvh.BoundingBox(0, 1)
	for _, object := range objects {
		box, _ := object.BoundingBox(0, 1)
		if !root.Contains(box) {
			t.Errorf("Expected root %v to contain %v", root, box)
		}
	}
}
