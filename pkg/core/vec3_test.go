package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"Divide", a.Divide(2), NewVec3(0.5, 1, 1.5)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Min", a.Min(b), NewVec3(1, -5, 3)},
		{"Max", a.Max(b), NewVec3(4, 2, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.got, tt.expected, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("%s mismatch (-got +want):\n%s", tt.name, diff)
			}
		})
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}
	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("Expected zero vector to stay zero, got %v", zero)
	}
}

func TestVec3_Axis(t *testing.T) {
	v := NewVec3(7, 8, 9)
	for axis, expected := range []float64{7, 8, 9} {
		if got := v.Axis(axis); got != expected {
			t.Errorf("Axis(%d): expected %f, got %f", axis, expected, got)
		}
	}
}

func TestColor_ToRGBA(t *testing.T) {
	tests := []struct {
		name  string
		color Color
		r     uint8
		g     uint8
		b     uint8
	}{
		{"Black", Black, 0, 0, 0},
		{"Saturated", NewColor(200, 0, 0), 255, 0, 0},
		{"Quarter is gamma corrected to half", NewColor(0.25, 0.25, 0.25), 128, 128, 128},
		{"Negative clamps to zero", NewColor(-1, 0, 0), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.color.ToRGBA()
			if got.R != tt.r || got.G != tt.g || got.B != tt.b || got.A != 255 {
				t.Errorf("Expected (%d,%d,%d,255), got %v", tt.r, tt.g, tt.b, got)
			}
		})
	}
}

func TestColor_IsFinite(t *testing.T) {
	if !NewColor(1, 2, 3).IsFinite() {
		t.Error("Expected finite color")
	}
	if NewColor(math.NaN(), 0, 0).IsFinite() {
		t.Error("Expected NaN color to be non-finite")
	}
	if NewColor(0, math.Inf(1), 0).IsFinite() {
		t.Error("Expected Inf color to be non-finite")
	}
}

func TestColor_Arithmetic(t *testing.T) {
	a := NewColor(0.5, 1, 2)
	b := NewColor(2, 0.5, 0.25)
	if got := a.Mul(b); got != NewColor(1, 0.5, 0.5) {
		t.Errorf("Expected (1,0.5,0.5), got %v", got)
	}
	if got := a.Add(b).Sub(b); got != a {
		t.Errorf("Expected %v, got %v", a, got)
	}
	if got := a.Scale(2).Divide(2); got != a {
		t.Errorf("Expected %v, got %v", a, got)
	}
}
