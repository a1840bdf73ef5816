package core

import (
	"math"
	"testing"
)

func TestVec3_Operations(t *testing.T) {
	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", NewVec3(1, 2, 3).Add(NewVec3(1, 1, 1)), NewVec3(2, 3, 4)},
		{"Subtract", NewVec3(1, 2, 3).Subtract(NewVec3(1, 1, 1)), NewVec3(0, 1, 2)},
		{"Multiply", NewVec3(1, 2, 3).Multiply(2), NewVec3(2, 4, 6)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Normalize", NewVec3(3, 0, 4).Normalize(), NewVec3(0.6, 0, 0.8)},
		{"Normalize zero", Vec3{}.Normalize(), Vec3{}},
		{"Min", NewVec3(1, 5, -2).Min(NewVec3(2, 3, -1)), NewVec3(1, 3, -2)},
		{"Max", NewVec3(1, 5, -2).Max(NewVec3(2, 3, -1)), NewVec3(2, 5, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}
}

func TestNewSegment_InsetsEndPoints(t *testing.T) {
	from := NewVec3(0, 0, 0)
	to := NewVec3(0, 4, 0)
	ray := NewSegment(from, to)

	if math.Abs(ray.Direction.Length()-1) > 1e-12 {
		t.Errorf("Segment direction should be normalized, got length %f", ray.Direction.Length())
	}
	if ray.MinT <= 0 {
		t.Errorf("Segment should start after its origin, got MinT %f", ray.MinT)
	}
	if ray.MaxT >= 4 {
		t.Errorf("Segment should end before its target, got MaxT %f", ray.MaxT)
	}
	if !ray.At(4).Equals(to) {
		t.Errorf("Segment should point at its target, got %v", ray.At(4))
	}
}

func TestNewRay_DefaultInterval(t *testing.T) {
	ray := NewRay(Vec3{}, NewVec3(0, 0, 1))
	if ray.MinT != RayEpsilon {
		t.Errorf("Expected MinT %g, got %g", RayEpsilon, ray.MinT)
	}
	if !math.IsInf(ray.MaxT, 1) {
		t.Errorf("Expected infinite MaxT, got %g", ray.MaxT)
	}
}
