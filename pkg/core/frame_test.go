package core

import (
	"math"
	"testing"
)

func TestFrame_Orthonormal(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(-0.3, 0.2, -0.9).Normalize(),
	}

	const tolerance = 1e-9
	for _, n := range normals {
		f := NewFrame(n)
		if math.Abs(f.Tangent.Dot(f.Bitangent)) > tolerance ||
			math.Abs(f.Tangent.Dot(f.Normal)) > tolerance ||
			math.Abs(f.Bitangent.Dot(f.Normal)) > tolerance {
			t.Errorf("Frame for %v is not orthogonal: %+v", n, f)
		}
		if math.Abs(f.Tangent.Length()-1) > tolerance || math.Abs(f.Bitangent.Length()-1) > tolerance {
			t.Errorf("Frame for %v is not normalized: %+v", n, f)
		}

		local := f.ToLocal(n)
		if !local.Equals(NewVec3(0, 0, 1)) {
			t.Errorf("Normal should map to +Z, got %v", local)
		}

		v := NewVec3(0.2, -0.5, 0.7)
		if roundTrip := f.ToWorld(f.ToLocal(v)); !roundTrip.Equals(v) {
			t.Errorf("Round trip failed: expected %v, got %v", v, roundTrip)
		}
	}
}
