package core

import "testing"

func TestIndependentSampler_SeedIsDeterministic(t *testing.T) {
	a := NewIndependentSampler(4, 7)
	b := NewIndependentSampler(4, 7)

	for i := 0; i < 16; i++ {
		va, vb := a.Get2D(), b.Get2D()
		if va != vb {
			t.Fatalf("sample %d differs: %v vs %v", i, va, vb)
		}
		if va.X < 0 || va.X >= 1 || va.Y < 0 || va.Y >= 1 {
			t.Fatalf("sample %d out of [0, 1): %v", i, va)
		}
	}

	a.Seed(99)
	b.Seed(99)
	if a.Get1D() != b.Get1D() {
		t.Error("reseeded samplers should replay the same stream")
	}
}

func TestIndependentSampler_CloneIsIndependent(t *testing.T) {
	original := NewIndependentSampler(8, 3)
	clone := original.Clone()

	if clone.SampleCount() != 8 {
		t.Errorf("Expected clone sample count 8, got %d", clone.SampleCount())
	}

	clone.Seed(5)
	want := NewIndependentSampler(8, 5).Get1D()
	before := original.Get1D()
	if got := clone.Get1D(); got != want {
		t.Errorf("clone seeded with 5 returned %g, want %g", got, want)
	}
	if after := NewIndependentSampler(8, 3).Get1D(); before != after {
		t.Errorf("seeding the clone disturbed the original stream: %g vs %g", before, after)
	}
}
