package core

import (
	"errors"
	"testing"
)

func TestCreateSampler_UnknownTypeFallsBack(t *testing.T) {
	diag := &DiagnosticsRecorder{}
	sampler, err := CreateSampler("sobol-ish", NewVariantMap(nil), diag)
	if err != nil {
		t.Fatalf("Unknown sampler type should not fail: %v", err)
	}
	if _, ok := sampler.(*IndependentSampler); !ok {
		t.Errorf("Expected independent sampler default, got %T", sampler)
	}

	events := diag.Events()
	if len(events) != 1 {
		t.Fatalf("Expected one diagnostic, got %d", len(events))
	}
	if events[0].Severity != SeverityWarning || events[0].Component != "sampler" {
		t.Errorf("Unexpected diagnostic: %+v", events[0])
	}
	if events[0].Fields["type"] != "sobol-ish" {
		t.Errorf("Diagnostic should name the requested type, got %v", events[0].Fields)
	}
}

func TestCreateSampler_ConfigurationErrorsFailFast(t *testing.T) {
	diag := &DiagnosticsRecorder{}
	_, err := CreateSampler("independent", NewVariantMap(map[string]any{"sampleCount": 0}), diag)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("Expected invalid parameter error, got %v", err)
	}
	if len(diag.Events()) != 0 {
		t.Errorf("Configuration errors should not be reported as fallbacks")
	}

	_, err = CreateSampler("fixed", NewVariantMap(map[string]any{"values": []float64{0.2, 1.5}}), diag)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Expected invalid parameter for value outside [0,1), got %v", err)
	}
}

func TestFixedSampler_ReplaysSequence(t *testing.T) {
	sampler, err := CreateSampler("fixed", NewVariantMap(map[string]any{
		"values":      []float64{0.1, 0.2, 0.3},
		"sampleCount": 4,
	}), NopDiagnostics{})
	if err != nil {
		t.Fatal(err)
	}

	if sampler.SampleCount() != 4 {
		t.Errorf("Expected 4 samples per pixel, got %d", sampler.SampleCount())
	}
	got := []float64{sampler.Get1D(), sampler.Get1D(), sampler.Get1D(), sampler.Get1D()}
	expected := []float64{0.1, 0.2, 0.3, 0.1}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Value %d: expected %f, got %f", i, expected[i], got[i])
		}
	}

	sampler.Seed(99)
	if v := sampler.Get2D(); v != NewVec2(0.1, 0.2) {
		t.Errorf("Seed should rewind the sequence, got %v", v)
	}
}

func TestIndependentSampler_SeedReproduces(t *testing.T) {
	a := NewIndependentSampler(1, 5)
	b := a.Clone()
	b.Seed(5)

	for i := 0; i < 10; i++ {
		x, y := a.Get1D(), b.Get1D()
		if x != y {
			t.Fatalf("Sequences diverged at %d: %f vs %f", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("Value out of range: %f", x)
		}
	}
}
