package lights

import (
	"errors"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
)

func TestCreate_KnownTypes(t *testing.T) {
	tests := []struct {
		typeName string
		params   map[string]any
		delta    bool
	}{
		{"point", map[string]any{"position": []any{0.0, 1.0, 0.0}, "power": 10.0}, true},
		{"spot", map[string]any{"position": []float64{0, 1, 0}, "target": []float64{0, 0, 0}}, true},
		{"directional", map[string]any{"direction": []float64{1, -1, 0}}, true},
		{"area", map[string]any{"radiance": []float64{1, 2, 3}}, false},
		{"environment", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			light, err := Create(tt.typeName, core.NewVariantMap(tt.params), core.NopDiagnostics{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if light.IsDelta() != tt.delta {
				t.Errorf("Expected IsDelta %v", tt.delta)
			}
		})
	}
}

func TestCreate_UnknownTypeFallsBackToPoint(t *testing.T) {
	diag := &core.DiagnosticsRecorder{}
	light, err := Create("laser", core.NewVariantMap(nil), diag)
	if err != nil {
		t.Fatalf("Unknown type should not fail: %v", err)
	}
	if _, ok := light.(*PointLight); !ok {
		t.Errorf("Expected PointLight default, got %T", light)
	}
	events := diag.Events()
	if len(events) != 1 || events[0].Component != "light" || events[0].Fields["type"] != "laser" {
		t.Errorf("Expected one light warning, got %+v", events)
	}
}

func TestCreate_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		params   map[string]any
	}{
		{"Negative power", "point", map[string]any{"power": -1.0}},
		{"Malformed position", "point", map[string]any{"position": []float64{1, 2}}},
		{"Zero direction", "directional", map[string]any{"direction": []float64{0, 0, 0}}},
		{"Cone too wide", "spot", map[string]any{"coneAngle": 200.0}},
		{"Spot aimed at itself", "spot", map[string]any{"position": []float64{1, 1, 1}, "target": []float64{1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(tt.typeName, core.NewVariantMap(tt.params), core.NopDiagnostics{})
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("Expected invalid parameter error, got %v", err)
			}
		})
	}
}
