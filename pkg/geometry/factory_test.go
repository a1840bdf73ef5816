package geometry

import (
	"errors"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
)

func TestCreate_Shapes(t *testing.T) {
	tests := []struct {
		typeName   string
		params     map[string]any
		primitives int
	}{
		{"sphere", map[string]any{"radius": 2.0}, 1},
		{"rectangle", nil, 1},
		{"disc", map[string]any{"normal": []float64{0, 0, 1}}, 1},
		{"cube", map[string]any{"rotation": []float64{0, 45, 0}}, 12},
		{"mesh", map[string]any{
			"positions": []any{0.0, 0.0, 0.0, 1.0, 0.0, 0.0, 0.0, 1.0, 0.0},
			"indices":   []any{0.0, 1.0, 2.0},
		}, 1},
		{"mesh", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			shape, err := Create(tt.typeName, core.NewVariantMap(tt.params), core.NopDiagnostics{})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if shape.PrimitiveCount() != tt.primitives {
				t.Errorf("Expected %d primitives, got %d", tt.primitives, shape.PrimitiveCount())
			}
			if b := shape.Bindings(); b != NewBindings() {
				t.Errorf("New shapes should be unbound, got %+v", b)
			}
		})
	}
}

func TestCreate_UnknownShapeIsEmptyMesh(t *testing.T) {
	diag := &core.DiagnosticsRecorder{}
	shape, err := Create("torus", core.NewVariantMap(nil), diag)
	if err != nil {
		t.Fatalf("Unknown type should not fail: %v", err)
	}
	if _, ok := shape.(*Mesh); !ok || shape.PrimitiveCount() != 0 {
		t.Errorf("Expected an empty mesh, got %T", shape)
	}
	if len(diag.Events()) != 1 {
		t.Errorf("Expected one fallback diagnostic")
	}
}

func TestCreate_ShapeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		typeName string
		params   map[string]any
	}{
		{"Zero radius", "sphere", map[string]any{"radius": 0.0}},
		{"Degenerate rectangle", "rectangle", map[string]any{"edgeU": []float64{1, 0, 0}, "edgeV": []float64{2, 0, 0}}},
		{"Ragged positions", "mesh", map[string]any{"positions": []float64{0, 0}}},
		{"Bad index", "mesh", map[string]any{"positions": []float64{0, 0, 0}, "indices": []int{0, 0, 1}}},
		{"Fractional index", "mesh", map[string]any{"positions": []float64{0, 0, 0}, "indices": []float64{0, 0, 0.5}}},
		{"Flat cube", "cube", map[string]any{"size": []float64{1, 0, 1}}},
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
