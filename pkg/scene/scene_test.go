package scene

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/geometry"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/material"
)

const testSceneJSON = `{
	"camera": {"type": "perspective", "params": {"origin": [0, 1, 6], "target": [0, 1, 0], "width": 64, "height": 48}},
	"sampler": {"type": "independent", "params": {"sampleCount": 4, "seed": 7}},
	"integrator": {"type": "path", "params": {"maxDepth": 5}},
	"bsdfs": {
		"floor": {"type": "lambertian", "params": {"albedo": [0.5, 0.5, 0.5]}}
	},
	"media": {
		"smoke": {"type": "homogeneous", "params": {"sigmaA": 0.1, "sigmaS": 0.2}}
	},
	"lights": [
		{"type": "environment", "params": {"radiance": 0.5}}
	],
	"shapes": [
		{"type": "rectangle", "params": {"origin": [-5, 0, -5], "edgeU": [0, 0, 10], "edgeV": [10, 0, 0]}, "bsdf": "floor"},
		{"type": "sphere", "params": {"center": [0, 2, 0], "radius": 0.5}, "emitter": {"radiance": 10}},
		{"type": "cube", "params": {"center": [3, 1, 3], "size": [0.5, 0.5, 0.5]}, "medium": "smoke"}
	]
}`

func buildTestScene(t *testing.T) (*Scene, Setup) {
	t.Helper()
	desc, err := ReadDescription(strings.NewReader(testSceneJSON))
	if err != nil {
		t.Fatalf("ReadDescription failed: %v", err)
	}
	s, setup, err := Build(desc, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	return s, setup
}

func TestBuildFromJSON(t *testing.T) {
	s, setup := buildTestScene(t)

	if setup.Width != 64 || setup.Height != 48 {
		t.Errorf("setup size = %dx%d, want 64x48", setup.Width, setup.Height)
	}
	if setup.Integrator != "path" {
		t.Errorf("setup integrator = %q, want path", setup.Integrator)
	}
	if depth, _ := setup.IntegratorParams.Int("maxDepth", 0); depth != 5 {
		t.Errorf("integrator maxDepth = %d, want 5", depth)
	}
	if setup.Sampler.SampleCount() != 4 {
		t.Errorf("sampler count = %d, want 4", setup.Sampler.SampleCount())
	}

	if len(s.Shapes()) != 3 {
		t.Fatalf("expected 3 shapes, got %d", len(s.Shapes()))
	}
	if len(s.Lights()) != 2 {
		t.Fatalf("expected environment and area light, got %d lights", len(s.Lights()))
	}

	env, index := s.Environment()
	if env == nil || index != 0 {
		t.Errorf("Environment() = %v, %d; want the first light", env, index)
	}

	area, ok := s.Light(1).(*lights.AreaLight)
	if !ok {
		t.Fatalf("light 1 is %T, want *lights.AreaLight", s.Light(1))
	}
	if s.EmitterShape(area) != 1 {
		t.Errorf("EmitterShape = %d, want 1", s.EmitterShape(area))
	}
	if s.LightIndex(area) != 1 {
		t.Errorf("LightIndex = %d, want 1", s.LightIndex(area))
	}
	if area.Power().IsZero() {
		t.Error("area light should be bound to its sphere and emit power")
	}

	cube := s.Shape(2).Bindings()
	if cube.Medium != 0 || cube.BSDF != geometry.NoHandle {
		t.Errorf("cube bindings = %+v, want medium 0 and no BSDF", cube)
	}
	if s.Medium(cube.Medium) == nil {
		t.Error("medium handle should resolve")
	}
	if s.BSDF(geometry.NoHandle) != nil {
		t.Error("NoHandle should resolve to a nil BSDF")
	}
}

func TestSceneIntersect(t *testing.T) {
	s, _ := buildTestScene(t)

	tests := []struct {
		name    string
		origin  core.Vec3
		shapeID geometry.Handle
		t       float64
	}{
		{"sphere emitter", core.NewVec3(0, 5, 0), 1, 2.5},
		{"floor", core.NewVec3(-3, 5, -3), 0, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			its, ok := s.Intersect(core.NewRay(tt.origin, core.NewVec3(0, -1, 0)))
			if !ok {
				t.Fatal("expected a hit")
			}
			if its.ShapeID != tt.shapeID {
				t.Errorf("ShapeID = %d, want %d", its.ShapeID, tt.shapeID)
			}
			if math.Abs(its.T-tt.t) > 1e-6 {
				t.Errorf("T = %f, want %f", its.T, tt.t)
			}
		})
	}

	if _, ok := s.Intersect(core.NewRay(core.NewVec3(0, 5, 0), core.NewVec3(0, 1, 0))); ok {
		t.Error("upward ray should miss")
	}

	blocked := core.NewSegment(core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0))
	if !s.Occluded(blocked) {
		t.Error("segment through the sphere should be occluded")
	}
	clear := core.NewSegment(core.NewVec3(-3, 5, -3), core.NewVec3(-3, 1, -3))
	if s.Occluded(clear) {
		t.Error("segment above the floor should be clear")
	}

	bounds := s.Bounds()
	if !bounds.IsValid() || bounds.Max.Y < 2.5 {
		t.Errorf("unexpected bounds %+v", bounds)
	}
	if s.PrimitiveCount() != 1+1+12 {
		t.Errorf("PrimitiveCount = %d, want 14", s.PrimitiveCount())
	}
}

func TestSceneBeforePreprocess(t *testing.T) {
	s := New(nil)
	if _, err := s.AddShape(geometry.NewSphere(core.Vec3{}, 1), geometry.NewBindings()); err != nil {
		t.Fatalf("AddShape failed: %v", err)
	}
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
	if _, ok := s.Intersect(ray); ok {
		t.Error("scene without Preprocess should not report hits")
	}
	if s.Occluded(ray) {
		t.Error("scene without Preprocess should not occlude")
	}
	if s.Bounds().IsValid() {
		t.Error("bounds should be empty before Preprocess")
	}
}

func TestAddShapeRejectsBadHandles(t *testing.T) {
	s := New(nil)
	s.AddBSDF(material.NewLambertian(core.Gray(0.5)))

	bindings := geometry.NewBindings()
	bindings.BSDF = 3
	if _, err := s.AddShape(geometry.NewSphere(core.Vec3{}, 1), bindings); err == nil {
		t.Error("expected an error for an out-of-range BSDF handle")
	}

	bindings = geometry.NewBindings()
	bindings.Medium = 0
	if _, err := s.AddShape(geometry.NewSphere(core.Vec3{}, 1), bindings); err == nil {
		t.Error("expected an error for a medium handle with no media registered")
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		desc Description
		key  string
	}{
		{
			name: "undefined bsdf",
			desc: Description{Shapes: []ShapeDescription{{Plugin: Plugin{Type: "sphere"}, BSDF: "missing"}}},
			key:  "bsdf",
		},
		{
			name: "undefined medium",
			desc: Description{Shapes: []ShapeDescription{{Plugin: Plugin{Type: "sphere"}, Medium: "missing"}}},
			key:  "medium",
		},
		{
			name: "bad shape parameter",
			desc: Description{Shapes: []ShapeDescription{{Plugin: Plugin{Type: "sphere", Params: map[string]any{"radius": -1.0}}}}},
			key:  "radius",
		},
		{
			name: "bad bsdf parameter",
			desc: Description{BSDFs: map[string]Plugin{"m": {Type: "mix", Params: map[string]any{"ratio": 2.0}}}},
			key:  "ratio",
		},
		{
			name: "free-standing area light",
			desc: Description{Lights: []Plugin{{Type: "area"}}},
			key:  "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(tt.desc, nil)
			if err == nil {
				t.Fatal("expected a configuration error")
			}
			var paramErr *core.ParameterError
			if !errors.As(err, &paramErr) {
				t.Fatalf("expected a ParameterError, got %v", err)
			}
			if paramErr.Key != tt.key {
				t.Errorf("Key = %q, want %q", paramErr.Key, tt.key)
			}
			if !errors.Is(err, core.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestBuildUnknownTypesFallBack(t *testing.T) {
	desc := Description{
		Camera: Plugin{Type: "pinhole"},
		Lights: []Plugin{{Type: "laser"}},
		Shapes: []ShapeDescription{{Plugin: Plugin{Type: "torus"}}},
	}
	recorder := &core.DiagnosticsRecorder{}
	s, setup, err := Build(desc, recorder)
	if err != nil {
		t.Fatalf("unknown types should not be errors: %v", err)
	}
	if setup.Integrator != DefaultIntegrator {
		t.Errorf("integrator = %q, want %q", setup.Integrator, DefaultIntegrator)
	}
	if len(s.Lights()) != 1 || len(s.Shapes()) != 1 {
		t.Errorf("expected the defaults to be built, got %d lights and %d shapes", len(s.Lights()), len(s.Shapes()))
	}

	components := map[string]bool{}
	for _, event := range recorder.Events() {
		if event.Severity != core.SeverityWarning {
			t.Errorf("unexpected severity %v", event.Severity)
		}
		components[event.Component] = true
	}
	for _, want := range []string{"camera", "light", "shape"} {
		if !components[want] {
			t.Errorf("missing diagnostic for %s, got %v", want, recorder.Events())
		}
	}
}

func TestBuiltins(t *testing.T) {
	infos := Builtins()
	if len(infos) != 4 {
		t.Fatalf("expected 4 built-in scenes, got %d", len(infos))
	}

	for _, info := range infos {
		t.Run(info.Name, func(t *testing.T) {
			desc, err := Builtin(info.Name)
			if err != nil {
				t.Fatalf("Builtin failed: %v", err)
			}
			recorder := &core.DiagnosticsRecorder{}
			s, setup, err := Build(desc, recorder)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}
			if events := recorder.Events(); len(events) != 0 {
				t.Errorf("built-in scene should not need fallbacks: %v", events)
			}
			if err := s.Preprocess(); err != nil {
				t.Fatalf("Preprocess failed: %v", err)
			}
			if len(s.Lights()) == 0 {
				t.Error("built-in scene has no lights")
			}
			if s.PrimitiveCount() == 0 {
				t.Error("built-in scene has no geometry")
			}
			if setup.Width <= 0 || setup.Height <= 0 {
				t.Errorf("invalid film size %dx%d", setup.Width, setup.Height)
			}

			// The camera must see something
			center := core.NewVec2(float64(setup.Width)/2, float64(setup.Height)/2)
			ray := s.Camera.GenerateRay(center, core.NewIndependentSampler(1, 1))
			if _, ok := s.Intersect(ray); !ok {
				t.Error("center camera ray should hit the scene")
			}
		})
	}
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("sponza")
	if err == nil {
		t.Fatal("expected an error for an unknown scene")
	}
	for _, name := range []string{"cornell", "fog", "glass", "mis"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q should list %q", err, name)
		}
	}
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(testSceneJSON), 0o644); err != nil {
		t.Fatalf("failed to write scene file: %v", err)
	}

	desc, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", path, err)
	}
	if len(desc.Shapes) != 3 {
		t.Errorf("expected 3 shapes, got %d", len(desc.Shapes))
	}

	if _, err := Resolve("cornell"); err != nil {
		t.Errorf("Resolve(cornell) failed: %v", err)
	}
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestReadDescriptionRejectsUnknownFields(t *testing.T) {
	_, err := ReadDescription(strings.NewReader(`{"shapes": [], "lighting": []}`))
	if err == nil {
		t.Error("expected an error for an unknown top-level field")
	}
}
