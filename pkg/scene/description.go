package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/FallenShard/crisp-go/pkg/camera"
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/geometry"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/material"
	"github.com/FallenShard/crisp-go/pkg/medium"
)

// Plugin names a factory variant and its parameters
type Plugin struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params,omitempty"`
}

// ShapeDescription places one shape. BSDF and Medium name entries of the
// description's bsdfs and media. A shape without a BSDF does not scatter light:
// rays pass through it, which makes it a medium boundary or a bare emitter.
type ShapeDescription struct {
	Plugin
	BSDF    string         `json:"bsdf,omitempty"`
	Medium  string         `json:"medium,omitempty"`
	Emitter map[string]any `json:"emitter,omitempty"` // area light parameters, e.g. radiance
}

// FilmDescription overrides the image size the camera is built with
type FilmDescription struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// Description is the declarative form of a scene, decodable from JSON
type Description struct {
	Camera     Plugin             `json:"camera"`
	Sampler    Plugin             `json:"sampler"`
	Integrator Plugin             `json:"integrator"`
	Film       FilmDescription    `json:"film"`
	BSDFs      map[string]Plugin  `json:"bsdfs,omitempty"`
	Media      map[string]Plugin  `json:"media,omitempty"`
	Lights     []Plugin           `json:"lights,omitempty"`
	Shapes     []ShapeDescription `json:"shapes,omitempty"`
}

// Setup is the part of a description that configures the render rather than the scene
type Setup struct {
	Sampler          core.Sampler
	Integrator       string
	IntegratorParams core.VariantMap
	Width            int
	Height           int
}

// DefaultIntegrator is used when a description names none
const DefaultIntegrator = "direct"

// ReadDescription decodes a JSON scene description
func ReadDescription(r io.Reader) (Description, error) {
	var desc Description
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&desc); err != nil {
		return Description{}, fmt.Errorf("failed to decode scene description: %w", err)
	}
	return desc, nil
}

// LoadDescription reads a JSON scene description from a file
func LoadDescription(path string) (Description, error) {
	file, err := os.Open(path)
	if err != nil {
		return Description{}, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	desc, err := ReadDescription(file)
	if err != nil {
		return Description{}, fmt.Errorf("%s: %w", path, err)
	}
	return desc, nil
}

// Build runs every factory of the description and assembles the scene.
// Unknown plugin types fall back to defaults and are reported to diag; malformed
// parameters and references to undefined BSDFs or media are errors.
// The returned scene still needs Preprocess.
func Build(desc Description, diag core.Diagnostics) (*Scene, Setup, error) {
	if diag == nil {
		diag = core.NopDiagnostics{}
	}

	cameraParams := copyParams(desc.Camera.Params)
	if desc.Film.Width > 0 {
		cameraParams["width"] = desc.Film.Width
	}
	if desc.Film.Height > 0 {
		cameraParams["height"] = desc.Film.Height
	}
	cam, err := camera.Create(typeOr(desc.Camera.Type, "perspective"), core.NewVariantMap(cameraParams), diag)
	if err != nil {
		return nil, Setup{}, err
	}

	sampler, err := core.CreateSampler(typeOr(desc.Sampler.Type, "independent"), core.NewVariantMap(desc.Sampler.Params), diag)
	if err != nil {
		return nil, Setup{}, err
	}

	setup := Setup{
		Sampler:          sampler,
		Integrator:       typeOr(desc.Integrator.Type, DefaultIntegrator),
		IntegratorParams: core.NewVariantMap(desc.Integrator.Params),
		Width:            cam.Width(),
		Height:           cam.Height(),
	}

	s := New(cam)

	bsdfs := make(map[string]geometry.Handle, len(desc.BSDFs))
	for _, name := range sortedKeys(desc.BSDFs) {
		plugin := desc.BSDFs[name]
		bsdf, err := material.Create(typeOr(plugin.Type, "lambertian"), core.NewVariantMap(plugin.Params), diag)
		if err != nil {
			return nil, Setup{}, fmt.Errorf("bsdf %q: %w", name, err)
		}
		bsdfs[name] = s.AddBSDF(bsdf)
	}

	media := make(map[string]geometry.Handle, len(desc.Media))
	for _, name := range sortedKeys(desc.Media) {
		plugin := desc.Media[name]
		m, err := medium.Create(typeOr(plugin.Type, "homogeneous"), core.NewVariantMap(plugin.Params), diag)
		if err != nil {
			return nil, Setup{}, fmt.Errorf("medium %q: %w", name, err)
		}
		media[name] = s.AddMedium(m)
	}

	for i, plugin := range desc.Lights {
		if plugin.Type == "area" {
			return nil, Setup{}, fmt.Errorf("light %d: %w", i,
				core.InvalidParameter("light area", "type", "area lights are declared as a shape emitter"))
		}
		light, err := lights.Create(typeOr(plugin.Type, "point"), core.NewVariantMap(plugin.Params), diag)
		if err != nil {
			return nil, Setup{}, fmt.Errorf("light %d: %w", i, err)
		}
		s.AddLight(light)
	}

	for i, sd := range desc.Shapes {
		if err := addShape(s, sd, bsdfs, media, diag); err != nil {
			return nil, Setup{}, fmt.Errorf("shape %d: %w", i, err)
		}
	}

	return s, setup, nil
}

func addShape(s *Scene, sd ShapeDescription, bsdfs, media map[string]geometry.Handle, diag core.Diagnostics) error {
	typeName := typeOr(sd.Type, "mesh")
	shape, err := geometry.Create(typeName, core.NewVariantMap(sd.Params), diag)
	if err != nil {
		return err
	}

	bindings := geometry.NewBindings()
	if sd.BSDF != "" {
		h, ok := bsdfs[sd.BSDF]
		if !ok {
			return core.InvalidParameter("shape "+typeName, "bsdf", fmt.Sprintf("undefined bsdf %q", sd.BSDF))
		}
		bindings.BSDF = h
	}
	if sd.Medium != "" {
		h, ok := media[sd.Medium]
		if !ok {
			return core.InvalidParameter("shape "+typeName, "medium", fmt.Sprintf("undefined medium %q", sd.Medium))
		}
		bindings.Medium = h
	}

	if sd.Emitter == nil {
		_, err = s.AddShape(shape, bindings)
		return err
	}

	light, err := lights.Create("area", core.NewVariantMap(sd.Emitter), diag)
	if err != nil {
		return fmt.Errorf("emitter: %w", err)
	}
	_, err = s.AddEmitter(shape, bindings, light.(*lights.AreaLight))
	return err
}

func typeOr(typeName, def string) string {
	if typeName == "" {
		return def
	}
	return typeName
}

func copyParams(params map[string]any) map[string]any {
	copied := make(map[string]any, len(params)+2)
	for k, v := range params {
		copied[k] = v
	}
	return copied
}

func sortedKeys(m map[string]Plugin) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
