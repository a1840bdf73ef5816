package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// BuiltinInfo describes a scene compiled into the binary
type BuiltinInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type builtin struct {
	info  BuiltinInfo
	build func() Description
}

var builtins = map[string]builtin{
	"mis": {
		info:  BuiltinInfo{Name: "mis", Description: "Four plates of increasing roughness lit by spherical emitters of increasing size"},
		build: misDescription,
	},
	"cornell": {
		info:  BuiltinInfo{Name: "cornell", Description: "Cornell box with a mirror sphere and a glass sphere"},
		build: cornellDescription,
	},
	"glass": {
		info:  BuiltinInfo{Name: "glass", Description: "Glass sphere and cube on a checkerboard under a spot light"},
		build: glassDescription,
	},
	"fog": {
		info:  BuiltinInfo{Name: "fog", Description: "Spot light shining through a box of homogeneous fog"},
		build: fogDescription,
	},
}

// Builtins lists the built-in scenes sorted by name
func Builtins() []BuiltinInfo {
	infos := make([]BuiltinInfo, 0, len(builtins))
	for _, b := range builtins {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos
}

// Builtin returns the description of a built-in scene
func Builtin(name string) (Description, error) {
	b, ok := builtins[name]
	if !ok {
		return Description{}, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(builtinNames(), ", "))
	}
	return b.build(), nil
}

// Resolve returns a built-in scene by name or loads a JSON description from a path
func Resolve(nameOrPath string) (Description, error) {
	if strings.EqualFold(filepath.Ext(nameOrPath), ".json") {
		return LoadDescription(nameOrPath)
	}
	return Builtin(nameOrPath)
}

func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func vec(x, y, z float64) []float64 {
	return []float64{x, y, z}
}

// misDescription is the classic multiple importance sampling test: glossy plates
// reflecting emitters whose radiance is scaled so every sphere emits the same power
func misDescription() Description {
	desc := Description{
		Camera: Plugin{Type: "perspective", Params: map[string]any{
			"origin": vec(0, 2, 15),
			"target": vec(0, -2, 2.5),
			"fov":    28.0,
			"width":  512,
			"height": 342,
		}},
		Integrator: Plugin{Type: "direct"},
		BSDFs: map[string]Plugin{
			"backdrop": {Type: "lambertian", Params: map[string]any{"albedo": 0.4}},
		},
	}

	// Plate corners (y, z) at the near and far edges, spanning x in [-4, 4]
	plates := []struct {
		y0, z0, y1, z1 float64
		alpha          float64
	}{
		{-2.70651, 0.25609, -2.08375, -0.526323, 0.005},
		{-3.28825, 1.36972, -2.83856, 0.476536, 0.02},
		{-3.73096, 2.70046, -3.43378, 1.74564, 0.05},
		{-3.99615, 4.0667, -3.82069, 3.08221, 0.1},
	}
	for i, p := range plates {
		name := fmt.Sprintf("plate%d", i+1)
		desc.BSDFs[name] = Plugin{Type: "rough-conductor", Params: map[string]any{
			"alpha":        p.alpha,
			"distribution": "beckmann",
			"eta":          vec(0.2, 0.92, 1.1),
			"k":            vec(3.9, 2.45, 2.14),
		}}
		desc.Shapes = append(desc.Shapes, ShapeDescription{
			Plugin: Plugin{Type: "rectangle", Params: map[string]any{
				"origin": vec(-4, p.y0, p.z0),
				"edgeU":  vec(8, 0, 0),
				"edgeV":  vec(0, p.y1-p.y0, p.z1-p.z0),
			}},
			BSDF: name,
		})
	}

	emitters := []struct {
		x, radius, radiance float64
	}{
		{-3.75, 0.0333, 901.803},
		{-1.25, 0.1, 100},
		{1.25, 0.3, 11.1111},
		{3.75, 0.9, 1.23457},
	}
	for _, e := range emitters {
		desc.Shapes = append(desc.Shapes, ShapeDescription{
			Plugin:  Plugin{Type: "sphere", Params: map[string]any{"center": vec(e.x, 0, 0), "radius": e.radius}},
			Emitter: map[string]any{"radiance": e.radiance},
		})
	}

	desc.Shapes = append(desc.Shapes,
		ShapeDescription{
			Plugin: Plugin{Type: "rectangle", Params: map[string]any{
				"origin": vec(-10, -4.1, -10),
				"edgeU":  vec(0, 0, 20),
				"edgeV":  vec(20, 0, 0),
			}},
			BSDF: "backdrop",
		},
		ShapeDescription{
			Plugin: Plugin{Type: "rectangle", Params: map[string]any{
				"origin": vec(-10, -4.1, -2),
				"edgeU":  vec(20, 0, 0),
				"edgeV":  vec(0, 20, 0),
			}},
			BSDF: "backdrop",
		},
		ShapeDescription{
			Plugin:  Plugin{Type: "sphere", Params: map[string]any{"center": vec(10, 10, 4), "radius": 0.5}},
			Emitter: map[string]any{"radiance": 800.0},
		},
	)
	return desc
}

// cornellDescription is the 555-unit Cornell box. Walls face inward.
func cornellDescription() Description {
	const boxSize = 555.0
	const lightSize = 130.0
	lightOffset := (boxSize - lightSize) / 2

	wall := func(origin, u, v []float64, bsdf string) ShapeDescription {
		return ShapeDescription{
			Plugin: Plugin{Type: "rectangle", Params: map[string]any{"origin": origin, "edgeU": u, "edgeV": v}},
			BSDF:   bsdf,
		}
	}

	return Description{
		Camera: Plugin{Type: "perspective", Params: map[string]any{
			"origin": vec(278, 278, -800),
			"target": vec(278, 278, 0),
			"fov":    40.0,
			"width":  400,
			"height": 400,
		}},
		Integrator: Plugin{Type: "path"},
		BSDFs: map[string]Plugin{
			"white":  {Type: "lambertian", Params: map[string]any{"albedo": 0.73}},
			"red":    {Type: "lambertian", Params: map[string]any{"albedo": vec(0.65, 0.05, 0.05)}},
			"green":  {Type: "lambertian", Params: map[string]any{"albedo": vec(0.12, 0.45, 0.15)}},
			"mirror": {Type: "mirror", Params: map[string]any{"reflectance": vec(0.8, 0.8, 0.9)}},
			"glass":  {Type: "dielectric", Params: map[string]any{"intIOR": 1.5}},
		},
		Shapes: []ShapeDescription{
			// floor, ceiling and back wall
			wall(vec(0, 0, 0), vec(0, 0, boxSize), vec(boxSize, 0, 0), "white"),
			wall(vec(0, boxSize, 0), vec(boxSize, 0, 0), vec(0, 0, boxSize), "white"),
			wall(vec(0, 0, boxSize), vec(0, boxSize, 0), vec(boxSize, 0, 0), "white"),
			// side walls, red on the camera's left
			wall(vec(boxSize, 0, 0), vec(0, 0, boxSize), vec(0, boxSize, 0), "red"),
			wall(vec(0, 0, 0), vec(0, boxSize, 0), vec(0, 0, boxSize), "green"),
			{
				Plugin: Plugin{Type: "rectangle", Params: map[string]any{
					"origin": vec(lightOffset, boxSize-1, lightOffset),
					"edgeU":  vec(lightSize, 0, 0),
					"edgeV":  vec(0, 0, lightSize),
				}},
				Emitter: map[string]any{"radiance": 15.0},
			},
			{
				Plugin: Plugin{Type: "sphere", Params: map[string]any{"center": vec(185, 82.5, 169), "radius": 82.5}},
				BSDF:   "mirror",
			},
			{
				Plugin: Plugin{Type: "sphere", Params: map[string]any{"center": vec(370, 90, 351), "radius": 90.0}},
				BSDF:   "glass",
			},
		},
	}
}

// glassDescription shows refraction and caustics from a narrow spot light
func glassDescription() Description {
	return Description{
		Camera: Plugin{Type: "perspective", Params: map[string]any{
			"origin": vec(-5.5, 7, -5.5),
			"target": vec(-4.75, 2.25, 0),
			"fov":    45.0,
			"width":  350,
			"height": 500,
		}},
		Integrator: Plugin{Type: "path", Params: map[string]any{"maxDepth": 20}},
		BSDFs: map[string]Plugin{
			"floor": {Type: "lambertian", Params: map[string]any{
				"texture": "checkerboard", "albedo": 0.64, "albedo2": 0.2, "scale": 4.0,
			}},
			"glass": {Type: "dielectric", Params: map[string]any{"intIOR": 1.25}},
			"gold":  {Type: "rough-conductor", Params: map[string]any{"alpha": 0.15}},
		},
		Lights: []Plugin{
			{Type: "spot", Params: map[string]any{
				"position":  vec(0, 5, 9),
				"target":    vec(-5, 2.75, 0),
				"power":     vec(1398, 1186, 1054),
				"coneAngle": 30.0,
				"coneDelta": 5.0,
			}},
			{Type: "environment", Params: map[string]any{"radiance": 0.2}},
		},
		Shapes: []ShapeDescription{
			{
				Plugin: Plugin{Type: "rectangle", Params: map[string]any{
					"origin": vec(-20, 0, -20), "edgeU": vec(0, 0, 40), "edgeV": vec(40, 0, 0),
				}},
				BSDF: "floor",
			},
			{
				Plugin: Plugin{Type: "sphere", Params: map[string]any{"center": vec(-4.75, 1.2, 0), "radius": 1.2}},
				BSDF:   "glass",
			},
			{
				Plugin: Plugin{Type: "cube", Params: map[string]any{
					"center": vec(-3, 0.6, 2), "size": vec(0.6, 0.6, 0.6), "rotation": vec(0, 30, 0),
				}},
				BSDF: "glass",
			},
			{
				Plugin: Plugin{Type: "sphere", Params: map[string]any{"center": vec(-6.5, 0.5, 1.5), "radius": 0.5}},
				BSDF:   "gold",
			},
		},
	}
}

// fogDescription fills a box with scattering fog. The box has no BSDF, so only the
// medium inside it interacts with light.
func fogDescription() Description {
	return Description{
		Camera: Plugin{Type: "perspective", Params: map[string]any{
			"origin": vec(0, 2, 9),
			"target": vec(0, 1, 0),
			"fov":    40.0,
			"width":  480,
			"height": 320,
		}},
		Integrator: Plugin{Type: "path"},
		BSDFs: map[string]Plugin{
			"ground": {Type: "lambertian", Params: map[string]any{"albedo": 0.5}},
			"pillar": {Type: "lambertian", Params: map[string]any{"albedo": vec(0.7, 0.3, 0.2)}},
		},
		Media: map[string]Plugin{
			"fog": {Type: "homogeneous", Params: map[string]any{
				"sigmaA": 0.02,
				"sigmaS": 0.15,
				"phase":  "henyey-greenstein",
				"g":      0.6,
			}},
		},
		Lights: []Plugin{
			{Type: "spot", Params: map[string]any{
				"position":  vec(-1.5, 5.5, 0),
				"target":    vec(0.5, 0, 0),
				"power":     600.0,
				"coneAngle": 20.0,
				"coneDelta": 4.0,
			}},
			{Type: "environment", Params: map[string]any{"radiance": 0.05}},
		},
		Shapes: []ShapeDescription{
			{
				Plugin: Plugin{Type: "rectangle", Params: map[string]any{
					"origin": vec(-10, 0, -10), "edgeU": vec(0, 0, 20), "edgeV": vec(20, 0, 0),
				}},
				BSDF: "ground",
			},
			{
				Plugin: Plugin{Type: "cube", Params: map[string]any{"center": vec(0, 3.01, 0), "size": vec(4, 3, 4)}},
				Medium: "fog",
			},
			{
				Plugin: Plugin{Type: "cube", Params: map[string]any{
					"center": vec(0.8, 0.75, -0.5), "size": vec(0.35, 0.75, 0.35), "rotation": vec(0, 20, 0),
				}},
				BSDF: "pillar",
			},
		},
	}
}
