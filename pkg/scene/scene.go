package scene

import (
	"fmt"

	"github.com/FallenShard/crisp-go/pkg/camera"
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/geometry"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/material"
	"github.com/FallenShard/crisp-go/pkg/medium"
)

// Scene owns every shape, BSDF, light and medium of a render. Shapes refer to the
// other objects by handle. After Preprocess the scene is read-only and safe for
// concurrent queries.
type Scene struct {
	Camera camera.Camera

	shapes  []geometry.Shape
	bsdfs   []material.BSDF
	lights  []lights.Light
	media   []medium.Medium
	emitter map[lights.Light]geometry.Handle // area light -> shape it covers
	index   map[lights.Light]int

	environment int
	bvh         *geometry.BVH
}

// New creates an empty scene viewed through cam
func New(cam camera.Camera) *Scene {
	return &Scene{
		Camera:      cam,
		emitter:     make(map[lights.Light]geometry.Handle),
		index:       make(map[lights.Light]int),
		environment: -1,
	}
}

// AddBSDF registers a BSDF and returns its handle
func (s *Scene) AddBSDF(bsdf material.BSDF) geometry.Handle {
	s.bsdfs = append(s.bsdfs, bsdf)
	return geometry.Handle(len(s.bsdfs) - 1)
}

// AddMedium registers a medium and returns its handle
func (s *Scene) AddMedium(m medium.Medium) geometry.Handle {
	s.media = append(s.media, m)
	return geometry.Handle(len(s.media) - 1)
}

// AddLight registers a light and returns its handle. The first environment light
// becomes the radiance returned for escaping rays.
func (s *Scene) AddLight(light lights.Light) geometry.Handle {
	s.lights = append(s.lights, light)
	s.index[light] = len(s.lights) - 1
	if _, ok := light.(*lights.EnvironmentLight); ok && s.environment < 0 {
		s.environment = len(s.lights) - 1
	}
	return geometry.Handle(len(s.lights) - 1)
}

// AddShape registers a shape with its bindings and returns its handle
func (s *Scene) AddShape(shape geometry.Shape, bindings geometry.Bindings) (geometry.Handle, error) {
	if err := s.checkHandle("bsdf", bindings.BSDF, len(s.bsdfs)); err != nil {
		return geometry.NoHandle, err
	}
	if err := s.checkHandle("light", bindings.Light, len(s.lights)); err != nil {
		return geometry.NoHandle, err
	}
	if err := s.checkHandle("medium", bindings.Medium, len(s.media)); err != nil {
		return geometry.NoHandle, err
	}
	shape.Bind(bindings)
	s.shapes = append(s.shapes, shape)
	id := geometry.Handle(len(s.shapes) - 1)
	if bindings.Light != geometry.NoHandle {
		s.emitter[s.lights[bindings.Light]] = id
	}
	return id, nil
}

// AddEmitter binds area to shape and registers both
func (s *Scene) AddEmitter(shape geometry.Shape, bindings geometry.Bindings, area *lights.AreaLight) (geometry.Handle, error) {
	area.Bind(shape)
	bindings.Light = s.AddLight(area)
	return s.AddShape(shape, bindings)
}

func (s *Scene) checkHandle(kind string, h geometry.Handle, n int) error {
	if h == geometry.NoHandle || (h >= 0 && int(h) < n) {
		return nil
	}
	return fmt.Errorf("%s handle %d out of range [0, %d)", kind, h, n)
}

// Preprocess builds the acceleration structure and hands the scene bounds to every light
func (s *Scene) Preprocess() error {
	s.bvh = geometry.NewBVH(s.shapes)

	center, radius := s.bvh.BoundingBox().BoundingSphere()
	for _, light := range s.lights {
		light.Preprocess(center, radius)
	}
	return nil
}

// Intersect finds the nearest surface along ray. A scene that has not been
// preprocessed has no geometry to hit.
func (s *Scene) Intersect(ray core.Ray) (geometry.Intersection, bool) {
	var its geometry.Intersection
	if s.bvh == nil {
		return its, false
	}
	ok := s.bvh.Intersect(ray, &its)
	return its, ok
}

// Occluded reports whether anything blocks ray within (MinT, MaxT)
func (s *Scene) Occluded(ray core.Ray) bool {
	if s.bvh == nil {
		return false
	}
	return s.bvh.Occluded(ray)
}

// Lights returns every registered light
func (s *Scene) Lights() []lights.Light {
	return s.lights
}

// Environment returns the light seen by escaping rays and its index, or nil and -1
func (s *Scene) Environment() (lights.Light, int) {
	if s.environment < 0 {
		return nil, -1
	}
	return s.lights[s.environment], s.environment
}

// Shapes returns every registered shape
func (s *Scene) Shapes() []geometry.Shape {
	return s.shapes
}

// Shape returns the shape behind an intersection's ShapeID
func (s *Scene) Shape(id geometry.Handle) geometry.Shape {
	if id < 0 || int(id) >= len(s.shapes) {
		return nil
	}
	return s.shapes[id]
}

// BSDF returns the BSDF for a handle, nil for NoHandle
func (s *Scene) BSDF(h geometry.Handle) material.BSDF {
	if h < 0 || int(h) >= len(s.bsdfs) {
		return nil
	}
	return s.bsdfs[h]
}

// Light returns the light for a handle, nil for NoHandle
func (s *Scene) Light(h geometry.Handle) lights.Light {
	if h < 0 || int(h) >= len(s.lights) {
		return nil
	}
	return s.lights[h]
}

// Medium returns the medium for a handle, nil for NoHandle
func (s *Scene) Medium(h geometry.Handle) medium.Medium {
	if h < 0 || int(h) >= len(s.media) {
		return nil
	}
	return s.media[h]
}

// LightIndex returns the position of light in Lights(), or -1
func (s *Scene) LightIndex(light lights.Light) int {
	if i, ok := s.index[light]; ok {
		return i
	}
	return -1
}

// EmitterShape returns the shape an area light covers, or NoHandle
func (s *Scene) EmitterShape(light lights.Light) geometry.Handle {
	if id, ok := s.emitter[light]; ok {
		return id
	}
	return geometry.NoHandle
}

// Bounds returns the world bounds of all geometry. Empty until Preprocess.
func (s *Scene) Bounds() geometry.AABB {
	if s.bvh == nil {
		return geometry.EmptyAABB()
	}
	return s.bvh.BoundingBox()
}

// PrimitiveCount returns the total number of primitives over all shapes
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.shapes {
		count += shape.PrimitiveCount()
	}
	return count
}

// Stats summarizes the acceleration structure, zero before Preprocess
func (s *Scene) Stats() geometry.BVHStats {
	if s.bvh == nil {
		return geometry.BVHStats{}
	}
	return s.bvh.Stats()
}
