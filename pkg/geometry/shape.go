package geometry

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// Handle indexes an object owned by the scene registries
type Handle int

// NoHandle marks an absent binding
const NoHandle Handle = -1

// Bindings are the scene objects a shape refers to
type Bindings struct {
	BSDF   Handle
	Light  Handle // area emitter covering the shape
	Medium Handle // medium filling the interior
}

// NewBindings returns bindings with nothing attached
func NewBindings() Bindings {
	return Bindings{BSDF: NoHandle, Light: NoHandle, Medium: NoHandle}
}

// Shape is a collection of primitives the BVH can index.
// Shapes are immutable after construction and safe for concurrent reads.
type Shape interface {
	PrimitiveCount() int
	PrimitiveBounds(i int) AABB

	// IntersectPrimitive tests primitive i against the ray interval [MinT, MaxT]
	IntersectPrimitive(ray core.Ray, i int) (t float64, uv core.Vec2, ok bool)

	// FillIntersection completes its for a hit reported by IntersectPrimitive
	FillIntersection(ray core.Ray, i int, t float64, uv core.Vec2, its *Intersection)

	// Area returns the total surface area
	Area() float64

	// SampleSurface returns a point distributed uniformly by area and its normal
	SampleSurface(u core.Vec2) (core.Vec3, core.Vec3)

	Bindings() Bindings
	Bind(b Bindings)
}

// binding implements the Bindings accessors shared by every shape
type binding struct {
	bindings Bindings
}

func newBinding() binding {
	return binding{bindings: NewBindings()}
}

func (b *binding) Bindings() Bindings {
	return b.bindings
}

func (b *binding) Bind(bindings Bindings) {
	b.bindings = bindings
}

// Intersection describes the nearest surface hit along a ray
type Intersection struct {
	P         core.Vec3
	T         float64
	GeoNormal core.Vec3  // geometric normal, on the outward side of the surface
	Frame     core.Frame // shading frame, +Z is the shading normal
	UV        core.Vec2
	ShapeID   Handle
	Primitive int
}

// ToLocal expresses a world direction in the shading frame
func (its *Intersection) ToLocal(v core.Vec3) core.Vec3 {
	return its.Frame.ToLocal(v)
}

// ToWorld expresses a shading-frame direction in world space
func (its *Intersection) ToWorld(v core.Vec3) core.Vec3 {
	return its.Frame.ToWorld(v)
}
