package geometry

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Rectangle is a parallelogram defined by a corner and two edge vectors.
// The normal is EdgeU × EdgeV.
type Rectangle struct {
	binding
	Origin core.Vec3 // One corner of the rectangle
	EdgeU  core.Vec3 // First edge vector
	EdgeV  core.Vec3 // Second edge vector
	Normal core.Vec3
	d      float64   // Plane equation constant: n · p = d
	w      core.Vec3 // Cached n / (n · (u × v)) for planar coordinates
	frame  core.Frame
}

// NewRectangle creates a rectangle from a corner point and two edge vectors
func NewRectangle(origin, edgeU, edgeV core.Vec3) *Rectangle {
	cross := edgeU.Cross(edgeV)
	normal := cross.Normalize()
	tangent := edgeU.Normalize()

	return &Rectangle{
		binding: newBinding(),
		Origin:  origin,
		EdgeU:   edgeU,
		EdgeV:   edgeV,
		Normal:  normal,
		d:       normal.Dot(origin),
		w:       normal.Multiply(1.0 / normal.Dot(cross)),
		frame:   core.NewFrameFromBasis(tangent, normal.Cross(tangent), normal),
	}
}

func (r *Rectangle) PrimitiveCount() int {
	return 1
}

func (r *Rectangle) PrimitiveBounds(i int) AABB {
	return NewAABBFromPoints(
		r.Origin,
		r.Origin.Add(r.EdgeU),
		r.Origin.Add(r.EdgeV),
		r.Origin.Add(r.EdgeU).Add(r.EdgeV),
	).Expand(1e-6)
}

// IntersectPrimitive intersects the plane and checks the planar coordinates
func (r *Rectangle) IntersectPrimitive(ray core.Ray, i int) (float64, core.Vec2, bool) {
	denominator := ray.Direction.Dot(r.Normal)
	if math.Abs(denominator) < 1e-12 {
		return 0, core.Vec2{}, false // parallel
	}

	t := (r.d - ray.Origin.Dot(r.Normal)) / denominator
	if t < ray.MinT || t > ray.MaxT {
		return 0, core.Vec2{}, false
	}

	hitVector := ray.At(t).Subtract(r.Origin)
	alpha := r.w.Dot(hitVector.Cross(r.EdgeV))
	beta := r.w.Dot(r.EdgeU.Cross(hitVector))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return 0, core.Vec2{}, false
	}
	return t, core.NewVec2(alpha, beta), true
}

func (r *Rectangle) FillIntersection(ray core.Ray, i int, t float64, uv core.Vec2, its *Intersection) {
	its.T = t
	its.P = ray.At(t)
	its.GeoNormal = r.Normal
	its.Frame = r.frame
	its.UV = uv
}

func (r *Rectangle) Area() float64 {
	return r.EdgeU.Cross(r.EdgeV).Length()
}

func (r *Rectangle) SampleSurface(u core.Vec2) (core.Vec3, core.Vec3) {
	p := r.Origin.Add(r.EdgeU.Multiply(u.X)).Add(r.EdgeV.Multiply(u.Y))
	return p, r.Normal
}
