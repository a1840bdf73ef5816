package geometry

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	binding
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{binding: newBinding(), Center: center, Radius: radius}
}

func (s *Sphere) PrimitiveCount() int {
	return 1
}

// PrimitiveBounds returns the axis-aligned bounding box for this sphere
func (s *Sphere) PrimitiveBounds(i int) AABB {
	radius := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return NewAABB(s.Center.Subtract(radius), s.Center.Add(radius))
}

// IntersectPrimitive solves the ray-sphere quadratic
func (s *Sphere) IntersectPrimitive(ray core.Ray, i int) (float64, core.Vec2, bool) {
	// Vector from ray origin to sphere center
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return 0, core.Vec2{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root < ray.MinT || root > ray.MaxT {
		root = (-halfB + sqrtD) / a
		if root < ray.MinT || root > ray.MaxT {
			return 0, core.Vec2{}, false
		}
	}
	return root, core.Vec2{}, true
}

// FillIntersection computes the outward normal and spherical UV coordinates
func (s *Sphere) FillIntersection(ray core.Ray, i int, t float64, uv core.Vec2, its *Intersection) {
	its.T = t
	its.P = ray.At(t)
	normal := its.P.Subtract(s.Center).Multiply(1.0 / s.Radius)
	its.GeoNormal = normal
	its.Frame = core.NewFrame(normal)

	phi := math.Atan2(normal.Z, normal.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	theta := math.Acos(math.Max(-1, math.Min(1, normal.Y)))
	its.UV = core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

func (s *Sphere) Area() float64 {
	return 4 * math.Pi * s.Radius * s.Radius
}

func (s *Sphere) SampleSurface(u core.Vec2) (core.Vec3, core.Vec3) {
	normal := core.SquareToUniformSphere(u)
	return s.Center.Add(normal.Multiply(s.Radius)), normal
}
