package geometry

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	binding
	Center core.Vec3
	Normal core.Vec3
	Radius float64
	frame  core.Frame
}

// NewDisc creates a new disc facing along normal
func NewDisc(center, normal core.Vec3, radius float64) *Disc {
	n := normal.Normalize()
	return &Disc{
		binding: newBinding(),
		Center:  center,
		Normal:  n,
		Radius:  radius,
		frame:   core.NewFrame(n),
	}
}

func (d *Disc) PrimitiveCount() int {
	return 1
}

// PrimitiveBounds bounds the disc by its extent perpendicular to the normal on each axis
func (d *Disc) PrimitiveBounds(i int) AABB {
	n := d.Normal
	extent := core.NewVec3(
		d.Radius*math.Sqrt(math.Max(0, 1-n.X*n.X)),
		d.Radius*math.Sqrt(math.Max(0, 1-n.Y*n.Y)),
		d.Radius*math.Sqrt(math.Max(0, 1-n.Z*n.Z)),
	)
	return NewAABB(d.Center.Subtract(extent), d.Center.Add(extent)).Expand(1e-6)
}

func (d *Disc) IntersectPrimitive(ray core.Ray, i int) (float64, core.Vec2, bool) {
	denom := d.Normal.Dot(ray.Direction)
	if math.Abs(denom) < 1e-12 {
		return 0, core.Vec2{}, false // Ray is parallel to disc
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denom
	if t < ray.MinT || t > ray.MaxT {
		return 0, core.Vec2{}, false
	}

	local := d.frame.ToLocal(ray.At(t).Subtract(d.Center))
	r2 := local.X*local.X + local.Y*local.Y
	if r2 > d.Radius*d.Radius {
		return 0, core.Vec2{}, false
	}

	// Polar UV: radius fraction and angle
	phi := math.Atan2(local.Y, local.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return t, core.NewVec2(math.Sqrt(r2)/d.Radius, phi/(2*math.Pi)), true
}

func (d *Disc) FillIntersection(ray core.Ray, i int, t float64, uv core.Vec2, its *Intersection) {
	its.T = t
	its.P = ray.At(t)
	its.GeoNormal = d.Normal
	its.Frame = d.frame
	its.UV = uv
}

func (d *Disc) Area() float64 {
	return math.Pi * d.Radius * d.Radius
}

// SampleSurface samples uniformly on the disc with the concentric mapping
func (d *Disc) SampleSurface(u core.Vec2) (core.Vec3, core.Vec3) {
	p := core.SquareToUniformDisk(u)
	local := core.NewVec3(p.X*d.Radius, p.Y*d.Radius, 0)
	return d.Center.Add(d.frame.ToWorld(local)), d.Normal
}
