package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is an orthonormal shading basis. In local coordinates the normal is +Z.
type Frame struct {
	Tangent   Vec3
	Bitangent Vec3
	Normal    Vec3
	toWorld   mgl64.Mat3
}

// NewFrame builds an orthonormal frame around a unit normal
// (branchless construction from Duff et al. 2017)
func NewFrame(normal Vec3) Frame {
	sign := math.Copysign(1.0, normal.Z)
	a := -1.0 / (sign + normal.Z)
	b := normal.X * normal.Y * a
	tangent := NewVec3(1.0+sign*normal.X*normal.X*a, sign*b, -sign*normal.X)
	bitangent := NewVec3(b, sign+normal.Y*normal.Y*a, -normal.Y)
	return NewFrameFromBasis(tangent, bitangent, normal)
}

// NewFrameFromBasis builds a frame from three orthonormal vectors
func NewFrameFromBasis(tangent, bitangent, normal Vec3) Frame {
	return Frame{
		Tangent:   tangent,
		Bitangent: bitangent,
		Normal:    normal,
		toWorld:   mgl64.Mat3FromCols(toMgl(tangent), toMgl(bitangent), toMgl(normal)),
	}
}

// ToLocal expresses a world-space vector in this frame
func (f Frame) ToLocal(v Vec3) Vec3 {
	return fromMgl(f.toWorld.Transpose().Mul3x1(toMgl(v)))
}

// ToWorld expresses a local vector in world space
func (f Frame) ToWorld(v Vec3) Vec3 {
	return fromMgl(f.toWorld.Mul3x1(toMgl(v)))
}

// CosTheta returns the cosine of the angle between a local direction and the normal
func CosTheta(v Vec3) float64 {
	return v.Z
}

// AbsCosTheta returns |cos θ| of a local direction
func AbsCosTheta(v Vec3) float64 {
	return math.Abs(v.Z)
}

// TanTheta2 returns tan² θ of a local direction
func TanTheta2(v Vec3) float64 {
	cos2 := v.Z * v.Z
	if cos2 == 0 {
		return math.Inf(1)
	}
	return math.Max(0, 1-cos2) / cos2
}

// SameHemisphere reports whether two local directions lie on the same side of the surface
func SameHemisphere(a, b Vec3) bool {
	return a.Z*b.Z > 0
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// ToMgl converts a vector to its mathgl representation
func ToMgl(v Vec3) mgl64.Vec3 {
	return toMgl(v)
}

// FromMgl converts a mathgl vector back to Vec3
func FromMgl(v mgl64.Vec3) Vec3 {
	return fromMgl(v)
}
