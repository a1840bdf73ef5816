package core

import "math"

// Warp functions map uniform samples to target distributions. Every mapping has a
// matching density so that E[f(X)/p(X)] equals the integral of f over the domain.

const (
	invPi    = 1.0 / math.Pi
	inv2Pi   = 1.0 / (2.0 * math.Pi)
	inv4Pi   = 1.0 / (4.0 * math.Pi)
	piOver2  = math.Pi / 2.0
	piOver4  = math.Pi / 4.0
	twoPi    = 2.0 * math.Pi
	invThird = 1.0 / 3.0
)

// SquareToUniformSquare is the identity mapping on [0,1)²
func SquareToUniformSquare(sample Vec2) Vec2 {
	return sample
}

// SquareToUniformSquarePdf is 1 inside the unit square
func SquareToUniformSquarePdf(p Vec2) float64 {
	if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return 0
	}
	return 1
}

// SquareToUniformDisk maps a sample to the unit disk using the concentric mapping
func SquareToUniformDisk(sample Vec2) Vec2 {
	// Map sample to [-1,1]² and handle degeneracy at the origin
	offset := NewVec2(2*sample.X-1, 2*sample.Y-1)
	if offset.X == 0 && offset.Y == 0 {
		return Vec2{}
	}

	var theta, r float64
	if math.Abs(offset.X) > math.Abs(offset.Y) {
		r = offset.X
		theta = piOver4 * (offset.Y / offset.X)
	} else {
		r = offset.Y
		theta = piOver2 - piOver4*(offset.X/offset.Y)
	}
	return NewVec2(r*math.Cos(theta), r*math.Sin(theta))
}

// SquareToUniformDiskPdf is 1/π inside the unit disk
func SquareToUniformDiskPdf(p Vec2) float64 {
	if p.X*p.X+p.Y*p.Y > 1 {
		return 0
	}
	return invPi
}

// SquareToUniformSphere maps a sample to a uniform direction on the unit sphere
func SquareToUniformSphere(sample Vec2) Vec3 {
	z := 1.0 - 2.0*sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := twoPi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformSpherePdf is 1/4π for every direction
func SquareToUniformSpherePdf(v Vec3) float64 {
	return inv4Pi
}

// SquareToUniformHemisphere maps a sample to a uniform direction with z >= 0
func SquareToUniformHemisphere(sample Vec2) Vec3 {
	z := sample.X
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := twoPi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformHemispherePdf is 1/2π on the upper hemisphere
func SquareToUniformHemispherePdf(v Vec3) float64 {
	if v.Z < 0 {
		return 0
	}
	return inv2Pi
}

// SquareToUniformSphereCap maps a sample to a uniform direction within the cap
// z >= cosThetaMax around +Z
func SquareToUniformSphereCap(sample Vec2, cosThetaMax float64) Vec3 {
	z := 1.0 - sample.X*(1.0-cosThetaMax)
	r := math.Sqrt(math.Max(0, 1.0-z*z))
	phi := twoPi * sample.Y
	return NewVec3(r*math.Cos(phi), r*math.Sin(phi), z)
}

// SquareToUniformSphereCapPdf is 1/(2π(1-cosThetaMax)) inside the cap.
// A cap with cosThetaMax == 1 is a single direction and has no density, so it returns 0.
func SquareToUniformSphereCapPdf(v Vec3, cosThetaMax float64) float64 {
	if cosThetaMax >= 1 || v.Z < cosThetaMax {
		return 0
	}
	return inv2Pi / (1.0 - cosThetaMax)
}

// SquareToCosineHemisphere maps a sample to a cosine-weighted direction with z >= 0
func SquareToCosineHemisphere(sample Vec2) Vec3 {
	p := SquareToUniformDisk(sample)
	z := math.Sqrt(math.Max(0, 1.0-p.X*p.X-p.Y*p.Y))
	return NewVec3(p.X, p.Y, z)
}

// SquareToCosineHemispherePdf is cos θ / π on the upper hemisphere
func SquareToCosineHemispherePdf(v Vec3) float64 {
	if v.Z < 0 {
		return 0
	}
	return v.Z * invPi
}

// SquareToUniformTriangle maps a sample to barycentric coordinates (b0, b1) uniformly
// distributed over the triangle b0, b1 >= 0, b0 + b1 <= 1
func SquareToUniformTriangle(sample Vec2) Vec2 {
	su := math.Sqrt(sample.X)
	return NewVec2(1.0-su, sample.Y*su)
}

// SquareToUniformTrianglePdf is 2 inside the reference triangle (its area is 1/2)
func SquareToUniformTrianglePdf(p Vec2) float64 {
	if p.X < 0 || p.Y < 0 || p.X+p.Y > 1+1e-12 {
		return 0
	}
	return 2
}

// CubeToUniformHemisphere maps a sample from the unit cube to a uniform point inside
// the unit half-ball z >= 0
func CubeToUniformHemisphere(sample Vec3) Vec3 {
	r := math.Pow(sample.X, invThird)
	dir := SquareToUniformHemisphere(NewVec2(sample.Y, sample.Z))
	return dir.Multiply(r)
}

// CubeToUniformHemispherePdf is 3/2π inside the unit half-ball
func CubeToUniformHemispherePdf(p Vec3) float64 {
	if p.Z < 0 || p.LengthSquared() > 1 {
		return 0
	}
	return 3.0 * inv2Pi
}
