package material

import (
	"fmt"
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// MicrofacetDistribution describes the statistics of microfacet normals in the local frame
type MicrofacetDistribution interface {
	// D is the normal distribution function
	D(m core.Vec3) float64
	// G1 is the Smith shadowing term for direction v and microfacet normal m
	G1(v, m core.Vec3) float64
	// SampleNormal draws m with density D(m)·cos θm
	SampleNormal(u core.Vec2) core.Vec3
	// PDF is the density of SampleNormal, D(m)·cos θm
	PDF(m core.Vec3) float64
}

// NewMicrofacetDistribution creates a named distribution: "ggx" or "beckmann"
func NewMicrofacetDistribution(name string, alpha float64) (MicrofacetDistribution, error) {
	switch name {
	case "ggx":
		return &GGX{Alpha: alpha}, nil
	case "beckmann":
		return &Beckmann{Alpha: alpha}, nil
	}
	return nil, core.InvalidParameter("", "distribution", fmt.Sprintf("unknown distribution %q", name))
}

// G returns the separable Smith shadowing-masking term
func G(dist MicrofacetDistribution, wi, wo, m core.Vec3) float64 {
	return dist.G1(wi, m) * dist.G1(wo, m)
}

// GGX is the Trowbridge-Reitz distribution
type GGX struct {
	Alpha float64
}

func (d *GGX) D(m core.Vec3) float64 {
	cosTheta := core.CosTheta(m)
	if cosTheta <= 0 {
		return 0
	}
	cos2 := cosTheta * cosTheta
	tan2 := core.TanTheta2(m)
	a2 := d.Alpha * d.Alpha
	denom := math.Pi * cos2 * cos2 * (a2 + tan2) * (a2 + tan2)
	return a2 / denom
}

func (d *GGX) G1(v, m core.Vec3) float64 {
	if v.Dot(m)*core.CosTheta(v) <= 0 {
		return 0
	}
	tan2 := core.TanTheta2(v)
	if math.IsInf(tan2, 1) {
		return 0
	}
	return 2 / (1 + math.Sqrt(1+d.Alpha*d.Alpha*tan2))
}

func (d *GGX) SampleNormal(u core.Vec2) core.Vec3 {
	tan2 := d.Alpha * d.Alpha * u.X / (1 - u.X)
	cosTheta := 1 / math.Sqrt(1+tan2)
	return sphericalDirection(cosTheta, 2*math.Pi*u.Y)
}

func (d *GGX) PDF(m core.Vec3) float64 {
	return d.D(m) * core.CosTheta(m)
}

// Beckmann is the Gaussian slope distribution
type Beckmann struct {
	Alpha float64
}

func (d *Beckmann) D(m core.Vec3) float64 {
	cosTheta := core.CosTheta(m)
	if cosTheta <= 0 {
		return 0
	}
	cos2 := cosTheta * cosTheta
	a2 := d.Alpha * d.Alpha
	return math.Exp(-core.TanTheta2(m)/a2) / (math.Pi * a2 * cos2 * cos2)
}

func (d *Beckmann) G1(v, m core.Vec3) float64 {
	if v.Dot(m)*core.CosTheta(v) <= 0 {
		return 0
	}
	tan2 := core.TanTheta2(v)
	if tan2 == 0 {
		return 1
	}
	a := 1 / (d.Alpha * math.Sqrt(tan2))
	if a >= 1.6 {
		return 1
	}
	// Rational approximation from Walter et al. 2007
	return (3.535*a + 2.181*a*a) / (1 + 2.276*a + 2.577*a*a)
}

func (d *Beckmann) SampleNormal(u core.Vec2) core.Vec3 {
	tan2 := -d.Alpha * d.Alpha * math.Log(1-u.X)
	cosTheta := 1 / math.Sqrt(1+tan2)
	return sphericalDirection(cosTheta, 2*math.Pi*u.Y)
}

func (d *Beckmann) PDF(m core.Vec3) float64 {
	return d.D(m) * core.CosTheta(m)
}

func sphericalDirection(cosTheta, phi float64) core.Vec3 {
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	return core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
}
