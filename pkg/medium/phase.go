package medium

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// PhaseSample carries the directions of one volumetric scattering event in world space.
// Wi points back toward the previous vertex, Wo is the scattered direction.
type PhaseSample struct {
	Wi  core.Vec3
	Wo  core.Vec3
	PDF float64
}

// PhaseFunction describes the angular distribution of light scattered inside a medium
type PhaseFunction interface {
	// Eval returns the phase function value for the pair of directions
	Eval(s *PhaseSample) float64
	// Sample draws Wo for the given Wi, fills PDF and returns eval / pdf
	Sample(s *PhaseSample, sampler core.Sampler) float64
	// PDF returns the solid-angle density of Sample choosing Wo
	PDF(s *PhaseSample) float64
}

// Isotropic scatters uniformly over the sphere
type Isotropic struct{}

func (Isotropic) Eval(s *PhaseSample) float64 {
	return 1 / (4 * math.Pi)
}

func (Isotropic) Sample(s *PhaseSample, sampler core.Sampler) float64 {
	s.Wo = core.SquareToUniformSphere(sampler.Get2D())
	s.PDF = core.SquareToUniformSpherePdf(s.Wo)
	return 1
}

func (Isotropic) PDF(s *PhaseSample) float64 {
	return 1 / (4 * math.Pi)
}

// HenyeyGreenstein is the one-parameter anisotropic phase function.
// G > 0 favors forward scattering, G < 0 backward.
type HenyeyGreenstein struct {
	G float64
}

// NewHenyeyGreenstein creates a phase function with mean cosine g in (-1, 1)
func NewHenyeyGreenstein(g float64) *HenyeyGreenstein {
	return &HenyeyGreenstein{G: g}
}

// Eval uses the cosine between the propagation directions -Wi and Wo
func (hg *HenyeyGreenstein) Eval(s *PhaseSample) float64 {
	cosTheta := -s.Wi.Dot(s.Wo)
	return hg.eval(cosTheta)
}

func (hg *HenyeyGreenstein) eval(cosTheta float64) float64 {
	denom := 1 + hg.G*hg.G - 2*hg.G*cosTheta
	return (1 - hg.G*hg.G) / (4 * math.Pi * denom * math.Sqrt(denom))
}

// Sample inverts the cumulative distribution of the scattering angle
func (hg *HenyeyGreenstein) Sample(s *PhaseSample, sampler core.Sampler) float64 {
	u := sampler.Get2D()

	var cosTheta float64
	if math.Abs(hg.G) < 1e-3 {
		cosTheta = 1 - 2*u.X
	} else {
		sqr := (1 - hg.G*hg.G) / (1 - hg.G + 2*hg.G*u.X)
		cosTheta = (1 + hg.G*hg.G - sqr*sqr) / (2 * hg.G)
	}
	cosTheta = math.Max(-1, math.Min(1, cosTheta))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * u.Y

	local := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
	s.Wo = core.NewFrame(s.Wi.Negate()).ToWorld(local)
	s.PDF = hg.eval(cosTheta)
	return 1
}

func (hg *HenyeyGreenstein) PDF(s *PhaseSample) float64 {
	return hg.Eval(s)
}
