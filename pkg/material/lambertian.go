package material

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Spectrum) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedo ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Eval returns albedo/π for directions on the same side of the surface
func (l *Lambertian) Eval(s *BSDFSample) core.Spectrum {
	if core.CosTheta(s.Wi) <= 0 || core.CosTheta(s.Wo) <= 0 {
		return core.Spectrum{}
	}
	return l.Albedo.Evaluate(s.UV).Multiply(1.0 / math.Pi)
}

// Sample draws a cosine-weighted direction; f·cos/pdf reduces to the albedo
func (l *Lambertian) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	if core.CosTheta(s.Wi) <= 0 {
		return fail(s)
	}
	s.Wo = core.SquareToCosineHemisphere(sampler.Get2D())
	s.PDF = core.SquareToCosineHemispherePdf(s.Wo)
	s.Measure = MeasureSolidAngle
	s.SampledLobe = LobeDiffuse
	s.Eta = 1
	if s.PDF <= 0 {
		return fail(s)
	}
	return l.Albedo.Evaluate(s.UV)
}

// PDF calculates the cosine-weighted hemisphere density: cos(θ) / π
func (l *Lambertian) PDF(s *BSDFSample) float64 {
	if core.CosTheta(s.Wi) <= 0 || core.CosTheta(s.Wo) <= 0 {
		return 0
	}
	return core.SquareToCosineHemispherePdf(s.Wo)
}

func (l *Lambertian) Lobes() LobeFlags {
	return LobeDiffuse
}
