package material

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// RoughConductor is a glossy metal modelled with a microfacet distribution (Walter et al. 2007)
type RoughConductor struct {
	Distribution MicrofacetDistribution
	Eta          core.Spectrum
	K            core.Spectrum
}

// NewRoughConductor creates a new rough conductor
func NewRoughConductor(dist MicrofacetDistribution, eta, k core.Spectrum) *RoughConductor {
	return &RoughConductor{Distribution: dist, Eta: eta, K: k}
}

// Eval returns F·D·G / (4 cos θi cos θo)
func (r *RoughConductor) Eval(s *BSDFSample) core.Spectrum {
	cosThetaI := core.CosTheta(s.Wi)
	cosThetaO := core.CosTheta(s.Wo)
	if cosThetaI <= 0 || cosThetaO <= 0 {
		return core.Spectrum{}
	}

	m := s.Wi.Add(s.Wo).Normalize()
	d := r.Distribution.D(m)
	if d == 0 {
		return core.Spectrum{}
	}
	fresnel := FresnelConductor(s.Wi.Dot(m), r.Eta, r.K)
	g := G(r.Distribution, s.Wi, s.Wo, m)
	return fresnel.Multiply(d * g / (4 * cosThetaI * cosThetaO))
}

// Sample draws a microfacet normal and reflects Wi about it
func (r *RoughConductor) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	cosThetaI := core.CosTheta(s.Wi)
	if cosThetaI <= 0 {
		return fail(s)
	}

	m := r.Distribution.SampleNormal(sampler.Get2D())
	wiDotM := s.Wi.Dot(m)
	if wiDotM <= 0 {
		return fail(s)
	}
	s.Wo = m.Multiply(2 * wiDotM).Subtract(s.Wi)
	s.Measure = MeasureSolidAngle
	s.SampledLobe = LobeGlossy
	s.Eta = 1
	if core.CosTheta(s.Wo) <= 0 {
		return fail(s)
	}

	s.PDF = r.Distribution.PDF(m) / (4 * wiDotM)
	if s.PDF <= 0 {
		return fail(s)
	}

	// f·cos θo / pdf simplifies to F·G·(wi·m) / (cos θi · cos θm)
	fresnel := FresnelConductor(wiDotM, r.Eta, r.K)
	g := G(r.Distribution, s.Wi, s.Wo, m)
	return fresnel.Multiply(g * wiDotM / (cosThetaI * core.CosTheta(m)))
}

func (r *RoughConductor) PDF(s *BSDFSample) float64 {
	if core.CosTheta(s.Wi) <= 0 || core.CosTheta(s.Wo) <= 0 {
		return 0
	}
	m := s.Wi.Add(s.Wo).Normalize()
	wiDotM := s.Wi.Dot(m)
	if wiDotM <= 0 {
		return 0
	}
	return r.Distribution.PDF(m) / (4 * wiDotM)
}

func (r *RoughConductor) Lobes() LobeFlags {
	return LobeGlossy
}
