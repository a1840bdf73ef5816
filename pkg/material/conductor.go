package material

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// Default complex index of refraction, roughly gold
var (
	defaultConductorEta = core.NewSpectrum(0.143, 0.374, 1.442)
	defaultConductorK   = core.NewSpectrum(3.983, 2.385, 1.603)
)

// SmoothConductor is a polished metal: a delta reflection weighted by the conductor Fresnel term
type SmoothConductor struct {
	Eta         core.Spectrum
	K           core.Spectrum
	Reflectance core.Spectrum // artistic scale, 1 for physical results
}

// NewSmoothConductor creates a new smooth conductor
func NewSmoothConductor(eta, k, reflectance core.Spectrum) *SmoothConductor {
	return &SmoothConductor{Eta: eta, K: k, Reflectance: reflectance}
}

func (c *SmoothConductor) Eval(s *BSDFSample) core.Spectrum {
	return core.Spectrum{}
}

func (c *SmoothConductor) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	cosThetaI := core.CosTheta(s.Wi)
	if cosThetaI <= 0 {
		return fail(s)
	}
	setDelta(s, reflect(s.Wi), 1)
	return c.Reflectance.MultiplySpectrum(FresnelConductor(cosThetaI, c.Eta, c.K))
}

func (c *SmoothConductor) PDF(s *BSDFSample) float64 {
	return 0
}

func (c *SmoothConductor) Lobes() LobeFlags {
	return LobeDelta
}
