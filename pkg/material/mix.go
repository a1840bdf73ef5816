package material

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Mix represents a BSDF that stochastically chooses between two BSDFs
type Mix struct {
	BSDF1 BSDF
	BSDF2 BSDF
	Ratio float64 // 0.0 = all BSDF1, 1.0 = all BSDF2
}

// NewMix creates a new mix BSDF
func NewMix(bsdf1, bsdf2 BSDF, ratio float64) *Mix {
	// Clamp ratio to valid range
	ratio = math.Max(0.0, math.Min(ratio, 1.0))

	return &Mix{
		BSDF1: bsdf1,
		BSDF2: bsdf2,
		Ratio: ratio,
	}
}

// Eval blends both BSDFs with the mixing ratio
func (m *Mix) Eval(s *BSDFSample) core.Spectrum {
	f1 := m.BSDF1.Eval(s)
	f2 := m.BSDF2.Eval(s)
	return f1.Multiply(1.0 - m.Ratio).Add(f2.Multiply(m.Ratio))
}

// Sample picks one component. A Delta sample keeps the component's weight since the
// selection probability cancels with the mixing ratio; otherwise the weight is recomputed
// from the blended Eval and PDF.
func (m *Mix) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	chosen := m.BSDF1
	if sampler.Get1D() < m.Ratio {
		chosen = m.BSDF2
	}

	weight := chosen.Sample(s, sampler)
	if s.PDF == 0 || s.SampledLobe == LobeDelta {
		return weight
	}

	s.PDF = m.PDF(s)
	if s.PDF <= 0 {
		return fail(s)
	}
	return m.Eval(s).Multiply(core.AbsCosTheta(s.Wo) / s.PDF)
}

// PDF blends the non-delta densities of both components
func (m *Mix) PDF(s *BSDFSample) float64 {
	return m.BSDF1.PDF(s)*(1.0-m.Ratio) + m.BSDF2.PDF(s)*m.Ratio
}

func (m *Mix) Lobes() LobeFlags {
	return m.BSDF1.Lobes() | m.BSDF2.Lobes()
}
