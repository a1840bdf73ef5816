package medium

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Medium is a participating medium filling the interior of a shape
type Medium interface {
	// Transmittance returns the fraction of light surviving a straight segment of length distance
	Transmittance(distance float64) core.Spectrum
	// SampleDistance draws a free-flight distance along a segment of length maxT. When a
	// scattering event happens before maxT it returns (t, σs·Tr/pdf, true); otherwise it
	// returns (maxT, Tr/pdf, false).
	SampleDistance(maxT float64, sampler core.Sampler) (t float64, weight core.Spectrum, scattered bool)
	// Phase returns the phase function used at scattering events
	Phase() PhaseFunction
}

// Homogeneous has constant absorption and scattering coefficients
type Homogeneous struct {
	SigmaA core.Spectrum
	SigmaS core.Spectrum
	sigmaT core.Spectrum
	phase  PhaseFunction
}

// NewHomogeneous creates a homogeneous medium
func NewHomogeneous(sigmaA, sigmaS core.Spectrum, phase PhaseFunction) *Homogeneous {
	return &Homogeneous{
		SigmaA: sigmaA,
		SigmaS: sigmaS,
		sigmaT: sigmaA.Add(sigmaS),
		phase:  phase,
	}
}

func (h *Homogeneous) Transmittance(distance float64) core.Spectrum {
	if math.IsInf(distance, 1) {
		if h.sigmaT.IsZero() {
			return core.Gray(1)
		}
		distance = math.MaxFloat64
	}
	return h.sigmaT.Multiply(-distance).Exp()
}

// SampleDistance picks a channel uniformly and samples its exponential free flight.
// The pdf is averaged over channels so chromatic media stay unbiased.
func (h *Homogeneous) SampleDistance(maxT float64, sampler core.Sampler) (float64, core.Spectrum, bool) {
	channel := min(int(sampler.Get1D()*3), 2)
	sigma := [3]float64{h.sigmaT.R, h.sigmaT.G, h.sigmaT.B}[channel]

	t := maxT
	if sigma > 0 {
		t = -math.Log(1-sampler.Get1D()) / sigma
	}

	scattered := t < maxT
	if !scattered {
		t = maxT
	}
	tr := h.Transmittance(t)
	if math.IsInf(t, 1) {
		// Escaping through an unbounded non-absorbing channel
		return t, core.Spectrum{}, false
	}

	if scattered {
		pdf := (h.sigmaT.R*tr.R + h.sigmaT.G*tr.G + h.sigmaT.B*tr.B) / 3
		if pdf == 0 {
			return t, core.Spectrum{}, false
		}
		return t, h.SigmaS.MultiplySpectrum(tr).Multiply(1 / pdf), true
	}

	pdf := (tr.R + tr.G + tr.B) / 3
	if pdf == 0 {
		return t, core.Spectrum{}, false
	}
	return t, tr.Multiply(1 / pdf), false
}

func (h *Homogeneous) Phase() PhaseFunction {
	return h.phase
}
