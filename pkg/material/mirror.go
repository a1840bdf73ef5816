package material

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// Mirror is a perfect specular reflector
type Mirror struct {
	Reflectance core.Spectrum
}

// NewMirror creates a new mirror
func NewMirror(reflectance core.Spectrum) *Mirror {
	return &Mirror{Reflectance: reflectance}
}

// Eval is zero: a delta lobe cannot be evaluated at a fixed direction
func (m *Mirror) Eval(s *BSDFSample) core.Spectrum {
	return core.Spectrum{}
}

// Sample returns the mirror direction. Reflectance cancels with the discrete density.
func (m *Mirror) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	if core.CosTheta(s.Wi) <= 0 {
		return fail(s)
	}
	setDelta(s, reflect(s.Wi), 1)
	return m.Reflectance
}

func (m *Mirror) PDF(s *BSDFSample) float64 {
	return 0
}

func (m *Mirror) Lobes() LobeFlags {
	return LobeDelta
}
