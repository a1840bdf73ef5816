package material

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Dielectric represents a smooth transparent interface like glass. Each sample chooses
// between delta reflection and delta transmission with probability given by the Fresnel term.
type Dielectric struct {
	IntIOR float64 // index of refraction on the side the normal points away from
	ExtIOR float64 // index of refraction on the side the normal points into
}

// NewDielectric creates a new dielectric material
func NewDielectric(intIOR, extIOR float64) *Dielectric {
	return &Dielectric{IntIOR: intIOR, ExtIOR: extIOR}
}

func (d *Dielectric) Eval(s *BSDFSample) core.Spectrum {
	return core.Spectrum{}
}

// Sample picks reflection or refraction. The Fresnel weight cancels with the selection
// probability; transmitted radiance is scaled by (ηi/ηt)². Eta records ηt/ηi of the event.
func (d *Dielectric) Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum {
	cosThetaI := core.CosTheta(s.Wi)
	if cosThetaI == 0 {
		return fail(s)
	}

	eta := d.IntIOR / d.ExtIOR
	if cosThetaI < 0 {
		// Leaving the interior
		eta = 1 / eta
		cosThetaI = -cosThetaI
	}

	reflectance, cosThetaT := FresnelDielectric(cosThetaI, eta)
	if sampler.Get1D() < reflectance {
		setDelta(s, reflect(s.Wi), 1)
		return core.Gray(1)
	}

	wo := core.NewVec3(-s.Wi.X/eta, -s.Wi.Y/eta, -math.Copysign(cosThetaT, s.Wi.Z))
	setDelta(s, wo, eta)
	return core.Gray(1 / (eta * eta))
}

func (d *Dielectric) PDF(s *BSDFSample) float64 {
	return 0
}

func (d *Dielectric) Lobes() LobeFlags {
	return LobeDelta
}
