package material

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// FresnelDielectric returns the unpolarized Fresnel reflectance for light arriving at
// cosThetaI (measured against the normal on the incident side) where eta = ηt/ηi.
// It also returns the cosine of the transmitted direction, which is 0 on total internal
// reflection (reflectance 1).
func FresnelDielectric(cosThetaI, eta float64) (reflectance, cosThetaT float64) {
	if eta == 1 {
		return 0, cosThetaI
	}
	sin2ThetaT := (1 - cosThetaI*cosThetaI) / (eta * eta)
	if sin2ThetaT >= 1 {
		return 1, 0
	}
	cosThetaT = math.Sqrt(1 - sin2ThetaT)

	rs := (cosThetaI - eta*cosThetaT) / (cosThetaI + eta*cosThetaT)
	rp := (eta*cosThetaI - cosThetaT) / (eta*cosThetaI + cosThetaT)
	return 0.5 * (rs*rs + rp*rp), cosThetaT
}

// FresnelConductor returns the Fresnel reflectance of a conductor with complex index of
// refraction eta + i·k, per channel
func FresnelConductor(cosThetaI float64, eta, k core.Spectrum) core.Spectrum {
	return core.NewSpectrum(
		fresnelConductor(cosThetaI, eta.R, k.R),
		fresnelConductor(cosThetaI, eta.G, k.G),
		fresnelConductor(cosThetaI, eta.B, k.B),
	)
}

func fresnelConductor(cosThetaI, eta, k float64) float64 {
	cosThetaI = math.Min(math.Max(cosThetaI, 0), 1)
	cos2 := cosThetaI * cosThetaI
	sin2 := 1 - cos2
	eta2 := eta * eta
	k2 := k * k

	t0 := eta2 - k2 - sin2
	a2plusb2 := math.Sqrt(t0*t0 + 4*eta2*k2)
	t1 := a2plusb2 + cos2
	a := math.Sqrt(math.Max(0, 0.5*(a2plusb2+t0)))
	t2 := 2 * cosThetaI * a
	rs := (t1 - t2) / (t1 + t2)

	t3 := cos2*a2plusb2 + sin2*sin2
	t4 := t2 * sin2
	rp := rs * (t3 - t4) / (t3 + t4)

	return 0.5 * (rp + rs)
}
