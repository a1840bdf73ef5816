package material

import (
	"github.com/FallenShard/crisp-go/pkg/core"
)

// Lobe is a categorical scattering mode
type Lobe uint8

const (
	LobeDiffuse Lobe = 1 << iota
	LobeGlossy
	LobeDelta
)

// LobeFlags is a set of lobes a BSDF can sample
type LobeFlags = Lobe

// Has reports whether every lobe in other is present
func (l Lobe) Has(other Lobe) bool {
	return l&other == other
}

// IsDelta reports whether the set contains only Delta lobes
func (l Lobe) IsDelta() bool {
	return l != 0 && l&^LobeDelta == 0
}

// CanBeLightSampled reports whether an explicitly chosen direction can receive
// non-zero BSDF density. Delta-only BSDFs have zero measure and cannot.
func (l Lobe) CanBeLightSampled() bool {
	return l&(LobeDiffuse|LobeGlossy) != 0
}

func (l Lobe) String() string {
	switch l {
	case LobeDiffuse:
		return "diffuse"
	case LobeGlossy:
		return "glossy"
	case LobeDelta:
		return "delta"
	}
	return "mixed"
}

// Measure is the measure a pdf is expressed in
type Measure uint8

const (
	MeasureSolidAngle Measure = iota
	MeasureDiscrete
)

// BSDFSample carries the directions of one scattering event in the local shading frame
// (+Z is the shading normal). Wi points toward the viewer, Wo is the scattered direction.
type BSDFSample struct {
	Wi          core.Vec3
	Wo          core.Vec3
	PDF         float64
	Measure     Measure
	SampledLobe Lobe
	Eta         float64   // relative index of refraction across the sampled event, 1 for reflection
	UV          core.Vec2 // surface parameterization of the hit, for textured parameters
}

// NewBSDFSample creates a sample for a fixed pair of local directions
func NewBSDFSample(wi, wo core.Vec3) BSDFSample {
	return BSDFSample{Wi: wi, Wo: wo, Eta: 1}
}

// NewBSDFSampleAt creates a sample for a fixed pair of local directions at surface
// parameterization uv
func NewBSDFSampleAt(wi, wo core.Vec3, uv core.Vec2) BSDFSample {
	return BSDFSample{Wi: wi, Wo: wo, Eta: 1, UV: uv}
}

// BSDF describes how a surface scatters light.
//
// Conventions shared by every variant:
//   - Eval returns f(wi, wo) under the solid-angle measure without the cosine factor,
//     and exactly zero for Delta-only variants.
//   - Sample draws Wo for the given Wi and returns the importance weight f·|cos θo| / pdf.
//     Delta variants fill PDF = 1 with MeasureDiscrete and return the reflectance (or
//     Fresnel weight) of the chosen direction. A failed sample returns zero with PDF = 0.
//   - PDF returns the solid-angle density Sample assigns to Wo, zero for Delta lobes.
//
// Implementations are immutable after construction and safe for concurrent use.
type BSDF interface {
	Eval(s *BSDFSample) core.Spectrum
	Sample(s *BSDFSample, sampler core.Sampler) core.Spectrum
	PDF(s *BSDFSample) float64
	Lobes() LobeFlags
}

// setDelta fills the discrete-measure fields of a Delta sample
func setDelta(s *BSDFSample, wo core.Vec3, eta float64) {
	s.Wo = wo
	s.PDF = 1
	s.Measure = MeasureDiscrete
	s.SampledLobe = LobeDelta
	s.Eta = eta
}

// fail marks a sample as producing no contribution
func fail(s *BSDFSample) core.Spectrum {
	s.PDF = 0
	return core.Spectrum{}
}

// reflect mirrors a local direction about the +Z normal
func reflect(v core.Vec3) core.Vec3 {
	return core.NewVec3(-v.X, -v.Y, v.Z)
}
