package lights

import (
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/material"
)

// Light is an emitter that can be sampled for direct lighting
type Light interface {
	// Sample picks a point on the emitter as seen from ls.Ref. It fills P, N, Wi, Distance,
	// PDF, Measure and ShadowRay and returns the incident radiance divided by the pdf.
	// When no contribution is possible it returns zero with PDF 0.
	Sample(ls *LightSample, sampler core.Sampler) core.Spectrum

	// Eval returns the radiance arriving at ls.Ref along ls.Wi from the emitter point ls.P
	// with normal ls.N. The caller fills those fields, typically from a ray hit.
	Eval(ls *LightSample) core.Spectrum

	// PDF returns the solid-angle density of Sample choosing ls.Wi. Zero for delta emitters.
	PDF(ls *LightSample) float64

	// IsDelta reports whether the emitter occupies zero solid angle
	IsDelta() bool

	// SamplePhoton fills ray with an emitted photon and returns its power divided by the pdf
	SamplePhoton(ray *core.Ray, sampler core.Sampler) core.Spectrum

	// Power returns the total emitted flux
	Power() core.Spectrum

	// Preprocess receives the bounding sphere of the scene
	Preprocess(center core.Vec3, radius float64)
}

// LightSample carries one emitter sample as seen from a shading point
type LightSample struct {
	Ref       core.Vec3 // shading point
	P         core.Vec3 // point on the emitter
	N         core.Vec3 // emitter normal at P, zero for point-like emitters
	Wi        core.Vec3 // unit direction from Ref toward the emitter
	Distance  float64   // distance from Ref to P, +Inf for infinite emitters
	PDF       float64
	Measure   material.Measure
	ShadowRay core.Ray // visibility test between Ref and P
}

// NewLightSample creates a sample for the given shading point
func NewLightSample(ref core.Vec3) LightSample {
	return LightSample{Ref: ref}
}

// Surface is the part of a shape an area emitter needs
type Surface interface {
	Area() float64
	// SampleSurface returns a uniformly distributed point and its normal
	SampleSurface(u core.Vec2) (p core.Vec3, n core.Vec3)
}

// fail marks a sample as producing no contribution
func fail(ls *LightSample) core.Spectrum {
	ls.PDF = 0
	return core.Spectrum{}
}
