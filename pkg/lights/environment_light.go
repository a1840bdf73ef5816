package lights

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/material"
)

// EnvironmentLight represents a uniform infinite light (constant emission in all directions)
type EnvironmentLight struct {
	radiance    core.Spectrum
	worldCenter core.Vec3 // Finite scene center from the scene bounds
	worldRadius float64   // Finite scene radius from the scene bounds
}

// NewEnvironmentLight creates a new uniform infinite light
func NewEnvironmentLight(radiance core.Spectrum) *EnvironmentLight {
	return &EnvironmentLight{radiance: radiance}
}

// Sample picks a direction uniformly over the sphere
func (el *EnvironmentLight) Sample(ls *LightSample, sampler core.Sampler) core.Spectrum {
	ls.Wi = core.SquareToUniformSphere(sampler.Get2D())
	ls.Distance = math.Inf(1)
	ls.P = ls.Ref.Add(ls.Wi.Multiply(2 * math.Max(el.worldRadius, 1)))
	ls.N = ls.Wi.Negate()
	ls.Measure = material.MeasureSolidAngle
	ls.ShadowRay = core.NewRay(ls.Ref, ls.Wi)
	ls.PDF = core.SquareToUniformSpherePdf(ls.Wi)
	return el.radiance.Multiply(1 / ls.PDF)
}

// Eval returns the same radiance for every escaping direction
func (el *EnvironmentLight) Eval(ls *LightSample) core.Spectrum {
	return el.radiance
}

func (el *EnvironmentLight) PDF(ls *LightSample) float64 {
	return core.SquareToUniformSpherePdf(ls.Wi)
}

func (el *EnvironmentLight) IsDelta() bool {
	return false
}

// SamplePhoton launches a photon from the disk facing a uniformly chosen direction
func (el *EnvironmentLight) SamplePhoton(ray *core.Ray, sampler core.Sampler) core.Spectrum {
	if el.worldRadius <= 0 {
		return core.Spectrum{}
	}
	direction := core.SquareToUniformSphere(sampler.Get2D())
	*ray = sampleDiskOrigin(el.worldCenter, el.worldRadius, direction, sampler.Get2D())
	return el.Power()
}

// Power is the flux crossing the scene's bounding disk from every direction
func (el *EnvironmentLight) Power() core.Spectrum {
	return el.radiance.Multiply(4 * math.Pi * math.Pi * el.worldRadius * el.worldRadius)
}

// Preprocess sets world bounds from the scene
func (el *EnvironmentLight) Preprocess(center core.Vec3, radius float64) {
	el.worldCenter = center
	el.worldRadius = radius
}
