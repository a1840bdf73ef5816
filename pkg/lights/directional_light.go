package lights

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/material"
)

// DirectionalLight is a distant emitter delivering constant irradiance along one direction
type DirectionalLight struct {
	direction   core.Vec3 // direction the light travels
	irradiance  core.Spectrum
	worldCenter core.Vec3
	worldRadius float64
}

// NewDirectionalLight creates a light travelling along direction
func NewDirectionalLight(direction core.Vec3, irradiance core.Spectrum) *DirectionalLight {
	return &DirectionalLight{direction: direction.Normalize(), irradiance: irradiance}
}

func (dl *DirectionalLight) Sample(ls *LightSample, sampler core.Sampler) core.Spectrum {
	ls.Wi = dl.direction.Negate()
	ls.Distance = math.Inf(1)
	ls.P = ls.Ref.Add(ls.Wi.Multiply(2 * math.Max(dl.worldRadius, 1)))
	ls.N = dl.direction
	ls.PDF = 1
	ls.Measure = material.MeasureDiscrete
	ls.ShadowRay = core.NewRay(ls.Ref, ls.Wi)
	return dl.irradiance
}

func (dl *DirectionalLight) Eval(ls *LightSample) core.Spectrum {
	return core.Spectrum{}
}

func (dl *DirectionalLight) PDF(ls *LightSample) float64 {
	return 0
}

func (dl *DirectionalLight) IsDelta() bool {
	return true
}

// SamplePhoton starts parallel photons on a disk covering the scene
func (dl *DirectionalLight) SamplePhoton(ray *core.Ray, sampler core.Sampler) core.Spectrum {
	if dl.worldRadius <= 0 {
		return core.Spectrum{}
	}
	*ray = sampleDiskOrigin(dl.worldCenter, dl.worldRadius, dl.direction, sampler.Get2D())
	return dl.irradiance.Multiply(math.Pi * dl.worldRadius * dl.worldRadius)
}

func (dl *DirectionalLight) Power() core.Spectrum {
	return dl.irradiance.Multiply(math.Pi * dl.worldRadius * dl.worldRadius)
}

func (dl *DirectionalLight) Preprocess(center core.Vec3, radius float64) {
	dl.worldCenter = center
	dl.worldRadius = radius
}
