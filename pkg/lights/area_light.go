package lights

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/material"
)

// AreaLight is a diffuse emitter covering the front face of a shape
type AreaLight struct {
	radiance core.Spectrum
	surface  Surface
}

// NewAreaLight creates an emitter that is inactive until bound to a surface
func NewAreaLight(radiance core.Spectrum) *AreaLight {
	return &AreaLight{radiance: radiance}
}

// Bind attaches the emitter to the surface it covers
func (al *AreaLight) Bind(surface Surface) {
	al.surface = surface
}

// Radiance returns the emitted radiance
func (al *AreaLight) Radiance() core.Spectrum {
	return al.radiance
}

// Sample picks a point uniformly by area and converts the density to solid angle
func (al *AreaLight) Sample(ls *LightSample, sampler core.Sampler) core.Spectrum {
	if al.surface == nil || al.surface.Area() <= 0 {
		return fail(ls)
	}

	p, n := al.surface.SampleSurface(sampler.Get2D())
	toLight := p.Subtract(ls.Ref)
	distance := toLight.Length()
	if distance == 0 {
		return fail(ls)
	}

	ls.P = p
	ls.N = n
	ls.Wi = toLight.Multiply(1 / distance)
	ls.Distance = distance
	ls.Measure = material.MeasureSolidAngle
	ls.ShadowRay = core.NewSegment(ls.Ref, p)

	ls.PDF = al.PDF(ls)
	if ls.PDF == 0 {
		return fail(ls)
	}
	return al.radiance.Multiply(1 / ls.PDF)
}

// Eval returns the radiance when ls.Wi arrives at the front face
func (al *AreaLight) Eval(ls *LightSample) core.Spectrum {
	if ls.N.Dot(ls.Wi) >= 0 {
		return core.Spectrum{}
	}
	return al.radiance
}

// PDF converts the uniform area density to solid angle: d² / (|cos θl| · A)
func (al *AreaLight) PDF(ls *LightSample) float64 {
	if al.surface == nil {
		return 0
	}
	area := al.surface.Area()
	cosTheta := -ls.N.Dot(ls.Wi)
	if area <= 0 || cosTheta < 1e-8 {
		// Edge-on or back face
		return 0
	}
	return ls.Distance * ls.Distance / (cosTheta * area)
}

func (al *AreaLight) IsDelta() bool {
	return false
}

// SamplePhoton picks a point by area and a cosine-weighted direction around the normal
func (al *AreaLight) SamplePhoton(ray *core.Ray, sampler core.Sampler) core.Spectrum {
	if al.surface == nil || al.surface.Area() <= 0 {
		return core.Spectrum{}
	}
	p, n := al.surface.SampleSurface(sampler.Get2D())
	local := core.SquareToCosineHemisphere(sampler.Get2D())
	*ray = core.NewRay(p, core.NewFrame(n).ToWorld(local))
	// Le·cos / (1/A · cos/π)
	return al.radiance.Multiply(math.Pi * al.surface.Area())
}

func (al *AreaLight) Power() core.Spectrum {
	if al.surface == nil {
		return core.Spectrum{}
	}
	return al.radiance.Multiply(math.Pi * al.surface.Area())
}

func (al *AreaLight) Preprocess(center core.Vec3, radius float64) {}
