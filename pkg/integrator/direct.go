package integrator

import (
	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// Direct estimates direct illumination with multiple importance sampling: one light
// sample and one BSDF sample per call, combined with the balance heuristic.
type Direct struct {
	lights *lights.PowerSampler
}

// NewDirect creates an integrator that must be preprocessed before use
func NewDirect() *Direct {
	return &Direct{}
}

// Preprocess builds the light selection table from the scene's emitters
func (d *Direct) Preprocess(s *scene.Scene) error {
	d.lights = lights.NewPowerSampler(s.Lights())
	return nil
}

// LightSampler returns the selection table built by Preprocess
func (d *Direct) LightSampler() *lights.PowerSampler {
	return d.lights
}

// Li returns zero before Preprocess
func (d *Direct) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray, flags IlluminationFlags) core.Spectrum {
	if d.lights == nil {
		return core.Spectrum{}
	}
	ray.Direction = ray.Direction.Normalize()

	its, hit := s.Intersect(ray)
	var radiance core.Spectrum
	if flags.Has(IlluminationDirect) {
		le, _ := emission(s, d.lights, ray.Origin, ray, &its, hit)
		radiance = le.Sanitize()
	}
	if !hit || !flags.Has(IlluminationIndirect) {
		return radiance
	}

	bsdf := s.BSDF(s.Shape(its.ShapeID).Bindings().BSDF)
	if bsdf == nil {
		return radiance
	}

	wi := its.ToLocal(ray.Direction.Negate())
	if bsdf.Lobes().CanBeLightSampled() {
		radiance = radiance.Add(sampleLight(d.lights, sampler, its.P, bsdfScatter(&its, bsdf, wi), occlusion(s)))
	}
	radiance = radiance.Add(sampleBSDF(s, d.lights, sampler, &its, bsdf, wi))
	return radiance
}
