package integrator

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/geometry"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/material"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// misWeight is the balance heuristic for one sample from each of two strategies.
// It is zero when neither strategy can produce the sample.
func misWeight(pdfA, pdfB float64) float64 {
	sum := pdfA + pdfB
	if sum <= 0 || math.IsNaN(sum) {
		return 0
	}
	if math.IsInf(pdfA, 1) {
		return 1
	}
	return pdfA / sum
}

// scatterFunc evaluates the local scattering function for a world-space direction
// toward a light. It returns the value (including any cosine) and the density the
// scattering sampler assigns to that direction.
type scatterFunc func(wo core.Vec3) (core.Spectrum, float64)

// visibility returns the fraction of light passing along a shadow ray
type visibility func(ray core.Ray) core.Spectrum

func bsdfScatter(its *geometry.Intersection, bsdf material.BSDF, wi core.Vec3) scatterFunc {
	return func(wo core.Vec3) (core.Spectrum, float64) {
		bs := material.NewBSDFSampleAt(wi, its.ToLocal(wo), its.UV)
		f := bsdf.Eval(&bs)
		if f.IsZero() {
			return f, 0
		}
		return f.Multiply(core.AbsCosTheta(bs.Wo)), bsdf.PDF(&bs)
	}
}

func occlusion(s *scene.Scene) visibility {
	return func(ray core.Ray) core.Spectrum {
		if s.Occluded(ray) {
			return core.Spectrum{}
		}
		return core.Gray(1)
	}
}

// sampleLight is the light strategy of MIS direct lighting: pick an emitter by power,
// sample a point on it and weight the contribution against the scattering density.
// The result is f·Le·|cos|·w / (p_select·pdf_light) with w the balance weight of
// p_select·pdf_light against the scattering pdf, zero for delta emitters.
func sampleLight(selector *lights.PowerSampler, sampler core.Sampler, ref core.Vec3, scatter scatterFunc, visible visibility) core.Spectrum {
	u := sampler.Get2D()
	light, _, pSelect := selector.Sample(u.X, u.Y)
	if light == nil || pSelect <= 0 {
		return core.Spectrum{}
	}

	ls := lights.NewLightSample(ref)
	le := light.Sample(&ls, sampler)
	if ls.PDF <= 0 || le.IsZero() {
		return core.Spectrum{}
	}

	f, pdfScatter := scatter(ls.Wi)
	if f.IsZero() {
		return core.Spectrum{}
	}
	tr := visible(ls.ShadowRay)
	if tr.IsZero() {
		return core.Spectrum{}
	}

	if light.IsDelta() {
		pdfScatter = 0
	}
	w := misWeight(pSelect*ls.PDF, pdfScatter)
	return f.MultiplySpectrum(le).MultiplySpectrum(tr).Multiply(w / pSelect).Sanitize()
}

// emission returns the radiance arriving at ref along ray from the emitter it reaches,
// with the solid-angle density sampleLight has for choosing that direction.
// A miss reaches the environment light, if any.
func emission(s *scene.Scene, selector *lights.PowerSampler, ref core.Vec3, ray core.Ray, its *geometry.Intersection, hit bool) (core.Spectrum, float64) {
	ls := lights.NewLightSample(ref)
	ls.Wi = ray.Direction

	var light lights.Light
	if hit {
		light = s.Light(s.Shape(its.ShapeID).Bindings().Light)
		ls.P = its.P
		ls.N = its.GeoNormal
		ls.Distance = its.P.Subtract(ref).Length()
	} else {
		light, _ = s.Environment()
		ls.Distance = math.Inf(1)
	}
	if light == nil {
		return core.Spectrum{}, 0
	}

	le := light.Eval(&ls)
	if le.IsZero() || light.IsDelta() {
		return le, 0
	}
	var pSelect float64
	if selector != nil {
		pSelect = selector.Probability(s.LightIndex(light))
	}
	return le, pSelect * light.PDF(&ls)
}

// sampleBSDF is the BSDF strategy of MIS direct lighting: sample the BSDF once and
// weight the emission found along the sampled direction against the light density.
func sampleBSDF(s *scene.Scene, selector *lights.PowerSampler, sampler core.Sampler, its *geometry.Intersection, bsdf material.BSDF, wi core.Vec3) core.Spectrum {
	bs := material.NewBSDFSampleAt(wi, core.Vec3{}, its.UV)
	weight := bsdf.Sample(&bs, sampler)
	if bs.PDF <= 0 || weight.IsZero() {
		return core.Spectrum{}
	}

	ray := core.NewRay(its.P, its.ToWorld(bs.Wo).Normalize())
	next, hit := s.Intersect(ray)
	le, pdfLight := emission(s, selector, its.P, ray, &next, hit)
	if le.IsZero() {
		return core.Spectrum{}
	}
	if bs.Measure == material.MeasureDiscrete {
		pdfLight = 0
	}
	return weight.MultiplySpectrum(le).Multiply(misWeight(bs.PDF, pdfLight)).Sanitize()
}
