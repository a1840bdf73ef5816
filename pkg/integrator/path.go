package integrator

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/geometry"
	"github.com/FallenShard/crisp-go/pkg/lights"
	"github.com/FallenShard/crisp-go/pkg/material"
	"github.com/FallenShard/crisp-go/pkg/medium"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// maxNullCrossings bounds how many surfaces without a BSDF one path segment may pass
const maxNullCrossings = 64

// Path implements unidirectional path tracing with next event estimation at every
// surface and medium vertex. Emission found by BSDF or phase sampling is weighted
// against the light strategy with the balance heuristic.
type Path struct {
	MaxDepth int // maximum number of scattering events
	RRDepth  int // bounces before Russian roulette starts

	lights *lights.PowerSampler
}

// NewPath creates a path tracer that must be preprocessed before use
func NewPath(maxDepth, rrDepth int) *Path {
	return &Path{MaxDepth: maxDepth, RRDepth: rrDepth}
}

// Preprocess builds the light selection table from the scene's emitters
func (p *Path) Preprocess(s *scene.Scene) error {
	p.lights = lights.NewPowerSampler(s.Lights())
	return nil
}

// Li returns zero before Preprocess. The ray starts outside every medium.
func (p *Path) Li(s *scene.Scene, sampler core.Sampler, ray core.Ray, flags IlluminationFlags) core.Spectrum {
	if p.lights == nil {
		return core.Spectrum{}
	}
	ray.Direction = ray.Direction.Normalize()

	var radiance core.Spectrum
	throughput := core.Gray(1)
	current := geometry.NoHandle

	prevP := ray.Origin // last scattering vertex
	prevPDF := 0.0      // density of the direction chosen there
	specular := false
	bounces := 0
	crossings := 0

	addEmission := func(le core.Spectrum, pdfLight float64) {
		if le.IsZero() {
			return
		}
		w := 1.0
		switch {
		case bounces == 0:
			if !flags.Has(IlluminationDirect) {
				return
			}
		case !specular:
			w = misWeight(prevPDF, pdfLight)
		}
		radiance = radiance.Add(throughput.MultiplySpectrum(le).Multiply(w).Sanitize())
	}

	for {
		its, hit := s.Intersect(ray)

		if m := s.Medium(current); m != nil {
			maxT := math.Inf(1)
			if hit {
				maxT = its.T
			}
			t, weight, scattered := m.SampleDistance(maxT, sampler)
			throughput = throughput.MultiplySpectrum(weight)
			if throughput.IsZero() {
				break
			}
			if scattered {
				if !flags.Has(IlluminationIndirect) || bounces >= p.MaxDepth {
					break
				}
				x := ray.At(t)
				wi := ray.Direction.Negate()
				phase := m.Phase()

				radiance = radiance.Add(throughput.MultiplySpectrum(
					sampleLight(p.lights, sampler, x, phaseScatter(phase, wi), shadowTransmittance(s, current, nil, nil))))

				ps := medium.PhaseSample{Wi: wi}
				pw := phase.Sample(&ps, sampler)
				if ps.PDF <= 0 || pw <= 0 {
					break
				}
				throughput = throughput.Multiply(pw)
				prevP, prevPDF, specular = x, ps.PDF, false
				ray = core.NewRay(x, ps.Wo.Normalize())
				bounces++
				crossings = 0
				if !p.survive(bounces, &throughput, sampler) {
					break
				}
				continue
			}
		}

		if !hit {
			addEmission(emission(s, p.lights, prevP, ray, &its, false))
			break
		}

		bindings := s.Shape(its.ShapeID).Bindings()
		if bindings.Light != geometry.NoHandle {
			addEmission(emission(s, p.lights, prevP, ray, &its, true))
		}

		bsdf := s.BSDF(bindings.BSDF)
		if bsdf == nil {
			// Pass through, possibly into or out of a medium
			crossings++
			if crossings > maxNullCrossings {
				break
			}
			current = mediumAfter(bindings, &its, ray.Direction, current)
			ray = core.NewRay(its.P, ray.Direction)
			continue
		}
		if !flags.Has(IlluminationIndirect) || bounces >= p.MaxDepth {
			break
		}

		wi := its.ToLocal(ray.Direction.Negate())
		if bsdf.Lobes().CanBeLightSampled() {
			radiance = radiance.Add(throughput.MultiplySpectrum(
				sampleLight(p.lights, sampler, its.P, bsdfScatter(&its, bsdf, wi), shadowTransmittance(s, current, &bindings, &its))))
		}

		bs := material.NewBSDFSampleAt(wi, core.Vec3{}, its.UV)
		weight := bsdf.Sample(&bs, sampler)
		if bs.PDF <= 0 || weight.IsZero() {
			break
		}
		throughput = throughput.MultiplySpectrum(weight)
		wo := its.ToWorld(bs.Wo).Normalize()

		prevP, prevPDF, specular = its.P, bs.PDF, bs.Measure == material.MeasureDiscrete
		current = mediumAfter(bindings, &its, wo, current)
		ray = core.NewRay(its.P, wo)
		bounces++
		crossings = 0
		if !p.survive(bounces, &throughput, sampler) {
			break
		}
	}

	return radiance.Sanitize()
}

// survive applies Russian roulette once rrDepth bounces have been made,
// rescaling the throughput of surviving paths
func (p *Path) survive(bounces int, throughput *core.Spectrum, sampler core.Sampler) bool {
	if bounces < p.RRDepth {
		return true
	}
	q := math.Min(0.95, throughput.MaxComponent())
	if q <= 0 || sampler.Get1D() >= q {
		return false
	}
	*throughput = throughput.Multiply(1 / q)
	return true
}

// shadowTransmittance returns the visibility of shadow rays leaving a vertex in
// medium current. At a surface vertex its and bindings decide which side the ray
// leaves on; at a medium vertex they are nil.
func shadowTransmittance(s *scene.Scene, current geometry.Handle, bindings *geometry.Bindings, its *geometry.Intersection) visibility {
	return func(ray core.Ray) core.Spectrum {
		start := current
		if its != nil {
			start = mediumAfter(*bindings, its, ray.Direction, current)
		}
		return traceTransmittance(s, ray, start)
	}
}

// traceTransmittance walks a shadow ray through surfaces without a BSDF, attenuating
// by each medium segment on the way. Any other surface blocks the ray.
func traceTransmittance(s *scene.Scene, ray core.Ray, current geometry.Handle) core.Spectrum {
	tr := core.Gray(1)
	start := 0.0
	for i := 0; i <= maxNullCrossings; i++ {
		its, hit := s.Intersect(ray)
		end := ray.MaxT
		if hit {
			end = its.T
		}
		if m := s.Medium(current); m != nil {
			tr = tr.MultiplySpectrum(m.Transmittance(end - start))
			if tr.IsZero() {
				return tr
			}
		}
		if !hit {
			return tr
		}

		bindings := s.Shape(its.ShapeID).Bindings()
		if bindings.BSDF != geometry.NoHandle {
			return core.Spectrum{}
		}
		current = mediumAfter(bindings, &its, ray.Direction, current)
		start = its.T
		ray.MinT = its.T + core.RayEpsilon
	}
	return core.Spectrum{}
}

// mediumAfter returns the medium a ray leaving its along dir travels through.
// Shapes bound to a medium are filled with it; leaving one returns to empty space.
func mediumAfter(bindings geometry.Bindings, its *geometry.Intersection, dir core.Vec3, current geometry.Handle) geometry.Handle {
	if bindings.Medium == geometry.NoHandle {
		return current
	}
	if dir.Dot(its.GeoNormal) < 0 {
		return bindings.Medium
	}
	return geometry.NoHandle
}

func phaseScatter(phase medium.PhaseFunction, wi core.Vec3) scatterFunc {
	return func(wo core.Vec3) (core.Spectrum, float64) {
		ps := medium.PhaseSample{Wi: wi, Wo: wo}
		f := phase.Eval(&ps)
		if f <= 0 {
			return core.Spectrum{}, 0
		}
		return core.Gray(f), phase.PDF(&ps)
	}
}
