package lights

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/material"
)

// PointLight is an isotropic point emitter, optionally restricted to a cone.
// Intensity is power / 4π in every direction inside the cone.
type PointLight struct {
	position        core.Vec3
	power           core.Spectrum
	direction       core.Vec3 // spot axis, zero for an omnidirectional light
	cosTotalWidth   float64   // cosine of the outer cone angle
	cosFalloffStart float64   // cosine of the angle where falloff begins
}

// NewPointLight creates an omnidirectional point light with total emitted power
func NewPointLight(position core.Vec3, power core.Spectrum) *PointLight {
	return &PointLight{position: position, power: power, cosTotalWidth: -1, cosFalloffStart: -1}
}

// NewSpotLight creates a point light restricted to a cone aimed from position at target.
// coneAngleDegrees is the total cone angle; coneDeltaAngleDegrees is the falloff transition.
// Power is the flux the light would emit without the cone.
func NewSpotLight(position, target core.Vec3, power core.Spectrum, coneAngleDegrees, coneDeltaAngleDegrees float64) *PointLight {
	totalWidthRadians := coneAngleDegrees * math.Pi / 180.0
	falloffStartRadians := (coneAngleDegrees - coneDeltaAngleDegrees) * math.Pi / 180.0

	return &PointLight{
		position:        position,
		power:           power,
		direction:       target.Subtract(position).Normalize(),
		cosTotalWidth:   math.Cos(totalWidthRadians),
		cosFalloffStart: math.Cos(falloffStartRadians),
	}
}

func (pl *PointLight) intensity() core.Spectrum {
	return pl.power.Multiply(1 / (4 * math.Pi))
}

// Sample returns the light position with a discrete pdf
func (pl *PointLight) Sample(ls *LightSample, sampler core.Sampler) core.Spectrum {
	toLight := pl.position.Subtract(ls.Ref)
	distance := toLight.Length()
	if distance == 0 {
		return fail(ls)
	}

	ls.P = pl.position
	ls.N = core.Vec3{}
	ls.Wi = toLight.Multiply(1 / distance)
	ls.Distance = distance
	ls.PDF = 1
	ls.Measure = material.MeasureDiscrete
	ls.ShadowRay = core.NewSegment(ls.Ref, pl.position)

	falloff := pl.falloff(pl.direction.Dot(ls.Wi.Negate()))
	if falloff == 0 {
		return fail(ls)
	}
	return pl.intensity().Multiply(falloff / (distance * distance))
}

// Eval is zero: no ray can hit a point
func (pl *PointLight) Eval(ls *LightSample) core.Spectrum {
	return core.Spectrum{}
}

func (pl *PointLight) PDF(ls *LightSample) float64 {
	return 0
}

func (pl *PointLight) IsDelta() bool {
	return true
}

// SamplePhoton emits uniformly over the sphere, or the cone for spot lights
func (pl *PointLight) SamplePhoton(ray *core.Ray, sampler core.Sampler) core.Spectrum {
	if pl.direction == (core.Vec3{}) {
		*ray = core.NewRay(pl.position, core.SquareToUniformSphere(sampler.Get2D()))
		return pl.power
	}

	local := core.SquareToUniformSphereCap(sampler.Get2D(), pl.cosTotalWidth)
	pdf := core.SquareToUniformSphereCapPdf(local, pl.cosTotalWidth)
	if pdf == 0 {
		return core.Spectrum{}
	}
	direction := core.NewFrame(pl.direction).ToWorld(local)
	*ray = core.NewRay(pl.position, direction)
	return pl.intensity().Multiply(pl.falloff(local.Z) / pdf)
}

// Power returns the flux of the omnidirectional light. Spot lights report the same flux
// so light selection does not depend on the cone angle.
func (pl *PointLight) Power() core.Spectrum {
	return pl.power
}

func (pl *PointLight) Preprocess(center core.Vec3, radius float64) {}

// falloff calculates the spot light attenuation from the cosine between the spot axis
// and the direction toward the shading point
func (pl *PointLight) falloff(cosAngle float64) float64 {
	if pl.direction == (core.Vec3{}) {
		return 1.0
	}

	// Outside the total cone width
	if cosAngle < pl.cosTotalWidth {
		return 0.0
	}

	// Inside the inner cone (full intensity)
	if cosAngle >= pl.cosFalloffStart {
		return 1.0
	}

	// Smooth quartic falloff across the transition region
	delta := (cosAngle - pl.cosTotalWidth) / (pl.cosFalloffStart - pl.cosTotalWidth)
	return delta * delta * delta * delta
}
