package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// Camera generates primary rays for film positions
type Camera interface {
	// GenerateRay returns a ray through the continuous film position pixel, where
	// (0, 0) is the top-left corner and (Width, Height) the bottom-right
	GenerateRay(pixel core.Vec2, sampler core.Sampler) core.Ray
	Width() int
	Height() int
}

// Config holds the placement and film parameters shared by every camera
type Config struct {
	Origin core.Vec3
	Target core.Vec3
	Up     core.Vec3
	Width  int
	Height int
}

// cameraToWorld returns the inverse of the look-at view matrix
func (c Config) cameraToWorld() mgl64.Mat4 {
	view := mgl64.LookAtV(core.ToMgl(c.Origin), core.ToMgl(c.Target), core.ToMgl(c.Up))
	return view.Inv()
}

func (c Config) aspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// ndc maps a film position to [-1, 1]², Y up
func (c Config) ndc(pixel core.Vec2) (float64, float64) {
	x := 2*pixel.X/float64(c.Width) - 1
	y := 1 - 2*pixel.Y/float64(c.Height)
	return x, y
}

// Perspective is a pinhole camera, or a thin-lens camera when Aperture > 0
type Perspective struct {
	Config
	FOV           float64 // vertical field of view in degrees
	Aperture      float64 // lens radius
	FocusDistance float64
	toWorld       mgl64.Mat4
	tanHalfFOV    float64
}

// NewPerspective creates a perspective camera looking from cfg.Origin at cfg.Target
func NewPerspective(cfg Config, fov, aperture, focusDistance float64) *Perspective {
	return &Perspective{
		Config:        cfg,
		FOV:           fov,
		Aperture:      aperture,
		FocusDistance: focusDistance,
		toWorld:       cfg.cameraToWorld(),
		tanHalfFOV:    math.Tan(mgl64.DegToRad(fov) / 2),
	}
}

func (p *Perspective) Width() int  { return p.Config.Width }
func (p *Perspective) Height() int { return p.Config.Height }

func (p *Perspective) GenerateRay(pixel core.Vec2, sampler core.Sampler) core.Ray {
	x, y := p.ndc(pixel)
	direction := mgl64.Vec3{x * p.tanHalfFOV * p.aspectRatio(), y * p.tanHalfFOV, -1}
	origin := mgl64.Vec3{}

	if p.Aperture > 0 {
		// Focus plane at FocusDistance along -Z; jitter the origin on the lens disk
		focus := direction.Mul(p.FocusDistance)
		lens := core.SquareToUniformDisk(sampler.Get2D())
		origin = mgl64.Vec3{lens.X * p.Aperture, lens.Y * p.Aperture, 0}
		direction = focus.Sub(origin)
	}

	worldOrigin := p.toWorld.Mul4x1(origin.Vec4(1)).Vec3()
	worldDirection := p.toWorld.Mul4x1(direction.Vec4(0)).Vec3().Normalize()
	return core.NewRay(core.FromMgl(worldOrigin), core.FromMgl(worldDirection))
}

// Orthographic projects parallel rays from a view rectangle Scale units tall
type Orthographic struct {
	Config
	Scale   float64 // half-height of the view rectangle
	toWorld mgl64.Mat4
}

// NewOrthographic creates an orthographic camera looking from cfg.Origin at cfg.Target
func NewOrthographic(cfg Config, scale float64) *Orthographic {
	return &Orthographic{Config: cfg, Scale: scale, toWorld: cfg.cameraToWorld()}
}

func (o *Orthographic) Width() int  { return o.Config.Width }
func (o *Orthographic) Height() int { return o.Config.Height }

func (o *Orthographic) GenerateRay(pixel core.Vec2, sampler core.Sampler) core.Ray {
	x, y := o.ndc(pixel)
	origin := mgl64.Vec4{x * o.Scale * o.aspectRatio(), y * o.Scale, 0, 1}
	direction := mgl64.Vec4{0, 0, -1, 0}

	worldOrigin := o.toWorld.Mul4x1(origin).Vec3()
	worldDirection := o.toWorld.Mul4x1(direction).Vec3().Normalize()
	return core.NewRay(core.FromMgl(worldOrigin), core.FromMgl(worldDirection))
}
