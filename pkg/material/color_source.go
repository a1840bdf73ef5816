package material

import (
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// ColorSource provides spatially-varying reflectance for materials
type ColorSource interface {
	// Evaluate returns the color at the given surface parameterization
	Evaluate(uv core.Vec2) core.Spectrum
}

// SolidColor provides uniform color
type SolidColor struct {
	Color core.Spectrum
}

// NewSolidColor creates a new solid color source
func NewSolidColor(color core.Spectrum) *SolidColor {
	return &SolidColor{Color: color}
}

// Evaluate returns the solid color regardless of UV
func (s *SolidColor) Evaluate(uv core.Vec2) core.Spectrum {
	return s.Color
}

// Checkerboard alternates two colors over a regular grid in UV space
type Checkerboard struct {
	Even, Odd core.Spectrum
	Scale     float64 // number of checks per unit of UV
}

// NewCheckerboard creates a procedural checkerboard pattern
func NewCheckerboard(even, odd core.Spectrum, scale float64) *Checkerboard {
	return &Checkerboard{Even: even, Odd: odd, Scale: scale}
}

func (c *Checkerboard) Evaluate(uv core.Vec2) core.Spectrum {
	x := int(math.Floor(uv.X * c.Scale))
	y := int(math.Floor(uv.Y * c.Scale))
	if (x+y)%2 == 0 {
		return c.Even
	}
	return c.Odd
}
