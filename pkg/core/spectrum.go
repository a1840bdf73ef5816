package core

import "math"

// Spectrum is an RGB radiance value. Channels are expected to be non-negative;
// Sanitize enforces that before a value is accumulated.
type Spectrum struct {
	R, G, B float64
}

// NewSpectrum creates a new Spectrum
func NewSpectrum(r, g, b float64) Spectrum {
	return Spectrum{R: r, G: g, B: b}
}

// Gray creates a Spectrum with the same value in every channel
func Gray(v float64) Spectrum {
	return Spectrum{R: v, G: v, B: v}
}

// Add returns the channel-wise sum
func (s Spectrum) Add(other Spectrum) Spectrum {
	return Spectrum{s.R + other.R, s.G + other.G, s.B + other.B}
}

// Multiply returns the spectrum scaled by a scalar
func (s Spectrum) Multiply(scalar float64) Spectrum {
	return Spectrum{s.R * scalar, s.G * scalar, s.B * scalar}
}

// MultiplySpectrum returns the channel-wise product
func (s Spectrum) MultiplySpectrum(other Spectrum) Spectrum {
	return Spectrum{s.R * other.R, s.G * other.G, s.B * other.B}
}

// Divide returns the spectrum divided by a scalar, or zero when the divisor is zero
func (s Spectrum) Divide(scalar float64) Spectrum {
	if scalar == 0 {
		return Spectrum{}
	}
	inv := 1.0 / scalar
	return Spectrum{s.R * inv, s.G * inv, s.B * inv}
}

// IsZero reports whether every channel is exactly zero
func (s Spectrum) IsZero() bool {
	return s.R == 0 && s.G == 0 && s.B == 0
}

// IsValid reports whether every channel is finite and non-negative
func (s Spectrum) IsValid() bool {
	for _, c := range [3]float64{s.R, s.G, s.B} {
		if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
			return false
		}
	}
	return true
}

// Sanitize rejects NaN or infinite values (returning zero) and clamps negative channels to zero
func (s Spectrum) Sanitize() Spectrum {
	for _, c := range [3]float64{s.R, s.G, s.B} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Spectrum{}
		}
	}
	return Spectrum{R: math.Max(0, s.R), G: math.Max(0, s.G), B: math.Max(0, s.B)}
}

// Luminance returns the perceptual luminance of the spectrum
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (s Spectrum) Luminance() float64 {
	return 0.299*s.R + 0.587*s.G + 0.114*s.B
}

// MaxComponent returns the largest channel
func (s Spectrum) MaxComponent() float64 {
	return math.Max(s.R, math.Max(s.G, s.B))
}

// Exp returns the channel-wise exponential
func (s Spectrum) Exp() Spectrum {
	return Spectrum{math.Exp(s.R), math.Exp(s.G), math.Exp(s.B)}
}

// WeightedSpectrum accumulates splatted contributions together with their total weight
type WeightedSpectrum struct {
	R, G, B float64
	Weight  float64
}

// Add deposits a contribution with the given weight
func (w *WeightedSpectrum) Add(s Spectrum, weight float64) {
	w.R += s.R * weight
	w.G += s.G * weight
	w.B += s.B * weight
	w.Weight += weight
}

// Merge folds another accumulator into this one
func (w *WeightedSpectrum) Merge(other WeightedSpectrum) {
	w.R += other.R
	w.G += other.G
	w.B += other.B
	w.Weight += other.Weight
}

// ToRGB returns the weighted average, or zero when nothing has been accumulated
func (w WeightedSpectrum) ToRGB() Spectrum {
	if w.Weight == 0 {
		return Spectrum{}
	}
	return Spectrum{R: w.R / w.Weight, G: w.G / w.Weight, B: w.B / w.Weight}
}
