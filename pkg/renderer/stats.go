package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of samples taken
	AverageSamples float64 // Average samples per pixel
	MaxSamples     int     // Maximum samples allowed per pixel
	MinSamples     int     // Minimum samples taken per pixel
	MaxSamplesUsed int     // Maximum samples actually used by any pixel
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	Radiance         core.WeightedSpectrum // box-filtered radiance estimate
	LuminanceAccum   float64               // Luminance accumulator for convergence
	LuminanceSqAccum float64               // Luminance squared for variance
	SampleCount      int                   // Number of samples taken
}

// AddSample adds a new radiance sample to the pixel statistics
func (ps *PixelStats) AddSample(radiance core.Spectrum) {
	ps.Radiance.Add(radiance, 1)
	luminance := radiance.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// Color returns the current average radiance for this pixel
func (ps *PixelStats) Color() core.Spectrum {
	return ps.Radiance.ToRGB()
}

// RelativeError returns the coefficient of variation of the luminance samples,
// and the raw variance for pixels too dark for a relative measure
func (ps *PixelStats) RelativeError() (relative, variance float64) {
	if ps.SampleCount == 0 {
		return math.Inf(1), math.Inf(1)
	}
	mean := ps.LuminanceAccum / float64(ps.SampleCount)
	meanSq := ps.LuminanceSqAccum / float64(ps.SampleCount)
	variance = math.Max(0, meanSq-mean*mean)
	if mean <= 1e-8 {
		return math.Inf(1), variance
	}
	return math.Sqrt(variance) / mean, variance
}

// SpectrumToRGBA converts linear radiance to a display color with gamma 2 and clamping
func SpectrumToRGBA(s core.Spectrum) color.RGBA {
	s = s.Sanitize()
	channel := func(v float64) uint8 {
		return uint8(255 * math.Min(1, math.Sqrt(v)))
	}
	return color.RGBA{R: channel(s.R), G: channel(s.G), B: channel(s.B), A: 255}
}

// CalculateAverageLuminance returns the mean luminance of an 8-bit image in [0, 1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	total := 0.0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += core.NewSpectrum(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255).Luminance()
		}
	}
	return total / float64(pixels)
}
