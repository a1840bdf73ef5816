package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/FallenShard/crisp-go/pkg/core"
)

func TestCalculateAverageLuminance(t *testing.T) {
	// Red, green, blue and black average to (0.299 + 0.587 + 0.114 + 0) / 4
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 255})

	avgLum := CalculateAverageLuminance(img)
	if math.Abs(avgLum-0.25) > 1e-4 {
		t.Errorf("Expected average luminance 0.25, got %f", avgLum)
	}
}

func TestCalculateAverageLuminance_White(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})

	if avgLum := CalculateAverageLuminance(img); math.Abs(avgLum-1) > 1e-4 {
		t.Errorf("Expected average luminance 1.0, got %f", avgLum)
	}
}

func TestPixelStatsAccumulation(t *testing.T) {
	var ps PixelStats
	if got := ps.Color(); !got.IsZero() {
		t.Errorf("Empty pixel should be black, got %v", got)
	}

	ps.AddSample(core.NewSpectrum(1, 0, 0))
	ps.AddSample(core.NewSpectrum(0, 1, 0))
	ps.AddSample(core.NewSpectrum(0, 0, 1))
	ps.AddSample(core.NewSpectrum(1, 1, 1))

	if ps.SampleCount != 4 {
		t.Errorf("Expected 4 samples, got %d", ps.SampleCount)
	}
	want := core.NewSpectrum(0.5, 0.5, 0.5)
	got := ps.Color()
	if math.Abs(got.R-want.R) > 1e-12 || math.Abs(got.G-want.G) > 1e-12 || math.Abs(got.B-want.B) > 1e-12 {
		t.Errorf("Expected average %v, got %v", want, got)
	}
}

func TestPixelStatsRelativeError(t *testing.T) {
	tests := []struct {
		name         string
		samples      []float64
		wantRelative float64
		wantVariance float64
	}{
		{"constant", []float64{2, 2, 2, 2}, 0, 0},
		// mean 1, variance 1
		{"alternating", []float64{0, 2, 0, 2}, 1, 1},
		{"black", []float64{0, 0}, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ps PixelStats
			for _, v := range tt.samples {
				ps.AddSample(core.Gray(v))
			}
			relative, variance := ps.RelativeError()
			if math.IsInf(tt.wantRelative, 1) {
				if !math.IsInf(relative, 1) {
					t.Errorf("Expected infinite relative error, got %f", relative)
				}
			} else if math.Abs(relative-tt.wantRelative) > 1e-9 {
				t.Errorf("Expected relative error %f, got %f", tt.wantRelative, relative)
			}
			if math.Abs(variance-tt.wantVariance) > 1e-9 {
				t.Errorf("Expected variance %f, got %f", tt.wantVariance, variance)
			}
		})
	}
}

func TestSpectrumToRGBA(t *testing.T) {
	tests := []struct {
		name string
		in   core.Spectrum
		want color.RGBA
	}{
		{"black", core.Spectrum{}, color.RGBA{0, 0, 0, 255}},
		{"white", core.Gray(1), color.RGBA{255, 255, 255, 255}},
		{"gamma", core.Gray(0.25), color.RGBA{127, 127, 127, 255}},
		{"clamped", core.NewSpectrum(4, -1, 0), color.RGBA{255, 0, 0, 255}},
		{"nan", core.NewSpectrum(math.NaN(), 1, 1), color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SpectrumToRGBA(tt.in); got != tt.want {
				t.Errorf("SpectrumToRGBA(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
