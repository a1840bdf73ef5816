package renderer

import (
	"image"
	"math"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/integrator"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// AdaptiveConfig controls when a pixel may stop sampling before its pass target
type AdaptiveConfig struct {
	MinSamples float64 // Minimum samples as a fraction of the pass target (0.0-1.0)
	Threshold  float64 // Relative error below which a pixel has converged (0 disables)
	DarkLimit  float64 // Variance below which a black pixel has converged
}

// TileRenderer handles the actual rendering of individual tiles using an integrator
type TileRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	adaptive   AdaptiveConfig
}

// NewTileRenderer creates a tile renderer for a preprocessed scene and integrator
func NewTileRenderer(s *scene.Scene, integ integrator.Integrator, adaptive AdaptiveConfig) *TileRenderer {
	return &TileRenderer{
		scene:      s,
		integrator: integ,
		adaptive:   adaptive,
	}
}

// RenderTileBounds renders pixels within bounds until each reaches targetSamples or converges.
// The sampler is owned by the calling worker for the duration of the call.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, sampler core.Sampler, targetSamples int) RenderStats {
	stats := tr.initRenderStatsForBounds(bounds, targetSamples)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			samplesUsed := tr.samplePixel(x, y, &pixelStats[y][x], sampler, targetSamples)
			tr.updateStats(&stats, samplesUsed)
		}
	}

	tr.finalizeStats(&stats)
	return stats
}

// samplePixel traces jittered camera rays through pixel (x, y) until the pixel converges
func (tr *TileRenderer) samplePixel(x, y int, ps *PixelStats, sampler core.Sampler, maxSamples int) int {
	initialSampleCount := ps.SampleCount

	for ps.SampleCount < maxSamples && !tr.shouldStopSampling(ps, maxSamples) {
		jitter := sampler.Get2D()
		pixel := core.NewVec2(float64(x)+jitter.X, float64(y)+jitter.Y)
		ray := tr.scene.Camera.GenerateRay(pixel, sampler)
		ps.AddSample(tr.integrator.Li(tr.scene, sampler, ray, integrator.IlluminationAll))
	}

	return ps.SampleCount - initialSampleCount
}

// shouldStopSampling determines if adaptive sampling should stop based on perceptual relative error
func (tr *TileRenderer) shouldStopSampling(ps *PixelStats, maxSamples int) bool {
	if tr.adaptive.Threshold <= 0 {
		return false
	}

	minSamples := max(1, int(float64(maxSamples)*tr.adaptive.MinSamples))
	if ps.SampleCount < minSamples {
		return false
	}

	relativeError, variance := ps.RelativeError()
	if math.IsInf(relativeError, 1) {
		return variance < tr.adaptive.DarkLimit
	}
	return relativeError < tr.adaptive.Threshold
}

// initRenderStatsForBounds initializes the render statistics tracking for specific bounds
func (tr *TileRenderer) initRenderStatsForBounds(bounds image.Rectangle, maxSamples int) RenderStats {
	return RenderStats{
		TotalPixels: bounds.Dx() * bounds.Dy(),
		MaxSamples:  maxSamples,
		MinSamples:  maxSamples,
	}
}

// updateStats updates the render statistics with data from a single pixel
func (tr *TileRenderer) updateStats(stats *RenderStats, samplesUsed int) {
	stats.TotalSamples += samplesUsed
	stats.MinSamples = min(stats.MinSamples, samplesUsed)
	stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, samplesUsed)
}

// finalizeStats calculates final statistics after all pixels are rendered
func (tr *TileRenderer) finalizeStats(stats *RenderStats) {
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
}
