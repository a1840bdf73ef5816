package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/integrator"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize           int   // Size of each tile (64x64 recommended)
	InitialSamples     int   // Samples for first pass (1 recommended)
	MaxSamplesPerPixel int   // Maximum total samples per pixel
	MaxPasses          int   // Maximum number of passes
	NumWorkers         int   // Number of parallel workers (0 = use CPU count)
	Seed               int64 // Base seed mixed into every tile sampler
	Adaptive           AdaptiveConfig
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:           64,
		InitialSamples:     1,
		MaxSamplesPerPixel: 50,
		MaxPasses:          7, // 1, then six even steps up to 50
		NumWorkers:         0,
		Seed:               42,
		Adaptive: AdaptiveConfig{
			MinSamples: 0.15,
			Threshold:  0.01,
			DarkLimit:  1e-6,
		},
	}
}

func (c ProgressiveConfig) validate() error {
	switch {
	case c.TileSize < 1:
		return core.InvalidParameter("renderer", "tileSize", "must be at least 1")
	case c.InitialSamples < 1:
		return core.InvalidParameter("renderer", "initialSamples", "must be at least 1")
	case c.MaxSamplesPerPixel < c.InitialSamples:
		return core.InvalidParameter("renderer", "maxSamplesPerPixel", "must not be below initialSamples")
	case c.MaxPasses < 1:
		return core.InvalidParameter("renderer", "maxPasses", "must be at least 1")
	case c.Adaptive.MinSamples < 0 || c.Adaptive.MinSamples > 1:
		return core.InvalidParameter("renderer", "adaptiveMinSamples", "must be in [0, 1]")
	}
	return nil
}

// ProgressiveRaytracer manages progressive rendering with multiple passes
type ProgressiveRaytracer struct {
	scene         *scene.Scene
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	currentPass   int
	pixelStats    [][]PixelStats // Shared pixel statistics array (global image coordinates)
	tileRenderer  *TileRenderer
	workerPool    *WorkerPool
	logger        core.Logger
}

// NewProgressiveRaytracer prepares a render of a preprocessed scene. It runs the
// integrator's Preprocess once; afterwards the integrator is only queried concurrently.
// Tile samplers are clones of sampler, or independent samplers when it is nil.
func NewProgressiveRaytracer(s *scene.Scene, integ integrator.Integrator, sampler core.Sampler, config ProgressiveConfig, logger core.Logger) (*ProgressiveRaytracer, error) {
	if s == nil || s.Camera == nil {
		return nil, errors.New("scene has no camera")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	width, height := s.Camera.Width(), s.Camera.Height()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid film size %dx%d", width, height)
	}
	if err := integ.Preprocess(s); err != nil {
		return nil, fmt.Errorf("preprocess integrator: %w", err)
	}
	if sampler == nil {
		sampler = core.NewIndependentSampler(config.MaxSamplesPerPixel, config.Seed)
	}
	if logger == nil {
		logger = NewDefaultLogger()
	}

	pixelStats := make([][]PixelStats, height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, width)
	}

	return &ProgressiveRaytracer{
		scene:        s,
		width:        width,
		height:       height,
		config:       config,
		tiles:        NewTileGrid(width, height, config.TileSize, sampler, config.Seed),
		pixelStats:   pixelStats,
		tileRenderer: NewTileRenderer(s, integ, config.Adaptive),
		logger:       logger,
	}, nil
}

// getSamplesForPass calculates the target total samples for a given pass
func (pr *ProgressiveRaytracer) getSamplesForPass(passNumber int) int {
	if pr.config.MaxPasses == 1 {
		return pr.config.MaxSamplesPerPixel
	}

	// First pass is a quick preview
	if passNumber == 1 {
		return pr.config.InitialSamples
	}

	// Divide remaining samples evenly across remaining passes
	remainingSamples := pr.config.MaxSamplesPerPixel - pr.config.InitialSamples
	remainingPasses := pr.config.MaxPasses - 1
	samplesPerPass := remainingSamples / remainingPasses

	if passNumber >= pr.config.MaxPasses {
		return pr.config.MaxSamplesPerPixel
	}
	return pr.config.InitialSamples + (passNumber-1)*samplesPerPass
}

// RenderPass renders a single progressive pass using parallel processing
func (pr *ProgressiveRaytracer) RenderPass(passNumber int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.currentPass = passNumber
	targetSamples := pr.getSamplesForPass(passNumber)

	if pr.workerPool == nil {
		pr.workerPool = NewWorkerPool(pr.tileRenderer, pr.config.NumWorkers)
	}

	pr.logger.Printf("Pass %d: Target %d samples per pixel (using %d workers)...\n",
		passNumber, targetSamples, pr.workerPool.GetNumWorkers())

	tasks := make([]TileTask, len(pr.tiles))
	for i, tile := range pr.tiles {
		tasks[i] = TileTask{
			Tile:          tile,
			PassNumber:    passNumber,
			TargetSamples: targetSamples,
			TaskID:        i,
			PixelStats:    pr.pixelStats,
		}
	}

	// Results arrive on this goroutine, so callbacks never run concurrently
	var firstErr error
	completed := 0
	for result := range pr.workerPool.Run(tasks) {
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++
		completed++

		if tileCallback != nil && firstErr == nil {
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:  pr.extractTileImage(tile),
				PassNumber: passNumber,

				TileNumber:  completed,
				TotalTiles:  len(pr.tiles),
				TotalPasses: pr.config.MaxPasses,
			})
		}
	}
	if firstErr != nil {
		return nil, RenderStats{}, firstErr
	}

	img, stats := pr.assembleCurrentImage(targetSamples)
	return img, stats, nil
}

// extractTileImage extracts a tile image from the shared pixel stats array
func (pr *ProgressiveRaytracer) extractTileImage(tile *Tile) *image.RGBA {
	bounds := tile.Bounds
	tileImage := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			stats := &pr.pixelStats[y][x]
			if stats.SampleCount > 0 {
				tileImage.SetRGBA(x-bounds.Min.X, y-bounds.Min.Y, SpectrumToRGBA(stats.Color()))
			}
		}
	}

	return tileImage
}

// Radiance returns the current linear estimate for pixel (x, y)
func (pr *ProgressiveRaytracer) Radiance(x, y int) core.Spectrum {
	return pr.pixelStats[y][x].Color()
}

// Close stops the worker pool. A later RenderPass starts a new one.
func (pr *ProgressiveRaytracer) Close() {
	if pr.workerPool != nil {
		pr.workerPool.Stop()
		pr.workerPool = nil
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass on a background goroutine and reports through channels.
// Cancellation is observed between passes. If options.TileUpdates is false, the tile
// channel is closed immediately.
func (pr *ProgressiveRaytracer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.Close()

		pr.logger.Printf("Starting progressive rendering with %d passes...\n", pr.config.MaxPasses)

		for pass := 1; pass <= pr.config.MaxPasses; pass++ {
			select {
			case <-ctx.Done():
				pr.logger.Printf("Rendering cancelled before pass %d\n", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			startTime := time.Now()

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Slow consumer; the pass image still carries this tile
					}
				}
			}

			img, stats, err := pr.RenderPass(pass, tileCallback)
			if err != nil {
				errChan <- err
				return
			}

			pr.logger.Printf("Pass %d completed in %v (average: %.1f samples/pixel)\n",
				pass, time.Since(startTime), stats.AverageSamples)

			isLast := pass == pr.config.MaxPasses
			select {
			case passChan <- PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: isLast}:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// assembleCurrentImage creates an image from the current state of the shared pixel stats
// and calculates render statistics in a single pass
func (pr *ProgressiveRaytracer) assembleCurrentImage(targetSamples int) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, pr.width, pr.height))

	stats := RenderStats{
		TotalPixels: pr.width * pr.height,
		MaxSamples:  targetSamples,
		MinSamples:  targetSamples,
	}

	for y := 0; y < pr.height; y++ {
		for x := 0; x < pr.width; x++ {
			pixel := &pr.pixelStats[y][x]
			img.SetRGBA(x, y, SpectrumToRGBA(pixel.Color()))

			stats.TotalSamples += pixel.SampleCount
			stats.MinSamples = min(stats.MinSamples, pixel.SampleCount)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, pixel.SampleCount)
		}
	}

	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	return img, stats
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile

	sampler core.Sampler
	seed    int64
}

// NewTile creates a tile owning a clone of sampler
func NewTile(id int, bounds image.Rectangle, sampler core.Sampler, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		sampler: sampler.Clone(),
		seed:    seed,
	}
}

// SamplerForPass reseeds the tile's sampler from (seed, tile id, pass) so that a
// pass renders the same samples regardless of worker count or scheduling
func (t *Tile) SamplerForPass(pass int) core.Sampler {
	t.sampler.Seed(t.seed ^ int64(t.ID+1)<<32 ^ int64(pass)*0x9E3779B9)
	return t.sampler
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int, sampler core.Sampler, seed int64) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), sampler, seed))
			tileID++
		}
	}

	return tiles
}
