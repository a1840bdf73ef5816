package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/FallenShard/crisp-go/pkg/core"
	"github.com/FallenShard/crisp-go/pkg/integrator"
	"github.com/FallenShard/crisp-go/pkg/renderer"
	"github.com/FallenShard/crisp-go/pkg/scene"
)

// options holds the command line configuration
type options struct {
	Scene      string
	Integrator string
	Samples    int
	Passes     int
	Workers    int
	Width      int
	Height     int
	Output     string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.Scene, "scene", "mis", "Built-in scene name or path to a .json scene description")
	flag.StringVar(&opts.Integrator, "integrator", "", "Override the scene's integrator: "+strings.Join(integrator.Types(), ", "))
	flag.IntVar(&opts.Samples, "spp", 0, "Samples per pixel (0 = scene sampler's sample count)")
	flag.IntVar(&opts.Passes, "passes", 0, "Number of progressive passes (0 = renderer default)")
	flag.IntVar(&opts.Workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	flag.IntVar(&opts.Width, "width", 0, "Override image width")
	flag.IntVar(&opts.Height, "height", 0, "Override image height")
	flag.StringVar(&opts.Output, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Crisp Renderer")
	fmt.Println("Usage: crisp [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.Builtins() {
		fmt.Printf("  %-8s - %s\n", info.Name, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png unless -out is given")
}

// run builds the scene, renders every pass and saves the final image
func run(ctx context.Context, opts options, logger *slog.Logger) error {
	diag := core.NewSlogDiagnostics(logger)

	s, setup, err := createScene(opts.Scene, opts.Width, opts.Height, diag)
	if err != nil {
		return err
	}
	logger.Info("scene ready",
		"scene", opts.Scene,
		"width", setup.Width,
		"height", setup.Height,
		"lights", len(s.Lights()),
		"primitives", s.PrimitiveCount())

	integ, err := createIntegrator(opts.Integrator, setup, diag)
	if err != nil {
		return err
	}

	config := renderer.DefaultProgressiveConfig()
	config.NumWorkers = opts.Workers
	config.MaxSamplesPerPixel = setup.Sampler.SampleCount()
	if opts.Samples > 0 {
		config.MaxSamplesPerPixel = opts.Samples
	}
	if opts.Passes > 0 {
		config.MaxPasses = opts.Passes
	}
	config.MaxPasses = min(config.MaxPasses, config.MaxSamplesPerPixel)

	pr, err := renderer.NewProgressiveRaytracer(s, integ, setup.Sampler, config, renderer.NewDefaultLogger())
	if err != nil {
		return err
	}

	startTime := time.Now()
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var final *image.RGBA
	var stats renderer.RenderStats
	for result := range passChan {
		final, stats = result.Image, result.Stats
	}
	if err := <-errChan; err != nil {
		return err
	}
	if final == nil {
		return fmt.Errorf("render produced no image")
	}

	logger.Info("render completed",
		"duration", time.Since(startTime),
		"averageSamples", stats.AverageSamples,
		"minSamples", stats.MinSamples,
		"maxSamples", stats.MaxSamplesUsed,
		"luminance", renderer.CalculateAverageLuminance(final))

	filename := opts.Output
	if filename == "" {
		filename = filepath.Join(createOutputDir(opts.Scene), fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405")))
	}
	if err := savePNG(filename, final); err != nil {
		return err
	}
	logger.Info("render saved", "path", filename)
	return nil
}

// createScene resolves a built-in name or JSON path into a preprocessed scene
func createScene(nameOrPath string, width, height int, diag core.Diagnostics) (*scene.Scene, scene.Setup, error) {
	desc, err := scene.Resolve(nameOrPath)
	if err != nil {
		return nil, scene.Setup{}, err
	}
	if width > 0 {
		desc.Film.Width = width
	}
	if height > 0 {
		desc.Film.Height = height
	}

	s, setup, err := scene.Build(desc, diag)
	if err != nil {
		return nil, scene.Setup{}, fmt.Errorf("build scene %q: %w", nameOrPath, err)
	}
	if err := s.Preprocess(); err != nil {
		return nil, scene.Setup{}, fmt.Errorf("preprocess scene %q: %w", nameOrPath, err)
	}
	return s, setup, nil
}

// createIntegrator builds the integrator the scene asks for, or override when set.
// Overriding drops the scene's integrator parameters.
func createIntegrator(override string, setup scene.Setup, diag core.Diagnostics) (integrator.Integrator, error) {
	if override != "" && override != setup.Integrator {
		return integrator.Create(override, core.NewVariantMap(nil), diag)
	}
	return integrator.Create(setup.Integrator, setup.IntegratorParams, diag)
}

// createOutputDir returns the directory renders of a scene are written to
func createOutputDir(nameOrPath string) string {
	base := filepath.Base(nameOrPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "scene"
	}
	return filepath.Join("output", base)
}

func savePNG(filename string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return file.Close()
}
