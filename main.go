package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"github.com/df07/go-cachepoint-renderer/pkg/renderer"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

func main() {
	sceneType := flag.String("scene", "cornell", "Scene type: 'cornell' or 'default'")
	width := flag.Int("width", 400, "Image width in pixels")
	iterations := flag.Int("iterations", 16, "Number of progressive iterations")
	numLightPaths := flag.Int("m", 0, "Pre-sampled light sub-path count (default: pixel count / 16)")
	workers := flag.Int("workers", 4, "Worker goroutines per phase")
	maxDepth := flag.Int("max-depth", 8, "Maximum sub-path length")
	seed := flag.Int64("seed", 0, "RNG seed (0 = from clock)")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		fmt.Println("Cache-Point Resampled Bidirectional Renderer")
		fmt.Println("Usage: renderer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Available scenes:")
		fmt.Println("  cornell - Cornell box with quad walls and a ceiling area light")
		fmt.Println("  default - Open scene with spheres and a spherical area light")
		fmt.Println()
		fmt.Println("Output is saved to output/<scene>/<run-id>/")
		return
	}

	fmt.Println("Starting cache-point renderer...")

	var selectedScene *scene.Scene
	switch *sceneType {
	case "cornell":
		selectedScene = scene.NewCornellScene(*width)
	case "default":
		selectedScene = scene.NewDefaultScene(*width)
	default:
		fmt.Printf("Unknown scene type: %s. Using cornell scene.\n", *sceneType)
		selectedScene = scene.NewCornellScene(*width)
		*sceneType = "cornell"
	}

	if err := selectedScene.Preprocess(); err != nil {
		fmt.Printf("Error preprocessing scene: %v\n", err)
		os.Exit(1)
	}

	w, h := selectedScene.Camera.Width(), selectedScene.Camera.Height()
	m := *numLightPaths
	if m <= 0 {
		m = w * h / 16
		if m < 1 {
			m = 1
		}
	}

	config := renderer.DefaultConfig()
	config.M = m
	config.NumWorkers = *workers
	config.MaxDepth = *maxDepth
	config.Seed = *seed

	r, err := renderer.NewRenderer(selectedScene, config)
	if err != nil {
		fmt.Printf("Error creating renderer: %v\n", err)
		os.Exit(1)
	}

	runID := uuid.New().String()[:8]
	outputDir := filepath.Join("output", *sceneType, runID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Printf("Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Rendering %dx%d, M=%d, %d iterations, run %s\n", w, h, m, *iterations, runID)

	startTime := time.Now()
	accumulated := renderer.NewFrame(w, h)
	for i := 1; i <= *iterations; i++ {
		frame, _ := r.Render()
		accumulated.Accumulate(frame)
	}
	fmt.Printf("Rendered %d iterations in %v\n", *iterations, time.Since(startTime))

	mean := accumulated.Scaled(1.0 / float64(*iterations))
	img := mean.ToRGBA(2.0)

	if err := writePNG(filepath.Join(outputDir, "render.png"), img); err != nil {
		fmt.Printf("Error writing image: %v\n", err)
		os.Exit(1)
	}

	// Half-resolution preview for quick inspection
	preview := image.NewRGBA(image.Rect(0, 0, w/2, h/2))
	draw.CatmullRom.Scale(preview, preview.Bounds(), img, img.Bounds(), draw.Over, nil)
	if err := writePNG(filepath.Join(outputDir, "preview.png"), preview); err != nil {
		fmt.Printf("Error writing preview: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Saved output to %s\n", outputDir)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
