package sheet

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/rs/zerolog"
)

// Config holds the shared settings of a write run.
type Config struct {
	OutputDir string
	Workers   int
	Progress  time.Duration // progress log interval, 0 for 2s
	Logger    zerolog.Logger
}

// Image is one picture to encode. Name is the path below OutputDir without
// extension.
type Image struct {
	Name  string
	Image *image.NRGBA
}

// Result holds the outcome of writing one image.
type Result struct {
	Name    string
	Path    string
	Success bool
	Error   string
}

// Write encodes all images as WebP using a worker pool. Results are in
// input order.
func Write(cfg Config, images []Image) []Result {
	total := len(images)
	results := make([]Result, total)
	if total == 0 {
		return results
	}
	workers := max(cfg.Workers, 1)
	interval := cfg.Progress
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Logger.Info().
						Int64("done", p).
						Int("total", total).
						Float64("rate", float64(p)/elapsed).
						Msg("encoding")
				}
			}
		}
	}()

	// Worker pool
	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = writeImage(cfg.OutputDir, images[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range images {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	close(done)

	return results
}

func writeImage(dir string, img Image) Result {
	outPath := filepath.Join(dir, img.Name+".webp")
	res := Result{Name: img.Name, Path: outPath}
	if img.Image == nil {
		res.Error = "no image"
		return res
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img.Image, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}

// Failed returns the unsuccessful results.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Success {
			out = append(out, r)
		}
	}
	return out
}
