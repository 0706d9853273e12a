package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/cinetx/internal/formatter"
	"github.com/desertthunder/cinetx/internal/models"
	"golang.org/x/time/rate"
)

// PosterDownloadOpts contains configuration for bulk poster downloads.
type PosterDownloadOpts struct {
	OutputDir  string  // Base output directory (default: posters_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// PosterJob is one poster download handed to a worker.
type PosterJob struct {
	Movie models.Movie
	Path  string
}

// PosterResult records the outcome of one poster download.
type PosterResult struct {
	MovieID string
	Title   string
	Path    string
	Success bool
	Error   error
}

// PosterDownloadResult summarizes a bulk poster download.
type PosterDownloadResult struct {
	Total           int
	Downloaded      int
	Failed          int
	Skipped         int // Movies without a poster URL
	OutputDirectory string
	Results         []PosterResult
}

// DownloadPosters downloads movie posters concurrently with rate limiting
// and progress tracking.
//
// This method implements a worker pool pattern; it respects the backend's
// rate limits and handles partial failures gracefully.
func (e *SyncEngine) DownloadPosters(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.Movie,
	opts PosterDownloadOpts,
) (*PosterDownloadResult, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("posters_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &PosterDownloadResult{
		Total:           len(movies),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PosterResult, 0, len(movies)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PosterJob, len(movies))
	results := make(chan PosterResult, len(movies))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := limiter.Wait(ctx); err != nil {
					return
				}

				results <- downloadPoster(job)
			}
		}()
	}

	go func() {
		for i, movie := range movies {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if movie.Poster == "" {
				results <- PosterResult{MovieID: movie.ID, Title: movie.Title, Success: false}
				continue
			}

			e.sendProgress(prog, downloadingPosterUpdate(i+1, len(movies), movie.Title))

			jobs <- PosterJob{
				Movie: movie,
				Path:  filepath.Join(opts.OutputDir, fmt.Sprintf("%s.jpg", movie.ID)),
			}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		switch {
		case res.Success:
			result.Downloaded++
			e.sendProgress(prog, posterCompletedUpdate(completed, len(movies), res.Title, res.Path))
		case res.Error == nil:
			result.Skipped++
		default:
			result.Failed++
			e.sendProgress(prog, posterFailedUpdate(completed, len(movies), res.Title, res.Error))
		}
	}

	return result, nil
}

// downloadPoster fetches and writes a single poster file.
func downloadPoster(job PosterJob) PosterResult {
	result := PosterResult{
		MovieID: job.Movie.ID,
		Title:   job.Movie.Title,
		Path:    job.Path,
	}

	data, err := formatter.DownloadPoster(job.Movie.Poster)
	if err != nil {
		result.Error = fmt.Errorf("poster download failed: %w", err)
		return result
	}

	if err := os.WriteFile(job.Path, data, 0644); err != nil {
		result.Error = fmt.Errorf("poster write failed: %w", err)
		return result
	}

	result.Success = true
	return result
}
