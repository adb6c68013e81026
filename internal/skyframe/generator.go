package skyframe

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Hortyhort/moonsim/internal/metrics"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// GenConfig holds frame generation configuration.
type GenConfig struct {
	Workers int           // worker pool size (default: runtime.NumCPU())
	Step    time.Duration // frame interval (default: 1s)
	Horizon time.Duration // how far ahead ComputeRange reaches (default: 300s)
}

// Generator precomputes frames for a time range using a fixed worker pool.
// Safe because every frame is a pure function of its instant; workers share
// nothing but the job channel.
type Generator struct {
	obs    transform.Observer
	config GenConfig
	logger *slog.Logger
}

// NewGenerator creates a frame generator for the given observer.
func NewGenerator(obs transform.Observer, config GenConfig, logger *slog.Logger) *Generator {
	return &Generator{obs: obs, config: config, logger: logger}
}

// At computes a single frame, recording duration metrics.
func (g *Generator) At(t time.Time) Frame {
	start := time.Now()
	f := Compute(t, g.obs)
	metrics.RecordFrameComputation(time.Since(start))
	return f
}

// ComputeRange computes frames from startTime over the configured horizon at
// the configured step, in parallel, ordered by timestamp. Returns whatever
// was completed when the context is cancelled.
func (g *Generator) ComputeRange(ctx context.Context, startTime time.Time) []Frame {
	n := int(g.config.Horizon/g.config.Step) + 1
	if n < 1 {
		n = 1
	}

	jobs := make(chan time.Time, g.config.Workers*2)
	results := make(chan Frame, g.config.Workers*2)

	var wg sync.WaitGroup
	for i := 0; i < g.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				select {
				case results <- g.At(t):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			t := startTime.Add(time.Duration(i) * g.config.Step)
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	frames := make([]Frame, 0, n)
	for f := range results {
		frames = append(frames, f)
	}
	sort.Slice(frames, func(i, j int) bool {
		return frames[i].Timestamp.Before(frames[j].Timestamp)
	})

	g.logger.Debug("frame range computed",
		"frames", len(frames),
		"start", startTime.UTC().Format(time.RFC3339),
		"step_seconds", g.config.Step.Seconds(),
	)

	return frames
}
