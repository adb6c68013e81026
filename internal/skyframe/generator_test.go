package skyframe

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestComputeRange_OrderedAndComplete(t *testing.T) {
	gen := NewGenerator(arizona, GenConfig{Workers: 4, Step: time.Minute, Horizon: 30 * time.Minute}, testLogger())

	start := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	frames := gen.ComputeRange(context.Background(), start)

	if len(frames) != 31 {
		t.Fatalf("got %d frames, want 31", len(frames))
	}
	for i, f := range frames {
		want := start.Add(time.Duration(i) * time.Minute)
		if !f.Timestamp.Equal(want) {
			t.Errorf("frame %d timestamp = %v, want %v", i, f.Timestamp, want)
		}
	}
}

// TestComputeRange_MatchesSequential: parallel generation must agree exactly
// with direct evaluation, frame for frame.
func TestComputeRange_MatchesSequential(t *testing.T) {
	gen := NewGenerator(arizona, GenConfig{Workers: 8, Step: 30 * time.Second, Horizon: 5 * time.Minute}, testLogger())

	start := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	frames := gen.ComputeRange(context.Background(), start)

	for i, f := range frames {
		want := Compute(start.Add(time.Duration(i)*30*time.Second), arizona)
		if f != want {
			t.Errorf("frame %d differs from sequential computation", i)
		}
	}
}

func TestComputeRange_Cancelled(t *testing.T) {
	gen := NewGenerator(arizona, GenConfig{Workers: 2, Step: time.Second, Horizon: time.Hour}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames := gen.ComputeRange(ctx, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	if len(frames) > 3601 {
		t.Errorf("cancelled range returned %d frames", len(frames))
	}
}
