// Package sim provides the simulation clock that drives sky-frame evaluation.
//
// The clock is an explicit immutable value threaded through each tick rather
// than process-wide mutable state, so tests can inject arbitrary instants and
// two ticks with the same clock and wall time always agree.
package sim

import (
	"math"
	"time"
)

// Clock maps wall-clock time onto simulation time.
//
// Simulation time at wall instant w is Start + Rate*(w − Epoch). Rate 1 tracks
// real time, values above 1 accelerate the day cycle, and 0 freezes the
// simulation at Start (pause is a property of the clock value, not of any
// engine state).
type Clock struct {
	Epoch time.Time // wall-clock reference instant
	Start time.Time // simulation time at Epoch
	Rate  float64   // simulation seconds per wall second
}

// RealTime returns a clock that follows wall-clock time from now.
func RealTime(now time.Time) Clock {
	return Clock{Epoch: now, Start: now, Rate: 1}
}

// At returns the simulation instant corresponding to wall time w.
// The elapsed×Rate product is formed in float seconds, not Duration
// nanoseconds, so high rates over long-lived connections cannot overflow
// int64 (rate 86400 crosses that after ~1.2 wall days). Offsets beyond the
// representable ±292 years saturate instead of wrapping.
func (c Clock) At(w time.Time) time.Time {
	offset := w.Sub(c.Epoch).Seconds() * c.Rate * float64(time.Second)
	switch {
	case offset >= math.MaxInt64:
		return c.Start.Add(math.MaxInt64)
	case offset <= math.MinInt64:
		return c.Start.Add(math.MinInt64)
	}
	return c.Start.Add(time.Duration(offset))
}

// Paused reports whether the clock is frozen.
func (c Clock) Paused() bool {
	return c.Rate == 0
}

// WithRate returns a copy of the clock running at the given rate from wall
// instant w onward, keeping simulation time continuous across the change.
func (c Clock) WithRate(w time.Time, rate float64) Clock {
	return Clock{Epoch: w, Start: c.At(w), Rate: rate}
}
