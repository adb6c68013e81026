// Package events finds horizon-crossing events (rise, culmination, set) for
// the Sun and Moon by scanning the altitude curve produced by the position
// engine. A coarse scan locates above-horizon windows, then a fine scan pins
// the crossings down to one-second resolution.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/Hortyhort/moonsim/internal/astro"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// Body identifies which body an event search runs over.
type Body string

const (
	Sun  Body = "sun"
	Moon Body = "moon"
)

// Event describes a single above-horizon window for one body.
type Event struct {
	RiseTime        time.Time `json:"rise_time"`
	CulminationTime time.Time `json:"culmination_time"`
	SetTime         time.Time `json:"set_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	MaxAltitudeDeg  float64   `json:"max_altitude_deg"`
	AzimuthAtMaxDeg float64   `json:"azimuth_at_max_deg"`
	RiseAzimuthDeg  float64   `json:"rise_azimuth_deg"`
	SetAzimuthDeg   float64   `json:"set_azimuth_deg"`
}

// BodyEvents holds the predicted events for one body.
type BodyEvents struct {
	Body   Body    `json:"body"`
	Events []Event `json:"events"`
	Error  string  `json:"error,omitempty"`
}

// Request holds the parameters for an event search.
type Request struct {
	Observer     transform.Observer
	Bodies       []Body
	Start        time.Time
	HorizonHours float64
	MaxEvents    int
}

const (
	coarseStep  = 120 * time.Second // short enough that no above-horizon window is skipped
	fineStep    = time.Second
	minEventDur = time.Minute
)

// Predict searches for horizon crossings of the requested bodies.
// Bodies are processed concurrently; the search honors ctx cancellation.
func Predict(ctx context.Context, req Request) []BodyEvents {
	results := make([]BodyEvents, len(req.Bodies))
	var wg sync.WaitGroup

	for i, body := range req.Bodies {
		wg.Add(1)
		go func(idx int, b Body) {
			defer wg.Done()
			results[idx] = BodyEvents{
				Body:   b,
				Events: predictBody(ctx, req, b),
			}
		}(i, body)
	}

	wg.Wait()
	return results
}

// altitudeAt evaluates one body's horizontal position at time t.
func altitudeAt(b Body, obs transform.Observer, t time.Time) transform.Horizontal {
	jd := astro.JulianDate(t)
	var ecl astro.Ecliptic
	switch b {
	case Moon:
		ecl = astro.MoonPosition(jd).Ecliptic
	default:
		ecl = astro.SunPosition(jd)
	}
	return transform.ToHorizontal(jd, ecl, obs)
}

// predictBody finds all above-horizon windows for a single body.
func predictBody(ctx context.Context, req Request, b Body) []Event {
	end := req.Start.Add(time.Duration(req.HorizonHours * float64(time.Hour)))
	var events []Event

	// Coarse scan for altitude > 0 candidates.
	t := req.Start
	for t.Before(end) && (req.MaxEvents <= 0 || len(events) < req.MaxEvents) {
		if ctx.Err() != nil {
			return events
		}

		hz := altitudeAt(b, req.Observer, t)
		if hz.Up {
			ev, windowEnd := refineWindow(ctx, req.Observer, b, t, req.Start, end)
			if ev != nil && ev.SetTime.Sub(ev.RiseTime) >= minEventDur {
				events = append(events, *ev)
			}
			t = windowEnd.Add(coarseStep)
		} else {
			t = t.Add(coarseStep)
		}
	}

	return events
}

// refineWindow does a fine-grained scan around a coarse-detected above-horizon
// region. It backs up to find the actual rise, tracks the culmination, then
// scans forward to the set. Returns the event and the time the window ends.
func refineWindow(ctx context.Context, obs transform.Observer, b Body, coarseHit, windowStart, windowEnd time.Time) (*Event, time.Time) {
	searchStart := coarseHit.Add(-coarseStep)
	if searchStart.Before(windowStart) {
		searchStart = windowStart
	}

	var (
		riseTime  time.Time
		setTime   time.Time
		riseAz    float64
		setAz     float64
		maxAlt    float64
		maxTime   time.Time
		maxAz     float64
		wasAbove  bool
		foundRise bool
	)

	t := searchStart
	for t.Before(windowEnd) {
		if ctx.Err() != nil {
			break
		}

		hz := altitudeAt(b, obs, t)
		above := hz.Up

		if above && !wasAbove {
			riseTime = t
			riseAz = hz.AzimuthDeg
			foundRise = true
			maxAlt = hz.AltitudeDeg
			maxTime = t
			maxAz = hz.AzimuthDeg
		}

		if above && foundRise && hz.AltitudeDeg > maxAlt {
			maxAlt = hz.AltitudeDeg
			maxTime = t
			maxAz = hz.AzimuthDeg
		}

		if !above && wasAbove && foundRise {
			setTime = t
			setAz = hz.AzimuthDeg
			break
		}

		wasAbove = above
		t = t.Add(fineStep)
	}

	// Still above at the window edge: close the event there.
	if foundRise && setTime.IsZero() && wasAbove {
		hz := altitudeAt(b, obs, t)
		setTime = t
		setAz = hz.AzimuthDeg
		if hz.AltitudeDeg > maxAlt {
			maxAlt = hz.AltitudeDeg
			maxTime = t
			maxAz = hz.AzimuthDeg
		}
	}

	if !foundRise || setTime.IsZero() {
		return nil, t
	}

	return &Event{
		RiseTime:        riseTime,
		CulminationTime: maxTime,
		SetTime:         setTime,
		DurationSeconds: setTime.Sub(riseTime).Seconds(),
		MaxAltitudeDeg:  maxAlt,
		AzimuthAtMaxDeg: maxAz,
		RiseAzimuthDeg:  riseAz,
		SetAzimuthDeg:   setAz,
	}, setTime
}
