// skydiag prints the engine's full output for one instant: Julian date,
// Sun and Moon positions in both frames, the named phase, and rise/set
// events over the next day. Useful for eyeballing against a planetarium app.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Hortyhort/moonsim/internal/astro"
	"github.com/Hortyhort/moonsim/internal/events"
	"github.com/Hortyhort/moonsim/internal/skyframe"
	"github.com/Hortyhort/moonsim/internal/transform"
)

func main() {
	var (
		timeStr string
		lat     float64
		lon     float64
		hours   float64
	)
	flag.StringVar(&timeStr, "time", "", "UTC time to evaluate (RFC3339, e.g. 2026-08-30T04:00:00Z); default now")
	flag.Float64Var(&lat, "lat", 34.0489, "observer latitude, degrees north")
	flag.Float64Var(&lon, "lon", -111.9, "observer longitude, degrees east")
	flag.Float64Var(&hours, "hours", 24, "event search horizon in hours")
	flag.Parse()

	t := time.Now().UTC()
	if timeStr != "" {
		var err error
		t, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing time: %v\n", err)
			os.Exit(1)
		}
	}

	obs := transform.NewObserver(lat, lon)
	frame := skyframe.Compute(t, obs)

	fmt.Printf("Sky for %s (lat %.4f, lon %.4f)\n", t.Format(time.RFC3339), lat, lon)
	fmt.Printf("  Julian Date:  %.6f (day %d of year)\n", frame.JulianDate, frame.DayOfYear)
	fmt.Printf("  GMST:         %.4f°\n", transform.GMSTDeg(frame.JulianDate))
	fmt.Printf("  Sun:          λ=%.2f°  alt=%.2f° az=%.2f° up=%v\n",
		frame.Sun.EclipticLonDeg, frame.Sun.AltitudeDeg, frame.Sun.AzimuthDeg, frame.Sun.Up)
	fmt.Printf("  Moon:         λ=%.2f° β=%.2f°  alt=%.2f° az=%.2f° up=%v\n",
		frame.Moon.EclipticLonDeg, frame.Moon.EclipticLatDeg,
		frame.Moon.AltitudeDeg, frame.Moon.AzimuthDeg, frame.Moon.Up)
	fmt.Printf("  Phase:        %s (angle %.1f°, %.0f%% illuminated)\n",
		frame.Moon.Phase, frame.Moon.PhaseAngleDeg, frame.Moon.Illuminated*100)
	fmt.Printf("                %s\n", astro.ClassifyPhase(frame.Moon.PhaseAngleDeg).Description)

	fmt.Printf("\nEvents over next %.0fh:\n", hours)
	results := events.Predict(context.Background(), events.Request{
		Observer:     obs,
		Bodies:       []events.Body{events.Sun, events.Moon},
		Start:        t,
		HorizonHours: hours,
		MaxEvents:    5,
	})

	for _, body := range results {
		fmt.Printf("  %s:\n", body.Body)
		if len(body.Events) == 0 {
			fmt.Printf("    (no horizon crossings)\n")
			continue
		}
		for _, ev := range body.Events {
			fmt.Printf("    rise=%s az=%.0f°  peak=%s alt=%.1f°  set=%s az=%.0f°\n",
				ev.RiseTime.Format("15:04:05"), ev.RiseAzimuthDeg,
				ev.CulminationTime.Format("15:04:05"), ev.MaxAltitudeDeg,
				ev.SetTime.Format("15:04:05"), ev.SetAzimuthDeg)
		}
	}
}
