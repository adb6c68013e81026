// Package skyframe assembles per-tick sky state for a fixed observer.
//
// A frame is everything a rendering client needs for one update tick: both
// bodies' ecliptic and horizontal positions plus the Moon's phase. Frames are
// pure functions of (instant, observer); the cache and generator exist only
// to amortize work across streaming clients, never for correctness.
package skyframe

import (
	"time"

	"github.com/Hortyhort/moonsim/internal/astro"
	"github.com/Hortyhort/moonsim/internal/transform"
)

// BodyState holds one body's position in both frames a client consumes.
type BodyState struct {
	EclipticLonDeg float64 `json:"ecliptic_lon_deg"`
	EclipticLatDeg float64 `json:"ecliptic_lat_deg"`
	AltitudeDeg    float64 `json:"altitude_deg"`
	AzimuthDeg     float64 `json:"azimuth_deg"`
	Up             bool    `json:"up"`
}

// MoonFrame extends BodyState with phase information.
type MoonFrame struct {
	BodyState
	PhaseAngleDeg float64 `json:"phase_angle_deg"`
	Illuminated   float64 `json:"illuminated"`
	Waxing        bool    `json:"waxing"`
	Phase         string  `json:"phase"`
	PhaseDesc     string  `json:"phase_desc"`
}

// Frame is the complete sky state at one simulation instant.
type Frame struct {
	Timestamp  time.Time `json:"t"`
	JulianDate float64   `json:"jd"`
	DayOfYear  int       `json:"day_of_year"`
	Sun        BodyState `json:"sun"`
	Moon       MoonFrame `json:"moon"`
}

// Compute evaluates the full engine at one instant for one observer.
// Idempotent: identical inputs yield bit-identical frames.
func Compute(t time.Time, obs transform.Observer) Frame {
	jd := astro.JulianDate(t)

	sun := astro.SunPosition(jd)
	sunHz := transform.ToHorizontal(jd, sun, obs)

	moon := astro.MoonPosition(jd)
	moonHz := transform.ToHorizontal(jd, moon.Ecliptic, obs)

	named := astro.ClassifyPhase(moon.PhaseAngleDeg)

	return Frame{
		Timestamp:  t.UTC(),
		JulianDate: jd,
		DayOfYear:  astro.DayOfYear(t),
		Sun: BodyState{
			EclipticLonDeg: sun.LonDeg,
			EclipticLatDeg: sun.LatDeg,
			AltitudeDeg:    sunHz.AltitudeDeg,
			AzimuthDeg:     sunHz.AzimuthDeg,
			Up:             sunHz.Up,
		},
		Moon: MoonFrame{
			BodyState: BodyState{
				EclipticLonDeg: moon.LonDeg,
				EclipticLatDeg: moon.LatDeg,
				AltitudeDeg:    moonHz.AltitudeDeg,
				AzimuthDeg:     moonHz.AzimuthDeg,
				Up:             moonHz.Up,
			},
			PhaseAngleDeg: moon.PhaseAngleDeg,
			Illuminated:   moon.Illuminated,
			Waxing:        moon.Waxing,
			Phase:         named.Name,
			PhaseDesc:     named.Description,
		},
	}
}
