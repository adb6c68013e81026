package transform

import (
	"math"

	"github.com/Hortyhort/moonsim/internal/astro"
)

// obliquity is the obliquity of the ecliptic in degrees, held fixed at its
// J2000 value. Secular drift is ~47 arcseconds per century, far below this
// engine's accuracy.
const obliquityDeg = 23.439

// Observer is a fixed ground observer's geodetic location.
// Trig of the latitude is precomputed once so it can be reused across many
// per-tick lookups.
type Observer struct {
	LatDeg, LonDeg float64
	sinLat, cosLat float64
}

// NewObserver creates an Observer from geodetic coordinates in degrees
// (latitude north positive, longitude east positive).
func NewObserver(latDeg, lonDeg float64) Observer {
	lat := astro.Deg2Rad(latDeg)
	return Observer{
		LatDeg: latDeg,
		LonDeg: lonDeg,
		sinLat: math.Sin(lat),
		cosLat: math.Cos(lat),
	}
}

// Horizontal holds local horizontal coordinates for an observer.
type Horizontal struct {
	AltitudeDeg float64 // [-90, 90], 0 = horizon, 90 = zenith
	AzimuthDeg  float64 // [0, 360), 0 = North, clockwise
	Up          bool    // altitude > 0
}

// Equatorial holds geocentric equatorial coordinates in radians.
type Equatorial struct {
	RARad  float64
	DecRad float64
}

// EclipticToEquatorial rotates ecliptic longitude/latitude (degrees) about
// the ecliptic by the fixed obliquity, yielding right ascension and
// declination.
func EclipticToEquatorial(lonDeg, latDeg float64) Equatorial {
	lambda := astro.Deg2Rad(lonDeg)
	beta := astro.Deg2Rad(latDeg)
	eps := astro.Deg2Rad(obliquityDeg)

	ra := math.Atan2(
		math.Sin(lambda)*math.Cos(eps)-math.Tan(beta)*math.Sin(eps),
		math.Cos(lambda),
	)
	if ra < 0 {
		ra += 2 * math.Pi
	}
	dec := math.Asin(clamp(
		math.Sin(beta)*math.Cos(eps)+math.Cos(beta)*math.Sin(eps)*math.Sin(lambda),
	))

	return Equatorial{RARad: ra, DecRad: dec}
}

// ToHorizontal converts an ecliptic position (degrees) at the given Julian
// Date into the observer's horizontal frame.
//
// Ecliptic → equatorial → hour angle → horizontal, the standard chain.
// This is the sole sky-placement path for every body: the Moon is placed
// from its own series latitude, never from a solar declination shortcut.
//
// Both asin and acos arguments are clamped to [-1, 1]. Floating-point
// overshoot at singular geometry (observer at a pole, body at zenith) would
// otherwise turn into NaN; clamping yields a degenerate but defined azimuth
// of 0 or 180 degrees instead.
func ToHorizontal(jd float64, ecl astro.Ecliptic, obs Observer) Horizontal {
	eq := EclipticToEquatorial(ecl.LonDeg, ecl.LatDeg)

	h := hourAngle(LSTRad(jd, obs.LonDeg), eq.RARad)

	sinDec := math.Sin(eq.DecRad)
	cosDec := math.Cos(eq.DecRad)

	alt := math.Asin(clamp(obs.sinLat*sinDec + obs.cosLat*cosDec*math.Cos(h)))

	az := 0.0
	denom := math.Cos(alt) * obs.cosLat
	if denom != 0 {
		az = math.Acos(clamp((sinDec - math.Sin(alt)*obs.sinLat) / denom))
	}
	// West of the meridian the acos branch mirrors: measure the rest of the
	// way around from north.
	if h > 0 {
		az = 2*math.Pi - az
	}

	altDeg := astro.Rad2Deg(alt)
	return Horizontal{
		AltitudeDeg: altDeg,
		AzimuthDeg:  astro.Normalize360(astro.Rad2Deg(az)),
		Up:          altDeg > 0,
	}
}

// clamp limits x to [-1, 1] for use as an asin/acos argument.
func clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
