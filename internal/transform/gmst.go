// Package transform converts ecliptic coordinates into the local horizontal
// frame of a fixed ground observer.
package transform

import (
	"math"

	"github.com/Hortyhort/moonsim/internal/astro"
)

// GMSTDeg returns Greenwich Mean Sidereal Time in degrees [0, 360) for the
// given Julian Date.
//
// Polynomial form of Meeus "Astronomical Algorithms" Eq 12.4, truncated after
// the T² term (the T³ term stays below a millidegree over this engine's
// useful range):
//
//	θ = 280.46061837 + 360.98564736629 (jd − 2451545) + 0.000387933 T²
//
// where T is Julian centuries since J2000.0.
func GMSTDeg(jd float64) float64 {
	T := astro.JulianCenturies(jd)
	theta := 280.46061837 +
		360.98564736629*(jd-astro.J2000) +
		0.000387933*T*T
	return astro.Normalize360(theta)
}

// LSTRad returns local sidereal time in radians for the given Julian Date and
// observer longitude (degrees, east positive).
func LSTRad(jd, lonDeg float64) float64 {
	return astro.Deg2Rad(astro.Normalize360(GMSTDeg(jd) + lonDeg))
}

// hourAngle returns the local hour angle LST − RA normalized to (−π, π].
// Negative means the body is east of the meridian (rising), positive means
// west of it (setting).
func hourAngle(lstRad, raRad float64) float64 {
	h := math.Mod(lstRad-raRad, 2*math.Pi)
	if h <= -math.Pi {
		h += 2 * math.Pi
	} else if h > math.Pi {
		h -= 2 * math.Pi
	}
	return h
}
