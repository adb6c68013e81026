// Package astro computes low-precision Sun and Moon positions.
//
// All calculators are pure functions of time: a Julian Date goes in, ecliptic
// angles come out. Accuracy is on the order of 0.5-1 degree, which is enough
// to place both bodies in a rendered sky but nowhere near ephemeris grade.
// No refraction, precession, nutation, or parallax corrections are applied.
package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00 TT).
const J2000 = 2451545.0

// unixEpochJD is the Julian Date of the Unix epoch (1970-01-01 00:00 UTC).
const unixEpochJD = 2440587.5

const msPerDay = 86400000.0

// JulianDate converts a time.Time to Julian Date.
// Works directly off the Unix millisecond count, so it is exact for any
// finite timestamp and strictly monotonic at millisecond resolution.
func JulianDate(t time.Time) float64 {
	return float64(t.UnixMilli())/msPerDay + unixEpochJD
}

// JulianCenturies returns Julian centuries elapsed since J2000.0 for the
// given Julian Date. This is the time argument of every periodic series here.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// DayOfYear returns the 1-based ordinal day within t's calendar year (UTC).
func DayOfYear(t time.Time) int {
	return t.UTC().YearDay()
}

// Normalize360 wraps an angle in degrees into [0, 360).
// The double mod keeps the result non-negative for negative inputs.
func Normalize360(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 { return d * math.Pi / 180.0 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 { return r * 180.0 / math.Pi }
