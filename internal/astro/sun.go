package astro

import "math"

// Ecliptic holds geocentric ecliptic coordinates in degrees.
// Longitude is always normalized to [0, 360).
type Ecliptic struct {
	LonDeg     float64
	LatDeg     float64
	DistanceAU float64
}

// SunPosition returns the Sun's geocentric ecliptic position at the given
// Julian Date, accurate to about 1 degree.
//
// Mean longitude plus a two-term equation of center (the Astronomical
// Almanac low-precision formula):
//
//	L = 280.460 + 0.9856474 n
//	g = 357.528 + 0.9856003 n
//	λ = L + 1.915 sin g + 0.020 sin 2g
//
// where n is days since J2000.0. The Sun's ecliptic latitude never exceeds
// ~1.2 arcseconds and is fixed at 0; distance is fixed at 1 AU.
func SunPosition(jd float64) Ecliptic {
	n := jd - J2000

	L := Normalize360(280.460 + 0.9856474*n)
	g := Deg2Rad(Normalize360(357.528 + 0.9856003*n))

	lambda := L + 1.915*math.Sin(g) + 0.020*math.Sin(2*g)

	return Ecliptic{
		LonDeg:     Normalize360(lambda),
		LatDeg:     0,
		DistanceAU: 1.0,
	}
}

// SunLongitude returns just the Sun's ecliptic longitude in degrees [0, 360).
func SunLongitude(jd float64) float64 {
	return SunPosition(jd).LonDeg
}
