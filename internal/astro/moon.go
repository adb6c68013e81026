package astro

import "math"

// MoonState holds the Moon's ecliptic position together with its phase
// relative to the Sun at the same instant.
type MoonState struct {
	Ecliptic
	// PhaseAngleDeg is (moon longitude - sun longitude) mod 360, in [0, 360).
	// 0 = new moon, 180 = full moon.
	PhaseAngleDeg float64
	// Illuminated is the fraction of the disc that is lit, in [0, 1].
	Illuminated float64
	// Waxing is true while the illuminated fraction is increasing
	// (phase angle below 180 degrees).
	Waxing bool
}

// MoonPosition returns the Moon's geocentric ecliptic position and phase at
// the given Julian Date, accurate to about 0.5 degree in longitude.
//
// Truncated Meeus-style series over the five fundamental arguments
// (mean longitude L', elongation D, solar anomaly M, lunar anomaly M',
// argument of latitude F), keeping the dominant periodic terms:
// evection, variation, annual equation, and the principal latitude terms.
func MoonPosition(jd float64) MoonState {
	T := JulianCenturies(jd)

	L := Normalize360(218.316 + 481267.881*T)  // mean longitude
	D := Normalize360(297.850 + 445267.112*T)  // mean elongation from the Sun
	M := Normalize360(357.529 + 35999.050*T)   // Sun's mean anomaly
	Mp := Normalize360(134.963 + 477198.868*T) // Moon's mean anomaly
	F := Normalize360(93.272 + 483202.018*T)   // argument of latitude

	Dr := Deg2Rad(D)
	Mr := Deg2Rad(M)
	Mpr := Deg2Rad(Mp)
	Fr := Deg2Rad(F)

	lon := L +
		6.289*math.Sin(Mpr) +
		1.274*math.Sin(2*Dr-Mpr) +
		0.658*math.Sin(2*Dr) +
		0.214*math.Sin(2*Mpr) -
		0.186*math.Sin(Mr)

	lat := 5.128*math.Sin(Fr) +
		0.280*math.Sin(Mpr+Fr) +
		0.277*math.Sin(Mpr-Fr) +
		0.173*math.Sin(2*Dr-Fr)

	lon = Normalize360(lon)
	phase := Normalize360(lon - SunLongitude(jd))

	return MoonState{
		Ecliptic: Ecliptic{
			LonDeg: lon,
			LatDeg: lat,
		},
		PhaseAngleDeg: phase,
		Illuminated:   (1 - math.Cos(Deg2Rad(phase))) / 2,
		Waxing:        phase < 180,
	}
}
