package astro

import "math"

// NamedPhase is one entry of the fixed eight-phase table.
type NamedPhase struct {
	Name        string  `json:"name"`
	AnchorDeg   float64 `json:"anchor_deg"`
	Description string  `json:"description"`
}

// phases anchors the eight named phases at 45-degree intervals of phase angle.
// Table order doubles as the tie-break order: on an exact midpoint the earlier
// entry wins, so classification is deterministic for any input.
var phases = [8]NamedPhase{
	{"New Moon", 0, "Moon between Earth and Sun; dark side faces us"},
	{"Waxing Crescent", 45, "Thin sliver of light growing on the right"},
	{"First Quarter", 90, "Right half illuminated, rising at noon"},
	{"Waxing Gibbous", 135, "More than half lit and still growing"},
	{"Full Moon", 180, "Fully illuminated, opposite the Sun"},
	{"Waning Gibbous", 225, "More than half lit and shrinking"},
	{"Last Quarter", 270, "Left half illuminated, rising at midnight"},
	{"Waning Crescent", 315, "Thin sliver of light shrinking on the left"},
}

// Phases returns the full phase table in anchor order.
func Phases() []NamedPhase {
	out := make([]NamedPhase, len(phases))
	copy(out, phases[:])
	return out
}

// ClassifyPhase maps a phase angle in degrees to the nearest named phase by
// circular distance. The input is normalized first, so any finite angle is
// accepted.
func ClassifyPhase(phaseAngleDeg float64) NamedPhase {
	angle := Normalize360(phaseAngleDeg)

	best := phases[0]
	bestDist := circularDistance(angle, phases[0].AnchorDeg)
	for _, p := range phases[1:] {
		if d := circularDistance(angle, p.AnchorDeg); d < bestDist {
			best = p
			bestDist = d
		}
	}
	return best
}

// circularDistance returns the shorter angular separation between two
// directions in degrees, in [0, 180].
func circularDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}
