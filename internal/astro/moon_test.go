package astro

import (
	"math"
	"testing"
	"time"
)

// TestMoonPosition_PhaseAtSyzygy checks the phase angle at published new and
// full moon instants. The low-precision series should land well within 10°.
func TestMoonPosition_PhaseAtSyzygy(t *testing.T) {
	tests := []struct {
		name      string
		time      time.Time
		wantPhase float64
	}{
		{"new moon 2000-01-06", time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC), 0},
		{"new moon 2000-01-06 midnight", time.Date(2000, 1, 6, 0, 0, 0, 0, time.UTC), 0},
		{"full moon 2000-01-21", time.Date(2000, 1, 21, 4, 40, 0, 0, time.UTC), 180},
		{"new moon 2024-04-08 (eclipse)", time.Date(2024, 4, 8, 18, 17, 0, 0, time.UTC), 0},
		{"full moon 2026-08-28", time.Date(2026, 8, 28, 4, 18, 0, 0, time.UTC), 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MoonPosition(JulianDate(tt.time))
			if diff := angularDiff(m.PhaseAngleDeg, tt.wantPhase); diff > 10 {
				t.Errorf("phase angle = %.2f°, want %.0f°±10° (diff %.2f°)", m.PhaseAngleDeg, tt.wantPhase, diff)
			}
		})
	}
}

// TestMoonPosition_Invariants sweeps several years checking output ranges.
func TestMoonPosition_Invariants(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24*366*3; h += 13 {
		jd := JulianDate(start.Add(time.Duration(h) * time.Hour))
		m := MoonPosition(jd)

		if m.LonDeg < 0 || m.LonDeg >= 360 {
			t.Fatalf("longitude %g outside [0,360) at jd %.2f", m.LonDeg, jd)
		}
		// Series latitude terms sum to at most ~5.86°.
		if math.Abs(m.LatDeg) > 5.9 {
			t.Fatalf("latitude %g exceeds series bound at jd %.2f", m.LatDeg, jd)
		}
		if m.PhaseAngleDeg < 0 || m.PhaseAngleDeg >= 360 {
			t.Fatalf("phase angle %g outside [0,360) at jd %.2f", m.PhaseAngleDeg, jd)
		}
		if m.Illuminated < 0 || m.Illuminated > 1 {
			t.Fatalf("illuminated fraction %g outside [0,1] at jd %.2f", m.Illuminated, jd)
		}
		if m.Waxing != (m.PhaseAngleDeg < 180) {
			t.Fatalf("waxing flag inconsistent with phase angle %g", m.PhaseAngleDeg)
		}
	}
}

// TestMoonPosition_Illumination checks the fraction at the quarter points.
func TestMoonPosition_Illumination(t *testing.T) {
	// First quarter 2024-01-18 03:53 UTC: half lit and waxing.
	m := MoonPosition(JulianDate(time.Date(2024, 1, 18, 3, 53, 0, 0, time.UTC)))
	if math.Abs(m.Illuminated-0.5) > 0.1 {
		t.Errorf("first-quarter illumination = %.3f, want ~0.5", m.Illuminated)
	}
	if !m.Waxing {
		t.Error("first quarter should be waxing")
	}

	// Last quarter 2024-01-04 03:30 UTC: half lit and waning.
	m = MoonPosition(JulianDate(time.Date(2024, 1, 4, 3, 30, 0, 0, time.UTC)))
	if math.Abs(m.Illuminated-0.5) > 0.1 {
		t.Errorf("last-quarter illumination = %.3f, want ~0.5", m.Illuminated)
	}
	if m.Waxing {
		t.Error("last quarter should be waning")
	}
}

// TestMoonPosition_Idempotent checks that repeated evaluation is bit-identical.
func TestMoonPosition_Idempotent(t *testing.T) {
	jd := JulianDate(time.Date(2026, 8, 30, 4, 30, 15, 0, time.UTC))
	a := MoonPosition(jd)
	b := MoonPosition(jd)
	if a != b {
		t.Errorf("MoonPosition not deterministic: %+v vs %+v", a, b)
	}
}

// TestMoonPosition_SynodicPeriod checks the phase angle completes a cycle in
// roughly 29.5 days.
func TestMoonPosition_SynodicPeriod(t *testing.T) {
	jd := JulianDate(time.Date(2026, 1, 18, 19, 52, 0, 0, time.UTC)) // new moon
	p0 := MoonPosition(jd).PhaseAngleDeg
	p1 := MoonPosition(jd + 29.53059).PhaseAngleDeg
	if diff := angularDiff(p0, p1); diff > 10 {
		t.Errorf("phase after one synodic month differs by %.2f°, want < 10°", diff)
	}
}
