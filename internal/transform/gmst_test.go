package transform

import (
	"math"
	"testing"

	"github.com/Hortyhort/moonsim/internal/astro"
)

func TestGMSTDeg_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want float64
	}{
		// At J2000.0 every polynomial term but the constant vanishes.
		{"J2000.0 epoch", astro.J2000, 280.46061837},
		// One day later the sidereal day has gained ~0.9856° on the solar day.
		{"J2000.0 + 1 day", astro.J2000 + 1, 281.44626574},
		// Meeus Example 12.a: 1987 April 10, 0h UT -> GMST 13h10m46.3668s.
		{"Meeus 12.a", 2446895.5, 197.693195},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GMSTDeg(tt.jd)
			if diff := math.Abs(got - tt.want); diff > 1e-4 {
				t.Errorf("GMSTDeg(%.2f) = %.6f°, want %.6f° (diff %.2e)", tt.jd, got, tt.want, diff)
			}
		})
	}
}

func TestGMSTDeg_Range(t *testing.T) {
	for i := 0; i < 5000; i++ {
		jd := astro.J2000 - 3000 + float64(i)*1.37
		got := GMSTDeg(jd)
		if got < 0 || got >= 360 {
			t.Fatalf("GMSTDeg(%.2f) = %g, outside [0,360)", jd, got)
		}
	}
}

// TestGMSTDeg_SiderealRate checks that sidereal time gains ~3m56s per solar day.
func TestGMSTDeg_SiderealRate(t *testing.T) {
	jd := 2461283.5 // 2026-08-30 00:00 UTC
	gain := math.Mod(GMSTDeg(jd+1)-GMSTDeg(jd)+360, 360)
	if math.Abs(gain-0.98565) > 0.001 {
		t.Errorf("daily sidereal gain = %.5f°, want ~0.98565°", gain)
	}
}

func TestLSTRad(t *testing.T) {
	jd := astro.J2000
	// LST at Greenwich equals GMST.
	if got, want := LSTRad(jd, 0), astro.Deg2Rad(280.46061837); math.Abs(got-want) > 1e-9 {
		t.Errorf("LSTRad(J2000, 0) = %.9f, want %.9f", got, want)
	}
	// 90° east advances local sidereal time by 6 hours.
	east := LSTRad(jd, 90)
	want := astro.Deg2Rad(astro.Normalize360(280.46061837 + 90))
	if math.Abs(east-want) > 1e-9 {
		t.Errorf("LSTRad(J2000, 90) = %.9f, want %.9f", east, want)
	}
}

func TestHourAngle_Normalization(t *testing.T) {
	tests := []struct {
		lst, ra float64
	}{
		{0, 0},
		{math.Pi / 2, 0},
		{0, math.Pi / 2},
		{0.1, 2 * math.Pi * 0.99},
		{2 * math.Pi * 0.99, 0.1},
	}
	for _, tt := range tests {
		got := hourAngle(tt.lst, tt.ra)
		if got <= -math.Pi || got > math.Pi {
			t.Fatalf("hourAngle(%g, %g) = %g, outside (-π, π]", tt.lst, tt.ra, got)
		}
	}
	// Seam case: LST slightly past RA measured the short way.
	got := hourAngle(0.05, 2*math.Pi-0.05)
	if math.Abs(got-0.1) > 1e-12 {
		t.Errorf("hourAngle across seam = %g, want 0.1", got)
	}
}
