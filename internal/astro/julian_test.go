package astro

import (
	"math"
	"testing"
	"time"
)

// TestJulianDate verifies the conversion against known calendar anchors.
func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Meeus Example 7.a: 1957 October 4.81 (Sputnik 1 launch).
			name:     "Sputnik launch",
			time:     time.Date(1957, 10, 4, 19, 26, 24, 0, time.UTC),
			expected: 2436116.31,
		},
		{
			name:     "midnight start of 2026",
			time:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2461041.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if diff := math.Abs(got - tt.expected); diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// TestJulianDate_Monotonic checks strict ordering for instants within one day.
func TestJulianDate_Monotonic(t *testing.T) {
	base := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	prev := JulianDate(base)
	for i := 1; i <= 24*60; i++ {
		cur := JulianDate(base.Add(time.Duration(i) * time.Minute))
		if cur <= prev {
			t.Fatalf("JulianDate not monotonic at minute %d: %.10f <= %.10f", i, cur, prev)
		}
		prev = cur
	}
}

func TestJulianCenturies(t *testing.T) {
	if got := JulianCenturies(J2000); got != 0 {
		t.Errorf("JulianCenturies(J2000) = %g, want 0", got)
	}
	// Unix epoch is exactly 0.3 centuries before J2000.
	if got := JulianCenturies(2440587.5); math.Abs(got+0.3) > 1e-12 {
		t.Errorf("JulianCenturies(unix epoch) = %.12f, want -0.3", got)
	}
	if got := JulianCenturies(J2000 + 36525); math.Abs(got-1) > 1e-12 {
		t.Errorf("JulianCenturies(J2000+36525) = %.12f, want 1", got)
	}
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		time time.Time
		want int
	}{
		{time.Date(2026, 1, 1, 5, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC), 365},
		{time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), 366}, // leap year
		{time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), 242},
	}
	for _, tt := range tests {
		if got := DayOfYear(tt.time); got != tt.want {
			t.Errorf("DayOfYear(%v) = %d, want %d", tt.time, got, tt.want)
		}
	}
}

func TestNormalize360(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{359.999, 359.999},
		{360, 0},
		{720.5, 0.5},
		{-0.5, 359.5},
		{-360, 0},
		{-725, 355},
		{1e6, math.Mod(1e6, 360)},
	}
	for _, tt := range tests {
		got := Normalize360(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize360(%g) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

// TestNormalize360_Range sweeps a wide input range and checks the invariant
// that every result lands in [0, 360).
func TestNormalize360_Range(t *testing.T) {
	for x := -10000.0; x <= 10000.0; x += 37.7 {
		got := Normalize360(x)
		if got < 0 || got >= 360 {
			t.Fatalf("Normalize360(%g) = %g, outside [0,360)", x, got)
		}
	}
}
