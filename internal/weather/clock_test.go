package weather

import (
	"fmt"
	"testing"
	"time"
)

// expectedHour computes ((floor((epoch+offset)/3600)) mod 24) with a
// floor division that is correct for negative values.
func expectedHour(epoch int64, offsetSec int) int {
	sec := epoch + int64(offsetSec)
	h := sec / 3600
	if sec%3600 != 0 && sec < 0 {
		h--
	}
	return int(((h % 24) + 24) % 24)
}

func TestLocalClock_HourMatchesEpochFormula(t *testing.T) {
	offsets := []int{0, 3600, -3600, 19800, -19800, 5*3600 + 1800, -9 * 3600, 14 * 3600}
	base := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	for _, offset := range offsets {
		for step := 0; step < 48; step++ {
			now := base.Add(time.Duration(step) * 30 * time.Minute)
			clock, _ := LocalClock(offset, now)

			var gotHour, gotMin int
			if _, err := fmt.Sscanf(clock, "%d:%d", &gotHour, &gotMin); err != nil {
				t.Fatalf("LocalClock(%d, %v) = %q: not HH:mm", offset, now, clock)
			}
			if want := expectedHour(now.Unix(), offset); gotHour != want {
				t.Errorf("LocalClock(%d, %v) hour = %d, want %d", offset, now, gotHour, want)
			}
		}
	}
}

func TestLocalClock_DayPeriodBoundaries(t *testing.T) {
	tests := []struct {
		hour int
		want DayPeriod
	}{
		{0, PeriodNight},
		{5, PeriodNight},
		{6, PeriodDay},
		{12, PeriodDay},
		{17, PeriodDay},
		{18, PeriodNight},
		{19, PeriodNight},
		{23, PeriodNight},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour_%02d", tt.hour), func(t *testing.T) {
			now := time.Date(2024, 6, 1, tt.hour, 30, 0, 0, time.UTC)
			clock, period := LocalClock(0, now)
			if period != tt.want {
				t.Errorf("LocalClock hour %d period = %q, want %q", tt.hour, period, tt.want)
			}
			if want := fmt.Sprintf("%02d:30", tt.hour); clock != want {
				t.Errorf("LocalClock hour %d clock = %q, want %q", tt.hour, clock, want)
			}
		})
	}
}

func TestIsNight_Boundaries(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{0, true},
		{5, true},
		{6, false},
		{12, false},
		{17, false},
		{18, false}, // day-period already calls 18:00 night, the theme does not
		{19, true},
		{23, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour_%02d", tt.hour), func(t *testing.T) {
			now := time.Date(2024, 6, 1, tt.hour, 0, 0, 0, time.UTC)
			if got := IsNight(0, now); got != tt.want {
				t.Errorf("IsNight hour %d = %v, want %v", tt.hour, got, tt.want)
			}
		})
	}
}

// The two classifications must disagree exactly on local hour 18.
func TestDayPeriodAndIsNightAsymmetry(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		now := time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
		_, period := LocalClock(0, now)
		night := IsNight(0, now)

		disagree := (period == PeriodNight) != night
		if hour == 18 {
			if !disagree {
				t.Errorf("hour 18: expected day-period night with is-night false")
			}
			continue
		}
		if disagree {
			t.Errorf("hour %d: day-period %q and is-night %v unexpectedly disagree", hour, period, night)
		}
	}
}

func TestLocalClock_HalfHourOffset(t *testing.T) {
	// 05:30 UTC at +05:30 (e.g. Pune) is 11:00 local.
	now := time.Date(2024, 6, 1, 5, 30, 0, 0, time.UTC)
	clock, period := LocalClock(19800, now)
	if clock != "11:00" {
		t.Errorf("clock = %q, want 11:00", clock)
	}
	if period != PeriodDay {
		t.Errorf("period = %q, want day", period)
	}
}

func TestLocalClock_NegativeOffsetWraps(t *testing.T) {
	// 02:00 UTC at -04:00 is 22:00 the previous day.
	now := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	clock, period := LocalClock(-4*3600, now)
	if clock != "22:00" {
		t.Errorf("clock = %q, want 22:00", clock)
	}
	if period != PeriodNight {
		t.Errorf("period = %q, want night", period)
	}
	if !IsNight(-4*3600, now) {
		t.Error("expected is-night at 22:00 local")
	}
}
