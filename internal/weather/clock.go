package weather

import "time"

// DayPeriod is the coarse day/night classification used for icon
// selection. Its boundary is 06:00-18:00 local.
type DayPeriod string

const (
	PeriodDay   DayPeriod = "day"
	PeriodNight DayPeriod = "night"
)

// localAt shifts an instant by a provider UTC offset. Offsets are whole
// seconds, may be negative, and are not necessarily hour-aligned.
func localAt(offsetSec int, now time.Time) time.Time {
	return now.UTC().Add(time.Duration(offsetSec) * time.Second)
}

// LocalClock returns the "HH:mm" clock string at the given UTC offset and
// its day-period. It is a pure function: the caller owns any theme state
// derived from the result.
func LocalClock(offsetSec int, now time.Time) (string, DayPeriod) {
	local := localAt(offsetSec, now)
	clock := local.Format("15:04")
	if h := local.Hour(); h >= 6 && h < 18 {
		return clock, PeriodDay
	}
	return clock, PeriodNight
}

// IsNight reports whether the theme should switch to night at the given
// offset. Its boundary (>= 19:00 or < 06:00) is deliberately not the same
// as the day-period boundary: hours 18:00-18:59 count as night for icon
// purposes but not for theming.
func IsNight(offsetSec int, now time.Time) bool {
	h := localAt(offsetSec, now).Hour()
	return h >= 19 || h < 6
}
