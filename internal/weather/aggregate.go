package weather

import (
	"math"
	"sort"
	"strings"
	"time"
)

// ForecastTimeLayout is the provider's fixed timestamp format for
// 3-hourly forecast samples.
const ForecastTimeLayout = "2006-01-02 15:04:05"

// MaxForecastDays caps the aggregated forecast window.
const MaxForecastDays = 5

// AggregateDaily reduces a chronological series of 3-hourly samples into
// at most five day summaries, one per calendar day, each represented by
// the sample nearest local noon.
//
// Grouping is keyed by calendar date in first-occurrence order, so when
// the source spans more than five days the first five are kept. Noon ties
// go to the earlier sample. Samples with unparsable timestamps are
// skipped. The result is sorted by weekday index relative to today, which
// recovers chronological order for windows under a week.
func AggregateDaily(samples []ForecastSample, today time.Weekday) []DaySummary {
	type dayGroup struct {
		weekday  time.Weekday
		best     ForecastSample
		bestDist int
	}

	groups := make(map[string]*dayGroup)
	var order []*dayGroup

	for _, s := range samples {
		t, err := time.Parse(ForecastTimeLayout, s.Timestamp)
		if err != nil {
			continue
		}
		dist := t.Hour() - 12
		if dist < 0 {
			dist = -dist
		}

		key := t.Format("2006-01-02")
		g, ok := groups[key]
		if !ok {
			if len(order) >= MaxForecastDays {
				continue
			}
			g = &dayGroup{weekday: t.Weekday(), best: s, bestDist: dist}
			groups[key] = g
			order = append(order, g)
			continue
		}
		if dist < g.bestDist {
			g.best = s
			g.bestDist = dist
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return weekdayIndex(order[i].weekday, today) < weekdayIndex(order[j].weekday, today)
	})

	days := make([]DaySummary, 0, len(order))
	for _, g := range order {
		days = append(days, DaySummary{
			Day:  WeekdayLabel(g.weekday),
			Temp: int(math.Round(g.best.Temp)),
			Icon: MapIcon(g.best.IconCode),
		})
	}
	return days
}

// weekdayIndex orders weekdays starting from today.
func weekdayIndex(wd, today time.Weekday) int {
	return (int(wd) - int(today) + 7) % 7
}

// WeekdayLabel formats a weekday as its 3-letter uppercase label.
func WeekdayLabel(wd time.Weekday) string {
	return strings.ToUpper(wd.String()[:3])
}

// ComposeDisplayModel combines a current observation with aggregated
// forecast days into one display model. The model is complete when
// returned; callers publish it atomically.
func ComposeDisplayModel(obs CurrentObservation, samples []ForecastSample, now time.Time) *DisplayModel {
	localTime, period := LocalClock(obs.OffsetSeconds, now)

	return &DisplayModel{
		City:          strings.ToUpper(obs.Name),
		Temp:          int(math.Round(obs.Temp)),
		Condition:     obs.Condition,
		Icon:          MapIcon(obs.IconCode),
		OffsetSeconds: obs.OffsetSeconds,
		// Sample timestamps are UTC, so the reference weekday for day
		// ordering must be UTC too; the city-local date can already be a
		// day ahead in the evening.
		Days:          AggregateDaily(samples, now.UTC().Weekday()),
		LocalTime:     localTime,
		Daylight:      period == PeriodDay,
	}
}
