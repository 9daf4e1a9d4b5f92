package weather

import "fmt"

// Place is a geocoding candidate for a free-text search.
type Place struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// Label returns the display label for a suggestion row.
func (p Place) Label() string {
	if p.State != "" {
		return fmt.Sprintf("%s, %s, %s", p.Name, p.State, p.Country)
	}
	return fmt.Sprintf("%s, %s", p.Name, p.Country)
}

// CurrentObservation is the decoded current-conditions payload as the
// provider reports it, before any display mapping.
type CurrentObservation struct {
	Name          string
	Temp          float64
	Condition     string
	IconCode      string
	OffsetSeconds int
}

// ForecastSample is one raw 3-hourly forecast entry. Timestamps use the
// provider's fixed textual format ("2006-01-02 15:04:05", UTC).
type ForecastSample struct {
	Timestamp string
	Temp      float64
	IconCode  string
}

// DaySummary is one aggregated forecast day, represented by its
// near-noon sample.
type DaySummary struct {
	Day  string `json:"day"` // 3-letter uppercase weekday label
	Temp int    `json:"temp"`
	Icon Icon   `json:"icon"`
}

// DisplayModel is the single unit the view layer observes. It is always
// published wholesale; no partially-filled model is ever visible.
type DisplayModel struct {
	City          string       `json:"city"`
	Temp          int          `json:"temp"`
	Condition     string       `json:"condition"`
	Icon          Icon         `json:"icon"`
	OffsetSeconds int          `json:"offset_seconds"`
	Days          []DaySummary `json:"days"`
	LocalTime     string       `json:"local_time"`
	Daylight      bool         `json:"daylight"`
}
