package owm

import (
	"context"
	"net/url"

	"github.com/skycastapp/skycast/internal/weather"
)

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Icon string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// FetchForecast returns the raw 3-hourly forecast series (roughly five
// days at the provider's default cadence) for a free-text city query.
// Aggregation into day summaries happens in the weather package.
func (c *Client) FetchForecast(ctx context.Context, query string) ([]weather.ForecastSample, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("units", "metric")

	var data forecastResponse
	if err := c.getJSON(ctx, "forecast", "/data/2.5/forecast", q, &data); err != nil {
		return nil, err
	}

	samples := make([]weather.ForecastSample, 0, len(data.List))
	for _, item := range data.List {
		s := weather.ForecastSample{
			Timestamp: item.DtTxt,
			Temp:      item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.IconCode = item.Weather[0].Icon
		}
		samples = append(samples, s)
	}
	return samples, nil
}
