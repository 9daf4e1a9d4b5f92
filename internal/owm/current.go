package owm

import (
	"context"
	"net/url"

	"github.com/skycastapp/skycast/internal/weather"
)

type currentResponse struct {
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
	Main     struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
}

// FetchCurrent returns current conditions for a free-text city query in
// metric units, along with the resolved place name and its UTC offset.
func (c *Client) FetchCurrent(ctx context.Context, query string) (weather.CurrentObservation, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("units", "metric")

	var data currentResponse
	if err := c.getJSON(ctx, "current", "/data/2.5/weather", q, &data); err != nil {
		return weather.CurrentObservation{}, err
	}

	obs := weather.CurrentObservation{
		Name:          data.Name,
		Temp:          data.Main.Temp,
		OffsetSeconds: data.Timezone,
	}
	if len(data.Weather) > 0 {
		obs.Condition = data.Weather[0].Main
		obs.IconCode = data.Weather[0].Icon
	}
	return obs, nil
}
