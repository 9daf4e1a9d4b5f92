package owm

import (
	"context"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/skycastapp/skycast/internal/weather"
)

const defaultSuggestionLimit = 5

// SearchPlaces queries the geocoding API for place candidates matching a
// free-text name. Provider order is preserved; each candidate gets a
// fresh identifier so a replaced suggestion list never aliases the old one.
func (c *Client) SearchPlaces(ctx context.Context, query string, limit int) ([]weather.Place, error) {
	if limit <= 0 {
		limit = defaultSuggestionLimit
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))

	var raw []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
		State   string  `json:"state"`
	}
	if err := c.getJSON(ctx, "geocoding", "/geo/1.0/direct", q, &raw); err != nil {
		return nil, err
	}

	places := make([]weather.Place, len(raw))
	for i, r := range raw {
		places[i] = weather.Place{
			ID:      uuid.NewString(),
			Name:    r.Name,
			Country: r.Country,
			State:   r.State,
			Lat:     r.Lat,
			Lon:     r.Lon,
		}
	}
	return places, nil
}
