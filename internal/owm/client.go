package owm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/skycastapp/skycast/internal/httputil"
	"github.com/skycastapp/skycast/internal/metrics"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Client talks to the OpenWeatherMap HTTP API: geocoding, current
// conditions, and the 5-day/3-hour forecast. All requests are GETs with
// the API credential attached as a query parameter.
type Client struct {
	apiKey          string
	client          *http.Client
	baseURL         string
	retryMaxElapsed time.Duration
}

type Option func(*Client)

// WithBaseURL points the client at a different host, used in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// WithRetryMaxElapsed bounds how long rate-limited calls are retried.
func WithRetryMaxElapsed(d time.Duration) Option {
	return func(c *Client) { c.retryMaxElapsed = d }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:          apiKey,
		client:          httputil.NewClient(),
		baseURL:         defaultBaseURL,
		retryMaxElapsed: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON issues an instrumented GET and decodes the response into out.
// Rate limiting and upstream 5xx responses are retried with exponential
// backoff; everything else fails immediately.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	query.Set("appid", c.apiKey)
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	var body []byte
	status := 0
	start := time.Now()

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// url.Error echoes the full request URL, credential included;
			// surface only the underlying cause.
			var uerr *url.Error
			if errors.As(err, &uerr) {
				err = uerr.Err
			}
			return backoff.Permanent(fmt.Errorf("fetch %s: %w", endpoint, err))
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.retryMaxElapsed
	err := backoff.Retry(operation, backoff.WithContext(bo, ctx))

	metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	metrics.ProviderCallsTotal.WithLabelValues(endpoint, statusLabel).Inc()

	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("fetch %s: unmarshal: %w", endpoint, err)
	}
	return nil
}
