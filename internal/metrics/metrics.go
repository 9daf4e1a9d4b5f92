package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skycast_provider_api_calls_total",
			Help: "Total weather provider API calls",
		},
		[]string{"endpoint", "status"},
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skycast_provider_api_latency_seconds",
			Help:    "Weather provider API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_searches_total",
			Help: "Total user-initiated weather searches",
		},
	)

	SuggestionFetchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_suggestion_fetches_total",
			Help: "Total debounced suggestion fetches that actually ran",
		},
	)

	VoiceSessionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "skycast_voice_sessions_total",
			Help: "Total voice search sessions started",
		},
	)
)
