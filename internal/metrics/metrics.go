// Package metrics holds the prometheus instruments exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Callback outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeBadRequest = "bad_request"
	OutcomeError      = "error"
	OutcomeUnknown    = "unknown"
)

var (
	CallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveller_callbacks_total",
			Help: "Callback commands dispatched, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	EntryCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveller_entry_commands_total",
			Help: "Slash commands handled, by command",
		},
		[]string{"command"},
	)

	WeatherFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traveller_weather_fetch_total",
			Help: "Weather provider fetches, by outcome",
		},
		[]string{"outcome"},
	)

	WeatherCachedLocations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "traveller_weather_cached_locations",
			Help: "Locations with a cached weather snapshot",
		},
	)
)
