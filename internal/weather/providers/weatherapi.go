package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/traveller-conductor/internal/logging"
	"github.com/i474232898/traveller-conductor/internal/weather"
)

// UserAgent is sent with every provider request.
const UserAgent = "Traveller Conductor Weather Service"

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      1,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// currentResponse mirrors the subset of /v1/current.json we read.
type currentResponse struct {
	Current *struct {
		LastUpdatedEpoch int64   `json:"last_updated_epoch"`
		TempC            float64 `json:"temp_c"`
		TempF            float64 `json:"temp_f"`
		FeelsLikeC       float64 `json:"feelslike_c"`
		FeelsLikeF       float64 `json:"feelslike_f"`
		Humidity         int     `json:"humidity"`
		Cloud            int     `json:"cloud"`
		IsDay            int     `json:"is_day"`
		Condition        struct {
			Code int `json:"code"`
		} `json:"condition"`
	} `json:"current"`
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, loc weather.Point) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", loc.Query())

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", UserAgent)
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		log := logging.Component(p.name)
		log.Debug().Err(err).Str("location", loc.LocationID).Str("breaker", p.circuit.State().String()).Msg("request failed")
		return weather.Snapshot{}, err
	}
	defer resp.Body.Close()

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("decode weatherapi response: %w", err)
	}
	if payload.Current == nil {
		return weather.Snapshot{}, fmt.Errorf("weatherapi response has no current object")
	}

	cur := payload.Current
	return weather.Snapshot{
		ObservedAt:    time.Unix(cur.LastUpdatedEpoch, 0).UTC(),
		TempC:         cur.TempC,
		TempF:         cur.TempF,
		FeelsLikeC:    cur.FeelsLikeC,
		FeelsLikeF:    cur.FeelsLikeF,
		Humidity:      cur.Humidity,
		Cloud:         cur.Cloud,
		IsDay:         cur.IsDay == 1,
		ConditionCode: cur.Condition.Code,
	}, nil
}
