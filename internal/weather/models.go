package weather

import (
	"strconv"
	"time"
)

// Point is one tracked location as the refresh loop sees it.
type Point struct {
	LocationID string  `json:"locationId"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Query returns the "lat,lon" form accepted by the provider's q parameter.
func (p Point) Query() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// Snapshot is the most recent observation for one location.
// It is always stored and read as a whole value.
type Snapshot struct {
	ObservedAt    time.Time `json:"observedAt"` // always UTC
	TempC         float64   `json:"tempC"`
	TempF         float64   `json:"tempF"`
	FeelsLikeC    float64   `json:"feelsLikeC"`
	FeelsLikeF    float64   `json:"feelsLikeF"`
	Humidity      int       `json:"humidityPercent"`
	Cloud         int       `json:"cloudPercent"`
	IsDay         bool      `json:"isDay"`
	ConditionCode int       `json:"conditionCode"`
}

// MinutesSince returns how many whole minutes ago the snapshot was observed.
// Partial minutes are truncated, not rounded: 90s and 119s both give 1,
// 120s gives 2. The result is never less than 1.
func (s Snapshot) MinutesSince(now time.Time) int {
	minutes := int(now.Sub(s.ObservedAt) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}
