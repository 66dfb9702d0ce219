package weather

import (
	"context"
)

// Provider abstracts a current-weather source (WeatherAPI.com today).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, p Point) (Snapshot, error)
}

// Reader is the non-blocking read side of the weather cache.
type Reader interface {
	Latest(locationID string) (Snapshot, bool)
}

// Store is the contract the in-memory cache must satisfy. Save replaces
// whatever was stored for the location.
type Store interface {
	Reader
	Save(locationID string, snapshot Snapshot)
}
