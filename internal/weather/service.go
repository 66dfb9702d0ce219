package weather

import (
	"context"
	"fmt"
)

// Service fetches snapshots from a provider and replaces them in the store.
type Service struct {
	store    Store
	provider Provider
}

// NewService creates a new Service.
func NewService(store Store, provider Provider) *Service {
	return &Service{
		store:    store,
		provider: provider,
	}
}

// Refresh fetches the current weather for p and stores it. On failure the
// previously stored snapshot, if any, is left untouched.
func (s *Service) Refresh(ctx context.Context, p Point) error {
	if s.provider == nil {
		return fmt.Errorf("no weather provider configured")
	}

	snapshot, err := s.provider.Fetch(ctx, p)
	if err != nil {
		return fmt.Errorf("%s fetch for %s: %w", s.provider.Name(), p.LocationID, err)
	}

	s.store.Save(p.LocationID, snapshot)
	return nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(locationID string) (Snapshot, bool) {
	return s.store.Latest(locationID)
}
