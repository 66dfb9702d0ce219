package store

import (
	"sort"
	"sync"

	"github.com/i474232898/traveller-conductor/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory weather cache holding at most
// one snapshot per location id. It has a single writer (the refresh loop) and
// any number of readers.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location id, value: latest snapshot
	data map[string]weather.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.Snapshot),
	}
}

// Save replaces the snapshot stored for a location.
func (s *MemoryStore) Save(locationID string, snapshot weather.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[locationID] = snapshot
}

// Latest returns the snapshot for a location, or false if none was ever stored.
func (s *MemoryStore) Latest(locationID string) (weather.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.data[locationID]
	return snap, ok
}

// Len reports how many locations currently have a snapshot.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// LocationIDs returns the ids with a cached snapshot, sorted.
func (s *MemoryStore) LocationIDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}
