// Package catalogue holds the immutable location catalogue and the weather
// condition vocabulary. A Store is built once at startup and is safe for
// concurrent reads without locking.
package catalogue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/traveller-conductor/internal/weather"
)

var (
	// ErrInvalidID is returned for ids that cannot travel inside a callback payload.
	ErrInvalidID = errors.New("invalid location id")
	// ErrDuplicate is returned when an id or condition code appears twice.
	ErrDuplicate = errors.New("duplicate catalogue entry")
)

var validate = validator.New()

// Store is the read-only catalogue.
type Store struct {
	order      []string
	locations  map[string]Location
	conditions map[int]Condition
}

// New validates the records and builds a Store. Location order is kept.
func New(locations []Location, conditions []Condition) (*Store, error) {
	s := &Store{
		order:      make([]string, 0, len(locations)),
		locations:  make(map[string]Location, len(locations)),
		conditions: make(map[int]Condition, len(conditions)),
	}

	for _, loc := range locations {
		if loc.ID == "" || strings.ContainsAny(loc.ID, " #\r\n") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidID, loc.ID)
		}
		if _, exists := s.locations[loc.ID]; exists {
			return nil, fmt.Errorf("%w: location %q", ErrDuplicate, loc.ID)
		}
		if err := validate.Struct(loc); err != nil {
			return nil, fmt.Errorf("location %q: %w", loc.ID, err)
		}
		s.order = append(s.order, loc.ID)
		s.locations[loc.ID] = loc
	}

	for _, cond := range conditions {
		if _, exists := s.conditions[cond.Code]; exists {
			return nil, fmt.Errorf("%w: condition %d", ErrDuplicate, cond.Code)
		}
		if err := validate.Struct(cond); err != nil {
			return nil, fmt.Errorf("condition %d: %w", cond.Code, err)
		}
		s.conditions[cond.Code] = cond
	}

	return s, nil
}

// Location looks up a location by id.
func (s *Store) Location(id string) (Location, bool) {
	loc, ok := s.locations[id]
	return loc, ok
}

// Locations returns every location in catalogue order.
func (s *Store) Locations() []Location {
	out := make([]Location, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.locations[id])
	}
	return out
}

// Condition looks up a weather condition by provider code.
func (s *Store) Condition(code int) (Condition, bool) {
	c, ok := s.conditions[code]
	return c, ok
}

// Points returns the fixed refresh list, in catalogue order.
func (s *Store) Points() []weather.Point {
	points := make([]weather.Point, 0, len(s.order))
	for _, id := range s.order {
		points = append(points, s.locations[id].Point())
	}
	return points
}

// Len returns the number of locations.
func (s *Store) Len() int {
	return len(s.order)
}

// ConditionCount returns the size of the condition vocabulary.
func (s *Store) ConditionCount() int {
	return len(s.conditions)
}
