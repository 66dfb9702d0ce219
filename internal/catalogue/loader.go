package catalogue

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads the catalogue and condition files and builds a Store.
func Load(cataloguePath, conditionsPath string) (*Store, error) {
	locations, err := readFile(cataloguePath, DecodeLocations)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}

	conditions, err := readFile(conditionsPath, DecodeConditions)
	if err != nil {
		return nil, fmt.Errorf("load conditions: %w", err)
	}

	return New(locations, conditions)
}

func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()
	return decode(f)
}

// DecodeLocations reads a JSON object of id -> record, keeping key order.
func DecodeLocations(r io.Reader) ([]Location, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var locations []Location
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected location id, got %v", tok)
		}

		var loc Location
		if err := dec.Decode(&loc); err != nil {
			return nil, fmt.Errorf("location %q: %w", id, err)
		}
		loc.ID = id
		locations = append(locations, loc)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return locations, nil
}

// DecodeConditions reads a JSON array of condition records.
func DecodeConditions(r io.Reader) ([]Condition, error) {
	var conditions []Condition
	if err := json.NewDecoder(r).Decode(&conditions); err != nil {
		return nil, err
	}
	return conditions, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
