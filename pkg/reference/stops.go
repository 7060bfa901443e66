package reference

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StopCoordinates is one entry of the static stop table, keyed by GTFS stop
// id. Platform ids carry a trailing N/S direction character; the table is
// keyed by the parent station id without it.
type StopCoordinates struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name,omitempty"`
}

// Stops is an immutable stop id lookup, loaded once at startup and shared
// read-only between resolvers.
type Stops struct {
	entries map[string]StopCoordinates
}

func LoadStops(path string) (*Stops, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	entries := map[string]StopCoordinates{}
	if err := json.Unmarshal(file, &entries); err != nil {
		return nil, err
	}

	return &Stops{entries: entries}, nil
}

func NewStops(entries map[string]StopCoordinates) *Stops {
	return &Stops{entries: entries}
}

func (s *Stops) Len() int {
	return len(s.entries)
}

// Coordinates looks up a stop id, retrying with the trailing N/S platform
// suffix stripped. Entries without a usable position are treated as missing.
func (s *Stops) Coordinates(stopID string) (StopCoordinates, bool) {
	if stopID == "" {
		return StopCoordinates{}, false
	}

	entry, found := s.entries[stopID]
	if !found {
		entry, found = s.entries[stripPlatformSuffix(stopID)]
	}

	if !found || (entry.Lat == 0 && entry.Lon == 0) {
		return StopCoordinates{}, false
	}

	return entry, true
}

// DisplayName returns "Name (ID)" for a mapped stop and degrades to the raw
// id when the stop is unmapped.
func (s *Stops) DisplayName(stopID string) string {
	if stopID == "" {
		return "Unknown Stop"
	}

	entry, found := s.entries[stopID]
	if !found {
		entry, found = s.entries[stripPlatformSuffix(stopID)]
	}

	if !found || entry.Name == "" {
		return stopID
	}

	return fmt.Sprintf("%s (%s)", entry.Name, stopID)
}

func stripPlatformSuffix(stopID string) string {
	if strings.HasSuffix(stopID, "N") || strings.HasSuffix(stopID, "S") {
		return stopID[:len(stopID)-1]
	}

	return stopID
}
