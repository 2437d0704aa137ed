// Package geocoding turns free-text place queries into coordinates
package geocoding

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// ErrNotFound is returned when a provider has no match for the query
var ErrNotFound = errors.New("no results found")

// Result is a geocoded location
type Result struct {
	Latitude  float64
	Longitude float64
	Name      string
	Provider  string
}

// Geocoder resolves a query such as "Khan Market, New Delhi" to a location
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Result, error)
}

// New selects Google Maps when apiKey is set and Nominatim otherwise,
// wrapping the provider in a cache when one is given.
func New(apiKey string, cache Cache, logger *slog.Logger) (Geocoder, error) {
	var g Geocoder = NewNominatim()
	if apiKey != "" {
		google, err := NewGoogle(apiKey)
		if err != nil {
			return nil, err
		}
		g = google
	}
	if cache != nil {
		g = NewCached(g, cache, logger)
	}
	return g, nil
}

// normalizeQuery trims and collapses whitespace
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
