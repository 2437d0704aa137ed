package geocoding

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Google geocodes with the Google Maps Geocoding API
type Google struct {
	client *maps.Client
}

// NewGoogle creates a Google Maps geocoder. Extra client options are passed through.
func NewGoogle(apiKey string, opts ...maps.ClientOption) (*Google, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("creating Google Maps client: %w", err)
	}
	return &Google{client: client}, nil
}

// Geocode converts a free-text query to coordinates
func (g *Google) Geocode(ctx context.Context, query string) (*Result, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("requesting geocode from google: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("%w for '%s'", ErrNotFound, query)
	}

	return &Result{
		Latitude:  resp[0].Geometry.Location.Lat,
		Longitude: resp[0].Geometry.Location.Lng,
		Name:      resp[0].FormattedAddress,
		Provider:  "google",
	}, nil
}
