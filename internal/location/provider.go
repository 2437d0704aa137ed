// Package location resolves the user's current position with a fixed fallback
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// ErrLocationRequired is returned by operations that need a known location when none is available
var ErrLocationRequired = errors.New("location required")

// errNoSource is reported when no location input was configured
var errNoSource = errors.New("no location source configured")

// PlaceFinder looks up a saved place by name
type PlaceFinder interface {
	FindPlace(ctx context.Context, name string) (*models.Place, error)
}

// Request selects the location sources, tried in field order
type Request struct {
	Coordinates *models.Location // --lat/--lng
	Place       string           // --place
	Query       string           // --locate
}

// Result is the outcome of one resolution.
// Location is always set; Fallback is true when it is the default coordinate, with Err saying why.
type Result struct {
	Location models.Location
	Fallback bool
	Err      error
}

// Provider resolves a Request to a Location
type Provider struct {
	request  Request
	places   PlaceFinder
	geocoder geocoding.Geocoder
	fallback models.Location
}

// NewProvider creates a provider. places and geocoder may be nil.
func NewProvider(request Request, places PlaceFinder, geocoder geocoding.Geocoder, fallback models.Location) *Provider {
	return &Provider{
		request:  request,
		places:   places,
		geocoder: geocoder,
		fallback: fallback,
	}
}

// Resolve performs a one-shot lookup. It never returns an absent location.
func (p *Provider) Resolve(ctx context.Context) Result {
	loc, err := p.lookup(ctx)
	if err != nil {
		return Result{Location: p.fallback, Fallback: true, Err: err}
	}
	return Result{Location: loc}
}

func (p *Provider) lookup(ctx context.Context) (models.Location, error) {
	r := p.request
	switch {
	case r.Coordinates != nil:
		c := *r.Coordinates
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return models.Location{}, fmt.Errorf("coordinates out of range: %s", c)
		}
		return c, nil

	case r.Place != "":
		if p.places == nil {
			return models.Location{}, fmt.Errorf("saved places unavailable")
		}
		place, err := p.places.FindPlace(ctx, r.Place)
		if err != nil {
			return models.Location{}, fmt.Errorf("looking up saved place: %w", err)
		}
		return place.Location(), nil

	case r.Query != "":
		if p.geocoder == nil {
			return models.Location{}, fmt.Errorf("geocoding unavailable")
		}
		res, err := p.geocoder.Geocode(ctx, r.Query)
		if err != nil {
			return models.Location{}, fmt.Errorf("locating %q: %w", r.Query, err)
		}
		return models.Location{Lat: res.Latitude, Lng: res.Longitude, Name: res.Name}, nil

	default:
		return models.Location{}, errNoSource
	}
}
