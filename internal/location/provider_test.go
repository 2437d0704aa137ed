package location

import (
	"context"
	"errors"
	"testing"

	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/stretchr/testify/assert"
)

var delhi = models.Location{Lat: 28.6139, Lng: 77.2090}

type stubPlaces map[string]models.Place

func (s stubPlaces) FindPlace(_ context.Context, name string) (*models.Place, error) {
	p, ok := s[name]
	if !ok {
		return nil, errors.New("place not found")
	}
	return &p, nil
}

type stubGeocoder struct {
	result *geocoding.Result
	err    error
}

func (s stubGeocoder) Geocode(context.Context, string) (*geocoding.Result, error) {
	return s.result, s.err
}

func TestProvider_Resolve(t *testing.T) {
	places := stubPlaces{"Home": {Name: "Home", Latitude: 28.55, Longitude: 77.25}}
	geocoder := stubGeocoder{result: &geocoding.Result{Latitude: 28.6002, Longitude: 77.2270, Name: "Khan Market"}}

	tests := []struct {
		name         string
		request      Request
		places       PlaceFinder
		geocoder     geocoding.Geocoder
		want         models.Location
		wantFallback bool
	}{
		{
			name:    "coordinates",
			request: Request{Coordinates: &models.Location{Lat: 12.97, Lng: 77.59}, Place: "Home"},
			places:  places,
			want:    models.Location{Lat: 12.97, Lng: 77.59},
		},
		{
			name:     "saved place",
			request:  Request{Place: "Home", Query: "ignored"},
			places:   places,
			geocoder: geocoder,
			want:     models.Location{Lat: 28.55, Lng: 77.25, Name: "Home"},
		},
		{
			name:     "geocoded query",
			request:  Request{Query: "Khan Market"},
			geocoder: geocoder,
			want:     models.Location{Lat: 28.6002, Lng: 77.2270, Name: "Khan Market"},
		},
		{
			name:         "nothing configured",
			want:         delhi,
			wantFallback: true,
		},
		{
			name:         "unknown place",
			request:      Request{Place: "Mars"},
			places:       places,
			want:         delhi,
			wantFallback: true,
		},
		{
			name:         "geocoder failure",
			request:      Request{Query: "zzz"},
			geocoder:     stubGeocoder{err: geocoding.ErrNotFound},
			want:         delhi,
			wantFallback: true,
		},
		{
			name:         "out of range",
			request:      Request{Coordinates: &models.Location{Lat: 120, Lng: 0}},
			want:         delhi,
			wantFallback: true,
		},
		{
			name:         "place without store",
			request:      Request{Place: "Home"},
			want:         delhi,
			wantFallback: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProvider(tt.request, tt.places, tt.geocoder, delhi)
			got := p.Resolve(context.Background())

			assert.Equal(t, tt.want, got.Location)
			assert.Equal(t, tt.wantFallback, got.Fallback)
			if tt.wantFallback {
				assert.Error(t, got.Err)
			} else {
				assert.NoError(t, got.Err)
			}
		})
	}
}
