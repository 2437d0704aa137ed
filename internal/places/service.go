package places

import (
	"context"
	"fmt"

	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// Service orchestrates saved place operations
type Service struct {
	repo     *Repository
	geocoder geocoding.Geocoder
}

// NewService creates a place service. geocoder may be nil when only coordinates are saved.
func NewService(repo *Repository, geocoder geocoding.Geocoder) *Service {
	return &Service{repo: repo, geocoder: geocoder}
}

// SaveLocation saves loc under name
func (s *Service) SaveLocation(ctx context.Context, name string, loc models.Location) (*models.Place, error) {
	place := &models.Place{Name: name, Latitude: loc.Lat, Longitude: loc.Lng}
	if err := s.repo.SavePlace(ctx, place); err != nil {
		return nil, err
	}
	return place, nil
}

// CreatePlace geocodes query and saves the result under name
func (s *Service) CreatePlace(ctx context.Context, name, query string) (*models.Place, error) {
	if s.geocoder == nil {
		return nil, fmt.Errorf("no geocoder configured")
	}
	loc, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("geocoding location: %w", err)
	}
	return s.SaveLocation(ctx, name, models.Location{Lat: loc.Latitude, Lng: loc.Longitude})
}

// ListPlaces returns all saved places
func (s *Service) ListPlaces(ctx context.Context) ([]models.Place, error) {
	return s.repo.ListPlaces(ctx)
}

// FindPlace returns the saved place called name
func (s *Service) FindPlace(ctx context.Context, name string) (*models.Place, error) {
	return s.repo.FindPlace(ctx, name)
}

// DeletePlace removes the saved place called name
func (s *Service) DeletePlace(ctx context.Context, name string) error {
	return s.repo.DeletePlace(ctx, name)
}
