package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// PlaceStore persists the user's saved places
type PlaceStore interface {
	ListPlaces(ctx context.Context) ([]models.Place, error)
	SaveLocation(ctx context.Context, name string, loc models.Location) (*models.Place, error)
	DeletePlace(ctx context.Context, name string) error
}

type placesFetchedMsg struct {
	places []models.Place
	err    error
}

type placeSavedMsg struct {
	place *models.Place
	err   error
}

type placeDeletedMsg struct {
	name string
	err  error
}

func fetchSavedPlaces(ctx context.Context, s PlaceStore) tea.Cmd {
	return func() tea.Msg {
		places, err := s.ListPlaces(ctx)
		return placesFetchedMsg{places: places, err: err}
	}
}

func savePlace(ctx context.Context, s PlaceStore, name string, loc models.Location) tea.Cmd {
	return func() tea.Msg {
		place, err := s.SaveLocation(ctx, name, loc)
		return placeSavedMsg{place: place, err: err}
	}
}

func deletePlace(ctx context.Context, s PlaceStore, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeletePlace(ctx, name)
		return placeDeletedMsg{name: name, err: err}
	}
}
