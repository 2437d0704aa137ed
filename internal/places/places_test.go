package places

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ngmaloney/safestree-terminal/internal/database"
	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, geocoder geocoding.Geocoder) (*Service, *GeocodeCache) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "places.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(NewRepository(db), geocoder), NewGeocodeCache(db)
}

type stubGeocoder struct {
	result *geocoding.Result
	err    error
}

func (s stubGeocoder) Geocode(context.Context, string) (*geocoding.Result, error) {
	return s.result, s.err
}

func TestService_SaveListFindDelete(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	home, err := svc.SaveLocation(ctx, " Home ", models.Location{Lat: 28.61, Lng: 77.20})
	require.NoError(t, err)
	assert.NotZero(t, home.ID)
	assert.Equal(t, "Home", home.Name)

	_, err = svc.SaveLocation(ctx, "Office", models.Location{Lat: 28.5, Lng: 77.1})
	require.NoError(t, err)

	places, err := svc.ListPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Home", places[0].Name)
	assert.Equal(t, "Office", places[1].Name)

	found, err := svc.FindPlace(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, models.Location{Lat: 28.61, Lng: 77.20, Name: "Home"}, found.Location())

	require.NoError(t, svc.DeletePlace(ctx, "office"))
	_, err = svc.FindPlace(ctx, "Office")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.ErrorIs(t, svc.DeletePlace(ctx, "Office"), ErrNotFound)
}

func TestService_SaveReplacesSameName(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	first, err := svc.SaveLocation(ctx, "Home", models.Location{Lat: 1, Lng: 1})
	require.NoError(t, err)
	second, err := svc.SaveLocation(ctx, "HOME", models.Location{Lat: 2, Lng: 2})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	places, err := svc.ListPlaces(ctx)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.InDelta(t, 2.0, places[0].Latitude, 1e-9)
}

func TestService_SaveRejectsEmptyName(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.SaveLocation(context.Background(), "  ", models.Location{})
	assert.Error(t, err)
}

func TestService_CreatePlace(t *testing.T) {
	svc, _ := newTestService(t, stubGeocoder{result: &geocoding.Result{Latitude: 28.6002, Longitude: 77.2270}})

	place, err := svc.CreatePlace(context.Background(), "Market", "Khan Market")
	require.NoError(t, err)
	assert.InDelta(t, 28.6002, place.Latitude, 1e-9)

	failing, _ := newTestService(t, stubGeocoder{err: geocoding.ErrNotFound})
	_, err = failing.CreatePlace(context.Background(), "Nowhere", "zzz")
	assert.ErrorIs(t, err, geocoding.ErrNotFound)

	noGeocoder, _ := newTestService(t, nil)
	_, err = noGeocoder.CreatePlace(context.Background(), "x", "y")
	assert.Error(t, err)
}

func TestGeocodeCache(t *testing.T) {
	_, cache := newTestService(t, nil)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "india gate")
	require.NoError(t, err)
	assert.False(t, ok)

	want := &geocoding.Result{Latitude: 28.6129, Longitude: 77.2295, Name: "India Gate", Provider: "google"}
	require.NoError(t, cache.Put(ctx, "india gate", want))
	require.NoError(t, cache.Put(ctx, "india gate", want))

	got, ok, err := cache.Get(ctx, "india gate")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
