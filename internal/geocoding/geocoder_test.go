package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

type memoryCache struct {
	entries map[string]*Result
	getErr  error
	puts    int
}

func (m *memoryCache) Get(_ context.Context, query string) (*Result, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	r, ok := m.entries[query]
	return r, ok, nil
}

func (m *memoryCache) Put(_ context.Context, query string, result *Result) error {
	m.puts++
	m.entries[query] = result
	return nil
}

type countingGeocoder struct {
	calls  int
	result *Result
	err    error
}

func (c *countingGeocoder) Geocode(context.Context, string) (*Result, error) {
	c.calls++
	return c.result, c.err
}

func TestCached_Geocode(t *testing.T) {
	next := &countingGeocoder{result: &Result{Latitude: 1, Longitude: 2, Name: "Home"}}
	cache := &memoryCache{entries: map[string]*Result{}}
	g := NewCached(next, cache, nil)

	first, err := g.Geocode(context.Background(), "Lajpat  Nagar")
	require.NoError(t, err)
	second, err := g.Geocode(context.Background(), "lajpat nagar")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.Contains(t, cache.entries, "lajpat nagar")
}

func TestCached_ReadFailureFallsThrough(t *testing.T) {
	next := &countingGeocoder{result: &Result{Latitude: 1, Longitude: 2}}
	cache := &memoryCache{entries: map[string]*Result{}, getErr: errors.New("disk on fire")}

	_, err := NewCached(next, cache, nil).Geocode(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	next := &countingGeocoder{err: ErrNotFound}
	cache := &memoryCache{entries: map[string]*Result{}}

	_, err := NewCached(next, cache, nil).Geocode(context.Background(), "x")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, cache.puts)
}

func TestGoogle_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "India Gate", r.URL.Query().Get("address"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"India Gate, New Delhi","geometry":{"location":{"lat":28.6129,"lng":77.2295}}}]}`))
	}))
	defer server.Close()

	g, err := NewGoogle("test-key", maps.WithBaseURL(server.URL))
	require.NoError(t, err)

	result, err := g.Geocode(context.Background(), "India Gate")
	require.NoError(t, err)
	assert.InDelta(t, 28.6129, result.Latitude, 1e-9)
	assert.Equal(t, "India Gate, New Delhi", result.Name)
	assert.Equal(t, "google", result.Provider)
}

func TestNew_SelectsProvider(t *testing.T) {
	g, err := New("", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Nominatim{}, g)

	g, err = New("key", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Google{}, g)

	g, err = New("", &memoryCache{entries: map[string]*Result{}}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Cached{}, g)
}
