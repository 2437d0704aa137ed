package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
)

// GeocodeCache persists geocode results in the geocode_cache table
type GeocodeCache struct {
	db *sql.DB
}

// NewGeocodeCache creates a cache over an open database
func NewGeocodeCache(db *sql.DB) *GeocodeCache {
	return &GeocodeCache{db: db}
}

// Get returns the cached result for query
func (c *GeocodeCache) Get(ctx context.Context, query string) (*geocoding.Result, bool, error) {
	var r geocoding.Result
	var name, provider sql.NullString
	err := c.db.QueryRowContext(ctx,
		"SELECT latitude, longitude, display_name, provider FROM geocode_cache WHERE query = ?", query,
	).Scan(&r.Latitude, &r.Longitude, &name, &provider)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading geocode cache: %w", err)
	}
	r.Name = name.String
	r.Provider = provider.String
	return &r, true, nil
}

// Put stores result under query
func (c *GeocodeCache) Put(ctx context.Context, query string, result *geocoding.Result) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO geocode_cache (query, latitude, longitude, display_name, provider)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			display_name = excluded.display_name,
			provider = excluded.provider,
			cached_at = CURRENT_TIMESTAMP
	`, query, result.Latitude, result.Longitude, result.Name, result.Provider)
	if err != nil {
		return fmt.Errorf("writing geocode cache: %w", err)
	}
	return nil
}
