// Package places stores named locations and cached geocode results
package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// ErrNotFound is returned when no saved place has the requested name
var ErrNotFound = errors.New("place not found")

// Repository handles persistence for saved places
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repository over an open database (see database.Open)
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SavePlace inserts a place, replacing the coordinates of an existing place with the same name
func (r *Repository) SavePlace(ctx context.Context, place *models.Place) error {
	place.Name = strings.TrimSpace(place.Name)
	if place.Name == "" {
		return errors.New("place name cannot be empty")
	}
	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO saved_places (name, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			created_at = excluded.created_at
		RETURNING id
	`

	if err := r.db.QueryRowContext(ctx, query, place.Name, place.Latitude, place.Longitude, place.CreatedAt).Scan(&place.ID); err != nil {
		return fmt.Errorf("saving place: %w", err)
	}
	return nil
}

// ListPlaces retrieves all saved places ordered by name
func (r *Repository) ListPlaces(ctx context.Context) ([]models.Place, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, latitude, longitude, created_at FROM saved_places ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}
		places = append(places, p)
	}
	return places, rows.Err()
}

// FindPlace looks up a saved place by name, ignoring case
func (r *Repository) FindPlace(ctx context.Context, name string) (*models.Place, error) {
	var p models.Place
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, latitude, longitude, created_at FROM saved_places WHERE name = ?",
		strings.TrimSpace(name),
	).Scan(&p.ID, &p.Name, &p.Latitude, &p.Longitude, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("querying place: %w", err)
	}
	return &p, nil
}

// DeletePlace removes a place by name
func (r *Repository) DeletePlace(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM saved_places WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("deleting place: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
