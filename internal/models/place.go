package models

import "time"

// Place is a named location saved by the user
type Place struct {
	ID        int64     `json:"id"` // Database Primary Key (0 if not saved)
	Name      string    `json:"name"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Location returns the place as a named Location
func (p *Place) Location() Location {
	return Location{Lat: p.Latitude, Lng: p.Longitude, Name: p.Name}
}
