package models

import "fmt"

// Location is a geographic coordinate with an optional display name
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"-"`
}

// String formats the coordinate with four decimals
func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lng)
}

// Offset returns a location shifted by the given degrees
func (l Location) Offset(dLat, dLng float64) Location {
	return Location{Lat: l.Lat + dLat, Lng: l.Lng + dLng}
}
