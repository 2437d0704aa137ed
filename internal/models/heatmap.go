package models

import "time"

// HeatmapPoint is a weighted incident sample on the map
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Weight    float64 `json:"weight"` // Severity proxy, 10 per severity step
	Type      string  `json:"type"`
	Synthetic bool    `json:"-"` // Generated locally when the API is unreachable
}

// HeatmapData is the heatmap for an area around a centre point
type HeatmapData struct {
	Center       Location
	RadiusKm     float64
	Points       []HeatmapPoint
	SafetyScore  int
	TotalReports int
	LastUpdated  time.Time
	Synthetic    bool
}
