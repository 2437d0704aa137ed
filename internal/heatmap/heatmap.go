// Package heatmap holds the marker rules for incident heatmap points
package heatmap

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// Level is the colour bucket of a marker
type Level int

const (
	Green Level = iota
	Yellow
	Orange
	Red
)

// SampleCount is the number of points synthesized when the heatmap cannot be fetched
const SampleCount = 20

// SampleSpread is the full width, in degrees, of the square sample points are drawn from
const SampleSpread = 0.05

var sampleTypes = []string{"harassment", "stalking", "theft"}

// ColorFor buckets a weight into one of four levels
func ColorFor(weight float64) Level {
	switch {
	case weight <= 20:
		return Green
	case weight <= 40:
		return Yellow
	case weight <= 60:
		return Orange
	default:
		return Red
	}
}

// String names the level
func (l Level) String() string {
	switch l {
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Orange:
		return "orange"
	default:
		return "red"
	}
}

// Hex returns the fill colour for the level
func (l Level) Hex() string {
	switch l {
	case Green:
		return "#00ff00"
	case Yellow:
		return "#ffff00"
	case Orange:
		return "#ffa500"
	default:
		return "#ff0000"
	}
}

// Radius is the marker radius for a weight
func Radius(weight float64) float64 {
	return weight / 5
}

// SeverityLabel renders weight/10 as "<n>/5" using the shortest decimal form
func SeverityLabel(weight float64) string {
	return strconv.FormatFloat(weight/10, 'f', -1, 64) + "/5"
}

// Popup renders the marker's detail text
func Popup(p models.HeatmapPoint) string {
	incidentType := p.Type
	if incidentType == "" {
		incidentType = "Unknown"
	}

	lines := []string{
		"Safety Incident",
		fmt.Sprintf("Type: %s", incidentType),
		fmt.Sprintf("Severity: %s", SeverityLabel(p.Weight)),
		fmt.Sprintf("Coordinates: %.4f, %.4f", p.Lat, p.Lng),
	}
	return strings.Join(lines, "\n")
}

// Marker is a rendered heatmap point
type Marker struct {
	Point  models.HeatmapPoint
	Level  Level
	Radius float64
	Popup  string
}

// NewMarker builds the marker for a point
func NewMarker(p models.HeatmapPoint) Marker {
	return Marker{
		Point:  p,
		Level:  ColorFor(p.Weight),
		Radius: Radius(p.Weight),
		Popup:  Popup(p),
	}
}

// Markers builds markers for every point, in order
func Markers(points []models.HeatmapPoint) []Marker {
	markers := make([]Marker, 0, len(points))
	for _, p := range points {
		markers = append(markers, NewMarker(p))
	}
	return markers
}

// SamplePoints fabricates n points within ±SampleSpread/2 degrees of center.
// Weights fall in [10, 60) and types are drawn from a fixed set.
func SamplePoints(center models.Location, n int, rng *rand.Rand) []models.HeatmapPoint {
	points := make([]models.HeatmapPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, models.HeatmapPoint{
			Lat:       center.Lat + (rng.Float64()-0.5)*SampleSpread,
			Lng:       center.Lng + (rng.Float64()-0.5)*SampleSpread,
			Weight:    float64(rng.Intn(50) + 10),
			Type:      sampleTypes[rng.Intn(len(sampleTypes))],
			Synthetic: true,
		})
	}
	return points
}

// SampleData wraps SamplePoints in a heatmap response for the fallback path
func SampleData(center models.Location, radiusKm float64, rng *rand.Rand) *models.HeatmapData {
	points := SamplePoints(center, SampleCount, rng)
	return &models.HeatmapData{
		Center:       center,
		RadiusKm:     radiusKm,
		Points:       points,
		TotalReports: len(points),
		SafetyScore:  -1,
		Synthetic:    true,
	}
}
