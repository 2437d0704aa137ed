// Package zones loads safe-zone polygons from an ESRI shapefile and answers point-in-zone queries
package zones

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonas-p/go-shp"
)

// NameField is the attribute holding a zone's display name
const NameField = "NAME"

// Point is a longitude/latitude pair
type Point struct {
	Lng float64
	Lat float64
}

// Zone is one named safe-zone polygon. Rings are tested with the even-odd rule, so inner rings are holes.
type Zone struct {
	Name  string
	Rings [][]Point

	minLat, maxLat, minLng, maxLng float64
}

// NewZone builds a zone and computes its bounding box
func NewZone(name string, rings [][]Point) Zone {
	z := Zone{Name: name, Rings: rings}
	z.minLat, z.minLng = math.Inf(1), math.Inf(1)
	z.maxLat, z.maxLng = math.Inf(-1), math.Inf(-1)
	for _, ring := range rings {
		for _, p := range ring {
			z.minLat = math.Min(z.minLat, p.Lat)
			z.maxLat = math.Max(z.maxLat, p.Lat)
			z.minLng = math.Min(z.minLng, p.Lng)
			z.maxLng = math.Max(z.maxLng, p.Lng)
		}
	}
	return z
}

// Contains reports whether the point lies inside the zone
func (z *Zone) Contains(lat, lng float64) bool {
	if lat < z.minLat || lat > z.maxLat || lng < z.minLng || lng > z.maxLng {
		return false
	}

	inside := false
	for _, ring := range z.Rings {
		for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
			a, b := ring[i], ring[j]
			if (a.Lat > lat) != (b.Lat > lat) &&
				lng < (b.Lng-a.Lng)*(lat-a.Lat)/(b.Lat-a.Lat)+a.Lng {
				inside = !inside
			}
		}
	}
	return inside
}

// Set is a collection of safe zones. The zero value is an empty set.
type Set struct {
	zones []Zone
}

// NewSet creates a set from zones
func NewSet(zones ...Zone) *Set {
	return &Set{zones: zones}
}

// Len returns the number of zones
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.zones)
}

// Contains returns the name of the first zone containing the point
func (s *Set) Contains(lat, lng float64) (string, bool) {
	if s == nil {
		return "", false
	}
	for i := range s.zones {
		if s.zones[i].Contains(lat, lng) {
			return s.zones[i].Name, true
		}
	}
	return "", false
}

// Load reads polygon shapes from the shapefile at path. Non-polygon shapes are skipped.
// The zone name comes from the NAME attribute when the file has one.
func Load(path string) (*Set, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	nameIdx := -1
	for i, f := range shape.Fields() {
		if strings.EqualFold(f.String(), NameField) {
			nameIdx = i
			break
		}
	}

	set := &Set{}
	for shape.Next() {
		n, p := shape.Shape()

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}

		name := fmt.Sprintf("Zone %d", n+1)
		if nameIdx >= 0 {
			if v := strings.TrimSpace(shape.ReadAttribute(n, nameIdx)); v != "" {
				name = v
			}
		}

		set.zones = append(set.zones, NewZone(name, rings(polygon)))
	}
	return set, nil
}

// rings splits a polygon's point list into its parts
func rings(polygon *shp.Polygon) [][]Point {
	out := make([][]Point, 0, len(polygon.Parts))
	for partIdx := range polygon.Parts {
		start := int(polygon.Parts[partIdx])
		end := len(polygon.Points)
		if partIdx+1 < len(polygon.Parts) {
			end = int(polygon.Parts[partIdx+1])
		}

		ring := make([]Point, 0, end-start)
		for _, pt := range polygon.Points[start:end] {
			ring = append(ring, Point{Lng: pt.X, Lat: pt.Y})
		}
		out = append(out, ring)
	}
	return out
}

// HaversineKm calculates the great-circle distance in kilometres between two points
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
