package zones

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
)

func square(minLng, minLat, maxLng, maxLat float64) []Point {
	return []Point{
		{Lng: minLng, Lat: minLat},
		{Lng: minLng, Lat: maxLat},
		{Lng: maxLng, Lat: maxLat},
		{Lng: maxLng, Lat: minLat},
		{Lng: minLng, Lat: minLat},
	}
}

func TestZone_Contains(t *testing.T) {
	withHole := NewZone("Park", [][]Point{
		square(77.0, 28.0, 77.4, 28.4),
		square(77.1, 28.1, 77.2, 28.2),
	})

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"inside outer ring", 28.3, 77.3, true},
		{"inside hole", 28.15, 77.15, false},
		{"outside bbox", 29.0, 77.2, false},
		{"outside west", 28.2, 76.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withHole.Contains(tt.lat, tt.lng); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestSet_Contains(t *testing.T) {
	set := NewSet(
		NewZone("Khan Market", [][]Point{square(77.22, 28.59, 77.24, 28.61)}),
		NewZone("Lodhi Garden", [][]Point{square(77.21, 28.58, 77.23, 28.60)}),
	)

	if name, ok := set.Contains(28.60, 77.23); !ok || name != "Khan Market" {
		t.Errorf("Contains() = %q, %v; want first matching zone", name, ok)
	}
	if name, ok := set.Contains(28.585, 77.215); !ok || name != "Lodhi Garden" {
		t.Errorf("Contains() = %q, %v; want Lodhi Garden", name, ok)
	}
	if _, ok := set.Contains(0, 0); ok {
		t.Error("Contains(0, 0) should be false")
	}

	var empty *Set
	if _, ok := empty.Contains(28.6, 77.2); ok || empty.Len() != 0 {
		t.Error("nil set should contain nothing")
	}
}

func writeShapefile(t *testing.T, path string, names []string, polys [][][]shp.Point) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		t.Fatalf("creating shapefile: %v", err)
	}
	if names != nil {
		w.SetFields([]shp.Field{shp.StringField(NameField, 40)})
	}
	for i, parts := range polys {
		poly := shp.Polygon(*shp.NewPolyLine(parts))
		n := w.Write(&poly)
		if names != nil {
			w.WriteAttribute(int(n), 0, names[i])
		}
	}
	w.Close()
}

func shpSquare(minX, minY, maxX, maxY float64) []shp.Point {
	return []shp.Point{{X: minX, Y: minY}, {X: minX, Y: maxY}, {X: maxX, Y: maxY}, {X: maxX, Y: minY}, {X: minX, Y: minY}}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "safe_zones.shp")
	writeShapefile(t, path, []string{"Khan Market", "Connaught Place"}, [][][]shp.Point{
		{shpSquare(77.22, 28.59, 77.24, 28.61)},
		{shpSquare(77.21, 28.62, 77.23, 28.64)},
	})

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Load() returned %d zones, want 2", set.Len())
	}
	if name, ok := set.Contains(28.63, 77.22); !ok || name != "Connaught Place" {
		t.Errorf("Contains() = %q, %v", name, ok)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.shp")); err == nil {
		t.Error("expected error for missing shapefile")
	}
}

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		tolerance              float64
	}{
		{"same point", 28.6139, 77.2090, 28.6139, 77.2090, 0, 0.001},
		{"one degree latitude", 28.0, 77.0, 29.0, 77.0, 111.19, 0.1},
		{"delhi to mumbai", 28.6139, 77.2090, 19.0760, 72.8777, 1150, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKm() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}
