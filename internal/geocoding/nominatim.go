package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	nominatimURL = "https://nominatim.openstreetmap.org/search"
	userAgent    = "SafeStreeTerminal/1.0" // Required by Nominatim ToS
)

// Nominatim geocodes with the OpenStreetMap Nominatim API
type Nominatim struct {
	baseURL    string
	httpClient *http.Client
	minGap     time.Duration
	lastCall   time.Time
	mu         sync.Mutex
}

// NewNominatim creates a Nominatim geocoder limited to one request per second
func NewNominatim() *Nominatim {
	return &Nominatim{
		baseURL: nominatimURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		minGap: time.Second,
	}
}

// nominatimResponse represents the Nominatim API response
type nominatimResponse struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode converts a free-text query to coordinates
func (g *Nominatim) Geocode(ctx context.Context, query string) (*Result, error) {
	query = normalizeQuery(query)
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	params := url.Values{}
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("q", query)
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())

	// Rate limiting: Nominatim requires 1 req/sec max
	g.mu.Lock()
	if !g.lastCall.IsZero() {
		if elapsed := time.Since(g.lastCall); elapsed < g.minGap {
			time.Sleep(g.minGap - elapsed)
		}
	}
	g.lastCall = time.Now()
	g.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w for '%s'", ErrNotFound, query)
	}

	result := results[0]
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude: %w", err)
	}

	return &Result{
		Latitude:  lat,
		Longitude: lon,
		Name:      result.DisplayName,
		Provider:  "nominatim",
	}, nil
}
