package ui

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/location"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
)

// Mock clients for testing

type mockClient struct {
	mu sync.Mutex

	heatmap      *models.HeatmapData
	heatmapErr   error
	reportErr    error
	sosErr       error
	contacts     models.EmergencyContacts
	route        *models.SafeRoute
	routeErr     error
	verification *models.Verification
	prediction   *models.RiskPrediction
	placeName    string

	calls   int
	reports []models.IncidentReport
	signals []models.EmergencySignal
	votes   []models.Vote
}

func (c *mockClient) record() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

func (c *mockClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *mockClient) GetHeatmap(ctx context.Context, lat, lng, radiusKm float64) (*models.HeatmapData, error) {
	c.record()
	if c.heatmapErr != nil {
		return nil, c.heatmapErr
	}
	if c.heatmap == nil {
		return &models.HeatmapData{Center: models.Location{Lat: lat, Lng: lng}, RadiusKm: radiusKm, SafetyScore: 100}, nil
	}
	return c.heatmap, nil
}

func (c *mockClient) SubmitReport(ctx context.Context, report models.IncidentReport) (*models.ReportReceipt, error) {
	c.record()
	if c.reportErr != nil {
		return nil, c.reportErr
	}
	c.reports = append(c.reports, report)
	return &models.ReportReceipt{ReportID: len(c.reports), Message: "Report submitted successfully"}, nil
}

func (c *mockClient) VerifyReport(ctx context.Context, reportID int, vote models.Vote, reporterID string) (*models.Verification, error) {
	c.record()
	c.votes = append(c.votes, vote)
	if c.verification == nil {
		return nil, errors.New("Report not found")
	}
	return c.verification, nil
}

func (c *mockClient) GetContacts(ctx context.Context) (models.EmergencyContacts, error) {
	c.record()
	if c.contacts == nil {
		return nil, errors.New("connection refused")
	}
	return c.contacts, nil
}

func (c *mockClient) SendSOS(ctx context.Context, signal models.EmergencySignal) (*models.SOSReceipt, error) {
	c.record()
	if c.sosErr != nil {
		return nil, c.sosErr
	}
	c.signals = append(c.signals, signal)
	return &models.SOSReceipt{Message: "SOS activated!", ContactsNotified: []string{"100", "102"}}, nil
}

func (c *mockClient) PredictRisk(ctx context.Context, lat, lng float64, hour int) (*models.RiskPrediction, error) {
	c.record()
	if c.prediction == nil {
		return nil, errors.New("prediction unavailable")
	}
	return c.prediction, nil
}

func (c *mockClient) SafeRoute(ctx context.Context, from, to models.Location) (*models.SafeRoute, error) {
	c.record()
	if c.routeErr != nil {
		return nil, c.routeErr
	}
	return c.route, nil
}

func (c *mockClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	c.record()
	if c.placeName == "" {
		return "", errors.New("not found")
	}
	return c.placeName, nil
}

type mockLocator struct {
	result location.Result
}

func (l mockLocator) Resolve(ctx context.Context) location.Result {
	return l.result
}

type mockPlaceStore struct {
	places  []models.Place
	saved   []models.Place
	deleted []string
}

func (s *mockPlaceStore) ListPlaces(ctx context.Context) ([]models.Place, error) {
	return s.places, nil
}

func (s *mockPlaceStore) SaveLocation(ctx context.Context, name string, loc models.Location) (*models.Place, error) {
	p := models.Place{ID: int64(len(s.saved) + 1), Name: name, Latitude: loc.Lat, Longitude: loc.Lng}
	s.saved = append(s.saved, p)
	return &p, nil
}

func (s *mockPlaceStore) DeletePlace(ctx context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

var testStart = time.Date(2024, 3, 1, 21, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		APIBaseURL:            "http://localhost:5000",
		HTTPTimeout:           5 * time.Second,
		ReporterID:            "user_test",
		LiveTransport:         config.TransportOff,
		HeatmapRadiusKm:       5,
		HeatmapSampleFallback: true,
		StatsInterval:         30 * time.Second,
		AlertPollInterval:     60 * time.Second,
		AlertTTL:              30 * time.Minute,
		SOSCountdown:          60 * time.Second,
		DefaultLat:            28.6139,
		DefaultLng:            77.2090,
	}
}

func newTestModel(client *mockClient) Model {
	return NewModel(Options{
		Config:  testConfig(),
		API:     client,
		Clock:   clockwork.NewFakeClockAt(testStart),
		Rand:    rand.New(rand.NewSource(42)),
		Logger:  observability.NewDiscardLogger(),
		Metrics: observability.NewUnregisteredMetrics(),
		Bell:    io.Discard,
	})
}

// located returns the model after a successful location resolution
func located(t *testing.T, m Model, loc models.Location) Model {
	t.Helper()
	m, _ = update(t, m, locationResolvedMsg{result: location.Result{Location: loc}})
	if m.location == nil {
		t.Fatal("location not stored")
	}
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func key(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

var delhi = models.Location{Lat: 28.6139, Lng: 77.2090}
