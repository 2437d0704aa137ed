package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/feed"
	"github.com/ngmaloney/safestree-terminal/internal/live"
	"github.com/ngmaloney/safestree-terminal/internal/location"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
	"github.com/ngmaloney/safestree-terminal/internal/ui"
	"github.com/ngmaloney/safestree-terminal/internal/zones"
)

// This demo shows the UI with mock data and a scripted live feed
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	home := models.Location{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng, Name: "Connaught Place, New Delhi"}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	// A park just south-west of the user
	park := zones.NewZone("Central Park", [][]zones.Point{{
		{Lng: home.Lng - 0.012, Lat: home.Lat - 0.012},
		{Lng: home.Lng - 0.004, Lat: home.Lat - 0.012},
		{Lng: home.Lng - 0.004, Lat: home.Lat - 0.004},
		{Lng: home.Lng - 0.012, Lat: home.Lat - 0.004},
		{Lng: home.Lng - 0.012, Lat: home.Lat - 0.012},
	}})

	m := ui.NewModel(ui.Options{
		Config:    cfg,
		API:       newDemoClient(home, rng),
		Live:      demoChannel{},
		Locator:   location.NewProvider(location.Request{Coordinates: &home}, nil, nil, home),
		Zones:     zones.NewSet(park),
		Bulletins: feed.StaticBulletins{},
		Metrics:   observability.NewUnregisteredMetrics(),
		Logger:    observability.NewDiscardLogger(),
		Rand:      rng,
		Bell:      os.Stdout,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running demo: %v\n", err)
		os.Exit(1)
	}
}

// demoClient answers every API call from memory
type demoClient struct {
	home    models.Location
	points  []models.HeatmapPoint
	reports int
	votes   map[int]*models.Verification
}

func newDemoClient(home models.Location, rng *rand.Rand) *demoClient {
	points := []models.HeatmapPoint{
		{Lat: home.Lat + 0.006, Lng: home.Lng + 0.004, Weight: 55, Type: "theft"},
		{Lat: home.Lat - 0.008, Lng: home.Lng + 0.010, Weight: 70, Type: "assault"},
		{Lat: home.Lat + 0.012, Lng: home.Lng - 0.009, Weight: 30, Type: "harassment"},
		{Lat: home.Lat - 0.015, Lng: home.Lng - 0.014, Weight: 15, Type: "unsafe_area"},
	}
	for i := 0; i < 6; i++ {
		points = append(points, models.HeatmapPoint{
			Lat:    home.Lat + (rng.Float64()-0.5)*0.05,
			Lng:    home.Lng + (rng.Float64()-0.5)*0.05,
			Weight: float64(rng.Intn(5)+1) * 10,
			Type:   models.IncidentTypes[rng.Intn(len(models.IncidentTypes))],
		})
	}
	return &demoClient{home: home, points: points, votes: map[int]*models.Verification{}}
}

func (c *demoClient) GetHeatmap(ctx context.Context, lat, lng, radiusKm float64) (*models.HeatmapData, error) {
	return &models.HeatmapData{
		Center:       models.Location{Lat: lat, Lng: lng},
		RadiusKm:     radiusKm,
		Points:       c.points,
		SafetyScore:  68,
		TotalReports: len(c.points),
		LastUpdated:  time.Now(),
	}, nil
}

func (c *demoClient) SubmitReport(ctx context.Context, report models.IncidentReport) (*models.ReportReceipt, error) {
	c.reports++
	c.points = append(c.points, models.HeatmapPoint{
		Lat:    report.Latitude,
		Lng:    report.Longitude,
		Weight: float64(report.Severity) * 10,
		Type:   report.IncidentType,
	})
	return &models.ReportReceipt{ReportID: c.reports, Message: "Report submitted successfully"}, nil
}

func (c *demoClient) VerifyReport(ctx context.Context, reportID int, vote models.Vote, reporterID string) (*models.Verification, error) {
	v, ok := c.votes[reportID]
	if !ok {
		v = &models.Verification{}
		c.votes[reportID] = v
	}
	if vote == models.Upvote {
		v.Upvotes++
	} else {
		v.Downvotes++
	}
	v.Verified = v.Upvotes >= 5 && v.Upvotes > v.Downvotes*2
	cp := *v
	return &cp, nil
}

func (c *demoClient) GetContacts(ctx context.Context) (models.EmergencyContacts, error) {
	return models.DefaultEmergencyContacts(), nil
}

func (c *demoClient) SendSOS(ctx context.Context, signal models.EmergencySignal) (*models.SOSReceipt, error) {
	return &models.SOSReceipt{Message: "SOS activated! Help is on the way.", ContactsNotified: []string{"100", "1091"}}, nil
}

func (c *demoClient) PredictRisk(ctx context.Context, lat, lng float64, hour int) (*models.RiskPrediction, error) {
	p := &models.RiskPrediction{RiskScore: 3.2, RiskLevel: "low", SafetyColor: "green"}
	if hour >= 20 || hour < 6 {
		p = &models.RiskPrediction{RiskScore: 6.8, RiskLevel: "medium", SafetyColor: "yellow",
			Suggestions: []string{"Stay in well-lit areas"}}
	}
	return p, nil
}

func (c *demoClient) SafeRoute(ctx context.Context, from, to models.Location) (*models.SafeRoute, error) {
	return &models.SafeRoute{
		Points: []models.RoutePoint{
			{Lat: from.Lat, Lng: from.Lng, Safety: 85},
			{Lat: (from.Lat + to.Lat) / 2, Lng: from.Lng + 0.002, Safety: 80},
			{Lat: to.Lat, Lng: to.Lng, Safety: 90},
		},
		SafetyScore:   85,
		EstimatedTime: "15 mins",
		Distance:      "1.5 km",
		Warnings:      []string{"Well-lit route recommended"},
	}, nil
}

func (c *demoClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	return c.home.Name, nil
}

// demoChannel plays a short scripted sequence of live events
type demoChannel struct{}

func (demoChannel) Run(ctx context.Context, events chan<- live.Event) error {
	script := []struct {
		after time.Duration
		event live.Event
	}{
		{time.Second, live.Event{Type: live.EventConnected}},
		{5 * time.Second, live.Event{Type: live.EventNewReport, Report: &models.ReportNotice{ID: 1, IncidentType: "stalking", Severity: 3}}},
		{10 * time.Second, live.Event{Type: live.EventEmergencyAlert, Emergency: &models.EmergencyNotice{ReporterID: "user_demo"}}},
		{15 * time.Second, live.Event{Type: live.EventDisconnected}},
		{3 * time.Second, live.Event{Type: live.EventConnected}},
	}

	for _, step := range script {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(step.after):
		}
		select {
		case events <- step.event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	<-ctx.Done()
	return ctx.Err()
}
