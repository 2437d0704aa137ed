package api

import (
	"context"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// HeatmapClient fetches incident heatmaps
type HeatmapClient interface {
	// GetHeatmap retrieves heatmap points within radiusKm of a centre point
	GetHeatmap(ctx context.Context, lat, lng, radiusKm float64) (*models.HeatmapData, error)
}

// ReportClient submits and verifies incident reports
type ReportClient interface {
	// SubmitReport posts a new incident report
	SubmitReport(ctx context.Context, report models.IncidentReport) (*models.ReportReceipt, error)

	// VerifyReport records a community vote on an existing report
	VerifyReport(ctx context.Context, reportID int, vote models.Vote, reporterID string) (*models.Verification, error)
}

// EmergencyClient handles SOS signals and emergency numbers
type EmergencyClient interface {
	// GetContacts retrieves the emergency service numbers
	GetContacts(ctx context.Context) (models.EmergencyContacts, error)

	// SendSOS posts an emergency signal
	SendSOS(ctx context.Context, signal models.EmergencySignal) (*models.SOSReceipt, error)
}

// SafetyClient provides location safety assessments
type SafetyClient interface {
	// PredictRisk retrieves the risk prediction for a location at an hour of day
	PredictRisk(ctx context.Context, lat, lng float64, hour int) (*models.RiskPrediction, error)

	// SafeRoute retrieves the safest route between two points
	SafeRoute(ctx context.Context, from, to models.Location) (*models.SafeRoute, error)

	// ReverseGeocode resolves a coordinate to a place name
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// Client is the full SafeStree API surface used by the terminal
type Client interface {
	HeatmapClient
	ReportClient
	EmergencyClient
	SafetyClient
}
