// Package api is the HTTP client for the SafeStree safety API
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

const userAgent = "SafeStreeTerminal/1.0 (github.com/ngmaloney/safestree-terminal)"

// HTTPClient implements Client against the SafeStree REST API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new API client for baseURL
func NewClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// BaseURL returns the API origin, which the live channel shares
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// GetHeatmap retrieves heatmap points within radiusKm of a centre point
func (c *HTTPClient) GetHeatmap(ctx context.Context, lat, lng, radiusKm float64) (*models.HeatmapData, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", lat))
	params.Set("lng", fmt.Sprintf("%.6f", lng))
	params.Set("radius", fmt.Sprintf("%g", radiusKm))

	var resp heatmapResponse
	status, err := c.do(ctx, http.MethodGet, "/api/heatmap?"+params.Encode(), nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", status)
	}
	if resp.HeatmapData == nil {
		return nil, fmt.Errorf("heatmap response missing heatmap_data")
	}

	data := &models.HeatmapData{
		Center:       models.Location{Lat: lat, Lng: lng},
		RadiusKm:     radiusKm,
		Points:       resp.HeatmapData,
		SafetyScore:  resp.SafetyScore,
		TotalReports: resp.TotalReports,
	}
	if resp.Center != nil {
		data.Center = *resp.Center
	}
	if resp.RadiusKm > 0 {
		data.RadiusKm = resp.RadiusKm
	}
	if data.LastUpdated, err = models.ParseServerTime(resp.LastUpdated); err != nil {
		return nil, fmt.Errorf("heatmap last_updated: %w", err)
	}
	return data, nil
}

// SubmitReport posts a new incident report
func (c *HTTPClient) SubmitReport(ctx context.Context, report models.IncidentReport) (*models.ReportReceipt, error) {
	if err := report.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report: %w", err)
	}

	var resp reportResponse
	status, err := c.do(ctx, http.MethodPost, "/api/report", report, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{StatusCode: status, Message: resp.Error}
	}
	return &models.ReportReceipt{ReportID: resp.ReportID, Message: resp.Message}, nil
}

// VerifyReport records a community vote on an existing report
func (c *HTTPClient) VerifyReport(ctx context.Context, reportID int, vote models.Vote, reporterID string) (*models.Verification, error) {
	body := map[string]any{
		"report_id": reportID,
		"action":    vote,
		"user_id":   reporterID,
	}

	var resp verifyResponse
	status, err := c.do(ctx, http.MethodPost, "/api/reports/verify", body, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{StatusCode: status, Message: resp.Error}
	}
	return &resp.Verification, nil
}

// GetContacts retrieves the emergency service numbers
func (c *HTTPClient) GetContacts(ctx context.Context) (models.EmergencyContacts, error) {
	var contacts models.EmergencyContacts
	status, err := c.do(ctx, http.MethodGet, "/api/emergency/contacts", nil, &contacts)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", status)
	}
	return contacts, nil
}

// SendSOS posts an emergency signal
func (c *HTTPClient) SendSOS(ctx context.Context, signal models.EmergencySignal) (*models.SOSReceipt, error) {
	var resp sosResponse
	status, err := c.do(ctx, http.MethodPost, "/api/emergency/sos", signal, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &RemoteError{StatusCode: status, Message: resp.Error}
	}
	return &models.SOSReceipt{Message: resp.Message, ContactsNotified: resp.ContactsNotified}, nil
}

// PredictRisk retrieves the risk prediction for a location at an hour of day
func (c *HTTPClient) PredictRisk(ctx context.Context, lat, lng float64, hour int) (*models.RiskPrediction, error) {
	body := map[string]any{
		"latitude":    lat,
		"longitude":   lng,
		"time_of_day": hour,
	}

	var prediction models.RiskPrediction
	status, err := c.do(ctx, http.MethodPost, "/api/predict", body, &prediction)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", status)
	}
	return &prediction, nil
}

// SafeRoute retrieves the safest route between two points
func (c *HTTPClient) SafeRoute(ctx context.Context, from, to models.Location) (*models.SafeRoute, error) {
	body := map[string]any{
		"start_lat": from.Lat,
		"start_lng": from.Lng,
		"end_lat":   to.Lat,
		"end_lng":   to.Lng,
	}

	var route models.SafeRoute
	status, err := c.do(ctx, http.MethodPost, "/api/navigation/safe-route", body, &route)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", status)
	}
	return &route, nil
}

// ReverseGeocode resolves a coordinate to a place name
func (c *HTTPClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%.6f", lat))
	params.Set("lng", fmt.Sprintf("%.6f", lng))

	var resp geocodeResponse
	status, err := c.do(ctx, http.MethodGet, "/api/geocode/reverse?"+params.Encode(), nil, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &RemoteError{StatusCode: status, Message: resp.Error}
	}
	return resp.PlaceName, nil
}

// do sends a JSON request and decodes the JSON body into out whatever the status.
// Transport and decoding failures are returned as errors; the status is left to the caller.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to reach %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, fmt.Errorf("API returned status %d", resp.StatusCode)
		}
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// Internal types for API responses

type heatmapResponse struct {
	Center       *models.Location      `json:"center"`
	RadiusKm     float64               `json:"radius_km"`
	HeatmapData  []models.HeatmapPoint `json:"heatmap_data"`
	SafetyScore  int                   `json:"safety_score"`
	TotalReports int                   `json:"total_reports"`
	LastUpdated  string                `json:"last_updated"`
}

type reportResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ReportID int    `json:"report_id"`
	Error    string `json:"error"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	models.Verification
}

type sosResponse struct {
	Success          bool     `json:"success"`
	Message          string   `json:"message"`
	ContactsNotified []string `json:"contacts_notified"`
	Error            string   `json:"error"`
}

type geocodeResponse struct {
	Success     bool   `json:"success"`
	PlaceName   string `json:"place_name"`
	FullAddress string `json:"full_address"`
	Error       string `json:"error"`
}
