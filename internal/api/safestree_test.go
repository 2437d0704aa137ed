package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ngmaloney/safestree-terminal/internal/api/apitest"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:5000/", 30*time.Second)

	assert.Equal(t, "http://localhost:5000", client.BaseURL())
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}

func TestHTTPClient_GetHeatmap(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.HeatmapPoints = []models.HeatmapPoint{{Lat: 28.61, Lng: 77.20, Weight: 55, Type: "theft"}}
	srv.SafetyScore = 55

	client := NewClient(srv.URL, 5*time.Second)
	data, err := client.GetHeatmap(context.Background(), 28.6139, 77.2090, 5)
	require.NoError(t, err)

	require.Len(t, data.Points, 1)
	assert.Equal(t, "theft", data.Points[0].Type)
	assert.InDelta(t, 55.0, data.Points[0].Weight, 1e-9)
	assert.False(t, data.Points[0].Synthetic)
	assert.Equal(t, 1, data.TotalReports)
	assert.Equal(t, 55, data.SafetyScore)
	assert.InDelta(t, 5.0, data.RadiusKm, 1e-9)
	assert.InDelta(t, 28.6139, data.Center.Lat, 1e-6)
	assert.False(t, data.LastUpdated.IsZero())

	require.Len(t, srv.HeatmapQuery, 1)
	assert.Contains(t, srv.HeatmapQuery[0], "radius=5")
}

func TestHTTPClient_GetHeatmap_ServerError(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.FailStatus = http.StatusServiceUnavailable

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.GetHeatmap(context.Background(), 0, 0, 5)
	assert.ErrorContains(t, err, "status 503")
}

func TestHTTPClient_GetHeatmap_MissingData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_reports": 0}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.GetHeatmap(context.Background(), 0, 0, 5)
	assert.ErrorContains(t, err, "heatmap_data")
}

func TestHTTPClient_GetHeatmap_LastUpdated(t *testing.T) {
	tests := []struct {
		name     string
		stamp    string
		wantZero bool
		wantErr  bool
	}{
		{"naive iso", `"2024-03-01T12:00:00.123456"`, false, false},
		{"rfc3339", `"2024-03-01T12:00:00Z"`, false, false},
		{"absent", `""`, true, false},
		{"malformed", `"yesterday"`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"success": true, "heatmap_data": [], "last_updated": ` + tt.stamp + `}`))
			}))
			defer server.Close()

			client := NewClient(server.URL, 5*time.Second)
			data, err := client.GetHeatmap(context.Background(), 0, 0, 5)
			if tt.wantErr {
				assert.ErrorContains(t, err, "last_updated")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantZero, data.LastUpdated.IsZero())
		})
	}
}

func TestHTTPClient_GetHeatmap_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second)
	_, err := client.GetHeatmap(context.Background(), 0, 0, 5)
	assert.Error(t, err)
}

func TestHTTPClient_SubmitReport(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	report := models.IncidentReport{
		ReporterID:   "user_1",
		Latitude:     28.6139,
		Longitude:    77.2090,
		IncidentType: "stalking",
		Severity:     4,
		Description:  "Followed from the metro",
		Timestamp:    time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC),
	}

	receipt, err := client.SubmitReport(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, 1, receipt.ReportID)

	require.Len(t, srv.Reports, 1)
	got := srv.Reports[0]
	assert.Equal(t, "user_1", got.ReporterID)
	assert.Equal(t, "stalking", got.IncidentType)
	assert.Equal(t, 4, got.Severity)
	assert.True(t, report.Timestamp.Equal(got.Timestamp))
}

func TestHTTPClient_SubmitReport_Rejected(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.RejectReports = "could not convert string to float"

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.SubmitReport(context.Background(), models.IncidentReport{IncidentType: "theft", Severity: 3})

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, http.StatusBadRequest, remote.StatusCode)
	assert.Equal(t, "could not convert string to float", remote.Error())
}

func TestHTTPClient_SubmitReport_InvalidNeverSent(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.SubmitReport(context.Background(), models.IncidentReport{IncidentType: "theft", Severity: 9})

	assert.Error(t, err)
	assert.Equal(t, 0, srv.RequestCount())
}

func TestHTTPClient_VerifyReport(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := NewClient(srv.URL, 5*time.Second)

	_, err := client.SubmitReport(context.Background(), models.IncidentReport{IncidentType: "theft", Severity: 2})
	require.NoError(t, err)

	v, err := client.VerifyReport(context.Background(), 1, models.Upvote, "user_2")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Upvotes)
	assert.Equal(t, 0, v.Downvotes)
	assert.False(t, v.Verified)

	_, err = client.VerifyReport(context.Background(), 99, models.Downvote, "user_2")
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "Report not found", remote.Message)
}

func TestHTTPClient_Emergency(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := NewClient(srv.URL, 5*time.Second)

	contacts, err := client.GetContacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1091", contacts["women_helpline"])

	receipt, err := client.SendSOS(context.Background(), models.EmergencySignal{ReporterID: "user_1", Latitude: 1, Longitude: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"100", "102"}, receipt.ContactsNotified)
	require.Len(t, srv.Signals, 1)
	assert.InDelta(t, 2.0, srv.Signals[0].Longitude, 1e-9)
}

func TestHTTPClient_SendSOS_ServerDown(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.FailStatus = http.StatusInternalServerError

	client := NewClient(srv.URL, 5*time.Second)
	_, err := client.SendSOS(context.Background(), models.EmergencySignal{})
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPClient_SafetyEndpoints(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	client := NewClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	prediction, err := client.PredictRisk(ctx, 28.6, 77.2, 22)
	require.NoError(t, err)
	assert.Equal(t, "low", prediction.RiskLevel)

	from := models.Location{Lat: 28.6, Lng: 77.2}
	route, err := client.SafeRoute(ctx, from, from.Offset(0.01, 0.01))
	require.NoError(t, err)
	require.Len(t, route.Points, 3)
	assert.Equal(t, models.SafetyGreen, route.Level())
	assert.InDelta(t, 28.61, route.Points[2].Lat, 1e-9)

	name, err := client.ReverseGeocode(ctx, 28.6, 77.2)
	require.NoError(t, err)
	assert.Equal(t, "Connaught Place, New Delhi", name)
}

func TestHTTPClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		if r.Method == http.MethodPost {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	_, err := client.SendSOS(context.Background(), models.EmergencySignal{})
	assert.NoError(t, err)
}
