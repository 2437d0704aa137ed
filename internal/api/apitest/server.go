// Package apitest provides an in-process fake of the SafeStree API for tests
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// Server is a fake SafeStree API. Fields may be changed between requests;
// received submissions are recorded for assertions.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	HeatmapPoints []models.HeatmapPoint
	SafetyScore   int
	Contacts      models.EmergencyContacts
	Route         models.SafeRoute
	Prediction    models.RiskPrediction
	PlaceName     string

	// FailStatus, when non-zero, is returned by every endpoint
	FailStatus int
	// RejectReports makes /api/report answer success=false with this message
	RejectReports string

	Reports      []models.IncidentReport
	Signals      []models.EmergencySignal
	Votes        []map[string]any
	HeatmapQuery []string
	Requests     int
}

// NewServer starts a fake API with a default contact list and route
func NewServer() *Server {
	s := &Server{
		SafetyScore: 100,
		Contacts:    models.DefaultEmergencyContacts(),
		Route: models.SafeRoute{
			SafetyScore:   85,
			EstimatedTime: "15 mins",
			Distance:      "2.5 km",
			Warnings:      []string{"Well-lit route recommended"},
		},
		Prediction: models.RiskPrediction{RiskScore: 20, RiskLevel: "low", SafetyColor: "green"},
		PlaceName:  "Connaught Place, New Delhi",
	}
	s.Server = httptest.NewServer(s.router())
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.countAndFail)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/heatmap", s.handleHeatmap).Methods(http.MethodGet)
	api.HandleFunc("/report", s.handleReport).Methods(http.MethodPost)
	api.HandleFunc("/reports/verify", s.handleVerify).Methods(http.MethodPost)
	api.HandleFunc("/emergency/contacts", s.handleContacts).Methods(http.MethodGet)
	api.HandleFunc("/emergency/sos", s.handleSOS).Methods(http.MethodPost)
	api.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	api.HandleFunc("/navigation/safe-route", s.handleRoute).Methods(http.MethodPost)
	api.HandleFunc("/geocode/reverse", s.handleReverse).Methods(http.MethodGet)
	return r
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.Requests++
		fail := s.FailStatus
		s.mu.Unlock()

		if fail != 0 {
			http.Error(w, http.StatusText(fail), fail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestCount returns the number of requests received so far
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Requests
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := r.URL.Query()
	s.HeatmapQuery = append(s.HeatmapQuery, q.Encode())
	lat, _ := strconv.ParseFloat(q.Get("lat"), 64)
	lng, _ := strconv.ParseFloat(q.Get("lng"), 64)
	radius, _ := strconv.ParseFloat(q.Get("radius"), 64)

	points := s.HeatmapPoints
	if points == nil {
		points = []models.HeatmapPoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"center":        map[string]float64{"lat": lat, "lng": lng},
		"radius_km":     radius,
		"heatmap_data":  points,
		"safety_score":  s.SafetyScore,
		"total_reports": len(points),
		"last_updated":  "2024-03-01T12:00:00.000000",
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var report models.IncidentReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RejectReports != "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": s.RejectReports})
		return
	}
	s.Reports = append(s.Reports, report)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Report submitted successfully",
		"report_id": len(s.Reports),
	})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := body["report_id"].(float64)
	if int(id) < 1 || int(id) > len(s.Reports) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Report not found"})
		return
	}
	s.Votes = append(s.Votes, body)

	up, down := 0, 0
	for _, v := range s.Votes {
		if v["report_id"] != body["report_id"] {
			continue
		}
		switch v["action"] {
		case string(models.Upvote):
			up++
		case string(models.Downvote):
			down++
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"upvotes":   up,
		"downvotes": down,
		"verified":  up >= 5 && up > down*2,
	})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Contacts)
}

func (s *Server) handleSOS(w http.ResponseWriter, r *http.Request) {
	var signal models.EmergencySignal
	if err := json.NewDecoder(r.Body).Decode(&signal); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Signals = append(s.Signals, signal)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           "SOS activated! Help is on the way.",
		"contacts_notified": []string{"100", "102"},
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.Prediction)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		StartLat float64 `json:"start_lat"`
		StartLng float64 `json:"start_lng"`
		EndLat   float64 `json:"end_lat"`
		EndLng   float64 `json:"end_lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	route := s.Route
	route.Points = []models.RoutePoint{
		{Lat: body.StartLat, Lng: body.StartLng, Safety: 85},
		{Lat: (body.StartLat + body.EndLat) / 2, Lng: (body.StartLng + body.EndLng) / 2, Safety: 70},
		{Lat: body.EndLat, Lng: body.EndLng, Safety: 90},
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleReverse(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"place_name":   s.PlaceName,
		"full_address": s.PlaceName + ", India",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
