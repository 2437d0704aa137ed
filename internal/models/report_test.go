package models

import (
	"testing"
)

func TestIncidentReport_Validate(t *testing.T) {
	tests := []struct {
		name    string
		report  IncidentReport
		wantErr bool
	}{
		{"valid", IncidentReport{IncidentType: "theft", Severity: 3}, false},
		{"lowest severity", IncidentReport{IncidentType: "theft", Severity: 1}, false},
		{"highest severity", IncidentReport{IncidentType: "theft", Severity: 5}, false},
		{"severity zero", IncidentReport{IncidentType: "theft", Severity: 0}, true},
		{"severity six", IncidentReport{IncidentType: "theft", Severity: 6}, true},
		{"blank type", IncidentReport{IncidentType: "  ", Severity: 3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.report.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReportNotice_ReportedAt(t *testing.T) {
	tests := []struct {
		name     string
		stamp    string
		wantZero bool
		wantHour int
	}{
		{"naive iso with micros", "2024-03-01T14:30:00.123456", false, 14},
		{"naive iso", "2024-03-01T09:15:00", false, 9},
		{"rfc3339", "2024-03-01T18:00:00Z", false, 18},
		{"empty", "", true, 0},
		{"garbage", "yesterday", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := ReportNotice{Timestamp: tt.stamp}
			got := n.ReportedAt()
			if got.IsZero() != tt.wantZero {
				t.Fatalf("ReportedAt() zero = %v, want %v", got.IsZero(), tt.wantZero)
			}
			if !tt.wantZero && got.Hour() != tt.wantHour {
				t.Errorf("ReportedAt().Hour() = %d, want %d", got.Hour(), tt.wantHour)
			}
		})
	}
}

func TestLocation_Offset(t *testing.T) {
	l := Location{Lat: 28.6139, Lng: 77.2090}
	got := l.Offset(0.01, -0.01)
	if got.String() != "28.6239, 77.1990" {
		t.Errorf("Offset() = %s, want 28.6239, 77.1990", got)
	}
}
