package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultIncidentType is preselected in the report form
const DefaultIncidentType = "harassment"

// DefaultSeverity is the severity the report form starts from
const DefaultSeverity = 3

// IncidentTypes lists the incident categories offered by the report form
var IncidentTypes = []string{"harassment", "stalking", "theft", "assault", "unsafe_area", "other"}

// IncidentReport is a user-submitted safety incident
type IncidentReport struct {
	ReporterID   string    `json:"user_id"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	IncidentType string    `json:"type"`
	Severity     int       `json:"severity"` // 1-5
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}

// Validate checks the fields the server requires
func (r *IncidentReport) Validate() error {
	if strings.TrimSpace(r.IncidentType) == "" {
		return errors.New("incident type is required")
	}
	if r.Severity < 1 || r.Severity > 5 {
		return fmt.Errorf("severity must be between 1 and 5, got %d", r.Severity)
	}
	return nil
}

// ReportReceipt is the server's answer to a report submission
type ReportReceipt struct {
	ReportID int
	Message  string
}

// Vote is a community verification action on a report
type Vote string

const (
	Upvote   Vote = "upvote"
	Downvote Vote = "downvote"
)

// Verification is the tally returned after voting on a report
type Verification struct {
	Upvotes   int  `json:"upvotes"`
	Downvotes int  `json:"downvotes"`
	Verified  bool `json:"verified"`
}

// ReportNotice is the payload of a live new_report event
type ReportNotice struct {
	ID           int     `json:"id"`
	ReporterID   string  `json:"user_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	IncidentType string  `json:"incident_type"`
	Severity     int     `json:"severity"`
	Description  string  `json:"description"`
	Timestamp    string  `json:"timestamp"`
	Status       string  `json:"status"`
}

// ReportedAt parses the server timestamp, returning the zero time if absent or malformed
func (n *ReportNotice) ReportedAt() time.Time {
	t, err := ParseServerTime(n.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseServerTime accepts RFC3339 and the naive ISO format emitted by the API.
// An empty string is the zero time.
func ParseServerTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
