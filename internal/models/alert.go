package models

import (
	"strings"
	"time"
)

// AlertType classifies an alert feed entry
type AlertType string

const (
	AlertInfo      AlertType = "info"
	AlertWarning   AlertType = "warning"
	AlertEmergency AlertType = "emergency"
	AlertError     AlertType = "error"
)

// AlertSource records where an alert came from
type AlertSource string

const (
	SourceLive     AlertSource = "live"     // pushed by the live channel
	SourceBulletin AlertSource = "bulletin" // periodic community bulletins
	SourceLocal    AlertSource = "local"    // raised by this client (SOS, connection state)
)

// Alert is one entry in the on-screen alert feed
type Alert struct {
	ID        string
	Type      AlertType
	Message   string
	Timestamp time.Time
	TimeLabel string // Optional relative label, e.g. "10 mins ago"
	ExpiresAt time.Time
	Source    AlertSource
	ReportID  int // Set for alerts created from a new_report event
}

// AlertData carries optional metadata for a new alert
type AlertData struct {
	Timestamp time.Time
	TimeLabel string
	Source    AlertSource
	ReportID  int
}

// Label is the display heading for the alert, derived verbatim from its type
func (a *Alert) Label() string {
	return strings.ToUpper(string(a.Type)) + " ALERT"
}

// Icon returns the glyph shown next to the alert
func (a *Alert) Icon() string {
	switch a.Type {
	case AlertEmergency:
		return "▲"
	case AlertWarning:
		return "●"
	case AlertError:
		return "✗"
	default:
		return "ℹ"
	}
}

// DisplayTime prefers the relative label, falling back to the clock time
func (a *Alert) DisplayTime() string {
	if a.TimeLabel != "" {
		return a.TimeLabel
	}
	return a.Timestamp.Format("3:04:05 PM")
}

// IsExpired reports whether the alert's time-to-live has elapsed at now
func (a *Alert) IsExpired(now time.Time) bool {
	return !now.Before(a.ExpiresAt)
}
