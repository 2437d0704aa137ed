package models

import (
	"testing"
	"time"
)

func TestAlert_IsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{"expires in the future", now.Add(time.Minute), false},
		{"expires exactly now", now, true},
		{"expired in the past", now.Add(-time.Minute), true},
		{"one nanosecond left", now.Add(time.Nanosecond), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := Alert{ExpiresAt: tt.expires}
			if got := alert.IsExpired(now); got != tt.want {
				t.Errorf("Alert.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAlert_Label(t *testing.T) {
	tests := []struct {
		alertType AlertType
		want      string
		icon      string
	}{
		{AlertInfo, "INFO ALERT", "ℹ"},
		{AlertWarning, "WARNING ALERT", "●"},
		{AlertEmergency, "EMERGENCY ALERT", "▲"},
		{AlertError, "ERROR ALERT", "✗"},
	}

	for _, tt := range tests {
		t.Run(string(tt.alertType), func(t *testing.T) {
			alert := Alert{Type: tt.alertType}
			if got := alert.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
			if got := alert.Icon(); got != tt.icon {
				t.Errorf("Icon() = %q, want %q", got, tt.icon)
			}
		})
	}
}

func TestAlert_DisplayTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

	withLabel := Alert{Timestamp: ts, TimeLabel: "10 mins ago"}
	if got := withLabel.DisplayTime(); got != "10 mins ago" {
		t.Errorf("DisplayTime() = %q, want label", got)
	}

	plain := Alert{Timestamp: ts}
	if got := plain.DisplayTime(); got != "3:04:05 PM" {
		t.Errorf("DisplayTime() = %q, want 3:04:05 PM", got)
	}
}
