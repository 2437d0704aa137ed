// Package feed holds the on-screen alert feed
package feed

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// DefaultTTL is how long an alert stays in the feed
const DefaultTTL = 30 * time.Minute

// Feed is an ordered list of alerts, most recent first.
// It is owned by the UI model and is not safe for concurrent use.
type Feed struct {
	clock  clockwork.Clock
	ttl    time.Duration
	alerts []models.Alert
}

// New creates an empty feed. A non-positive ttl selects DefaultTTL.
func New(clock clockwork.Clock, ttl time.Duration) *Feed {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Feed{clock: clock, ttl: ttl}
}

// TTL returns the time-to-live applied to new alerts
func (f *Feed) TTL() time.Duration {
	return f.ttl
}

// Add inserts an alert at the front of the feed and returns it.
// Identical messages are not merged.
func (f *Feed) Add(message string, alertType models.AlertType, data models.AlertData) models.Alert {
	now := f.clock.Now()
	alert := models.Alert{
		ID:        uuid.NewString(),
		Type:      alertType,
		Message:   message,
		Timestamp: now,
		TimeLabel: data.TimeLabel,
		ExpiresAt: now.Add(f.ttl),
		Source:    data.Source,
		ReportID:  data.ReportID,
	}
	if !data.Timestamp.IsZero() {
		alert.Timestamp = data.Timestamp
	}
	if alert.Source == "" {
		alert.Source = models.SourceLocal
	}

	f.alerts = append([]models.Alert{alert}, f.alerts...)
	return alert
}

// Remove deletes the alert with the given ID, reporting whether it was present
func (f *Feed) Remove(id string) bool {
	for i := range f.alerts {
		if f.alerts[i].ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return true
		}
	}
	return false
}

// Prune drops every alert whose expiry is at or before now and returns how many were removed
func (f *Feed) Prune(now time.Time) int {
	kept := f.alerts[:0]
	for _, a := range f.alerts {
		if !a.IsExpired(now) {
			kept = append(kept, a)
		}
	}
	removed := len(f.alerts) - len(kept)
	f.alerts = kept
	return removed
}

// ReplaceSource removes every alert from src and inserts alerts at the front in the given order.
// Missing IDs, timestamps and expiry times are filled in. The stored alerts are returned.
func (f *Feed) ReplaceSource(src models.AlertSource, alerts []models.Alert) []models.Alert {
	kept := make([]models.Alert, 0, len(f.alerts))
	for _, a := range f.alerts {
		if a.Source != src {
			kept = append(kept, a)
		}
	}

	now := f.clock.Now()
	added := make([]models.Alert, len(alerts))
	for i, a := range alerts {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Timestamp.IsZero() {
			a.Timestamp = now
		}
		if a.ExpiresAt.IsZero() {
			a.ExpiresAt = now.Add(f.ttl)
		}
		a.Source = src
		added[i] = a
	}

	f.alerts = append(added, kept...)
	return append([]models.Alert(nil), added...)
}

// Alerts returns a copy of the feed, most recent first
func (f *Feed) Alerts() []models.Alert {
	return append([]models.Alert(nil), f.alerts...)
}

// Len returns the number of alerts in the feed
func (f *Feed) Len() int {
	return len(f.alerts)
}
