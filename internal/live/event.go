// Package live connects to the server's push channel and delivers safety events
package live

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// Server event names
const (
	NameNewReport      = "new_report"
	NameEmergencyAlert = "emergency_alert"
	NameConnected      = "connected" // server greeting sent after every connect
)

// errIgnoredEvent marks server events that carry nothing for the client
var errIgnoredEvent = errors.New("ignored event")

// EventType identifies a live channel event
type EventType int

const (
	EventConnected EventType = iota
	EventDisconnected
	EventNewReport
	EventEmergencyAlert
	EventGaveUp
)

func (t EventType) String() string {
	switch t {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventNewReport:
		return NameNewReport
	case EventEmergencyAlert:
		return NameEmergencyAlert
	case EventGaveUp:
		return "gave_up"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is delivered by a Channel
type Event struct {
	Type      EventType
	Report    *models.ReportNotice    // EventNewReport
	Emergency *models.EmergencyNotice // EventEmergencyAlert
	Err       error                   // EventDisconnected, EventGaveUp
}

// decodeEvent converts a named server event and its JSON payload into an Event
func decodeEvent(name string, payload []byte) (Event, error) {
	switch name {
	case NameNewReport:
		var report models.ReportNotice
		if err := json.Unmarshal(payload, &report); err != nil {
			return Event{}, fmt.Errorf("decoding %s: %w", name, err)
		}
		return Event{Type: EventNewReport, Report: &report}, nil
	case NameEmergencyAlert:
		var notice models.EmergencyNotice
		if err := json.Unmarshal(payload, &notice); err != nil {
			return Event{}, fmt.Errorf("decoding %s: %w", name, err)
		}
		return Event{Type: EventEmergencyAlert, Emergency: &notice}, nil
	case NameConnected:
		return Event{}, fmt.Errorf("%s: %w", name, errIgnoredEvent)
	default:
		return Event{}, fmt.Errorf("unknown event %q", name)
	}
}
