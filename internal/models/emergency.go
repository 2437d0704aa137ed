package models

import (
	"sort"
	"strings"
)

// EmergencySignal is sent when the user confirms an SOS
type EmergencySignal struct {
	ReporterID string  `json:"user_id"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// SOSReceipt is the server's answer to an SOS
type SOSReceipt struct {
	Message          string
	ContactsNotified []string
}

// EmergencyNotice is the payload of a live emergency_alert event
type EmergencyNotice struct {
	ReporterID       string   `json:"user_id"`
	Location         Location `json:"location"`
	Timestamp        string   `json:"timestamp"`
	Status           string   `json:"status"`
	ContactsNotified []string `json:"emergency_contacts_notified"`
}

// EmergencyContacts maps a service name (e.g. "women_helpline") to a phone number
type EmergencyContacts map[string]string

// Contact is a single display-ready emergency number
type Contact struct {
	Service string
	Number  string
}

// DefaultEmergencyContacts is shown when the contact list cannot be fetched
func DefaultEmergencyContacts() EmergencyContacts {
	return EmergencyContacts{
		"police":             "100",
		"ambulance":          "102",
		"women_helpline":     "1091",
		"national_emergency": "112",
	}
}

// Sorted returns the contacts ordered by number, with service names made readable
func (c EmergencyContacts) Sorted() []Contact {
	contacts := make([]Contact, 0, len(c))
	for service, number := range c {
		contacts = append(contacts, Contact{
			Service: strings.ToUpper(strings.ReplaceAll(service, "_", " ")),
			Number:  number,
		})
	}
	sort.Slice(contacts, func(i, j int) bool {
		if len(contacts[i].Number) != len(contacts[j].Number) {
			return len(contacts[i].Number) < len(contacts[j].Number)
		}
		if contacts[i].Number != contacts[j].Number {
			return contacts[i].Number < contacts[j].Number
		}
		return contacts[i].Service < contacts[j].Service
	})
	return contacts
}
