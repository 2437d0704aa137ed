package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// dialogKind selects the dialog's accent
type dialogKind int

const (
	dialogInfo dialogKind = iota
	dialogSuccess
	dialogError
	dialogEmergency
)

// dialog is a blocking message dismissed by any key
type dialog struct {
	title string
	body  string
	kind  dialogKind
}

func (d dialog) view(width int) string {
	var heading lipgloss.Style
	switch d.kind {
	case dialogSuccess:
		heading = successStyle.Bold(true)
	case dialogError:
		heading = alertErrorStyle
	case dialogEmergency:
		heading = alertEmergencyStyle
	default:
		heading = titleStyle
	}

	maxWidth := width - 10
	if maxWidth > 70 {
		maxWidth = 70
	}
	if maxWidth < 20 {
		maxWidth = 20
	}

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		heading.Render(d.title),
		"",
		lipgloss.NewStyle().Width(maxWidth).Render(d.body),
		helpStyle.Render("Press any key to continue"),
	))
}

// routeRecommendations are shown with every safe route
var routeRecommendations = []string{
	"Stay in well-lit areas",
	"Avoid shortcuts",
	"Share your live location",
}

// routeSummary renders a safe route for the route dialog
func routeSummary(r *models.SafeRoute) string {
	level := r.Level()
	lines := []string{
		fmt.Sprintf("Safety score: %s", safetyStyle(level).Render(fmt.Sprintf("%d/100 (%s)", r.SafetyScore, strings.ToUpper(string(level))))),
		fmt.Sprintf("Distance: %s • Estimated time: %s", orDash(r.Distance), orDash(r.EstimatedTime)),
		fmt.Sprintf("Waypoints: %d", len(r.Points)),
	}
	if len(r.Warnings) > 0 {
		lines = append(lines, "", alertWarningStyle.Render("Warnings:"))
		for _, w := range r.Warnings {
			lines = append(lines, "  • "+w)
		}
	}
	lines = append(lines, "", labelStyle.Render("Recommendations:"))
	for _, rec := range routeRecommendations {
		lines = append(lines, "  • "+rec)
	}
	return strings.Join(lines, "\n")
}

// contactsSummary renders the emergency numbers
func contactsSummary(c models.EmergencyContacts) string {
	contacts := c.Sorted()
	if len(contacts) == 0 {
		contacts = models.DefaultEmergencyContacts().Sorted()
	}
	lines := make([]string, 0, len(contacts))
	for _, contact := range contacts {
		lines = append(lines, fmt.Sprintf("%-22s %s", contact.Service, valueStyle.Bold(true).Render(contact.Number)))
	}
	return strings.Join(lines, "\n")
}

// riskStyle colours a risk prediction by the server's safety colour
func riskStyle(r *models.RiskPrediction) lipgloss.Style {
	switch strings.ToLower(r.SafetyColor) {
	case "green":
		return safetyStyle(models.SafetyGreen)
	case "yellow":
		return safetyStyle(models.SafetyYellow)
	case "orange":
		return safetyStyle(models.SafetyOrange)
	case "red":
		return safetyStyle(models.SafetyRed)
	default:
		return valueStyle
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
