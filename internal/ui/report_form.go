package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// formField is the focused report form field
type formField int

const (
	fieldType formField = iota
	fieldSeverity
	fieldDescription
	fieldCount
)

// reportForm collects an incident report
type reportForm struct {
	typeIdx     int
	severity    int
	focus       formField
	description textinput.Model
}

func newReportForm() reportForm {
	ti := textinput.New()
	ti.Placeholder = "What happened? (optional)"
	ti.CharLimit = 500
	ti.Width = 50

	f := reportForm{description: ti}
	f.reset()
	return f
}

// reset restores the defaults and clears the description
func (f *reportForm) reset() {
	f.typeIdx = 0
	for i, t := range models.IncidentTypes {
		if t == models.DefaultIncidentType {
			f.typeIdx = i
		}
	}
	f.severity = models.DefaultSeverity
	f.focus = fieldType
	f.description.SetValue("")
	f.description.Blur()
}

func (f reportForm) incidentType() string {
	return models.IncidentTypes[f.typeIdx]
}

// report assembles the incident report for submission
func (f reportForm) report(reporterID string, loc models.Location, now time.Time) models.IncidentReport {
	return models.IncidentReport{
		ReporterID:   reporterID,
		Latitude:     loc.Lat,
		Longitude:    loc.Lng,
		IncidentType: f.incidentType(),
		Severity:     f.severity,
		Description:  strings.TrimSpace(f.description.Value()),
		Timestamp:    now,
	}
}

func (f *reportForm) setFocus(field formField) {
	f.focus = (field + fieldCount) % fieldCount
	if f.focus == fieldDescription {
		f.description.Focus()
	} else {
		f.description.Blur()
	}
}

// update handles a key press on the focused field. Enter and Esc are handled by the model.
func (f reportForm) update(msg tea.KeyMsg) (reportForm, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.setFocus(f.focus + 1)
		return f, nil
	case tea.KeyShiftTab, tea.KeyUp:
		f.setFocus(f.focus - 1)
		return f, nil
	}

	switch f.focus {
	case fieldType:
		switch msg.Type {
		case tea.KeyLeft:
			f.typeIdx = (f.typeIdx - 1 + len(models.IncidentTypes)) % len(models.IncidentTypes)
		case tea.KeyRight:
			f.typeIdx = (f.typeIdx + 1) % len(models.IncidentTypes)
		}
	case fieldSeverity:
		switch msg.Type {
		case tea.KeyLeft:
			if f.severity > 1 {
				f.severity--
			}
		case tea.KeyRight:
			if f.severity < 5 {
				f.severity++
			}
		case tea.KeyRunes:
			if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '5' {
				f.severity = int(msg.Runes[0] - '0')
			}
		}
	case fieldDescription:
		var cmd tea.Cmd
		f.description, cmd = f.description.Update(msg)
		return f, cmd
	}
	return f, nil
}

// view renders the form
func (f reportForm) view(submitting bool) string {
	label := func(field formField, text string) string {
		if f.focus == field {
			return activeTitleStyle.Render(" " + text + " ")
		}
		return labelStyle.Render(" " + text + " ")
	}

	types := make([]string, len(models.IncidentTypes))
	for i, t := range models.IncidentTypes {
		name := strings.ReplaceAll(t, "_", " ")
		if i == f.typeIdx {
			types[i] = valueStyle.Bold(true).Render("[" + name + "]")
		} else {
			types[i] = mutedStyle.Render(name)
		}
	}

	stars := strings.Repeat("★", f.severity) + strings.Repeat("☆", 5-f.severity)

	var lines []string
	lines = append(lines,
		titleStyle.Render("Report an Incident"),
		"",
		label(fieldType, "Type"),
		"  "+strings.Join(types, "  "),
		"",
		label(fieldSeverity, "Severity"),
		fmt.Sprintf("  %s  %d/5", alertWarningStyle.Render(stars), f.severity),
		"",
		label(fieldDescription, "Description"),
		"  "+f.description.View(),
	)

	if submitting {
		lines = append(lines, "", mutedStyle.Render("Submitting report..."))
	}

	lines = append(lines, helpStyle.Render("Tab: Next field • ←/→: Change • 1-5: Severity • Enter: Submit • Esc: Cancel"))

	return paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
