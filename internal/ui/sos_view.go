package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// viewSOSConfirm renders the SOS confirmation prompt
func (m Model) viewSOSConfirm() string {
	lines := []string{
		alertEmergencyStyle.Render("▲ EMERGENCY SOS"),
		"",
		"This will alert emergency services and your contacts",
		"with your current location.",
	}
	if m.location != nil {
		lines = append(lines, "", labelStyle.Render("Location: ")+valueStyle.Render(m.location.String()))
	}

	lines = append(lines, "", sectionHeaderStyle.Render("Emergency numbers"), contactsSummary(m.contacts))

	if m.sending {
		lines = append(lines, "", mutedStyle.Render(m.spinner.View()+" Sending SOS..."))
	} else {
		lines = append(lines, helpStyle.Render("y/Enter: Send SOS • n/Esc: Back"))
	}

	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// viewCountdown renders the running SOS countdown overlay
func (m Model) viewCountdown() string {
	remaining := m.countdown.Remaining()
	hint := "Press ctrl+x to cancel"
	if m.state == StateDisplay {
		hint = "Press c or ctrl+x to cancel"
	}
	return countdownStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		"SOS ACTIVE",
		"",
		fmt.Sprintf("Police will be notified in %s s", m.countdown.Display()),
		fmt.Sprintf("%d:%02d", remaining/60, remaining%60),
		"",
		hint,
	))
}
