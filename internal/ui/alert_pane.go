package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// maxVisibleAlerts bounds how many feed entries the pane shows at once
const maxVisibleAlerts = 8

// renderAlertPane renders the alert feed, most recent first
func (m Model) renderAlertPane(width int) string {
	alerts := m.feed.Alerts()

	var sections []string
	sections = append(sections, m.paneTitle(PaneAlerts, fmt.Sprintf("ALERTS (%d)", len(alerts))))

	if len(alerts) == 0 {
		sections = append(sections, "", successStyle.Render("✓ No active alerts"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	start := 0
	if m.selectedAlert >= maxVisibleAlerts {
		start = m.selectedAlert - maxVisibleAlerts + 1
	}
	end := start + maxVisibleAlerts
	if end > len(alerts) {
		end = len(alerts)
	}

	for i := start; i < end; i++ {
		selected := m.activePane == PaneAlerts && i == m.selectedAlert
		sections = append(sections, "", renderAlert(alerts[i], selected, width-4))
	}

	if hidden := len(alerts) - (end - start); hidden > 0 {
		sections = append(sections, "", mutedStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderAlert renders one feed entry
func renderAlert(a models.Alert, selected bool, width int) string {
	style := getAlertStyle(a.Type)

	cursor := "  "
	if selected {
		cursor = activeTitleStyle.Render("›") + " "
	}

	heading := cursor + style.Render(a.Icon()+" "+a.Label()) + "  " + mutedStyle.Render(a.DisplayTime())
	if a.ReportID > 0 {
		heading += mutedStyle.Render(fmt.Sprintf("  #%d", a.ReportID))
	}

	if width < 10 {
		width = 10
	}
	message := lipgloss.NewStyle().Width(width).PaddingLeft(4).Render(strings.TrimSpace(a.Message))

	return heading + "\n" + message
}
