package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/safestree-terminal/internal/heatmap"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#E84393") // SafeStree pink
	colorSecondary = lipgloss.Color("#FD79A8") // Light pink
	colorDanger    = lipgloss.Color("#FF6B6B") // Red for emergencies
	colorWarning   = lipgloss.Color("#FFD93D") // Yellow for warnings
	colorSuccess   = lipgloss.Color("#6BCF7F") // Green
	colorInfo      = lipgloss.Color("#00BFFF") // Blue for info
	colorMuted     = lipgloss.Color("#6C757D") // Gray
	colorBorder    = lipgloss.Color("#A29BFE") // Border lavender

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	activeTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorPrimary)

	// Pane styles
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	activePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	// Alert type styles
	alertEmergencyStyle = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)

	alertWarningStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	alertErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8C42")).
			Bold(true)

	alertInfoStyle = lipgloss.NewStyle().
			Foreground(colorInfo)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0, 0, 0)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorWarning).
			Padding(0, 1)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorSecondary).
			Padding(0, 1)

	// Section header styles
	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginTop(1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 3)

	countdownStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorDanger).
			Foreground(colorDanger).
			Bold(true).
			Padding(1, 4).
			Align(lipgloss.Center)

	// Map styles
	mapBackgroundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	mapZoneStyle       = lipgloss.NewStyle().Foreground(colorSuccess)
	mapRouteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00")).Bold(true)
	mapUserStyle       = lipgloss.NewStyle().Foreground(colorInfo).Bold(true)
)

// getAlertStyle returns the appropriate style for an alert type
func getAlertStyle(t models.AlertType) lipgloss.Style {
	switch t {
	case models.AlertEmergency:
		return alertEmergencyStyle
	case models.AlertWarning:
		return alertWarningStyle
	case models.AlertError:
		return alertErrorStyle
	default:
		return alertInfoStyle
	}
}

// markerStyle colours a marker by its level
func markerStyle(level heatmap.Level) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(level.Hex()))
}

// safetyStyle colours a safety level
func safetyStyle(level models.SafetyLevel) lipgloss.Style {
	switch level {
	case models.SafetyGreen:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(heatmap.Green.Hex())).Bold(true)
	case models.SafetyYellow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(heatmap.Yellow.Hex())).Bold(true)
	case models.SafetyOrange:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(heatmap.Orange.Hex())).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(heatmap.Red.Hex())).Bold(true)
	}
}
