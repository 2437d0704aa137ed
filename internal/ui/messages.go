package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/safestree-terminal/internal/api"
	"github.com/ngmaloney/safestree-terminal/internal/feed"
	"github.com/ngmaloney/safestree-terminal/internal/live"
	"github.com/ngmaloney/safestree-terminal/internal/location"
	"github.com/ngmaloney/safestree-terminal/internal/models"
)

// Message types for async operations

// locationResolvedMsg is sent when the location provider answers
type locationResolvedMsg struct {
	result location.Result
	silent bool // no fallback dialog, e.g. when opening the report form
}

// heatmapLoadedMsg is sent when a heatmap fetch completes
type heatmapLoadedMsg struct {
	center  models.Location
	data    *models.HeatmapData
	err     error
	refresh bool // user-requested refresh
}

// contactsLoadedMsg is sent when the emergency contacts have been fetched
type contactsLoadedMsg struct {
	contacts models.EmergencyContacts
	err      error
}

// reportSubmittedMsg is sent when a report submission completes
type reportSubmittedMsg struct {
	receipt *models.ReportReceipt
	err     error
}

// sosSentMsg is sent when the emergency signal has been posted
type sosSentMsg struct {
	receipt *models.SOSReceipt
	err     error
}

// countdownTickMsg advances the SOS countdown with the given ID
type countdownTickMsg struct {
	id string
}

// alertExpiredMsg removes an alert whose time-to-live has elapsed
type alertExpiredMsg struct {
	id string
}

// toastExpiredMsg hides the toast with the given sequence number
type toastExpiredMsg struct {
	seq int
}

// statsTickMsg triggers the periodic stats refresh
type statsTickMsg struct{}

// bulletinTickMsg triggers the periodic bulletin poll
type bulletinTickMsg struct{}

// bulletinsMsg carries the latest community bulletins
type bulletinsMsg struct {
	alerts []models.Alert
	err    error
}

// liveEventMsg wraps an event from the live channel
type liveEventMsg struct {
	event live.Event
}

// liveStoppedMsg is sent when the live channel's Run returns
type liveStoppedMsg struct {
	err error
}

// routeMsg is sent when a safe route has been calculated
type routeMsg struct {
	route *models.SafeRoute
	err   error
}

// riskMsg carries the risk prediction for a location
type riskMsg struct {
	center     models.Location
	prediction *models.RiskPrediction
	err        error
}

// placeNameMsg carries the reverse-geocoded name of a location
type placeNameMsg struct {
	center models.Location
	name   string
	err    error
}

// verifyMsg is sent when a community vote has been recorded
type verifyMsg struct {
	reportID     int
	vote         models.Vote
	verification *models.Verification
	err          error
}

// Commands

func resolveLocation(ctx context.Context, locator Locator, timeout time.Duration, silent bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		return locationResolvedMsg{result: locator.Resolve(ctx), silent: silent}
	}
}

func loadHeatmap(ctx context.Context, client api.HeatmapClient, center models.Location, radiusKm float64, timeout time.Duration, refresh bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		data, err := client.GetHeatmap(ctx, center.Lat, center.Lng, radiusKm)
		return heatmapLoadedMsg{center: center, data: data, err: err, refresh: refresh}
	}
}

func loadContacts(ctx context.Context, client api.EmergencyClient, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		contacts, err := client.GetContacts(ctx)
		return contactsLoadedMsg{contacts: contacts, err: err}
	}
}

func submitReport(ctx context.Context, client api.ReportClient, report models.IncidentReport, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		receipt, err := client.SubmitReport(ctx, report)
		return reportSubmittedMsg{receipt: receipt, err: err}
	}
}

func sendSOS(ctx context.Context, client api.EmergencyClient, signal models.EmergencySignal, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		receipt, err := client.SendSOS(ctx, signal)
		return sosSentMsg{receipt: receipt, err: err}
	}
}

func fetchRoute(ctx context.Context, client api.SafetyClient, from, to models.Location, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		route, err := client.SafeRoute(ctx, from, to)
		return routeMsg{route: route, err: err}
	}
}

func fetchRisk(ctx context.Context, client api.SafetyClient, center models.Location, hour int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		prediction, err := client.PredictRisk(ctx, center.Lat, center.Lng, hour)
		return riskMsg{center: center, prediction: prediction, err: err}
	}
}

func fetchPlaceName(ctx context.Context, client api.SafetyClient, center models.Location, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		name, err := client.ReverseGeocode(ctx, center.Lat, center.Lng)
		return placeNameMsg{center: center, name: name, err: err}
	}
}

func verifyReport(ctx context.Context, client api.ReportClient, reportID int, vote models.Vote, reporterID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		v, err := client.VerifyReport(ctx, reportID, vote, reporterID)
		return verifyMsg{reportID: reportID, vote: vote, verification: v, err: err}
	}
}

func fetchBulletins(ctx context.Context, source feed.BulletinSource, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		alerts, err := source.Bulletins(ctx)
		return bulletinsMsg{alerts: alerts, err: err}
	}
}

// runLive runs the channel until it stops; events arrive through waitForLiveEvent
func runLive(ctx context.Context, ch live.Channel, events chan<- live.Event) tea.Cmd {
	return func() tea.Msg {
		return liveStoppedMsg{err: ch.Run(ctx, events)}
	}
}

// waitForLiveEvent blocks until the next live event. It is re-issued after each one.
func waitForLiveEvent(events <-chan live.Event) tea.Cmd {
	return func() tea.Msg {
		return liveEventMsg{event: <-events}
	}
}

func countdownTick(id string, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return countdownTickMsg{id: id}
	})
}

func expireAlert(id string, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return alertExpiredMsg{id: id}
	})
}

func expireToast(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func statsTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return statsTickMsg{}
	})
}

func bulletinTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return bulletinTickMsg{}
	})
}
