package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/safestree-terminal/internal/api"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/feed"
	"github.com/ngmaloney/safestree-terminal/internal/heatmap"
	"github.com/ngmaloney/safestree-terminal/internal/live"
	"github.com/ngmaloney/safestree-terminal/internal/location"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
	"github.com/ngmaloney/safestree-terminal/internal/sos"
	"github.com/ngmaloney/safestree-terminal/internal/zones"
)

// toastDuration is how long transient notices stay on screen
const toastDuration = 3 * time.Second

// routeOffset is the distance, in degrees north and east, of the safe route destination
const routeOffset = 0.01

// AppState represents the current state of the application
type AppState int

const (
	StateDisplay    AppState = iota // Map and alert feed
	StateReport                     // Incident report form
	StateSOSConfirm                 // SOS confirmation prompt
	StatePlaces                     // Saved places list
	StatePlaceName                  // Naming the current location before saving it
)

// ActivePane represents which pane is currently focused
type ActivePane int

const (
	PaneMap ActivePane = iota
	PaneAlerts
)

// Locator resolves the user's current position
type Locator interface {
	Resolve(ctx context.Context) location.Result
}

// Options carries the model's collaborators. Config and API are required; the rest default.
type Options struct {
	Config    *config.Config
	API       api.Client
	Live      live.Channel // nil disables live updates
	Locator   Locator
	Places    PlaceStore // nil disables saved places
	Zones     *zones.Set
	Bulletins feed.BulletinSource
	Metrics   *observability.Metrics
	Logger    *slog.Logger
	Clock     clockwork.Clock
	Rand      *rand.Rand
	Context   context.Context
	Bell      io.Writer // receives the terminal bell on emergency alerts
}

// Model represents the application's state
type Model struct {
	state      AppState
	activePane ActivePane
	width      int
	height     int

	cfg       *config.Config
	ctx       context.Context
	client    api.Client
	liveCh    live.Channel
	locator   Locator
	places    PlaceStore
	zones     *zones.Set
	bulletins feed.BulletinSource
	metrics   *observability.Metrics
	logger    *slog.Logger
	clock     clockwork.Clock
	rng       *rand.Rand
	bell      io.Writer

	// Current location, written only by locationResolvedMsg
	location         *models.Location
	locationFallback bool
	locating         bool
	placeName        string
	risk             *models.RiskPrediction
	zoneName         string

	// Heatmap
	heatmap        *models.HeatmapData
	heatmapErr     error
	markers        []heatmap.Marker
	selectedMarker int
	loadingHeatmap bool
	route          *models.SafeRoute

	// Alerts
	feed          *feed.Feed
	selectedAlert int
	contacts      models.EmergencyContacts

	// Report and SOS
	form       reportForm
	submitting bool
	sending    bool
	countdown  *sos.Countdown

	// Saved places
	placeList  list.Model
	placeInput textinput.Model

	// Overlays
	dialog   *dialog
	toast    string
	toastSeq int

	liveEvents chan live.Event
	liveStatus string
	spinner    spinner.Model
}

// NewModel creates a new application model
func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = observability.NewDiscardLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewUnregisteredMetrics()
	}
	if opts.Bulletins == nil {
		opts.Bulletins = feed.StaticBulletins{}
	}
	if opts.Bell == nil {
		opts.Bell = io.Discard
	}
	fallback := models.Location{Lat: opts.Config.DefaultLat, Lng: opts.Config.DefaultLng}
	if opts.Locator == nil {
		opts.Locator = location.NewProvider(location.Request{}, nil, nil, fallback)
	}

	ti := textinput.New()
	ti.Placeholder = "Name this place (e.g. Home)"
	ti.CharLimit = 60
	ti.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		state:          StateDisplay,
		activePane:     PaneMap,
		cfg:            opts.Config,
		ctx:            opts.Context,
		client:         opts.API,
		liveCh:         opts.Live,
		locator:        opts.Locator,
		places:         opts.Places,
		zones:          opts.Zones,
		bulletins:      opts.Bulletins,
		metrics:        opts.Metrics,
		logger:         opts.Logger,
		clock:          opts.Clock,
		rng:            opts.Rand,
		bell:           opts.Bell,
		locating:       true,
		selectedMarker: -1,
		loadingHeatmap: true,
		feed:           feed.New(opts.Clock, opts.Config.AlertTTL),
		contacts:       models.DefaultEmergencyContacts(),
		form:           newReportForm(),
		placeInput:     ti,
		liveStatus:     "off",
		spinner:        s,
	}
	if m.liveCh != nil {
		m.liveEvents = make(chan live.Event, 16)
		m.liveStatus = "connecting"
	}
	return m
}

// Init starts the location lookup, the first heatmap load, the periodic timers and the live channel
func (m Model) Init() tea.Cmd {
	timeout := m.cfg.HTTPTimeout
	cmds := []tea.Cmd{
		m.spinner.Tick,
		resolveLocation(m.ctx, m.locator, timeout, false),
		loadHeatmap(m.ctx, m.client, m.center(), m.radiusKm(), timeout, false),
		loadContacts(m.ctx, m.client, timeout),
		fetchBulletins(m.ctx, m.bulletins, timeout),
	}
	if m.cfg.StatsInterval > 0 {
		cmds = append(cmds, statsTick(m.cfg.StatsInterval))
	}
	if m.cfg.AlertPollInterval > 0 {
		cmds = append(cmds, bulletinTick(m.cfg.AlertPollInterval))
	}
	if m.liveCh != nil {
		cmds = append(cmds, runLive(m.ctx, m.liveCh, m.liveEvents), waitForLiveEvent(m.liveEvents))
	}
	return tea.Batch(cmds...)
}

// center is the current location, or the default coordinate before the first resolution
func (m Model) center() models.Location {
	if m.location != nil {
		return *m.location
	}
	return models.Location{Lat: m.cfg.DefaultLat, Lng: m.cfg.DefaultLng}
}

func (m Model) radiusKm() float64 {
	return m.cfg.HeatmapRadiusKm
}

func (m Model) selected() (heatmap.Marker, bool) {
	if m.selectedMarker < 0 || m.selectedMarker >= len(m.markers) {
		return heatmap.Marker{}, false
	}
	return m.markers[m.selectedMarker], true
}

func sameCoord(a, b models.Location) bool {
	return a.Lat == b.Lat && a.Lng == b.Lng
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.state == StatePlaces {
			m.placeList.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case locationResolvedMsg:
		return m.handleLocation(msg.result, msg.silent)

	case heatmapLoadedMsg:
		return m.handleHeatmap(msg)

	case contactsLoadedMsg:
		if msg.err != nil || len(msg.contacts) == 0 {
			if msg.err != nil {
				m.logger.Warn("emergency contacts unavailable, using defaults", "error", msg.err)
			}
			m.contacts = models.DefaultEmergencyContacts()
			return m, nil
		}
		m.contacts = msg.contacts
		return m, nil

	case reportSubmittedMsg:
		m.submitting = false
		if msg.err != nil {
			m.logger.Error("report submission failed", "error", msg.err)
			m.metrics.ReportsSubmitted.WithLabelValues("error").Inc()
			m.showDialog("Report Failed", "Error submitting report: "+msg.err.Error(), dialogError)
			return m, nil
		}
		m.logger.Info("report submitted", "report_id", msg.receipt.ReportID)
		m.metrics.ReportsSubmitted.WithLabelValues("success").Inc()
		m.form.reset()
		m.state = StateDisplay
		m.showDialog("Report Submitted", "Report submitted successfully!", dialogSuccess)
		return m, nil

	case sosSentMsg:
		return m.handleSOSSent(msg)

	case countdownTickMsg:
		if m.countdown == nil || msg.id != m.countdown.ID() || !m.countdown.Active() {
			return m, nil
		}
		if m.countdown.Tick() {
			m.logger.Warn("sos countdown elapsed")
			cmd := m.addAlert("Police have been notified of your emergency", models.AlertEmergency, models.AlertData{})
			return m, cmd
		}
		return m, countdownTick(m.countdown.ID(), sos.TickInterval)

	case alertExpiredMsg:
		if m.feed.Remove(msg.id) {
			m.metrics.ActiveAlerts.Set(float64(m.feed.Len()))
			m.clampAlertSelection()
		}
		return m, nil

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case statsTickMsg:
		if n := m.feed.Prune(m.clock.Now()); n > 0 {
			m.metrics.ActiveAlerts.Set(float64(m.feed.Len()))
			m.clampAlertSelection()
		}
		m.loadingHeatmap = true
		return m, tea.Batch(
			loadHeatmap(m.ctx, m.client, m.center(), m.radiusKm(), m.cfg.HTTPTimeout, false),
			statsTick(m.cfg.StatsInterval),
		)

	case bulletinTickMsg:
		return m, tea.Batch(
			fetchBulletins(m.ctx, m.bulletins, m.cfg.HTTPTimeout),
			bulletinTick(m.cfg.AlertPollInterval),
		)

	case bulletinsMsg:
		if msg.err != nil {
			m.logger.Warn("bulletin poll failed", "error", msg.err)
			return m, nil
		}
		added := m.feed.ReplaceSource(models.SourceBulletin, msg.alerts)
		m.metrics.ActiveAlerts.Set(float64(m.feed.Len()))
		m.clampAlertSelection()
		cmds := make([]tea.Cmd, 0, len(added))
		for _, a := range added {
			cmds = append(cmds, expireAlert(a.ID, m.feed.TTL()))
		}
		return m, tea.Batch(cmds...)

	case liveEventMsg:
		return m.handleLiveEvent(msg.event)

	case liveStoppedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("live channel stopped", "error", msg.err)
		}
		m.liveStatus = "offline"
		return m, nil

	case routeMsg:
		if msg.err != nil {
			m.logger.Warn("safe route failed", "error", msg.err)
			m.showDialog("Route Unavailable", "Error calculating route: "+msg.err.Error(), dialogError)
			return m, nil
		}
		m.route = msg.route
		m.showDialog("Safe Route", routeSummary(msg.route), dialogInfo)
		return m, nil

	case riskMsg:
		if !sameCoord(msg.center, m.center()) {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Debug("risk prediction failed", "error", msg.err)
			m.risk = nil
			return m, nil
		}
		m.risk = msg.prediction
		return m, nil

	case placeNameMsg:
		if !sameCoord(msg.center, m.center()) || msg.err != nil || msg.name == "" {
			return m, nil
		}
		m.placeName = msg.name
		return m, nil

	case verifyMsg:
		if msg.err != nil {
			m.showDialog("Vote Failed", msg.err.Error(), dialogError)
			return m, nil
		}
		v := msg.verification
		text := fmt.Sprintf("Report #%d: %d up / %d down", msg.reportID, v.Upvotes, v.Downvotes)
		if v.Verified {
			text += " • verified"
		}
		cmd := m.showToast(text)
		return m, cmd

	case placesFetchedMsg:
		if msg.err != nil {
			m.showDialog("Saved Places", "Error loading places: "+msg.err.Error(), dialogError)
			return m, nil
		}
		m.placeList = createPlaceList(msg.places, m.width-4, m.height-10)
		m.state = StatePlaces
		return m, nil

	case placeSavedMsg:
		if msg.err != nil {
			m.showDialog("Saved Places", "Error saving place: "+msg.err.Error(), dialogError)
			return m, nil
		}
		cmd := m.showToast(fmt.Sprintf("Saved %q", msg.place.Name))
		return m, cmd

	case placeDeletedMsg:
		if msg.err != nil {
			m.showDialog("Saved Places", "Error deleting place: "+msg.err.Error(), dialogError)
			return m, nil
		}
		cmds := []tea.Cmd{m.showToast(fmt.Sprintf("Deleted %q", msg.name))}
		if m.state == StatePlaces {
			cmds = append(cmds, fetchSavedPlaces(m.ctx, m.places))
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// handleLocation stores a resolved location and refreshes everything that depends on it.
// A silent fallback is logged without raising the dialog.
func (m Model) handleLocation(result location.Result, silent bool) (tea.Model, tea.Cmd) {
	loc := result.Location
	m.location = &loc
	m.locationFallback = result.Fallback
	m.locating = false
	m.placeName = loc.Name
	m.risk = nil
	m.route = nil
	m.zoneName, _ = m.zones.Contains(loc.Lat, loc.Lng)

	if result.Fallback {
		m.logger.Warn("location unavailable, using default", "error", result.Err)
		if !silent {
			m.showDialog("Location", "Unable to get your location. Using default view.", dialogError)
		}
	} else {
		m.logger.Info("location resolved", "lat", loc.Lat, "lng", loc.Lng)
	}

	m.loadingHeatmap = true
	timeout := m.cfg.HTTPTimeout
	return m, tea.Batch(
		loadHeatmap(m.ctx, m.client, loc, m.radiusKm(), timeout, false),
		fetchRisk(m.ctx, m.client, loc, m.clock.Now().Hour(), timeout),
		fetchPlaceName(m.ctx, m.client, loc, timeout),
	)
}

// handleHeatmap applies a heatmap result, falling back to sample points when enabled
func (m Model) handleHeatmap(msg heatmapLoadedMsg) (tea.Model, tea.Cmd) {
	if !sameCoord(msg.center, m.center()) {
		return m, nil
	}
	m.loadingHeatmap = false

	switch {
	case msg.err == nil:
		m.setHeatmap(msg.data)
		m.metrics.HeatmapLoads.WithLabelValues("api").Inc()
	case m.cfg.HeatmapSampleFallback:
		m.logger.Warn("heatmap fetch failed, showing sample data", "error", msg.err)
		// Samples for the same centre are kept so periodic retries don't move the markers
		if m.heatmap == nil || !m.heatmap.Synthetic || !sameCoord(m.heatmap.Center, msg.center) {
			m.setHeatmap(heatmap.SampleData(msg.center, m.radiusKm(), m.rng))
		}
		m.metrics.HeatmapLoads.WithLabelValues("sample").Inc()
	default:
		m.logger.Warn("heatmap fetch failed", "error", msg.err)
		m.heatmap = nil
		m.heatmapErr = msg.err
		m.markers = nil
		m.selectedMarker = -1
		m.metrics.HeatmapLoads.WithLabelValues("none").Inc()
	}

	if msg.refresh {
		cmd := m.showToast("Heatmap refreshed")
		return m, cmd
	}
	return m, nil
}

func (m *Model) setHeatmap(data *models.HeatmapData) {
	m.heatmap = data
	m.heatmapErr = nil
	m.markers = heatmap.Markers(data.Points)
	switch {
	case len(m.markers) == 0:
		m.selectedMarker = -1
	case m.selectedMarker < 0 || m.selectedMarker >= len(m.markers):
		m.selectedMarker = 0
	}
}

func (m Model) handleSOSSent(msg sosSentMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	if msg.err != nil {
		m.logger.Error("sos failed", "error", msg.err)
		m.metrics.SOSSignals.WithLabelValues("error").Inc()
		m.showDialog("SOS Failed", "Error sending SOS: "+msg.err.Error(), dialogEmergency)
		return m, nil
	}

	m.logger.Warn("sos sent", "contacts_notified", len(msg.receipt.ContactsNotified))
	m.metrics.SOSSignals.WithLabelValues("success").Inc()
	m.state = StateDisplay
	m.countdown = sos.NewCountdown(m.cfg.CountdownSeconds())

	body := "Help is on the way."
	if len(msg.receipt.ContactsNotified) > 0 {
		body += "\n\nContacts notified: " + strings.Join(msg.receipt.ContactsNotified, ", ")
	}
	m.showDialog("EMERGENCY SOS ACTIVATED!", body, dialogEmergency)
	return m, countdownTick(m.countdown.ID(), sos.TickInterval)
}

// handleLiveEvent turns a live channel event into feed entries
func (m Model) handleLiveEvent(ev live.Event) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch ev.Type {
	case live.EventConnected:
		m.liveStatus = "connected"
		cmds = append(cmds, m.addAlert("Connected to live safety updates", models.AlertInfo, models.AlertData{}))

	case live.EventNewReport:
		incident, reportID := "incident", 0
		if ev.Report != nil {
			if ev.Report.IncidentType != "" {
				incident = ev.Report.IncidentType
			}
			reportID = ev.Report.ID
		}
		cmds = append(cmds, m.addAlert(fmt.Sprintf("New %s reported nearby", incident), models.AlertWarning,
			models.AlertData{Source: models.SourceLive, ReportID: reportID}))
		m.loadingHeatmap = true
		cmds = append(cmds, loadHeatmap(m.ctx, m.client, m.center(), m.radiusKm(), m.cfg.HTTPTimeout, false))

	case live.EventEmergencyAlert:
		cmds = append(cmds, m.addAlert("EMERGENCY SOS triggered nearby!", models.AlertEmergency,
			models.AlertData{Source: models.SourceLive}))
		if _, err := io.WriteString(m.bell, "\a"); err != nil {
			m.logger.Debug("bell write failed", "error", err)
		}

	case live.EventDisconnected:
		m.liveStatus = "reconnecting"
		cmds = append(cmds, m.addAlert("Connection lost. Reconnecting...", models.AlertError, models.AlertData{}))

	case live.EventGaveUp:
		m.liveStatus = "offline"
		m.logger.Error("live updates gave up", "error", ev.Err)
		cmds = append(cmds, m.addAlert("Live updates unavailable", models.AlertError, models.AlertData{}))
		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, waitForLiveEvent(m.liveEvents))
	return m, tea.Batch(cmds...)
}

// addAlert inserts an alert and schedules its removal after the feed's TTL
func (m *Model) addAlert(message string, alertType models.AlertType, data models.AlertData) tea.Cmd {
	a := m.feed.Add(message, alertType, data)
	m.metrics.ActiveAlerts.Set(float64(m.feed.Len()))
	if m.selectedAlert > 0 {
		m.selectedAlert++
	}
	m.clampAlertSelection()
	return expireAlert(a.ID, m.feed.TTL())
}

func (m *Model) clampAlertSelection() {
	if n := m.feed.Len(); m.selectedAlert >= n {
		m.selectedAlert = n - 1
	}
	if m.selectedAlert < 0 {
		m.selectedAlert = 0
	}
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastSeq++
	m.toast = text
	return expireToast(m.toastSeq, toastDuration)
}

func (m *Model) showDialog(title, body string, kind dialogKind) {
	m.dialog = &dialog{title: title, body: body, kind: kind}
}

// handleKey routes key presses by state. Open dialogs swallow every key but ctrl+c.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	// ctrl+x cancels a running countdown from any screen, including over a dialog
	if msg.String() == "ctrl+x" && m.countdown != nil && m.countdown.Active() {
		m.dialog = nil
		cmd := m.cancelSOS()
		return m, cmd
	}
	if m.dialog != nil {
		m.dialog = nil
		return m, nil
	}

	switch m.state {
	case StateReport:
		return m.handleReportKey(msg)
	case StateSOSConfirm:
		return m.handleSOSKey(msg)
	case StatePlaces:
		return m.handlePlacesKey(msg)
	case StatePlaceName:
		return m.handlePlaceNameKey(msg)
	}
	return m.handleDisplayKey(msg)
}

func (m Model) handleDisplayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	timeout := m.cfg.HTTPTimeout

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "tab":
		if m.activePane == PaneMap {
			m.activePane = PaneAlerts
		} else {
			m.activePane = PaneMap
		}
		return m, nil

	case "up", "k":
		if m.activePane == PaneMap {
			if m.selectedMarker > 0 {
				m.selectedMarker--
			}
		} else if m.selectedAlert > 0 {
			m.selectedAlert--
		}
		return m, nil

	case "down", "j":
		if m.activePane == PaneMap {
			if m.selectedMarker < len(m.markers)-1 {
				m.selectedMarker++
			}
		} else if m.selectedAlert < m.feed.Len()-1 {
			m.selectedAlert++
		}
		return m, nil

	case "f":
		m.markers = nil
		m.heatmap = nil
		m.selectedMarker = -1
		m.loadingHeatmap = true
		return m, loadHeatmap(m.ctx, m.client, m.center(), m.radiusKm(), timeout, true)

	case "l":
		m.locating = true
		return m, resolveLocation(m.ctx, m.locator, timeout, false)

	case "r":
		m.state = StateReport
		m.locating = true
		return m, resolveLocation(m.ctx, m.locator, timeout, true)

	case "s":
		if m.countdown != nil && m.countdown.Active() {
			cmd := m.showToast("SOS countdown already running")
			return m, cmd
		}
		m.state = StateSOSConfirm
		return m, nil

	case "c":
		cmd := m.cancelSOS()
		return m, cmd

	case "e":
		m.showDialog("Emergency Contacts", contactsSummary(m.contacts), dialogEmergency)
		return m, nil

	case "t":
		if m.location == nil {
			m.showDialog("Location Required", "Please enable location services first", dialogError)
			return m, nil
		}
		from := *m.location
		return m, fetchRoute(m.ctx, m.client, from, from.Offset(routeOffset, routeOffset), timeout)

	case "p":
		if m.places == nil {
			m.showDialog("Saved Places", "Saved places are unavailable", dialogError)
			return m, nil
		}
		return m, fetchSavedPlaces(m.ctx, m.places)

	case "a":
		return m.startSavePlace()

	case "+", "=", "-":
		if m.activePane != PaneAlerts {
			return m, nil
		}
		alerts := m.feed.Alerts()
		if m.selectedAlert >= len(alerts) || alerts[m.selectedAlert].ReportID == 0 {
			cmd := m.showToast("Select a live report alert to vote")
			return m, cmd
		}
		vote := models.Upvote
		if msg.String() == "-" {
			vote = models.Downvote
		}
		return m, verifyReport(m.ctx, m.client, alerts[m.selectedAlert].ReportID, vote, m.cfg.ReporterID, timeout)
	}

	return m, nil
}

func (m Model) handleReportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateDisplay
		return m, nil

	case tea.KeyEnter:
		if m.submitting {
			return m, nil
		}
		if m.location == nil {
			m.metrics.ReportsSubmitted.WithLabelValues("no_location").Inc()
			m.showDialog("Location Required", "Please enable location services", dialogError)
			return m, nil
		}
		report := m.form.report(m.cfg.ReporterID, *m.location, m.clock.Now())
		if err := report.Validate(); err != nil {
			m.showDialog("Invalid Report", err.Error(), dialogError)
			return m, nil
		}
		m.submitting = true
		return m, submitReport(m.ctx, m.client, report, m.cfg.HTTPTimeout)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleSOSKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.confirmSOS()
	case "n", "esc":
		if !m.sending {
			m.state = StateDisplay
		}
	}
	return m, nil
}

// confirmSOS sends the emergency signal for the current location
func (m Model) confirmSOS() (tea.Model, tea.Cmd) {
	if m.sending {
		return m, nil
	}
	if m.location == nil {
		m.metrics.SOSSignals.WithLabelValues("no_location").Inc()
		m.state = StateDisplay
		m.showDialog("Location Required", "Location required for SOS", dialogError)
		return m, nil
	}
	m.sending = true
	signal := models.EmergencySignal{
		ReporterID: m.cfg.ReporterID,
		Latitude:   m.location.Lat,
		Longitude:  m.location.Lng,
	}
	return m, sendSOS(m.ctx, m.client, signal, m.cfg.HTTPTimeout)
}

// cancelSOS stops a running countdown before it notifies the police
func (m *Model) cancelSOS() tea.Cmd {
	if m.countdown == nil || !m.countdown.Cancel() {
		return nil
	}
	m.logger.Info("sos countdown cancelled", "remaining", m.countdown.Remaining())
	return m.addAlert("Emergency cancelled", models.AlertInfo, models.AlertData{})
}

func (m Model) handlePlacesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.state = StateDisplay
		return m, nil

	case "enter":
		item, ok := m.placeList.SelectedItem().(placeItem)
		if !ok {
			return m, nil
		}
		m.state = StateDisplay
		loc := item.place.Location()
		return m, func() tea.Msg {
			return locationResolvedMsg{result: location.Result{Location: loc}}
		}

	case "d":
		item, ok := m.placeList.SelectedItem().(placeItem)
		if !ok {
			return m, nil
		}
		return m, deletePlace(m.ctx, m.places, item.place.Name)

	case "a":
		return m.startSavePlace()
	}

	var cmd tea.Cmd
	m.placeList, cmd = m.placeList.Update(msg)
	return m, cmd
}

func (m Model) startSavePlace() (tea.Model, tea.Cmd) {
	if m.places == nil {
		m.showDialog("Saved Places", "Saved places are unavailable", dialogError)
		return m, nil
	}
	if m.location == nil {
		m.showDialog("Location Required", "Please enable location services first", dialogError)
		return m, nil
	}
	m.state = StatePlaceName
	m.placeInput.SetValue(m.placeName)
	m.placeInput.Focus()
	return m, textinput.Blink
}

func (m Model) handlePlaceNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.placeInput.Blur()
		m.state = StateDisplay
		return m, nil

	case tea.KeyEnter:
		name := strings.TrimSpace(m.placeInput.Value())
		if name == "" {
			return m, nil
		}
		m.placeInput.Blur()
		m.state = StateDisplay
		return m, savePlace(m.ctx, m.places, name, *m.location)
	}

	var cmd tea.Cmd
	m.placeInput, cmd = m.placeInput.Update(msg)
	return m, cmd
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.dialog != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.view(m.width))
	}

	var body string
	switch m.state {
	case StateReport:
		body = m.form.view(m.submitting)
	case StateSOSConfirm:
		body = m.viewSOSConfirm()
	case StatePlaces:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.placeList.View(),
			helpStyle.Render("Enter: Go to place • a: Save current location • d: Delete • Esc: Back"),
		)
	case StatePlaceName:
		body = paneStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Save Current Location"),
			"",
			m.placeInput.View(),
			helpStyle.Render("Enter: Save • Esc: Cancel"),
		))
	default:
		body = m.viewDisplay()
	}

	sections := []string{m.viewHeader(), body}
	if m.countdown != nil && m.countdown.Active() {
		sections = append(sections, m.viewCountdown())
	}
	if m.toast != "" {
		sections = append(sections, toastStyle.Render(m.toast))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewHeader renders the title, location, risk and live status
func (m Model) viewHeader() string {
	title := titleStyle.Render("🛡 SafeStree")

	var where string
	switch {
	case m.location == nil:
		where = mutedStyle.Render(m.spinner.View() + " Locating...")
	default:
		name := m.placeName
		if name == "" {
			name = "Current location"
		}
		where = valueStyle.Render(name) + " " + mutedStyle.Render("("+m.location.String()+")")
		if m.locationFallback {
			where += " " + badgeStyle.Render("DEFAULT")
		}
	}

	parts := []string{title, where}
	if m.risk != nil {
		risk := strings.ToUpper(m.risk.RiskLevel)
		if risk == "" {
			risk = "UNKNOWN"
		}
		parts = append(parts, labelStyle.Render("Risk:")+" "+riskStyle(m.risk).Render(fmt.Sprintf("%s (%.1f)", risk, m.risk.RiskScore)))
	}
	if m.zoneName != "" {
		parts = append(parts, successStyle.Render("In safe zone: "+m.zoneName))
	}
	parts = append(parts, m.viewLiveStatus())

	return strings.Join(parts, "  ")
}

func (m Model) viewLiveStatus() string {
	switch m.liveStatus {
	case "connected":
		return successStyle.Render("● Live")
	case "connecting", "reconnecting":
		return alertWarningStyle.Render("● " + m.liveStatus)
	default:
		return mutedStyle.Render("○ Live " + m.liveStatus)
	}
}

// viewDisplay renders the map and alert panes with the stats line
func (m Model) viewDisplay() string {
	mapStyle, alertStyle := paneStyle, paneStyle
	if m.activePane == PaneMap {
		mapStyle = activePaneStyle
	} else {
		alertStyle = activePaneStyle
	}

	mapPane := mapStyle.Render(m.renderMapPane())
	alertWidth := m.width - lipgloss.Width(mapPane) - 4
	if alertWidth < 30 {
		alertWidth = 30
	}
	alertPane := alertStyle.Width(alertWidth).Render(m.renderAlertPane(alertWidth))

	panes := lipgloss.JoinHorizontal(lipgloss.Top, mapPane, " ", alertPane)

	help := "Tab: Switch pane • ↑/↓: Select • f: Refresh • l: Locate • r: Report • s: SOS • t: Safe route • e: Contacts • p: Places • a: Save place • q: Quit"
	if m.activePane == PaneAlerts {
		help = "Tab: Switch pane • ↑/↓: Select alert • +/-: Verify report • r: Report • s: SOS • q: Quit"
	}
	if m.countdown != nil && m.countdown.Active() {
		help = "c/ctrl+x: Cancel SOS • " + help
	}

	return lipgloss.JoinVertical(lipgloss.Left, panes, m.renderStats(), helpStyle.Render(help))
}

// paneTitle renders a pane heading, highlighted when the pane is focused
func (m Model) paneTitle(pane ActivePane, title string) string {
	if m.activePane == pane && m.state == StateDisplay {
		return activeTitleStyle.Render(" " + title + " ")
	}
	return titleStyle.Render(title)
}
