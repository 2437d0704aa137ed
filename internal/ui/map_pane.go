package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/safestree-terminal/internal/heatmap"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/zones"
)

const (
	kmPerDegree = 111.32

	glyphEmpty    = '·'
	glyphZone     = '░'
	glyphRoute    = '+'
	glyphMarker   = '●'
	glyphSelected = '◉'
	glyphUser     = '@'
)

// mapGrid projects coordinates onto a character grid covering radiusKm around center
type mapGrid struct {
	center   models.Location
	radiusKm float64
	cols     int
	rows     int
}

func (g mapGrid) spans() (latSpan, lngSpan float64) {
	latSpan = g.radiusKm / kmPerDegree
	cos := math.Cos(g.center.Lat * math.Pi / 180)
	if cos < 0.01 {
		cos = 0.01
	}
	lngSpan = g.radiusKm / (kmPerDegree * cos)
	return latSpan, lngSpan
}

// cell returns the grid cell for a coordinate, or ok=false when it falls outside the map
func (g mapGrid) cell(lat, lng float64) (row, col int, ok bool) {
	latSpan, lngSpan := g.spans()
	y := (g.center.Lat + latSpan - lat) / (2 * latSpan) * float64(g.rows)
	x := (lng - (g.center.Lng - lngSpan)) / (2 * lngSpan) * float64(g.cols)
	if y < 0 || x < 0 {
		return 0, 0, false
	}
	row, col = int(y), int(x)
	if row >= g.rows || col >= g.cols {
		return 0, 0, false
	}
	return row, col, true
}

// coord returns the coordinate at the centre of a cell
func (g mapGrid) coord(row, col int) (lat, lng float64) {
	latSpan, lngSpan := g.spans()
	lat = g.center.Lat + latSpan - (float64(row)+0.5)/float64(g.rows)*2*latSpan
	lng = g.center.Lng - lngSpan + (float64(col)+0.5)/float64(g.cols)*2*lngSpan
	return lat, lng
}

// mapCell is one rendered grid position
type mapCell struct {
	glyph rune
	style lipgloss.Style
	rank  int
}

// mapLayers is everything drawn on the map
type mapLayers struct {
	markers  []heatmap.Marker
	selected int
	user     *models.Location
	route    *models.SafeRoute
	zones    *zones.Set
}

// renderGrid draws the layers onto the grid. Higher layers win: user, selected marker,
// markers (highest level first), route, safe zones, background.
func renderGrid(g mapGrid, layers mapLayers) [][]mapCell {
	cells := make([][]mapCell, g.rows)
	for r := range cells {
		cells[r] = make([]mapCell, g.cols)
		for c := range cells[r] {
			cells[r][c] = mapCell{glyph: glyphEmpty, style: mapBackgroundStyle}
			if layers.zones.Len() > 0 {
				lat, lng := g.coord(r, c)
				if _, ok := layers.zones.Contains(lat, lng); ok {
					cells[r][c] = mapCell{glyph: glyphZone, style: mapZoneStyle, rank: 1}
				}
			}
		}
	}

	put := func(lat, lng float64, cell mapCell) {
		r, c, ok := g.cell(lat, lng)
		if ok && cell.rank >= cells[r][c].rank {
			cells[r][c] = cell
		}
	}

	if layers.route != nil {
		pts := layers.route.Points
		for i := 1; i < len(pts); i++ {
			const steps = 24
			for s := 0; s <= steps; s++ {
				t := float64(s) / steps
				put(pts[i-1].Lat+(pts[i].Lat-pts[i-1].Lat)*t, pts[i-1].Lng+(pts[i].Lng-pts[i-1].Lng)*t,
					mapCell{glyph: glyphRoute, style: mapRouteStyle, rank: 2})
			}
		}
	}

	for i, mk := range layers.markers {
		cell := mapCell{glyph: glyphMarker, style: markerStyle(mk.Level), rank: 3 + int(mk.Level)}
		if i == layers.selected {
			cell = mapCell{glyph: glyphSelected, style: markerStyle(mk.Level).Reverse(true), rank: 10}
		}
		put(mk.Point.Lat, mk.Point.Lng, cell)
	}

	if layers.user != nil {
		put(layers.user.Lat, layers.user.Lng, mapCell{glyph: glyphUser, style: mapUserStyle, rank: 11})
	}

	return cells
}

// renderMap renders the grid as styled text
func renderMap(g mapGrid, layers mapLayers) string {
	cells := renderGrid(g, layers)
	lines := make([]string, len(cells))
	for r, row := range cells {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(cell.style.Render(string(cell.glyph)))
		}
		lines[r] = b.String()
	}
	return strings.Join(lines, "\n")
}

// mapSize picks a grid that fits the terminal
func (m Model) mapSize() (cols, rows int) {
	cols = m.width/2 - 6
	if cols > 60 {
		cols = 60
	}
	if cols < 21 {
		cols = 21
	}
	rows = cols / 2
	if m.height > 0 && rows > m.height-14 {
		rows = m.height - 14
	}
	if rows < 9 {
		rows = 9
	}
	return cols, rows
}

// renderMapPane renders the map, legend and the selected marker's popup
func (m Model) renderMapPane() string {
	cols, rows := m.mapSize()
	g := mapGrid{center: m.center(), radiusKm: m.radiusKm(), cols: cols, rows: rows}

	var sections []string
	header := m.paneTitle(PaneMap, "SAFETY MAP")
	if m.heatmap != nil && m.heatmap.Synthetic {
		header += " " + badgeStyle.Render("SAMPLE DATA")
	}
	sections = append(sections, header)

	switch {
	case m.heatmap == nil && m.heatmapErr != nil:
		sections = append(sections, alertErrorStyle.Render("✗ Heatmap unavailable"), mutedStyle.Render(m.heatmapErr.Error()))
	case m.heatmap == nil:
		sections = append(sections, mutedStyle.Render(m.spinner.View()+" Loading heatmap..."))
	}

	sections = append(sections, renderMap(g, mapLayers{
		markers:  m.markers,
		selected: m.selectedMarker,
		user:     m.location,
		route:    m.route,
		zones:    m.zones,
	}))

	legend := fmt.Sprintf("%s ≤20  %s ≤40  %s ≤60  %s >60  %s you",
		markerStyle(heatmap.Green).Render(string(glyphMarker)),
		markerStyle(heatmap.Yellow).Render(string(glyphMarker)),
		markerStyle(heatmap.Orange).Render(string(glyphMarker)),
		markerStyle(heatmap.Red).Render(string(glyphMarker)),
		mapUserStyle.Render(string(glyphUser)),
	)
	if m.zones.Len() > 0 {
		legend += "  " + mapZoneStyle.Render(string(glyphZone)) + " safe zone"
	}
	if m.route != nil {
		legend += "  " + mapRouteStyle.Render(string(glyphRoute)) + " route"
	}
	sections = append(sections, mutedStyle.Render(legend))

	if mk, ok := m.selected(); ok {
		sections = append(sections, "", markerStyle(mk.Level).Render(fmt.Sprintf("%s Marker %d of %d (radius %g)",
			string(glyphMarker), m.selectedMarker+1, len(m.markers), mk.Radius)), mk.Popup)
	} else if m.heatmap != nil {
		sections = append(sections, "", successStyle.Render("✓ No incidents reported in this area"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStats renders the stats line
func (m Model) renderStats() string {
	reports, score := "-", "-"
	if m.heatmap != nil {
		reports = fmt.Sprintf("%d", m.heatmap.TotalReports)
		if m.heatmap.SafetyScore >= 0 && !m.heatmap.Synthetic {
			level := models.LevelForScore(m.heatmap.SafetyScore)
			score = safetyStyle(level).Render(fmt.Sprintf("%d/100", m.heatmap.SafetyScore))
		} else {
			score = "n/a"
		}
	}

	return fmt.Sprintf("%s %s   %s %s   %s %d",
		labelStyle.Render("Reports:"), valueStyle.Render(reports),
		labelStyle.Render("Safety score:"), score,
		labelStyle.Render("Active alerts:"), m.feed.Len(),
	)
}
