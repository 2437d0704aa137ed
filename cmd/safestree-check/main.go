// Command safestree-check exercises the configured SafeStree API and live channel from the command line
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ngmaloney/safestree-terminal/internal/api"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/heatmap"
	"github.com/ngmaloney/safestree-terminal/internal/live"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
)

func main() {
	listen := flag.Duration("live", 0, "Also listen to the live channel for this long (e.g. 30s)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	here := models.Location{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}
	failures := 0

	fmt.Printf("=== Checking %s at %s ===\n\n", client.BaseURL(), here)

	fmt.Println("=== HEATMAP ===")
	if data, err := client.GetHeatmap(ctx, here.Lat, here.Lng, cfg.HeatmapRadiusKm); err != nil {
		fmt.Printf("❌ HEATMAP ERROR: %v\n\n", err)
		failures++
	} else {
		fmt.Printf("✓ %d points, %d reports, safety score %d\n", len(data.Points), data.TotalReports, data.SafetyScore)
		for i, mk := range heatmap.Markers(data.Points) {
			if i == 5 {
				fmt.Printf("  ... %d more\n", len(data.Points)-5)
				break
			}
			fmt.Printf("  %-7s r=%-4g %s %s\n", mk.Level, mk.Radius, mk.Point.Type, heatmap.SeverityLabel(mk.Point.Weight))
		}
		fmt.Println()
	}

	fmt.Println("=== EMERGENCY CONTACTS ===")
	if contacts, err := client.GetContacts(ctx); err != nil {
		fmt.Printf("❌ CONTACTS ERROR: %v\n\n", err)
		failures++
	} else {
		for _, c := range contacts.Sorted() {
			fmt.Printf("  %-22s %s\n", c.Service, c.Number)
		}
		fmt.Println()
	}

	fmt.Println("=== RISK PREDICTION ===")
	if p, err := client.PredictRisk(ctx, here.Lat, here.Lng, time.Now().Hour()); err != nil {
		fmt.Printf("❌ PREDICT ERROR: %v\n\n", err)
		failures++
	} else {
		fmt.Printf("✓ %s risk (%.1f), colour %s\n\n", p.RiskLevel, p.RiskScore, p.SafetyColor)
	}

	fmt.Println("=== SAFE ROUTE ===")
	if r, err := client.SafeRoute(ctx, here, here.Offset(0.01, 0.01)); err != nil {
		fmt.Printf("❌ ROUTE ERROR: %v\n\n", err)
		failures++
	} else {
		fmt.Printf("✓ %d waypoints, score %d (%s), %s, %s\n\n", len(r.Points), r.SafetyScore, r.Level(), r.Distance, r.EstimatedTime)
	}

	fmt.Println("=== REVERSE GEOCODE ===")
	if name, err := client.ReverseGeocode(ctx, here.Lat, here.Lng); err != nil {
		fmt.Printf("❌ GEOCODE ERROR: %v\n\n", err)
		failures++
	} else {
		fmt.Printf("✓ %s\n\n", name)
	}

	if *listen > 0 {
		if err := listenLive(ctx, cfg, *listen); err != nil {
			fmt.Printf("❌ LIVE ERROR: %v\n\n", err)
			failures++
		}
	}

	if failures > 0 {
		fmt.Printf("%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("All checks passed")
}

func listenLive(ctx context.Context, cfg *config.Config, d time.Duration) error {
	fmt.Printf("=== LIVE (%s, %s) ===\n", cfg.LiveTransport, d)

	ch, err := live.New(cfg, observability.NewDiscardLogger(), nil)
	if err != nil {
		return err
	}
	if ch == nil {
		fmt.Println("live updates are off")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	events := make(chan live.Event, 16)
	done := make(chan error, 1)
	go func() { done <- ch.Run(ctx, events) }()

	for {
		select {
		case ev := <-events:
			switch {
			case ev.Report != nil:
				fmt.Printf("  %s: #%d %s severity %d\n", ev.Type, ev.Report.ID, ev.Report.IncidentType, ev.Report.Severity)
			case ev.Emergency != nil:
				fmt.Printf("  %s: %s at %s\n", ev.Type, ev.Emergency.ReporterID, ev.Emergency.Location)
			default:
				fmt.Printf("  %s\n", ev.Type)
			}
		case err := <-done:
			fmt.Println()
			if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		}
	}
}
