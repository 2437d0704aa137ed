package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/safestree-terminal/internal/api"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/database"
	"github.com/ngmaloney/safestree-terminal/internal/geocoding"
	"github.com/ngmaloney/safestree-terminal/internal/live"
	"github.com/ngmaloney/safestree-terminal/internal/location"
	"github.com/ngmaloney/safestree-terminal/internal/models"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
	"github.com/ngmaloney/safestree-terminal/internal/places"
	"github.com/ngmaloney/safestree-terminal/internal/ui"
	"github.com/ngmaloney/safestree-terminal/internal/zones"
)

func main() {
	lat := flag.Float64("lat", 0, "Latitude of your current location (requires --lng)")
	lng := flag.Float64("lng", 0, "Longitude of your current location (requires --lat)")
	placeName := flag.String("place", "", "Name of a saved place to use as your location")
	query := flag.String("locate", "", "Address or landmark to geocode as your location (e.g. \"Khan Market, New Delhi\")")
	flag.Parse()

	latSet, lngSet := false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lng":
			lngSet = true
		}
	})
	if latSet != lngSet {
		fmt.Println("Error: --lat and --lng must be given together.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		go observability.ServeMetrics(ctx, cfg.MetricsAddr, logger)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	geocoder, err := geocoding.New(cfg.GoogleMapsAPIKey, places.NewGeocodeCache(db), logger)
	if err != nil {
		fmt.Printf("Error creating geocoder: %v\n", err)
		os.Exit(1)
	}
	placeService := places.NewService(places.NewRepository(db), geocoder)

	var safeZones *zones.Set
	if cfg.SafeZonesPath != "" {
		safeZones, err = zones.Load(cfg.SafeZonesPath)
		if err != nil {
			logger.Warn("safe zones unavailable", "path", cfg.SafeZonesPath, "error", err)
		} else {
			logger.Info("safe zones loaded", "count", safeZones.Len())
		}
	}

	channel, err := live.New(cfg, logger, metrics)
	if err != nil {
		fmt.Printf("Error configuring live updates: %v\n", err)
		os.Exit(1)
	}

	request := location.Request{Place: *placeName, Query: *query}
	if latSet {
		request.Coordinates = &models.Location{Lat: *lat, Lng: *lng}
	}
	fallback := models.Location{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng}

	m := ui.NewModel(ui.Options{
		Config:  cfg,
		API:     api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout),
		Live:    channel,
		Locator: location.NewProvider(request, placeService, geocoder, fallback),
		Places:  placeService,
		Zones:   safeZones,
		Metrics: metrics,
		Logger:  logger,
		Context: ctx,
		Bell:    os.Stdout,
	})

	logger.Info("starting", "api", cfg.APIBaseURL, "live", cfg.LiveTransport, "reporter", cfg.ReporterID)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
