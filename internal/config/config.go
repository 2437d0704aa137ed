// Package config loads client settings from the environment
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Live transports
const (
	TransportSocketIO = "socketio"
	TransportMQTT     = "mqtt"
	TransportOff      = "off"
)

// Config holds all client settings, populated from environment variables.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	ReporterID  string

	LiveTransport        string
	LiveRetryInterval    time.Duration
	LiveRetryMaxAttempts int
	LiveRetryMultiplier  float64
	LiveRetryMaxInterval time.Duration
	MQTTBrokerURL        string
	MQTTTopicPrefix      string

	HeatmapRadiusKm       float64
	HeatmapSampleFallback bool
	StatsInterval         time.Duration
	AlertPollInterval     time.Duration
	AlertTTL              time.Duration
	SOSCountdown          time.Duration

	DefaultLat float64
	DefaultLng float64

	GoogleMapsAPIKey string
	DBPath           string
	SafeZonesPath    string

	LogFile     string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is read first when present; real environment
// variables take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	p := &parser{}
	cfg := &Config{
		APIBaseURL:  strings.TrimRight(envOrDefault("API_BASE_URL", "http://localhost:5000"), "/"),
		HTTPTimeout: p.duration("HTTP_TIMEOUT", "30s"),
		ReporterID:  envOrDefault("REPORTER_ID", "user_"+uuid.NewString()[:8]),

		LiveTransport:        strings.ToLower(envOrDefault("LIVE_TRANSPORT", TransportSocketIO)),
		LiveRetryInterval:    p.duration("LIVE_RETRY_INTERVAL", "3s"),
		LiveRetryMaxAttempts: p.integer("LIVE_RETRY_MAX_ATTEMPTS", "0"),
		LiveRetryMultiplier:  p.float("LIVE_RETRY_MULTIPLIER", "1"),
		LiveRetryMaxInterval: p.duration("LIVE_RETRY_MAX_INTERVAL", "60s"),
		MQTTBrokerURL:        os.Getenv("MQTT_BROKER_URL"),
		MQTTTopicPrefix:      envOrDefault("MQTT_TOPIC_PREFIX", "safestree"),

		HeatmapRadiusKm:       p.float("HEATMAP_RADIUS_KM", "5"),
		HeatmapSampleFallback: p.boolean("HEATMAP_SAMPLE_FALLBACK", "true"),
		StatsInterval:         p.duration("STATS_INTERVAL", "30s"),
		AlertPollInterval:     p.duration("ALERT_POLL_INTERVAL", "60s"),
		AlertTTL:              p.duration("ALERT_TTL", "30m"),
		SOSCountdown:          p.duration("SOS_COUNTDOWN", "60s"),

		DefaultLat: p.float("DEFAULT_LAT", "28.6139"),
		DefaultLng: p.float("DEFAULT_LNG", "77.2090"),

		GoogleMapsAPIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		DBPath:           envOrDefault("DB_PATH", "data/safestree.db"),
		SafeZonesPath:    os.Getenv("SAFE_ZONES_SHP"),

		LogFile:     envOrDefault("LOG_FILE", "data/safestree.log"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		LogFormat:   envOrDefault("LOG_FORMAT", "text"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	switch c.LiveTransport {
	case TransportSocketIO, TransportOff:
	case TransportMQTT:
		if c.MQTTBrokerURL == "" {
			return errors.New("LIVE_TRANSPORT is mqtt but MQTT_BROKER_URL is not set")
		}
	default:
		return fmt.Errorf("invalid LIVE_TRANSPORT %q", c.LiveTransport)
	}
	if c.LiveRetryInterval <= 0 {
		return errors.New("LIVE_RETRY_INTERVAL must be positive")
	}
	if c.LiveRetryMaxAttempts < 0 {
		return errors.New("LIVE_RETRY_MAX_ATTEMPTS must not be negative")
	}
	if c.LiveRetryMultiplier < 1 {
		return errors.New("LIVE_RETRY_MULTIPLIER must be at least 1")
	}
	if c.HeatmapRadiusKm <= 0 {
		return errors.New("HEATMAP_RADIUS_KM must be positive")
	}
	if c.SOSCountdown < time.Second {
		return errors.New("SOS_COUNTDOWN must be at least 1s")
	}
	if c.DefaultLat < -90 || c.DefaultLat > 90 || c.DefaultLng < -180 || c.DefaultLng > 180 {
		return errors.New("DEFAULT_LAT/DEFAULT_LNG out of range")
	}
	return nil
}

// CountdownSeconds is the SOS countdown length in whole seconds
func (c *Config) CountdownSeconds() int {
	return int(c.SOSCountdown / time.Second)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parser records the first malformed value so Load can report it once
type parser struct {
	err error
}

func (p *parser) fail(key, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s: %q", key, value)
	}
}

func (p *parser) duration(key, def string) time.Duration {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		p.fail(key, s)
	}
	return d
}

func (p *parser) integer(key, def string) int {
	s := envOrDefault(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		p.fail(key, s)
	}
	return n
}

func (p *parser) float(key, def string) float64 {
	s := envOrDefault(key, def)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(key, s)
	}
	return f
}

func (p *parser) boolean(key, def string) bool {
	s := envOrDefault(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		p.fail(key, s)
	}
	return b
}
