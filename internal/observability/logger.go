// Package observability wires logging and metrics for the terminal client
package observability

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ngmaloney/safestree-terminal/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds a slog logger writing to the configured log file.
// The terminal belongs to the UI, so nothing is written to stdout or stderr.
func NewLogger(cfg *config.Config) *slog.Logger {
	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(cfg.LogFile), 0755)
		w = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}
	return newLogger(w, cfg.LogLevel, cfg.LogFormat)
}

// NewDiscardLogger returns a logger that drops everything
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
