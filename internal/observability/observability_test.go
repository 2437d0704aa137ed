package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_FormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestUnregisteredMetrics(t *testing.T) {
	m := NewUnregisteredMetrics()
	m.ReportsSubmitted.WithLabelValues("success").Inc()
	m.HeatmapLoads.WithLabelValues("sample").Add(2)
	m.ActiveAlerts.Set(3)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.ReportsSubmitted.WithLabelValues("success")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.HeatmapLoads.WithLabelValues("sample")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m.ActiveAlerts), 1e-9)

	// A second set must not collide with the first.
	NewUnregisteredMetrics()
}
