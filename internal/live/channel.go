package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/safestree-terminal/internal/config"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
)

// ErrRetriesExhausted is returned by Run when the retry policy gives up
var ErrRetriesExhausted = errors.New("live channel: reconnect attempts exhausted")

// Channel is a persistent push connection.
// Run blocks until ctx is cancelled or the retry policy is exhausted, sending events as they occur.
type Channel interface {
	Run(ctx context.Context, events chan<- Event) error
}

// New builds the channel selected by LIVE_TRANSPORT. It returns nil when live updates are off.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (Channel, error) {
	policy := PolicyFromConfig(cfg)
	switch cfg.LiveTransport {
	case config.TransportOff:
		return nil, nil
	case config.TransportSocketIO:
		return NewSocketIO(cfg.APIBaseURL, policy, clockwork.NewRealClock(), logger, metrics)
	case config.TransportMQTT:
		return NewMQTT(cfg.MQTTBrokerURL, cfg.MQTTTopicPrefix, cfg.ReporterID, policy, logger, metrics), nil
	default:
		return nil, fmt.Errorf("unknown live transport %q", cfg.LiveTransport)
	}
}

// emit delivers ev unless ctx ends first
func emit(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func countEvent(metrics *observability.Metrics, ev EventType) {
	if metrics != nil {
		metrics.LiveEvents.WithLabelValues(ev.String()).Inc()
	}
}

func countReconnect(metrics *observability.Metrics) {
	if metrics != nil {
		metrics.LiveReconnects.Inc()
	}
}
