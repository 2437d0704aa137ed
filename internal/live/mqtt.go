package live

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
)

// MQTT receives live events from a broker, one topic per event name
type MQTT struct {
	broker   string
	prefix   string
	clientID string
	policy   Policy
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewMQTT creates an MQTT channel subscribing to <prefix>/new_report and <prefix>/emergency_alert
func NewMQTT(broker, prefix, clientID string, policy Policy, logger *slog.Logger, metrics *observability.Metrics) *MQTT {
	if logger == nil {
		logger = observability.NewDiscardLogger()
	}
	return &MQTT{
		broker:   broker,
		prefix:   strings.TrimRight(prefix, "/"),
		clientID: "safestree-" + clientID,
		policy:   policy,
		logger:   logger,
		metrics:  metrics,
	}
}

// Topics returns the subscribed topics keyed by event name
func (m *MQTT) Topics() map[string]string {
	return map[string]string{
		NameNewReport:      m.prefix + "/" + NameNewReport,
		NameEmergencyAlert: m.prefix + "/" + NameEmergencyAlert,
	}
}

// Run connects to the broker and blocks until ctx ends or the policy gives up.
// Reconnection is left to the client library; every attempt is counted against the policy.
func (m *MQTT) Run(ctx context.Context, events chan<- Event) error {
	var (
		mu       sync.Mutex
		failures int
		gaveUp   = make(chan struct{})
		once     sync.Once
	)

	handler := m.messageHandler(ctx, events)

	opts := mqtt.NewClientOptions().
		AddBroker(m.broker).
		SetClientID(m.clientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(m.policy.Delay(1)).
		SetMaxReconnectInterval(m.maxInterval()).
		SetConnectTimeout(10 * time.Second)

	opts.SetConnectionAttemptHandler(func(broker *url.URL, tlsCfg *tls.Config) *tls.Config {
		mu.Lock()
		failures++
		previous := failures - 1
		mu.Unlock()

		if previous > 0 {
			countReconnect(m.metrics)
		}
		if m.policy.Exhausted(previous) {
			once.Do(func() { close(gaveUp) })
		}
		return tlsCfg
	})

	opts.SetOnConnectHandler(func(c mqtt.Client) {
		mu.Lock()
		failures = 0
		mu.Unlock()

		for _, topic := range m.Topics() {
			if token := c.Subscribe(topic, 1, handler); token.Wait() && token.Error() != nil {
				m.logger.Error("mqtt subscribe failed", "topic", topic, "error", token.Error())
			}
		}
		m.logger.Info("live channel connected", "broker", m.broker)
		countEvent(m.metrics, EventConnected)
		emit(ctx, events, Event{Type: EventConnected})
	})

	opts.SetConnectionLostHandler(func(c mqtt.Client, err error) {
		m.logger.Warn("live channel disconnected", "error", err)
		countEvent(m.metrics, EventDisconnected)
		emit(ctx, events, Event{Type: EventDisconnected, Err: err})
	})

	client := mqtt.NewClient(opts)
	client.Connect()
	defer client.Disconnect(250)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gaveUp:
		m.logger.Error("live channel giving up", "broker", m.broker)
		countEvent(m.metrics, EventGaveUp)
		emit(ctx, events, Event{Type: EventGaveUp})
		return ErrRetriesExhausted
	}
}

func (m *MQTT) maxInterval() time.Duration {
	if m.policy.MaxInterval > 0 {
		return m.policy.MaxInterval
	}
	return m.policy.Delay(1)
}

func (m *MQTT) messageHandler(ctx context.Context, events chan<- Event) mqtt.MessageHandler {
	return func(_ mqtt.Client, msg mqtt.Message) {
		name := msg.Topic()
		if i := strings.LastIndexByte(name, '/'); i >= 0 {
			name = name[i+1:]
		}

		ev, err := decodeEvent(name, msg.Payload())
		if errors.Is(err, errIgnoredEvent) {
			m.logger.Debug("skipping live event", "topic", msg.Topic())
			return
		}
		if err != nil {
			m.logger.Warn("dropping live event", "topic", msg.Topic(), "error", err)
			return
		}
		countEvent(m.metrics, ev.Type)
		emit(ctx, events, ev)
	}
}
