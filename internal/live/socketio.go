package live

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/safestree-terminal/internal/observability"
)

// Engine.IO v4 packet types
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
)

// Socket.IO packet types, carried inside Engine.IO messages
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

const defaultPingWindow = 45 * time.Second

var errServerClosed = errors.New("server closed the connection")

// SocketIO is a Socket.IO client speaking Engine.IO v4 over a WebSocket
type SocketIO struct {
	url     string
	dialer  *websocket.Dialer
	policy  Policy
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSocketIO creates a Socket.IO channel for the server at baseURL (http or https)
func NewSocketIO(baseURL string, policy Policy, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*SocketIO, error) {
	endpoint, err := socketURL(baseURL)
	if err != nil {
		return nil, err
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = observability.NewDiscardLogger()
	}
	return &SocketIO{
		url:     endpoint,
		dialer:  &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		policy:  policy,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// URL returns the WebSocket endpoint
func (s *SocketIO) URL() string {
	return s.url
}

func socketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid live channel URL %q: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid live channel URL %q: unsupported scheme", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/socket.io/"
	u.RawQuery = url.Values{"EIO": {"4"}, "transport": {"websocket"}}.Encode()
	return u.String(), nil
}

// Run connects and reconnects according to the policy until ctx ends or the policy gives up
func (s *SocketIO) Run(ctx context.Context, events chan<- Event) error {
	failures := 0
	for {
		connected, err := s.session(ctx, events)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if connected {
			failures = 0
			s.logger.Warn("live channel disconnected", "error", err)
			countEvent(s.metrics, EventDisconnected)
			if !emit(ctx, events, Event{Type: EventDisconnected, Err: err}) {
				return ctx.Err()
			}
		} else {
			s.logger.Debug("live channel connect failed", "url", s.url, "error", err)
		}

		failures++
		if s.policy.Exhausted(failures) {
			s.logger.Error("live channel giving up", "failures", failures, "error", err)
			countEvent(s.metrics, EventGaveUp)
			emit(ctx, events, Event{Type: EventGaveUp, Err: err})
			return ErrRetriesExhausted
		}

		delay := s.policy.Delay(failures)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(delay):
		}
		countReconnect(s.metrics)
	}
}

type handshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
}

func (h handshake) window() time.Duration {
	if h.PingInterval <= 0 {
		return defaultPingWindow
	}
	return time.Duration(h.PingInterval+h.PingTimeout) * time.Millisecond
}

// session runs one connection. It reports whether the Socket.IO connect completed.
func (s *SocketIO) session(ctx context.Context, events chan<- Event) (bool, error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetReadDeadline(time.Now().Add(defaultPingWindow))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return false, fmt.Errorf("reading open packet: %w", err)
	}
	if len(data) == 0 || data[0] != eioOpen {
		return false, fmt.Errorf("unexpected open packet %q", data)
	}
	var hs handshake
	if err := json.Unmarshal(data[1:], &hs); err != nil {
		return false, fmt.Errorf("decoding open packet: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte{eioMessage, sioConnect}); err != nil {
		return false, fmt.Errorf("sending connect: %w", err)
	}

	connected := false
	for {
		conn.SetReadDeadline(time.Now().Add(hs.window()))
		_, data, err := conn.ReadMessage()
		if err != nil {
			return connected, err
		}
		if len(data) == 0 {
			continue
		}

		switch data[0] {
		case eioPing:
			if err := conn.WriteMessage(websocket.TextMessage, []byte{eioPong}); err != nil {
				return connected, err
			}
		case eioClose:
			return connected, errServerClosed
		case eioMessage:
			if len(data) < 2 {
				continue
			}
			switch data[1] {
			case sioConnect:
				connected = true
				s.logger.Info("live channel connected", "sid", hs.SID)
				countEvent(s.metrics, EventConnected)
				if !emit(ctx, events, Event{Type: EventConnected}) {
					return connected, ctx.Err()
				}
			case sioDisconnect:
				return connected, errServerClosed
			case sioConnectError:
				return connected, fmt.Errorf("connect refused: %s", data[2:])
			case sioEvent:
				ev, err := parseEvent(data[2:])
				if errors.Is(err, errIgnoredEvent) {
					s.logger.Debug("skipping live event", "reason", err)
					continue
				}
				if err != nil {
					s.logger.Warn("dropping live event", "error", err)
					continue
				}
				countEvent(s.metrics, ev.Type)
				if !emit(ctx, events, ev) {
					return connected, ctx.Err()
				}
			}
		}
	}
}

// parseEvent decodes a Socket.IO event body such as ["new_report",{...}],
// skipping any namespace or acknowledgement ID before the array.
func parseEvent(body []byte) (Event, error) {
	start := strings.IndexByte(string(body), '[')
	if start < 0 {
		return Event{}, fmt.Errorf("malformed event %q", body)
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(body[start:], &parts); err != nil {
		return Event{}, fmt.Errorf("malformed event: %w", err)
	}
	if len(parts) < 2 {
		return Event{}, fmt.Errorf("event without payload %q", body)
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return Event{}, fmt.Errorf("malformed event name: %w", err)
	}
	return decodeEvent(name, parts[1])
}
