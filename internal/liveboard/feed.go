// Package liveboard subscribes to an external draft feed over WebSocket
// and applies pick events to a board. The feed carries one JSON message
// per confirmed pick; simulation runs against a snapshot of the board,
// never the live copy.
package liveboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"bestball-lab/internal/domain"
	"bestball-lab/internal/observability"
)

// Feed errors.
var (
	ErrClosed       = errors.New("feed closed")
	ErrSlotOccupied = errors.New("slot already occupied")
	ErrBadOverall   = errors.New("overall out of range")
)

// PickEvent is one confirmed pick announced by the draft feed.
type PickEvent struct {
	Overall  int    `json:"overall"`
	TeamSlot int    `json:"teamSlot"`
	PlayerID string `json:"playerId"`
}

// FeedConfig configures feed client behavior.
type FeedConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// WriteTimeout is timeout for writing control frames.
	WriteTimeout time.Duration
	// Buffer is the pick event channel capacity.
	Buffer int
}

// DefaultFeedConfig returns default feed configuration.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		WriteTimeout:      10 * time.Second,
		Buffer:            64,
	}
}

// Feed is a WebSocket client for a draft pick feed.
type Feed struct {
	endpoint string
	config   FeedConfig

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	events chan PickEvent

	// done signals shutdown
	done chan struct{}
	wg   sync.WaitGroup
}

// NewFeed connects to the draft feed endpoint and starts reading.
func NewFeed(ctx context.Context, endpoint string, config *FeedConfig) (*Feed, error) {
	cfg := DefaultFeedConfig()
	if config != nil {
		cfg = *config
	}

	f := &Feed{
		endpoint: endpoint,
		config:   cfg,
		events:   make(chan PickEvent, cfg.Buffer),
		done:     make(chan struct{}),
	}

	if err := f.connect(ctx); err != nil {
		return nil, err
	}

	f.wg.Add(1)
	go f.readLoop()

	f.wg.Add(1)
	go f.pingLoop()

	return f, nil
}

// connect establishes the WebSocket connection.
func (f *Feed) connect(ctx context.Context) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, f.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	f.conn = conn
	return nil
}

// Events returns the channel of received pick events. Closed when the
// feed shuts down.
func (f *Feed) Events() <-chan PickEvent {
	return f.events
}

// readLoop reads pick events and dispatches them, reconnecting with
// exponential backoff on connection errors.
func (f *Feed) readLoop() {
	defer f.wg.Done()
	defer close(f.events)

	reconnectDelay := f.config.ReconnectDelay

	for {
		select {
		case <-f.done:
			return
		default:
		}

		f.connMu.Lock()
		conn := f.conn
		f.connMu.Unlock()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			if f.closed.Load() {
				return
			}

			observability.DefaultMetrics.LiveBoardReconnects.Inc()
			select {
			case <-f.done:
				return
			case <-time.After(reconnectDelay):
			}

			// Exponential backoff
			reconnectDelay *= 2
			if reconnectDelay > f.config.MaxReconnectDelay {
				reconnectDelay = f.config.MaxReconnectDelay
			}

			if err := f.connect(context.Background()); err != nil {
				continue
			}
			reconnectDelay = f.config.ReconnectDelay
			continue
		}

		var event PickEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		if event.Overall <= 0 || event.PlayerID == "" {
			continue
		}

		observability.RecordPickEvent()
		select {
		case f.events <- event:
		case <-f.done:
			return
		}
	}
}

// pingLoop sends periodic ping frames to keep the connection alive.
func (f *Feed) pingLoop() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-f.done:
			return
		case <-ticker.C:
			f.connMu.Lock()
			conn := f.conn
			f.connMu.Unlock()

			deadline := time.Now().Add(f.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				// Connection might be dead, reader will handle reconnect
				continue
			}
		}
	}
}

// Close shuts down the feed. Safe to call more than once.
func (f *Feed) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	close(f.done)

	f.connMu.Lock()
	err := f.conn.Close()
	f.connMu.Unlock()

	f.wg.Wait()
	return err
}

// Apply writes a pick event into the board. The event must target an
// open slot; re-delivery of the same pick is a no-op.
func Apply(board *domain.Board, event PickEvent) error {
	if event.Overall < 1 || event.Overall > len(board.Slots) {
		return fmt.Errorf("%w: %d of %d", ErrBadOverall, event.Overall, len(board.Slots))
	}

	slot := &board.Slots[event.Overall-1]
	if slot.PlayerID == event.PlayerID {
		return nil
	}
	if slot.PlayerID != "" {
		return fmt.Errorf("%w: overall %d held by %s", ErrSlotOccupied, event.Overall, slot.PlayerID)
	}

	slot.PlayerID = event.PlayerID
	return nil
}
