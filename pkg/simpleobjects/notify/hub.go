// Package notify implements the realtime notifier: a registry of websocket
// connections that object lifecycle events are fanned out to, fire-and-forget,
// with no acknowledgment or replay for late joiners.
package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
	ws "nhooyr.io/websocket"
)

// Event names emitted to connected clients.
const (
	EventObjectCreated = "objectCreated"
	EventObjectDeleted = "objectDeleted"
)

const (
	sendBuffer   = 16
	writeTimeout = 5 * time.Second
)

// wsEvent is the frame sent to clients.
type wsEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type connection struct {
	sock   *ws.Conn
	send   chan []byte
	closed chan struct{}
	once   sync.Once
}

func (c *connection) shutdown() {
	c.once.Do(func() { close(c.closed) })
}

// Hub fans events out to all connected websocket clients. Connections
// register on accept and deregister when their read loop ends; no other
// per-client state is kept.
type Hub struct {
	logger zerolog.Logger

	mu    sync.RWMutex
	conns map[*connection]struct{}
}

// NewHub creates a new websocket hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger.With().Str("component", "notify").Logger(),
		conns:  make(map[*connection]struct{}),
	}
}

// HandleWS upgrades the request to a websocket connection and keeps it
// registered with the hub until the client goes away. No handshake payload
// is expected; inbound messages are discarded.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	sock, err := ws.Accept(w, r, &ws.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket accept failed")
		return
	}

	c := &connection{
		sock:   sock,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}

	h.add(c)
	h.logger.Info().Int("clients", h.ClientCount()).Msg("realtime client connected")

	defer func() {
		c.shutdown()
		h.remove(c)
		h.logger.Info().Int("clients", h.ClientCount()).Msg("realtime client disconnected")
	}()

	ctx := r.Context()
	go c.writeLoop(ctx)

	// Block until the client closes or the connection errors. Read is needed
	// to process control frames even though inbound messages are ignored.
	for {
		if _, _, err := sock.Read(ctx); err != nil {
			sock.Close(ws.StatusNormalClosure, "")
			return
		}
	}
}

func (c *connection) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case frame := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.sock.Write(wctx, ws.MessageText, frame)
			cancel()
			if err != nil {
				c.shutdown()
				return
			}
		}
	}
}

// Broadcast sends an event to every connected client. A client whose send
// buffer is full misses the event; broadcasting never blocks or fails.
func (h *Hub) Broadcast(event string, data any) {
	frame, err := json.Marshal(wsEvent{Event: event, Data: data})
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	conns := make([]*connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn().Str("event", event).Msg("client send buffer full, dropping event")
		}
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) add(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// ObjectCreated implements simpleobjects.EventSink
func (h *Hub) ObjectCreated(ctx context.Context, record *simpleobjects.ObjectRecord) error {
	h.Broadcast(EventObjectCreated, simpleobjects.ObjectCreatedEvent{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		CreatedAt:   record.CreatedAt,
	})
	return nil
}

// ObjectDeleted implements simpleobjects.EventSink
func (h *Hub) ObjectDeleted(ctx context.Context, objectID uuid.UUID, deletedAt time.Time) error {
	h.Broadcast(EventObjectDeleted, simpleobjects.ObjectDeletedEvent{
		ID:        objectID,
		DeletedAt: deletedAt,
	})
	return nil
}
