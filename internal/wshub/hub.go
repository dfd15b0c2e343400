package wshub

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"roomrelay/internal/broadcast"
	"roomrelay/internal/events"
	"roomrelay/internal/observability"
)

// Client represents a single WebSocket connection in the hub.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// NewClient creates a client with a send queue of the given length.
func NewClient(id string, conn *websocket.Conn, buffer int) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan []byte, buffer),
	}
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
// It returns when ctx is done, the channel is closed, or a write fails.
func (c *Client) WritePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-c.Send:
			if !ok {
				return nil
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return err
			}
		}
	}
}

// Hub tracks live connections and the room groups they belong to. It is the
// transport primitive the room coordinator emits through.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	groups  *broadcast.Broadcaster
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewHub creates a new Hub.
func NewHub(logger *zap.Logger, metrics *observability.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		groups:  broadcast.NewBroadcaster(),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.ID] = c
	h.metrics.ConnectionOpened()
}

// Unregister removes a client from the hub and every group, then closes its
// Send channel. Unknown IDs are ignored.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	h.groups.UnsubscribeAll(c.Send)
	close(c.Send)
	delete(h.clients, id)
	h.metrics.ConnectionClosed()
}

// JoinGroup subscribes the connection to group broadcasts.
func (h *Hub) JoinGroup(id, group string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[id]; ok {
		h.groups.Subscribe(group, c.Send)
	}
}

// LeaveGroup stops group broadcasts to the connection.
func (h *Hub) LeaveGroup(id, group string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[id]; ok {
		h.groups.Unsubscribe(group, c.Send)
	}
}

// EmitTo sends an event to a single connection. Non-blocking: drops if the
// channel is full.
func (h *Hub) EmitTo(id, event string, payload any) {
	data, err := events.Encode(event, payload)
	if err != nil {
		h.logger.Error("encoding frame", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
		h.metrics.FrameDropped()
		h.logger.Warn("send queue full, dropping frame", zap.String("conn", id), zap.String("event", event))
	}
}

// EmitToGroup sends an event to every connection in group.
func (h *Hub) EmitToGroup(group, event string, payload any) {
	data, err := events.Encode(event, payload)
	if err != nil {
		h.logger.Error("encoding frame", zap.String("event", event), zap.Error(err))
		return
	}
	if dropped := h.groups.Broadcast(group, data); dropped > 0 {
		for i := 0; i < dropped; i++ {
			h.metrics.FrameDropped()
		}
		h.logger.Warn("send queue full, dropping group frame",
			zap.String("room", group), zap.String("event", event), zap.Int("dropped", dropped))
	}
}

// GroupSize returns the number of connections subscribed to group.
func (h *Hub) GroupSize(group string) int {
	return h.groups.Size(group)
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
