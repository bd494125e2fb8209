package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const clientSendBuffer = 64

// Hub is a logging sink that streams every routed event to the connected
// websocket clients as JSON. A client whose buffer is full is disconnected.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	metrics telemetry.Metrics
}

type client struct {
	send      chan []byte
	actorID   string
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewHub returns an empty hub.
func NewHub(metrics telemetry.Metrics) *Hub {
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Hub{clients: make(map[*client]struct{}), metrics: metrics}
}

// Clients reports the number of connected subscribers.
func (h *Hub) Clients() int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) subscribe(actorID string) (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &client{send: make(chan []byte, clientSendBuffer), actorID: actorID}
	h.clients[c] = struct{}{}
	h.metrics.Store("ws.clients", uint64(len(h.clients)))
	return c, true
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
	h.metrics.Store("ws.clients", uint64(len(h.clients)))
}

// Write broadcasts the event to every subscriber.
func (h *Hub) Write(event logging.Event) error {
	data, err := json.Marshal(eventMessage{Type: "event", Event: event})
	if err != nil {
		return fmt.Errorf("ws: encode event %s: %w", event.Type, err)
	}
	h.broadcast(data)
	return nil
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !offer(c, data) {
			delete(h.clients, c)
			c.close()
			h.metrics.Add("ws.dropped_clients", 1)
		}
	}
}

// offer queues data without blocking.
func offer(c *client, data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close(context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.metrics.Store("ws.clients", 0)
	return nil
}

var _ logging.Sink = (*Hub)(nil)
