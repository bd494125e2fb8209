package ws

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Enqueuer accepts commands for the next simulation tick.
type Enqueuer interface {
	Enqueue(cmd sim.Command) (bool, string)
}

type HandlerConfig struct {
	Logger telemetry.Logger
	// Commands receives commands sent by clients. Nil makes the stream
	// read-only.
	Commands Enqueuer
}

// Handler upgrades requests to websocket event streams.
type Handler struct {
	hub      *Hub
	commands Enqueuer
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		commands: cfg.Commands,
		logger:   logger,
		upgrader: upgrader,
	}
}

// Handle serves one subscriber. The optional id query parameter names the
// actor that commands without an actorId are attributed to.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	actorID := r.URL.Query().Get("id")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("warn: upgrade failed for %q: %v", actorID, err)
		return
	}

	c, ok := h.hub.subscribe(actorID)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	go h.writePump(conn, c)
	h.readPump(conn, c)
}

func (h *Handler) readPump(conn *websocket.Conn, c *client) {
	defer func() {
		h.hub.unsubscribe(c)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Printf("warn: websocket read for %q: %v", c.actorID, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %q: %v", c.actorID, err)
			continue
		}

		switch msg.Type {
		case "command":
			h.handleCommand(c, msg)
		case "ping":
			h.reply(c, pongMessage{Type: "pong", ServerTime: time.Now().UnixMilli(), ClientTime: msg.SentAt})
		default:
			h.logger.Printf("unknown message type %q from %q", msg.Type, c.actorID)
		}
	}
}

func (h *Handler) handleCommand(c *client, msg clientMessage) {
	if msg.Command == nil {
		h.reply(c, commandRejectMessage{Type: "commandReject", Seq: msg.Seq, Reason: sim.CommandRejectInvalid})
		return
	}
	if h.commands == nil {
		h.reply(c, commandRejectMessage{Type: "commandReject", Seq: msg.Seq, Reason: "read_only"})
		return
	}
	cmd := *msg.Command
	if cmd.ActorID == "" {
		cmd.ActorID = c.actorID
	}
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = time.Now()
	}
	ok, reason := h.commands.Enqueue(cmd)
	if !ok {
		h.reply(c, commandRejectMessage{
			Type:   "commandReject",
			Seq:    msg.Seq,
			Reason: reason,
			Retry:  reason == sim.CommandRejectQueueLimit,
		})
		return
	}
	h.reply(c, commandAckMessage{Type: "commandAck", Seq: msg.Seq})
}

func (h *Handler) reply(c *client, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Printf("error: failed to marshal response for %q: %v", c.actorID, err)
		return
	}
	h.hub.mu.Lock()
	defer h.hub.mu.Unlock()
	if _, ok := h.hub.clients[c]; !ok {
		return
	}
	if !offer(c, data) {
		delete(h.hub.clients, c)
		c.close()
	}
}

// writePump is the only writer on conn.
func (h *Handler) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.hub.unsubscribe(c)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.hub.unsubscribe(c)
				return
			}
		}
	}
}

type clientMessage struct {
	Type    string       `json:"type"`
	Seq     uint64       `json:"seq,omitempty"`
	SentAt  int64        `json:"sentAt,omitempty"`
	Command *sim.Command `json:"command,omitempty"`
}

type eventMessage struct {
	Type  string        `json:"type"`
	Event logging.Event `json:"event"`
}

type commandAckMessage struct {
	Type string `json:"type"`
	Seq  uint64 `json:"seq"`
}

type commandRejectMessage struct {
	Type   string `json:"type"`
	Seq    uint64 `json:"seq"`
	Reason string `json:"reason"`
	Retry  bool   `json:"retry,omitempty"`
}

type pongMessage struct {
	Type       string `json:"type"`
	ServerTime int64  `json:"serverTime"`
	ClientTime int64  `json:"clientTime"`
}
