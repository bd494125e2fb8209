package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/net/ws"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/session"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
)

// State is the read side of a running session.
type State interface {
	Snapshot() session.Snapshot
	EncodeSnapshot() ([]byte, error)
	Status(id string) (hazards.ActorStatus, bool)
}

// CommandQueue accepts commands for the next tick.
type CommandQueue interface {
	ws.Enqueuer
	Pending() int
}

type HTTPHandlerConfig struct {
	Logger telemetry.Logger
	// Counters is reported by /diagnostics when set.
	Counters *telemetry.Counters
	// Events enables the /events websocket stream when set.
	Events *ws.Hub
}

func NewHTTPHandler(state State, commands CommandQueue, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		snap := state.Snapshot()
		payload := struct {
			Status     string            `json:"status"`
			ServerTime int64             `json:"serverTime"`
			Tick       uint64            `json:"tick"`
			Clock      float64           `json:"clock"`
			Seed       string            `json:"seed"`
			Units      int               `json:"units"`
			Pending    int               `json:"pendingCommands"`
			Telemetry  map[string]uint64 `json:"telemetry,omitempty"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			Tick:       snap.Tick,
			Clock:      snap.Clock,
			Seed:       snap.Seed,
			Units:      len(snap.Units),
			Pending:    commands.Pending(),
			Telemetry:  cfg.Counters.Snapshot(),
		}
		writeJSON(w, logger, nethttp.StatusOK, payload)
	})

	mux.HandleFunc("/snapshot", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Query().Get("format") == "json" {
			writeJSON(w, logger, nethttp.StatusOK, state.Snapshot())
			return
		}
		data, err := state.EncodeSnapshot()
		if err != nil {
			logger.Printf("error: failed to encode snapshot: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		w.Write(data)
	})

	mux.HandleFunc("/status", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			httpError(w, "missing id", nethttp.StatusBadRequest)
			return
		}
		status, ok := state.Status(id)
		if !ok {
			httpError(w, "unknown actor", nethttp.StatusNotFound)
			return
		}
		writeJSON(w, logger, nethttp.StatusOK, status)
	})

	mux.HandleFunc("/commands", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			httpError(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()

		var cmd sim.Command
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			httpError(w, "invalid payload", nethttp.StatusBadRequest)
			return
		}
		if cmd.IssuedAt.IsZero() {
			cmd.IssuedAt = time.Now()
		}

		ok, reason := commands.Enqueue(cmd)
		response := struct {
			Status string `json:"status"`
			Reason string `json:"reason,omitempty"`
		}{Status: "queued"}
		code := nethttp.StatusAccepted
		if !ok {
			response.Status = "rejected"
			response.Reason = reason
			code = rejectStatus(reason)
		}
		writeJSON(w, logger, code, response)
	})

	if cfg.Events != nil {
		handler := ws.NewHandler(cfg.Events, ws.HandlerConfig{Logger: logger, Commands: commands})
		mux.HandleFunc("/events", handler.Handle)
	}

	return mux
}

func rejectStatus(reason string) int {
	switch reason {
	case sim.CommandRejectQueueLimit, sim.CommandRejectQueueFull:
		return nethttp.StatusTooManyRequests
	case sim.CommandRejectInvalid:
		return nethttp.StatusBadRequest
	}
	return nethttp.StatusServiceUnavailable
}

func writeJSON(w nethttp.ResponseWriter, logger telemetry.Logger, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("error: failed to encode response: %v", err)
		httpError(w, "failed to encode", nethttp.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
