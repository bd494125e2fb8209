package net

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/session"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
)

func newTestServer(t *testing.T, loopCfg sim.LoopConfig) (*httptest.Server, *session.Session, *sim.Loop, *telemetry.Counters) {
	t.Helper()
	counters := &telemetry.Counters{}
	s, err := session.New(session.Config{
		World:   world.Config{Seed: "http-test"},
		Hazards: hazards.DefaultConfig(),
	}, session.Deps{Metrics: counters})
	if err != nil {
		t.Fatalf("failed to build session: %v", err)
	}
	s.AddUnit(session.Unit{ID: "p1", Kind: hazards.ActorPlayer, X: 0, Y: 0, Size: 10, Health: 100, MaxHealth: 100})

	loop := sim.NewLoop(s, loopCfg, sim.LoopDeps{Metrics: counters}, sim.LoopHooks{})
	srv := httptest.NewServer(NewHTTPHandler(s, loop, HTTPHandlerConfig{Counters: counters}))
	t.Cleanup(srv.Close)
	return srv, s, loop, counters
}

func TestHealth(t *testing.T) {
	srv, _, _, _ := newTestServer(t, sim.DefaultLoopConfig())

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestSnapshotFormats(t *testing.T) {
	srv, s, _, _ := newTestServer(t, sim.DefaultLoopConfig())
	want := s.Snapshot()

	resp, err := http.Get(srv.URL + "/snapshot")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/msgpack" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var packed session.Snapshot
	if err := msgpack.NewDecoder(resp.Body).Decode(&packed); err != nil {
		t.Fatalf("failed to decode msgpack snapshot: %v", err)
	}
	if packed.Seed != want.Seed || len(packed.Units) != 1 || len(packed.Hazards.Barrels) != len(want.Hazards.Barrels) {
		t.Fatalf("msgpack snapshot mismatch: seed=%q units=%d barrels=%d", packed.Seed, len(packed.Units), len(packed.Hazards.Barrels))
	}

	jsonResp, err := http.Get(srv.URL + "/snapshot?format=json")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer jsonResp.Body.Close()
	var decoded struct {
		Seed  string `json:"seed"`
		Units []struct {
			ID string `json:"id"`
		} `json:"units"`
	}
	if err := json.NewDecoder(jsonResp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode json snapshot: %v", err)
	}
	if decoded.Seed != "http-test" || len(decoded.Units) != 1 || decoded.Units[0].ID != "p1" {
		t.Fatalf("json snapshot mismatch: %+v", decoded)
	}
}

func TestCommandIntake(t *testing.T) {
	srv, s, loop, _ := newTestServer(t, sim.DefaultLoopConfig())

	body := `{"type":"Move","actorId":"p1","move":{"dx":1,"dy":0}}`
	resp, err := http.Post(srv.URL+"/commands", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if loop.Pending() != 1 {
		t.Fatalf("expected 1 pending command, got %d", loop.Pending())
	}

	loop.Advance(time.Now(), 0.1)
	unit, ok := s.Unit("p1")
	if !ok {
		t.Fatalf("expected unit p1")
	}
	if unit.X <= 0 {
		t.Fatalf("expected queued move to apply, unit at %.2f", unit.X)
	}
}

func TestCommandIntakeRejections(t *testing.T) {
	cfg := sim.DefaultLoopConfig()
	cfg.PerActorLimit = 1
	srv, _, _, counters := newTestServer(t, cfg)

	post := func(body string) (int, map[string]string) {
		t.Helper()
		resp, err := http.Post(srv.URL+"/commands", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		var decoded map[string]string
		json.NewDecoder(resp.Body).Decode(&decoded)
		return resp.StatusCode, decoded
	}

	if code, _ := post(`{"type":"Noise","actorId":"p1"}`); code != http.StatusAccepted {
		t.Fatalf("expected first command accepted, got %d", code)
	}
	code, decoded := post(`{"type":"Noise","actorId":"p1"}`)
	if code != http.StatusTooManyRequests || decoded["reason"] != sim.CommandRejectQueueLimit {
		t.Fatalf("expected queue_limit rejection, got %d %+v", code, decoded)
	}
	code, decoded = post(`{"type":"DamageBarrel","barrel":{"damage":10}}`)
	if code != http.StatusBadRequest || decoded["reason"] != sim.CommandRejectInvalid {
		t.Fatalf("expected invalid rejection, got %d %+v", code, decoded)
	}
	if code, _ := post(`not json`); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", code)
	}

	resp, err := http.Get(srv.URL + "/commands")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
	if len(counters.Keys()) == 0 {
		t.Fatalf("expected loop drops to be counted")
	}
}

func TestStatusLookup(t *testing.T) {
	srv, s, _, _ := newTestServer(t, sim.DefaultLoopConfig())
	s.Tick(0.1)

	resp, err := http.Get(srv.URL + "/status?id=p1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var status hazards.ActorStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	if status.SpeedMultiplier != 1 {
		t.Fatalf("expected unhindered unit at the safe zone, got %+v", status)
	}

	missing, err := http.Get(srv.URL + "/status?id=ghost")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown actor, got %d", missing.StatusCode)
	}
}

func TestDiagnosticsReportsTelemetry(t *testing.T) {
	srv, s, _, _ := newTestServer(t, sim.DefaultLoopConfig())
	s.Tick(0.1)

	resp, err := http.Get(srv.URL + "/diagnostics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		Status    string            `json:"status"`
		Tick      uint64            `json:"tick"`
		Units     int               `json:"units"`
		Telemetry map[string]uint64 `json:"telemetry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if payload.Status != "ok" || payload.Tick != 1 || payload.Units != 1 {
		t.Fatalf("unexpected diagnostics: %+v", payload)
	}
	if _, ok := payload.Telemetry["hazards.tick_us"]; !ok {
		t.Fatalf("expected hazards.tick_us in telemetry, got %v", payload.Telemetry)
	}
}

func TestEventsRouteRequiresHub(t *testing.T) {
	srv, _, _, _ := newTestServer(t, sim.DefaultLoopConfig())

	resp, err := http.Get(srv.URL + "/events")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected /events to be absent without a hub, got %d", resp.StatusCode)
	}
}
