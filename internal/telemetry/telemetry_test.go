package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestWrapZerolog(t *testing.T) {
	t.Run("info by default", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapZerolog(NewZerologLogger(&buf, "debug", false))
		logger.Printf("hello %s", "world")

		var line map[string]any
		if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
			t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
		}
		if line["level"] != "info" || line["message"] != "hello world" {
			t.Fatalf("unexpected log line: %v", line)
		}
	})

	t.Run("level markers", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapZerolog(NewZerologLogger(&buf, "info", false))
		logger.Printf("warn: wire disabled")
		logger.Printf("error: handle %d dangling", 3)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected two lines, got %d: %q", len(lines), buf.String())
		}
		if !strings.Contains(lines[0], `"level":"warn"`) || !strings.Contains(lines[0], `"message":"wire disabled"`) {
			t.Fatalf("unexpected warn line: %s", lines[0])
		}
		if !strings.Contains(lines[1], `"level":"error"`) {
			t.Fatalf("unexpected error line: %s", lines[1])
		}
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WrapZerolog(NewZerologLogger(&buf, "error", false))
		logger.Printf("placed %d sandbags", 12)
		if buf.Len() != 0 {
			t.Fatalf("expected info message to be filtered, got %q", buf.String())
		}
	})
}

func TestCounters(t *testing.T) {
	var counters Counters
	counters.Add("hazards.detonations", 2)
	counters.Store("hazards.tick_us", 5)
	counters.Add("hazards.detonations", 3)
	counters.Store("hazards.tick_us", 7)

	snapshot := counters.Snapshot()
	if got := snapshot["hazards.detonations"]; got != 5 {
		t.Fatalf("unexpected counter value: %d", got)
	}
	if got := snapshot["hazards.tick_us"]; got != 7 {
		t.Fatalf("unexpected gauge value: %d", got)
	}
	if keys := counters.Keys(); len(keys) != 2 || keys[0] != "hazards.detonations" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	var nilCounters *Counters
	nilCounters.Add("ignored", 1)
	nilCounters.Store("ignored", 1)
}

func TestTeeForwardsToEveryTarget(t *testing.T) {
	var a, b Counters
	metrics := Tee(&a, nil, &b)
	metrics.Add("k", 4)
	metrics.Store("g", 9)
	for _, c := range []*Counters{&a, &b} {
		snapshot := c.Snapshot()
		if snapshot["k"] != 4 || snapshot["g"] != 9 {
			t.Fatalf("unexpected snapshot: %v", snapshot)
		}
	}
}

func TestOTelMetricsAcceptsNoopMeter(t *testing.T) {
	metrics, err := NewOTelMetrics(noop.NewMeterProvider().Meter("test"), nil)
	if err != nil {
		t.Fatalf("NewOTelMetrics: %v", err)
	}
	metrics.Add("hazards.placement.attempts", 3)
	metrics.Add("hazards.placement.attempts", 1)
	metrics.Store("hazards.tick_us", 120)

	if len(metrics.counters) != 1 {
		t.Fatalf("expected one cached counter, got %d", len(metrics.counters))
	}
	if metrics.gauges["hazards.tick_us"] != 120 {
		t.Fatalf("expected gauge to be stored, got %v", metrics.gauges)
	}
}
