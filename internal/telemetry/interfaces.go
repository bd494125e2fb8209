package telemetry

import (
	"sort"
	"sync"
)

// Logger exposes the logging capabilities required by server components.
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts functions into the Logger interface.
type LoggerFunc func(format string, args ...any)

// Printf implements Logger for LoggerFunc.
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// NopLogger discards every message.
func NopLogger() Logger {
	return LoggerFunc(func(string, ...any) {})
}

// Metrics exposes the telemetry methods required by server components. Add
// accumulates a counter; Store overwrites a gauge.
type Metrics interface {
	Add(key string, delta uint64)
	Store(key string, value uint64)
}

type nopMetrics struct{}

func (nopMetrics) Add(string, uint64)   {}
func (nopMetrics) Store(string, uint64) {}

// NopMetrics discards every measurement.
func NopMetrics() Metrics {
	return nopMetrics{}
}

// Counters is an in-process Metrics implementation that can be snapshotted.
type Counters struct {
	mu     sync.Mutex
	values map[string]uint64
}

// Add implements Metrics.
func (c *Counters) Add(key string, delta uint64) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] += delta
}

// Store implements Metrics.
func (c *Counters) Store(key string, value uint64) {
	if c == nil || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]uint64)
	}
	c.values[key] = value
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() map[string]uint64 {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Keys lists the recorded keys in sorted order.
func (c *Counters) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tee forwards every measurement to each non-nil Metrics.
func Tee(targets ...Metrics) Metrics {
	filtered := make(teeMetrics, 0, len(targets))
	for _, t := range targets {
		if t != nil {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

type teeMetrics []Metrics

func (t teeMetrics) Add(key string, delta uint64) {
	for _, m := range t {
		m.Add(key, delta)
	}
}

func (t teeMetrics) Store(key string, value uint64) {
	for _, m := range t {
		m.Store(key, value)
	}
}
