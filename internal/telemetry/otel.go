package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/spider2544-git/TopDownShooter12-sub002"

// OTelMetrics forwards Add calls to lazily created Int64Counters and exposes
// stored values through one observable gauge keyed by a "key" attribute.
type OTelMetrics struct {
	meter metric.Meter

	mu       sync.Mutex
	counters map[string]metric.Int64Counter
	gauges   map[string]int64
	failed   map[string]struct{}
	logger   Logger
}

// NewOTelMetrics registers the gauge callback on the given meter. A nil meter
// uses the global provider, which is a no-op until one is installed.
func NewOTelMetrics(meter metric.Meter, logger Logger) (*OTelMetrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}
	if logger == nil {
		logger = NopLogger()
	}
	m := &OTelMetrics{
		meter:    meter,
		counters: make(map[string]metric.Int64Counter),
		gauges:   make(map[string]int64),
		failed:   make(map[string]struct{}),
		logger:   logger,
	}

	gauge, err := meter.Int64ObservableGauge(
		"hazardcore.gauge",
		metric.WithDescription("Last stored value per telemetry key"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating gauge: %w", err)
	}
	_, err = meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for key, value := range m.gauges {
				o.ObserveInt64(gauge, value, metric.WithAttributes(attribute.String("key", key)))
			}
			return nil
		},
		gauge,
	)
	if err != nil {
		return nil, fmt.Errorf("registering gauge callback: %w", err)
	}
	return m, nil
}

// Add implements Metrics.
func (m *OTelMetrics) Add(key string, delta uint64) {
	if m == nil || key == "" {
		return
	}
	counter, ok := m.counter(key)
	if !ok {
		return
	}
	counter.Add(context.Background(), int64(delta))
}

// Store implements Metrics.
func (m *OTelMetrics) Store(key string, value uint64) {
	if m == nil || key == "" {
		return
	}
	m.mu.Lock()
	m.gauges[key] = int64(value)
	m.mu.Unlock()
}

func (m *OTelMetrics) counter(key string) (metric.Int64Counter, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[key]; ok {
		return c, true
	}
	if _, failed := m.failed[key]; failed {
		return nil, false
	}
	c, err := m.meter.Int64Counter(key, metric.WithDescription("hazard core counter "+key))
	if err != nil {
		m.failed[key] = struct{}{}
		m.logger.Printf("warn: creating counter %s: %v", key, err)
		return nil, false
	}
	m.counters[key] = c
	return c, true
}
