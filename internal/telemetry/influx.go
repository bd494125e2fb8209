package telemetry

import (
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// InfluxConfig selects the InfluxDB bucket counters are written to.
type InfluxConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	URL           string        `mapstructure:"url"`
	Token         string        `mapstructure:"token"`
	Org           string        `mapstructure:"org"`
	Bucket        string        `mapstructure:"bucket"`
	Measurement   string        `mapstructure:"measurement"`
	FlushInterval time.Duration `mapstructure:"flushInterval"`
}

// PointWriter is the non-blocking write side of an InfluxDB client.
type PointWriter interface {
	WritePoint(point *influxdb2_write.Point)
}

// InfluxMetrics writes every Add and Store as a point. Keys are split on the
// first dot into a subsystem tag and a field name, so "hazards.tick_us"
// becomes subsystem=hazards tick_us=<v>.
type InfluxMetrics struct {
	writer      PointWriter
	measurement string
	clock       func() time.Time
}

// NewInfluxMetrics wraps an existing writer.
func NewInfluxMetrics(writer PointWriter, measurement string) *InfluxMetrics {
	if measurement == "" {
		measurement = "hazardcore"
	}
	return &InfluxMetrics{writer: writer, measurement: measurement, clock: time.Now}
}

// DialInflux builds a client from cfg. The returned close func flushes
// pending points and releases the client.
func DialInflux(cfg InfluxConfig, logger Logger) (*InfluxMetrics, func()) {
	if logger == nil {
		logger = NopLogger()
	}
	interval := cfg.FlushInterval
	if interval <= 0 {
		interval = time.Second
	}
	client := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(uint(interval.Milliseconds())),
	)
	writeAPI := client.WriteAPI(cfg.Org, cfg.Bucket)
	go func() {
		for err := range writeAPI.Errors() {
			logger.Printf("warn: influx write to %s failed: %v", cfg.Bucket, err)
		}
	}()
	closeFn := func() {
		writeAPI.Flush()
		client.Close()
	}
	return NewInfluxMetrics(writeAPI, cfg.Measurement), closeFn
}

// Add implements Metrics.
func (m *InfluxMetrics) Add(key string, delta uint64) {
	m.write(key, "delta", delta)
}

// Store implements Metrics.
func (m *InfluxMetrics) Store(key string, value uint64) {
	m.write(key, "value", value)
}

func (m *InfluxMetrics) write(key, kind string, v uint64) {
	if m == nil || m.writer == nil || key == "" {
		return
	}
	subsystem, field := "core", key
	if i := strings.IndexByte(key, '.'); i > 0 {
		subsystem, field = key[:i], key[i+1:]
	}
	point := influxdb2_write.NewPointWithMeasurement(m.measurement).
		AddTag("subsystem", subsystem).
		AddTag("kind", kind).
		AddField(field, v).
		SetTime(m.clock())
	m.writer.WritePoint(point)
}
