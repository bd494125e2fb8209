package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Graylog2/go-gelf/gelf"

	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

// GELFWriter is the part of *gelf.Writer the sink uses.
type GELFWriter interface {
	WriteMessage(m *gelf.Message) error
	Close() error
}

// GELF ships events to a Graylog input.
type GELF struct {
	writer   GELFWriter
	host     string
	facility string
}

// DialGELF opens a UDP GELF writer to addr.
func DialGELF(cfg logging.GELFConfig) (*GELF, error) {
	w, err := gelf.NewWriter(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("gelf: dial %s: %w", cfg.Address, err)
	}
	return NewGELF(w, cfg.Facility), nil
}

func NewGELF(w GELFWriter, facility string) *GELF {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "hazardcore"
	}
	if facility == "" {
		facility = "hazardcore"
	}
	return &GELF{writer: w, host: host, facility: facility}
}

func (s *GELF) Write(event logging.Event) error {
	extra := map[string]any{
		"_tick":  event.Tick,
		"_actor": formatEntity(event.Actor),
	}
	if event.Category != "" {
		extra["_category"] = event.Category
	}
	if len(event.Targets) > 0 {
		targets := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			targets = append(targets, formatEntity(target))
		}
		extra["_targets"] = targets
	}
	for k, v := range event.Extra {
		extra["_"+k] = v
	}

	msg := &gelf.Message{
		Version:  "1.1",
		Host:     s.host,
		Short:    string(event.Type),
		TimeUnix: float64(event.Time.UnixNano()) / 1e9,
		Level:    syslogLevel(event.Severity),
		Facility: s.facility,
		Extra:    extra,
	}
	if event.Payload != nil {
		full, err := json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("gelf: encode payload for %s: %w", event.Type, err)
		}
		msg.Full = string(full)
	}
	return s.writer.WriteMessage(msg)
}

func (s *GELF) Close(context.Context) error {
	return s.writer.Close()
}

func syslogLevel(sev logging.Severity) int32 {
	switch sev {
	case logging.SeverityDebug:
		return 7
	case logging.SeverityInfo:
		return 6
	case logging.SeverityWarn:
		return 4
	case logging.SeverityError:
		return 3
	default:
		return 6
	}
}
