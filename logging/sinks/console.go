package sinks

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

// Console renders events as human readable lines through zerolog.
type Console struct {
	logger zerolog.Logger
}

func NewConsole(w io.Writer, cfg logging.ConsoleConfig) *Console {
	if w == nil {
		w = io.Discard
	}
	writer := zerolog.ConsoleWriter{Out: w, NoColor: !cfg.UseColor, TimeFormat: "15:04:05.000"}
	return &Console{logger: zerolog.New(writer)}
}

func (s *Console) Write(event logging.Event) error {
	entry := s.logger.WithLevel(levelFor(event.Severity)).
		Time(zerolog.TimestampFieldName, event.Time).
		Uint64("tick", event.Tick).
		Str("actor", formatEntity(event.Actor))
	if event.Category != "" {
		entry = entry.Str("category", event.Category)
	}
	if len(event.Targets) > 0 {
		targets := make([]string, 0, len(event.Targets))
		for _, target := range event.Targets {
			targets = append(targets, formatEntity(target))
		}
		entry = entry.Strs("targets", targets)
	}
	if event.Payload != nil {
		entry = entry.Interface("payload", event.Payload)
	}
	if len(event.Extra) > 0 {
		entry = entry.Fields(event.Extra)
	}
	entry.Msg(string(event.Type))
	return nil
}

func (s *Console) Close(context.Context) error {
	return nil
}

func levelFor(sev logging.Severity) zerolog.Level {
	switch sev {
	case logging.SeverityDebug:
		return zerolog.DebugLevel
	case logging.SeverityInfo:
		return zerolog.InfoLevel
	case logging.SeverityWarn:
		return zerolog.WarnLevel
	case logging.SeverityError:
		return zerolog.ErrorLevel
	default:
		return zerolog.NoLevel
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return string(ref.Kind) + ":" + ref.ID
}
