package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// NewZerologLogger builds the process logger. level accepts zerolog level
// names; anything unknown falls back to info. pretty selects the console
// writer over raw JSON lines.
func NewZerologLogger(w io.Writer, level string, pretty bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// WrapZerolog adapts a zerolog logger to the Logger interface. Messages are
// written at info level unless they start with a "warn:" or "error:" marker.
func WrapZerolog(logger zerolog.Logger) Logger {
	return &zerologAdapter{logger: logger}
}

type zerologAdapter struct {
	logger zerolog.Logger
}

func (l *zerologAdapter) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	event := l.logger.Info()
	switch {
	case strings.HasPrefix(msg, "error: "):
		event = l.logger.Error()
		msg = strings.TrimPrefix(msg, "error: ")
	case strings.HasPrefix(msg, "warn: "):
		event = l.logger.Warn()
		msg = strings.TrimPrefix(msg, "warn: ")
	}
	event.Msg(msg)
}
