package infrastructure

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/architeacher/svc-trip-planner/internal/config"
	"github.com/architeacher/svc-trip-planner/pkg/queue"
)

type Logger struct {
	zerolog.Logger
}

func New(cfg config.LoggingConfig) Logger {
	return newLogger(os.Stdout, cfg)
}

// NewTestLogger discards everything below error.
func NewTestLogger() Logger {
	return Logger{Logger: zerolog.New(io.Discard).Level(zerolog.ErrorLevel)}
}

func newLogger(out io.Writer, cfg config.LoggingConfig) Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return Logger{
		Logger: zerolog.New(out).
			Level(level).
			With().
			Timestamp().
			Logger(),
	}
}

// QueueLogger adapts the logger for the queue clients.
func (l Logger) QueueLogger() queue.Logger {
	return queue.NewZerologAdapter(l.Logger)
}
