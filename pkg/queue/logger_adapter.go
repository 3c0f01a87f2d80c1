package queue

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter adapts a zerolog logger to the queue logger interface.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a new logger adapter tagged with the queue component.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{
		logger: logger.With().Str("component", "queue").Logger(),
	}
}

// Debug returns a debug log event
func (l *ZerologAdapter) Debug() LogEvent {
	return &zerologEvent{event: l.logger.Debug()}
}

// Info returns an info log event
func (l *ZerologAdapter) Info() LogEvent {
	return &zerologEvent{event: l.logger.Info()}
}

// Warn returns a warning log event
func (l *ZerologAdapter) Warn() LogEvent {
	return &zerologEvent{event: l.logger.Warn()}
}

// Error returns an error log event
func (l *ZerologAdapter) Error() LogEvent {
	return &zerologEvent{event: l.logger.Error()}
}

// zerologEvent relies on zerolog events being nil-safe when the level is disabled.
type zerologEvent struct {
	event *zerolog.Event
}

func (e *zerologEvent) Msg(msg string) {
	e.event.Msg(msg)
}

func (e *zerologEvent) Err(err error) LogEvent {
	e.event = e.event.Err(err)

	return e
}

func (e *zerologEvent) Str(key, value string) LogEvent {
	e.event = e.event.Str(key, value)

	return e
}
