package queue

// Logger defines a simple logging interface to avoid circular dependencies
type Logger interface {
	Debug() LogEvent
	Info() LogEvent
	Warn() LogEvent
	Error() LogEvent
}

// LogEvent defines a simple log event interface
type LogEvent interface {
	Msg(string)
	Err(error) LogEvent
	Str(string, string) LogEvent
}

type nopLogger struct{}

type nopEvent struct{}

func (nopLogger) Debug() LogEvent { return nopEvent{} }
func (nopLogger) Info() LogEvent  { return nopEvent{} }
func (nopLogger) Warn() LogEvent  { return nopEvent{} }
func (nopLogger) Error() LogEvent { return nopEvent{} }

func (nopEvent) Msg(string)                    {}
func (e nopEvent) Err(error) LogEvent          { return e }
func (e nopEvent) Str(string, string) LogEvent { return e }

// typedLogger tags every event with the message type of the client.
type typedLogger struct {
	logger   Logger
	typeName string
}

func (l typedLogger) Debug() LogEvent { return l.logger.Debug().Str("message_type", l.typeName) }
func (l typedLogger) Info() LogEvent  { return l.logger.Info().Str("message_type", l.typeName) }
func (l typedLogger) Warn() LogEvent  { return l.logger.Warn().Str("message_type", l.typeName) }
func (l typedLogger) Error() LogEvent { return l.logger.Error().Str("message_type", l.typeName) }
