package streambase

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

func NewZerologLogger(log zerolog.Logger) ZerologLogger {
	return ZerologLogger{log: log}
}

func (l ZerologLogger) Debug(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l ZerologLogger) Info(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l ZerologLogger) Error(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
