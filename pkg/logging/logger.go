// Package logging provides structured logging for ansync using zerolog.
// Interactive runs get console output; anything else, such as a cron job
// or a container, gets JSON lines.
//
// Example usage:
//
//	ctx := logging.WithChain(context.Background(), "juno-1")
//	logging.Ctx(ctx).Info().Str("section", "pools").Int("batch", 3).Msg("Submitting batch")
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the global logger instance.
var defaultLogger = NewLoggerFromConfig(ConfigFromEnv())

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a new debug level log event.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts a new info level log event.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a new warning level log event.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts a new error level log event.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal starts a new fatal level log event (will exit after logging).
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}
