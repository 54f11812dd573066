// Package logtrace configures structured logging for the SDK and CLI.
// It integrates with zerolog and exposes component-scoped loggers.
package logtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix timestamp format.
// Output goes to stderr so CLI command output on stdout stays parseable.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// SetLevel sets the global log level. The CLI maps its --verbose flag here.
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// Component returns a logger tagged with the given component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
