// logger.go - Structured logging setup for the private token CLI.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds a console logger at the configured level. Unknown levels
// fall back to info rather than failing the command.
func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(parsed).With().Timestamp().Logger()
}
