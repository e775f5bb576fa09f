// Package logging provides structured logging for shardpack using zerolog.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     *zerolog.Logger
	prettyMode bool
)

func init() {
	// Default to JSON logging at info level
	l := zerolog.New(os.Stderr).With().Timestamp().Logger()
	logger = &l
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Init configures the global logger.
// If debug is true, sets log level to Debug.
// If pretty is true, uses a human-friendly console writer and enables
// human-readable companion fields on summary events.
func Init(debug bool, pretty bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	prettyMode = pretty

	var output zerolog.LevelWriter
	if pretty {
		output = zerolog.LevelWriterAdapter{Writer: zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    false,
		}}
	} else {
		output = zerolog.LevelWriterAdapter{Writer: os.Stderr}
	}

	l := zerolog.New(output).With().Timestamp().Logger()
	logger = &l
}

// L returns the base logger.
func L() *zerolog.Logger {
	return logger
}

// WithPhase returns a logger with the phase field set.
func WithPhase(phase string) zerolog.Logger {
	return logger.With().Str("phase", phase).Logger()
}

// IsPrettyMode reports whether human-readable companion fields should be
// emitted alongside raw values.
func IsPrettyMode() bool {
	return prettyMode
}

// SetLogger allows overriding the global logger (useful for testing).
func SetLogger(l zerolog.Logger) {
	logger = &l
}
