// Package logging builds the zerolog logger shared by the service.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at level. Format "console" produces
// human readable lines, anything else JSON. An unknown level falls back to
// info.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Setup builds the process logger on stderr and installs it as the zerolog
// default context logger.
func Setup(level, format string) zerolog.Logger {
	logger := New(os.Stderr, level, format)
	zerolog.DefaultContextLogger = &logger
	return logger
}
