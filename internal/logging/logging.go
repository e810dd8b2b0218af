// Package logging provides the process-level structured logger used by
// cmd/biotica and every ambient (non-kernel) component. It is never
// imported by a deterministic kernel package, so kernel determinism never
// depends on log sampling or ordering (§4.0).
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New constructs a zerolog.Logger writing to w (os.Stdout by default) at
// the given level. Pass a nil writer for the default console writer.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewConsole constructs a human-readable console logger for interactive CLI
// use (§6.3), distinct from the JSON logger used under the HTTP transport.
func NewConsole(level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
