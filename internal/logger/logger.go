// Package logger provides configured zerolog loggers.
package logger

import (
	"io"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// ConsoleTimeFormat is the timestamp layout of the console logger.
const ConsoleTimeFormat = "2006-01-02 15:04:05"

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// configureErrorStacks makes .Stack() render pkg/errors stacks, attaching one
// to plain errors when they lack it.
func configureErrorStacks() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

// New returns a JSON logger on stdout tagged with serviceName.
// Call sites should use .Stack() on error events to include stacks.
func New(serviceName string) zerolog.Logger {
	configureErrorStacks()
	return zerolog.New(os.Stdout).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}

// NewConsole returns a human-readable logger writing to w and sets the
// global level to debug or info.
func NewConsole(w io.Writer, debug bool) zerolog.Logger {
	configureErrorStacks()
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: ConsoleTimeFormat, NoColor: true}).
		With().
		Timestamp().
		Logger()
}
