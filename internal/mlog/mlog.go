// Package mlog provides the server's structured logging, wrapping
// zerolog the same way the wider ecosystem's daemons do: a
// package-level logger, a handful of level helpers, and a way to attach
// per-connection fields.
package mlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the package-level zerolog.Logger every caller logs through.
var Logger zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum level Logger emits.
func SetLevel(level zerolog.Level) { zerolog.SetGlobalLevel(level) }

// EnableConsole switches Logger to a human-readable console writer,
// for interactive use of cmd/mosaicd rather than a supervised daemon.
func EnableConsole() {
	Logger = Logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func Debug() *zerolog.Event { return Logger.Debug() }
func Info() *zerolog.Event  { return Logger.Info() }
func Warn() *zerolog.Event  { return Logger.Warn() }
func Error() *zerolog.Event { return Logger.Error() }
func Fatal() *zerolog.Event { return Logger.Fatal() }
