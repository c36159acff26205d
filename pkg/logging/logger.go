// Package logging wraps zerolog the way the teacher's pkg/logger does,
// adding a throttle helper for the repeated informational logs spec.md §7
// asks for ("throttled informational logs on transitions and selections;
// warnings and fatals are emitted once, unthrottled").
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level structured logger, console-formatted the same
// way the teacher configures it.
var Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Caller().Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Info logs an informational, throttled-by-caller message. Transitions and
// selections should route through a Throttler instead when they can repeat
// every tick.
func Info(msg string) {
	Log.Info().Msg(msg)
}

// Warn logs a warning. Per spec.md §7, warnings are never throttled.
func Warn(msg string, fields map[string]interface{}) {
	ev := Log.Warn()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

// Fatal logs a fatal, operator-actionable condition. Unlike zerolog's own
// Fatal level, this does NOT call os.Exit: the caller decides how to shut
// down (cmd/hexapod calls os.Exit itself after a fatal config load failure),
// so the library never terminates the process out from under its caller.
func Fatal(msg string, fields map[string]interface{}) {
	ev := Log.Error().Bool("fatal", true)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}
