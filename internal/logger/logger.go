// Package logger configures the process-wide structured logger.
//
// Every line is one JSON object matching the log record shape from the
// data model: timestamp, level, logger, message, appName, appVersion, os,
// sessionId, and (on events passed through WithError) errorMessage; no
// stackTrace field is written. This
// mirrors the teacher's internal/logger package almost field-for-field —
// zerolog.With() fields attached once at construction time so call sites
// never repeat appName/appVersion/sessionId themselves.
package logger

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Log is the process-wide logger. It is safe to read/use concurrently once
// Initialize has returned; Initialize itself must run once at startup
// before any goroutine logs.
var Log zerolog.Logger

// Options configures Initialize.
type Options struct {
	AppName    string
	AppVersion string
	Level      string // parsed with zerolog.ParseLevel; defaults to "info"
	Pretty     bool   // human-readable console output for `krema dev`
	LogDir     string // directory for the rotating app.jsonl file; empty disables file output
}

// Initialize sets up the global logger. Call once, at process startup,
// before any handler, plugin, or capability module logs.
func Initialize(opts Options) (func() error, error) {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "timestamp"

	var writers []io.Writer
	if opts.Pretty {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		writers = append(writers, os.Stdout)
	}

	var closer func() error = func() error { return nil }
	if opts.LogDir != "" {
		rf, err := newRotatingFile(opts.LogDir, "app.jsonl")
		if err != nil {
			return closer, err
		}
		writers = append(writers, rf)
		closer = rf.Close
	}

	out := io.MultiWriter(writers...)
	sessionID := uuid.NewString()

	Log = zerolog.New(out).With().
		Timestamp().
		Str("logger", "krema").
		Str("appName", opts.AppName).
		Str("appVersion", opts.AppVersion).
		Str("os", runtime.GOOS).
		Str("sessionId", sessionID).
		Logger()

	Log.Info().Str("level", level.String()).Msg("logger initialized")
	return closer, nil
}

// Named returns a child logger tagged with a component name, the same
// pattern the teacher uses for per-subsystem loggers (Security(),
// WebSocket(), Database(), ...).
func Named(component string) zerolog.Logger {
	return Log.With().Str("component", component).Logger()
}

// WithError attaches errorMessage to a log event the way the data model's
// log record documents. It records no stack trace.
func WithError(ev *zerolog.Event, err error) *zerolog.Event {
	if err == nil {
		return ev
	}
	return ev.Str("errorMessage", err.Error())
}
