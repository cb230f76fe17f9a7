// Package logging wraps logr.Logger with the small Debug/Info/Trace/Error
// vocabulary this module's codec and CLI use.
package logging

import (
	"github.com/go-logr/logr"
)

// Verbosity levels, passed to logr's V(). Lower is more severe/default;
// higher numbers are progressively more verbose.
const (
	LevelInfo  = 0
	LevelDebug = 1
	LevelTrace = 2
)

// Logger wraps a logr.Logger, minimizing the logging footprint visible
// to the rest of the codebase.
type Logger struct {
	log logr.Logger
}

// NewLogger wraps log. A zero-value logr.Logger is treated as Discard.
func NewLogger(log logr.Logger) *Logger {
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Logger{log: log}
}

// DefaultLogger returns a Logger that discards everything, the safe
// default for library use (callers that want output pass their own
// Logger via codec.WithLogger).
func DefaultLogger() *Logger {
	return &Logger{log: logr.Discard()}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.V(LevelDebug).Info(msg, keysAndValues...)
}

// Info logs at the default verbosity.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, keysAndValues...)
}

// Trace logs at LevelTrace, the per-record/per-byte-field granularity
// the codec uses for its most detailed diagnostics.
func (l *Logger) Trace(msg string, keysAndValues ...interface{}) {
	l.log.V(LevelTrace).Info(msg, keysAndValues...)
}

// Error logs err alongside msg, unconditionally of verbosity.
func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(err, msg, keysAndValues...)
}

// FromLevelName builds a Logger writing to stderr at the verbosity
// named by level ("trace" or "debug"; anything else yields LevelInfo).
// This backs the CLI's -v/-vv flags.
func FromLevelName(level string) *Logger {
	v := LevelInfo
	switch level {
	case "trace":
		v = LevelTrace
	case "debug":
		v = LevelDebug
	}
	return NewLogger(NewSimpleLogger(nil, v, true))
}
