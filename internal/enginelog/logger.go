// Package enginelog provides the Engine's optional diagnostic logger:
// permit acquisition, parser resolution, and parse failures. It is
// adapted from Skryldev-audio-lab's pkg/logger zap wrapper, swapping the
// zap.Field variadic for a SugaredLogger-style key/value variadic since
// the engine logs ad hoc pairs at its call sites rather than pre-built
// fields. Logging is diagnostic only: nothing here ever changes a parsed
// result, and a nil or disabled Logger is always safe to call.
package enginelog

import "go.uber.org/zap"

// Logger wraps a zap.SugaredLogger. The zero value is not usable;
// construct one with New or Disabled.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a development-mode logger (human-readable, debug level).
// Engines default to this; callers wanting production JSON output or a
// logger shared with the rest of their process should build their own
// *zap.Logger and wrap it with FromZap.
func New() *Logger {
	z, err := zap.NewDevelopment()
	if err != nil {
		return Disabled()
	}
	return &Logger{z: z.Sugar()}
}

// Disabled returns a Logger that discards everything, used when a
// caller explicitly turns logging off via Engine.SetLogger(nil).
func Disabled() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap.Logger, letting a host application route
// engine diagnostics through its own logging pipeline.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{z: z.Sugar()}
}

func (l *Logger) Debug(msg string, kvs ...interface{}) {
	if l == nil {
		return
	}
	l.z.Debugw(msg, kvs...)
}

func (l *Logger) Warn(msg string, kvs ...interface{}) {
	if l == nil {
		return
	}
	l.z.Warnw(msg, kvs...)
}

func (l *Logger) Error(msg string, kvs ...interface{}) {
	if l == nil {
		return
	}
	l.z.Errorw(msg, kvs...)
}

// Sync flushes any buffered log entries. Callers embedding an Engine in
// a short-lived CLI should call this before process exit.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}
