// Package observability carries the ambient logging concern: a narrow
// interface wrapping the stdlib's structured logger (log/slog), the
// idiomatic modern-Go default for diagnostic output.
package observability

import (
	"io"
	"log/slog"
)

// Logger is the narrow structured-logging surface this engine depends on.
// It is satisfied by *slog.Logger directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Discard returns a Logger that drops everything, the default when no
// logger is supplied via configuration.
func Discard() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
