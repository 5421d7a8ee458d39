package types

import "log/slog"

// Logger defines the structured logging interface used across packages.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	With(args ...any) Logger
}

// SlogAdapter adapts *slog.Logger to the Logger interface. slog's With
// returns *slog.Logger, which does not satisfy Logger on its own.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter wraps l so it can be passed where a Logger is expected.
func NewSlogAdapter(l *slog.Logger) Logger {
	return SlogAdapter{Logger: l}
}

// With returns a child Logger carrying the given attributes.
func (a SlogAdapter) With(args ...any) Logger {
	return SlogAdapter{Logger: a.Logger.With(args...)}
}
