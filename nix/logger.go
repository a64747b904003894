package nix

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with NIX-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// LogCreate logs the creation of an entity.
func (l *Logger) LogCreate(kind, id, name string) {
	l.Debug("entity created",
		"kind", kind,
		"id", id,
		"name", name,
	)
}

// LogDelete logs the removal of an entity and its subtree.
func (l *Logger) LogDelete(kind, id string, removed bool) {
	l.Debug("entity deleted",
		"kind", kind,
		"id", id,
		"removed", removed,
	)
}

// LogResize logs a data extent change.
func (l *Logger) LogResize(id string, from, to NDSize, err error) {
	if err != nil {
		l.Warn("resize failed",
			"id", id,
			"from", from.String(),
			"to", to.String(),
			"error", err,
		)
		return
	}
	l.Debug("resize completed",
		"id", id,
		"from", from.String(),
		"to", to.String(),
	)
}
