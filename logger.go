package neogo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with neogo-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDesignation adds a designation field to the logger.
func (l *Logger) WithDesignation(designation string) *Logger {
	return &Logger{
		Logger: l.Logger.With("designation", designation),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogLoad logs a dataset load.
func (l *Logger) LogLoad(ctx context.Context, source string, neos, approaches int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"source", source,
			"neos", neos,
			"approaches", approaches,
		)
	}
}

// LogLink logs the linking pass that attaches approaches to their NEOs.
func (l *Logger) LogLink(ctx context.Context, linked, dropped int) {
	if dropped > 0 {
		l.WarnContext(ctx, "link completed with unknown designations",
			"linked", linked,
			"dropped", dropped,
		)
	} else {
		l.DebugContext(ctx, "link completed",
			"linked", linked,
		)
	}
}

// LogQuery logs a query.
func (l *Logger) LogQuery(ctx context.Context, active, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"active_predicates", active,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"active_predicates", active,
			"results", results,
		)
	}
}

// LogFetch logs a dataset download.
func (l *Logger) LogFetch(ctx context.Context, name string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fetch failed",
			"dataset", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "fetch completed",
			"dataset", name,
			"rows", rows,
		)
	}
}
