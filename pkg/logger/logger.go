package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// Setup installs the default slog logger writing to stderr, so stdout stays
// free for command output.
func Setup(level string, format string) {
	SetupWriter(os.Stderr, level, format)
}

func SetupWriter(w io.Writer, level string, format string) {
	slog.SetDefault(New(w, level, format))
}

func New(w io.Writer, level string, format string) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextKey{}, runID)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if runID, ok := ctx.Value(contextKey{}).(string); ok {
		logger = logger.With("run_id", runID)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
