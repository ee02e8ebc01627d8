// Package log wires slog loggers through contexts.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// NewHandler returns a slog handler writing prefixed, timestamped lines to w.
func NewHandler(w io.Writer, name string, level slog.Level) slog.Handler {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          name,
		Level:           log.Level(level),
	})
}

// New returns a debug level logger writing to stderr.
func New(name string) *slog.Logger {
	return slog.New(NewHandler(os.Stderr, name, slog.LevelDebug))
}

// ParseLevel converts a level name to a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}

	return level
}

type ctxKey struct{}

// IntoContext adds a logger to a context. Use FromContext to
// pull the logger out.
func IntoContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns a logger from a context.Context;
// if the passed context is nil or carries no logger, we return the default slog
// logger.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}

	return slog.Default()
}

// SubLogger derives a new logger from an existing one by appending a suffix to its prefix.
func SubLogger(base *slog.Logger, suffix string) *slog.Logger {
	cl, ok := base.Handler().(*log.Logger)
	if !ok {
		return base.With("component", suffix)
	}

	prefix := cl.GetPrefix()
	if prefix != "" {
		prefix = prefix + "/" + suffix
	} else {
		prefix = suffix
	}

	return slog.New(cl.WithPrefix(prefix))
}
