package logger

import (
	"context"
	"errors"
	"log/slog"
)

// Multi returns a *slog.Logger that broadcasts every record to the
// handlers of all given loggers, so a command can log pretty output to
// the terminal and JSON to a file at the same time.
func Multi(loggers ...*slog.Logger) *slog.Logger {
	t := teeHandler{targets: make([]slog.Handler, len(loggers))}
	for i, l := range loggers {
		t.targets[i] = l.Handler()
	}
	return slog.New(t)
}

type teeHandler struct {
	targets []slog.Handler
}

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.targets {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled target. A failing target
// does not stop delivery to the rest.
func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.targets {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := teeHandler{targets: make([]slog.Handler, len(t.targets))}
	for i, h := range t.targets {
		next.targets[i] = h.WithAttrs(attrs)
	}
	return next
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	next := teeHandler{targets: make([]slog.Handler, len(t.targets))}
	for i, h := range t.targets {
		next.targets[i] = h.WithGroup(name)
	}
	return next
}
