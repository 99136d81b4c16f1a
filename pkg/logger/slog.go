package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// settings holds the resolved options for New.
type settings struct {
	level   slog.Level
	pretty  bool
	json    bool
	writers []io.Writer
	source  bool
}

// New creates a *slog.Logger for CLI-side logging.
// The default handler is slog's text handler; WithPretty swaps in the
// charmbracelet/log handler for colorized output and WithJSON swaps in
// the JSON handler for structured service logs.
func New(opts ...Option) *slog.Logger {
	s := &settings{
		level:   slog.LevelInfo,
		writers: []io.Writer{os.Stdout},
	}
	for _, opt := range opts {
		opt(s)
	}

	var w io.Writer
	if len(s.writers) == 1 {
		w = s.writers[0]
	} else {
		w = io.MultiWriter(s.writers...)
	}

	var handler slog.Handler
	switch {
	case s.pretty:
		cl := charmlog.NewWithOptions(w, charmlog.Options{
			ReportCaller: s.source,
		})
		if s.level <= slog.LevelDebug {
			cl.SetLevel(charmlog.DebugLevel)
		}
		handler = cl
	case s.json:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     s.level,
			AddSource: s.source,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     s.level,
			AddSource: s.source,
		})
	}

	return slog.New(handler)
}

// Nop returns a *slog.Logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (n nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return n }
func (n nopHandler) WithGroup(string) slog.Handler           { return n }
