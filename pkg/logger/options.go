package logger

import (
	"io"
	"log/slog"
)

// Option adjusts the logger built by New.
type Option func(*settings)

// WithDebug lowers the level to Debug. With false it restores Info.
func WithDebug(debug bool) Option {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return func(s *settings) {
		s.level = level
	}
}

// WithPretty selects the charmbracelet/log handler, colorized output
// meant for a human at a terminal.
func WithPretty(pretty bool) Option {
	return func(s *settings) {
		s.pretty = pretty
	}
}

// WithJSON selects slog's JSON handler for machine-readable service logs.
func WithJSON(json bool) Option {
	return func(s *settings) {
		s.json = json
	}
}

// WithWriter sends output to w instead of os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(s *settings) {
		s.writers = []io.Writer{w}
	}
}

// WithWriters sends output to several writers at once.
func WithWriters(w ...io.Writer) Option {
	return func(s *settings) {
		s.writers = w
	}
}

// WithSource annotates records with the calling file and line.
func WithSource(source bool) Option {
	return func(s *settings) {
		s.source = source
	}
}
