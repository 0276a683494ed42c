// Package logger builds the *slog.Logger every similicana command and
// service logs through. Console output goes through charmbracelet/log;
// files and services get JSON.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Format selects the handler New builds.
type Format int

const (
	// FormatText is slog's key=value text handler.
	FormatText Format = iota

	// FormatPretty is a colorized charmbracelet/log handler for terminals.
	FormatPretty

	// FormatJSON is slog's JSON handler.
	FormatJSON
)

type config struct {
	level  slog.Level
	format Format
	prefix string
	source bool
	writer io.Writer
}

// New builds a logger from opts. Without options it writes Info and above
// as text to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level, AddSource: c.source}

	var l *slog.Logger
	switch c.format {
	case FormatPretty:
		handler := charmlog.NewWithOptions(c.writer, charmlog.Options{
			Level:           charmLevel(c.level),
			Prefix:          c.prefix,
			ReportTimestamp: true,
			ReportCaller:    c.source,
		})
		return slog.New(handler)
	case FormatJSON:
		l = slog.New(slog.NewJSONHandler(c.writer, handlerOpts))
	default:
		l = slog.New(slog.NewTextHandler(c.writer, handlerOpts))
	}

	if c.prefix != "" {
		l = l.With("component", c.prefix)
	}
	return l
}

// Console returns the pretty stderr logger commands use for their own
// output, at Debug level when debug is set.
func Console(debug bool) *slog.Logger {
	return New(WithDebug(debug), WithFormat(FormatPretty), WithWriter(os.Stderr))
}

// OpenFile returns a JSON logger appending to path and the function that
// closes the file.
func OpenFile(path string, opts ...Option) (*slog.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	opts = append(opts, WithFormat(FormatJSON), WithWriter(f))
	return New(opts...), f.Close, nil
}

// Nop returns a logger that discards every record.
func Nop() *slog.Logger {
	return slog.New(nopHandler{})
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	}
	return charmlog.InfoLevel
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
