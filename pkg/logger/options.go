package logger

import (
	"io"
	"log/slog"
)

// Option configures a logger built by New.
type Option func(*config)

// WithDebug lowers the level to Debug.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		}
	}
}

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat picks the handler.
func WithFormat(f Format) Option {
	return func(c *config) { c.format = f }
}

// WithWriter overrides os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.writer = w
		}
	}
}

// WithPrefix names the component. The pretty handler prints it ahead of the
// message; the others add a component attribute.
func WithPrefix(prefix string) Option {
	return func(c *config) { c.prefix = prefix }
}

// WithSource reports the caller's file and line.
func WithSource(source bool) Option {
	return func(c *config) { c.source = source }
}
