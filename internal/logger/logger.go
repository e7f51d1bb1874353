// Package logger configures the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
)

// Options selects the handler and level.
type Options struct {
	// JSON selects the JSON handler; otherwise the text handler is used.
	JSON    bool
	Verbose bool
	Quiet   bool
}

// New builds a logger writing to w. Verbose lowers the level to Debug, Quiet
// raises it to Warn; Verbose wins when both are set.
func New(w io.Writer, opts Options) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case opts.Verbose:
		level = slog.LevelDebug
	case opts.Quiet:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h)
}

// InitLogger builds a logger and installs it as the slog default.
func InitLogger(w io.Writer, opts Options) *slog.Logger {
	l := New(w, opts)
	slog.SetDefault(l)
	return l
}
