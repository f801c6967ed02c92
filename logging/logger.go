package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls where and how verbosely the process logs.
type Options struct {
	Dir            string
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	// FileOnly suppresses the console handler; the terminal dashboard owns stdout.
	FileOnly bool
	Console  io.Writer
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a logger writing text to the console and JSON to a weekly rotating file.
// The returned closer releases the file; it is never nil.
// If the log directory cannot be used, Setup degrades to a console-only logger and reports why.
func Setup(opts Options) (*slog.Logger, io.Closer) {
	level := parseLogLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})

	retention := opts.RetentionWeeks
	if retention <= 0 {
		retention = 4
	}

	rotating, err := NewRotatingLogger(opts.Dir, retention, opts.MaxFileSize)
	if err != nil {
		logger := slog.New(consoleHandler)
		if opts.FileOnly {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}
		logger.Error("Failed to initialize rotating logger, logging to console only", "error", err)
		return logger, nopCloser{}
	}

	// Files always keep debug detail; the console follows LOG_LEVEL.
	fileHandler := slog.NewJSONHandler(rotating, &slog.HandlerOptions{Level: slog.LevelDebug})
	if opts.FileOnly {
		return slog.New(fileHandler), rotating
	}

	return slog.New(&multiHandler{handlers: []slog.Handler{consoleHandler, fileHandler}}), rotating
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans records out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}
