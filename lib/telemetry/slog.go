package telemetry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
)

type LoggerOptions struct {
	// LogFile is opened in append mode, empty disables the file sink.
	LogFile string
	// Console additionally writes human readable logs to Stderr.
	Console bool
	Verbose bool
	Stderr  io.Writer
}

// NewLogger builds the process logger, the returned close function releases
// the log file.
func NewLogger(opts LoggerOptions) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	var handlers []slog.Handler
	closer := func() error { return nil }

	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, NewLineHandler(f, level))
		closer = f.Close
	}

	if opts.Console {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		console := charmlog.NewWithOptions(stderr, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Level:           charmlog.Level(level),
		})
		handlers = append(handlers, console)
	}

	switch len(handlers) {
	case 0:
		return slog.New(discardHandler{}), closer, nil
	case 1:
		return slog.New(handlers[0]), closer, nil
	}
	return slog.New(fanout(handlers)), closer, nil
}

// fanout sends every record to each handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errlist []error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		err := h.Handle(ctx, r.Clone())
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler { return d }
func (d discardHandler) WithGroup(string) slog.Handler { return d }
