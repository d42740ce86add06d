// Package logger builds the structured logger used for diagnostics. It is
// separate from console output: logs go to stderr so rendered documents on
// stdout stay clean.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	// LevelTrace is below debug; it also turns on source locations.
	LevelTrace = slog.Level(-8)

	TextFormat = "text"
	JSONFormat = "json"

	timeFormat = "2006/01/02 15:04:05"
)

// Options configures New.
type Options struct {
	// Verbosity is the count of -v flags: 0 warn, 1 debug, 2+ trace.
	Verbosity int
	// Format is TextFormat (default) or JSONFormat.
	Format string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// New returns a logger for opts.
func New(opts Options) (*slog.Logger, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := new(slog.LevelVar)
	switch {
	case opts.Verbosity <= 0:
		level.Set(slog.LevelWarn)
	case opts.Verbosity == 1:
		level.Set(slog.LevelDebug)
	default:
		level.Set(LevelTrace)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   opts.Verbosity >= 2,
		ReplaceAttr: replaceAttr(opts.Format),
	}

	switch opts.Format {
	case "", TextFormat:
		return slog.New(slog.NewTextHandler(out, handlerOpts)), nil
	case JSONFormat:
		return slog.New(slog.NewJSONHandler(out, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unrecognized log format %q (want %s or %s)", opts.Format, TextFormat, JSONFormat)
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func replaceAttr(format string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.TimeKey:
			if format != JSONFormat {
				a.Value = slog.StringValue(a.Value.Time().Format(timeFormat))
			}
		case slog.LevelKey:
			if level, ok := a.Value.Any().(slog.Level); ok && level <= LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
		}
		return a
	}
}
