// Package logs configures the process logger. Terminal output always goes
// to stderr; an optional JSON file handler fans out alongside it for runs
// that need machine-readable logs.
package logs

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

var level = new(slog.LevelVar)

// SetDebug switches the process log level between debug and info.
func SetDebug(on bool) {
	if on {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Options controls Setup.
type Options struct {
	Debug   bool
	Quiet   bool   // suppress terminal output below warn
	LogFile string // append JSON records here when set
}

// Setup builds the logger and installs it as slog's default. The returned
// closer owns the log file, when one was opened.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	SetDebug(opts.Debug)

	terminalLevel := slog.Leveler(level)
	if opts.Quiet {
		terminalLevel = slog.LevelWarn
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: terminalLevel}),
	}

	var closer io.Closer
	if opts.LogFile != "" {
		f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		handlers = append(handlers,
			slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	logger := slog.New(slogmulti.Fanout(handlers...))
	slog.SetDefault(logger)
	return logger, closer, nil
}
