// Package logging builds the slog logger used by the CLI and server.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the log file.
const (
	DefaultMaxSize    = 100 // megabytes
	DefaultMaxBackups = 3
	DefaultMaxAge     = 28 // days
)

// Config selects the log destination and level.
type Config struct {
	File       string // empty logs to stderr
	Level      string // debug, info, warn, error
	MaxSize    int
	MaxBackups int
	MaxAge     int
}

// ParseLevel maps a level name to a slog.Level. Unknown names are an error.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New returns a text logger for cfg and a closer for its output. The closer
// is a no-op when logging to stderr.
func New(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var out io.WriteCloser = nopCloser{os.Stderr}
	if cfg.File != "" {
		logfile, err := filepath.Abs(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve log file: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(logfile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		out = &lumberjack.Logger{
			Filename:   logfile,
			MaxSize:    orDefault(cfg.MaxSize, DefaultMaxSize),
			MaxBackups: orDefault(cfg.MaxBackups, DefaultMaxBackups),
			MaxAge:     orDefault(cfg.MaxAge, DefaultMaxAge),
		}
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
	return logger, out, nil
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
