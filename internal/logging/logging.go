// Package logging builds the append-only text loggers used by both pipelines.
//
// Lines are rendered by zerolog's ConsoleWriter without colour in the shape
//
//	2006-01-02 15:04:05 - INFO - message key=value
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "2006-01-02 15:04:05"

// Options configures New.
type Options struct {
	// Path is the log file; it is created with its parent directory and
	// opened for append.
	Path string
	// Level is a zerolog level name; empty or unknown means info.
	Level string
	// Stderr mirrors every line to stderr.
	Stderr bool
}

// New opens the log file and returns a logger writing to it. The returned
// closer closes the file.
func New(opt Options) (zerolog.Logger, io.Closer, error) {
	if strings.TrimSpace(opt.Path) == "" {
		return zerolog.Nop(), nil, fmt.Errorf("logging: path must not be empty")
	}
	if dir := filepath.Dir(opt.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("logging: create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(opt.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logging: open %s: %w", opt.Path, err)
	}

	var out io.Writer = NewConsoleWriter(f)
	if opt.Stderr {
		out = zerolog.MultiLevelWriter(out, NewConsoleWriter(os.Stderr))
	}
	return NewLogger(out, ParseLevel(opt.Level)), f, nil
}

// NewLogger returns a timestamped logger on w at level.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewConsoleWriter renders events onto w as plain text lines.
func NewConsoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: TimeFormat,
		FormatLevel: func(i any) string {
			s, _ := i.(string)
			if s == "" {
				s = "log"
			}
			return "- " + strings.ToUpper(s) + " -"
		},
	}
}

// ParseLevel maps a level name onto a zerolog level, defaulting to info.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}
