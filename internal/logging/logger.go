// Package logging builds the zerolog logger shared by the client packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build collects where and how verbosely to log.
type Build struct {
	writer io.Writer
	path   string
	level  zerolog.Level
}

// Logger is a zerolog logger plus the file it may own.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New starts a build that logs to stderr at info level.
func New() *Build {
	return &Build{writer: os.Stderr, level: zerolog.InfoLevel}
}

// FromPath appends to the file at path, creating it and its directory.
func (b *Build) FromPath(path string) *Build {
	b.path = path
	return b
}

// FromWriter logs to w. FromPath wins when both are set.
func (b *Build) FromWriter(w io.Writer) *Build {
	if w != nil {
		b.writer = w
	}
	return b
}

// Level sets the minimum level by name; an empty name keeps the current one.
func (b *Build) Level(name string) *Build {
	if name == "" {
		return b
	}
	if lvl, err := zerolog.ParseLevel(name); err == nil {
		b.level = lvl
	}
	return b
}

// Make opens the destination and returns the logger.
func (b *Build) Make() (*Logger, error) {
	l := &Logger{}
	w := b.writer
	if b.path != "" {
		if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		w = zerolog.SyncWriter(f)
	}
	l.Logger = zerolog.New(w).Level(b.level).With().Timestamp().Logger()
	return l, nil
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
