// Package logger provides the leveled, structured logger used across the
// application. Call sites pass a message followed by key-value pairs.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the logging contract. Implementations must be safe for
// concurrent use.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// CharmLogger implements Logger on top of charmbracelet/log.
type CharmLogger struct {
	l *log.Logger
}

// New creates a logger writing to w at the given level
// ("debug", "info", "warn", "error").
func New(w io.Writer, level string) *CharmLogger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
	return &CharmLogger{l: l}
}

// NewFile creates a logger appending to the file at path. The returned
// closer must be closed when the application exits.
func NewFile(path, level string) (*CharmLogger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return New(f, level), f, nil
}

// Levels lists the accepted level names, most verbose first.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel maps a level name to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func (c *CharmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *CharmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *CharmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *CharmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

// With returns a child logger that prefixes every entry with keyvals.
func (c *CharmLogger) With(keyvals ...any) Logger {
	return &CharmLogger{l: c.l.With(keyvals...)}
}

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any)  {}
func (nop) Warn(string, ...any)  {}
func (nop) Error(string, ...any) {}
func (n nop) With(...any) Logger { return n }

// Nop returns a logger that discards everything.
func Nop() Logger { return nop{} }
